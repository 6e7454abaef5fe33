package service_test

import (
	"context"
	"sync"
	"testing"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicatePendingRequestIsRejected(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	ctx := context.Background()
	_, err := e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	require.NoError(t, err)

	exists, err := e.requests.CheckExists(ctx, "ben", "ana", opp.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	assert.ErrorIs(t, err, service.ErrDuplicateRequest)
}

func TestDeclinedRequestDoesNotBlockANewOne(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	ctx := context.Background()
	req, err := e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	require.NoError(t, err)
	_, err = e.requests.Decline(ctx, "ana", req.ID)
	require.NoError(t, err)

	exists, err := e.requests.CheckExists(ctx, "ben", "ana", opp.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	again, err := e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, again.Status)
}

func TestAcceptCreatesExactlyOneEdge(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp1 := e.post(t, "ana", "project", "Fix my bike")
	opp2 := e.post(t, "ana", "project", "Paint my fence")

	e.acceptRequest(t, "ben", "ana", opp1.ID)
	// Second accepted request in the reverse direction lands on the same
	// normalized pair and must not duplicate the edge.
	e.acceptRequest(t, "ana", "ben", opp2.ID)

	edges, err := e.store.ConnectionsFor(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	a, b := models.NormalizePair("ana", "ben")
	assert.Equal(t, a, edges[0].UserA)
	assert.Equal(t, b, edges[0].UserB)
}

func TestResolveIsSingleShot(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	ctx := context.Background()
	req, err := e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	require.NoError(t, err)

	accepted, err := e.requests.Accept(ctx, "ana", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	_, err = e.requests.Decline(ctx, "ana", req.ID)
	assert.ErrorIs(t, err, service.ErrInvalidState)
	_, err = e.requests.Accept(ctx, "ana", req.ID)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestOnlyTheRecipientMayResolve(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	e.addUser(t, "cleo", "Cleo", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	ctx := context.Background()
	req, err := e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	require.NoError(t, err)

	_, err = e.requests.Accept(ctx, "ben", req.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = e.requests.Decline(ctx, "cleo", req.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCreateRejectsBadInput(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	ctx := context.Background()
	_, err := e.requests.Create(ctx, "ben", "ben", opp.ID, nil)
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = e.requests.Create(ctx, "ben", "ghost", opp.ID, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = e.requests.Create(ctx, "ben", "ana", "no-such-opportunity", nil)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = e.requests.Accept(ctx, "ana", "no-such-request")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestConcurrentCreatesAdmitOneRequest(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.requests.Create(context.Background(), "ben", "ana", opp.ID, nil)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, service.ErrDuplicateRequest)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestConcurrentResolvesHaveOneWinner(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	req, err := e.requests.Create(context.Background(), "ben", "ana", opp.ID, nil)
	require.NoError(t, err)

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, results[i] = e.requests.Accept(context.Background(), "ana", req.ID)
			} else {
				_, results[i] = e.requests.Decline(context.Background(), "ana", req.ID)
			}
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range results {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, service.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, won)

	final, err := e.store.RequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.NotEqual(t, models.StatusPending, final.Status)
	assert.Nil(t, final.PendingKey)
}

func TestRequestListingsAndPosterScope(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	e.addUser(t, "cleo", "Cleo", "project")
	opp := e.post(t, "ana", "project", "Fix my bike")

	ctx := context.Background()
	first, err := e.requests.Create(ctx, "ben", "ana", opp.ID, nil)
	require.NoError(t, err)
	second, err := e.requests.Create(ctx, "cleo", "ana", opp.ID, nil)
	require.NoError(t, err)

	incoming, err := e.requests.Incoming(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, second.ID, incoming[0].ID, "newest first")
	assert.Equal(t, first.ID, incoming[1].ID)

	outgoing, err := e.requests.Outgoing(ctx, "ben")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, first.ID, outgoing[0].ID)

	all, err := e.requests.ByOpportunity(ctx, "ana", opp.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = e.requests.ByOpportunity(ctx, "ben", opp.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}
