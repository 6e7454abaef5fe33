package service_test

import (
	"context"
	"testing"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayeredNetworkSplitsDegrees(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana")
	e.addUser(t, "ben", "Ben")
	e.addUser(t, "cleo", "Cleo")
	e.addUser(t, "dora", "Dora")
	e.addUser(t, "eli", "Eli")

	// ana - ben, ana - cleo; ben - dora, cleo - dora; dora - eli
	e.connect(t, "ana", "ben")
	e.connect(t, "ana", "cleo")
	e.connect(t, "ben", "dora")
	e.connect(t, "cleo", "dora")
	e.connect(t, "dora", "eli")

	network, err := e.graph.LayeredNetwork(context.Background(), "ana")
	require.NoError(t, err)

	firstIDs := memberIDs(network.FirstDegree)
	assert.Equal(t, []string{"ben", "cleo"}, firstIDs)

	secondIDs := memberIDs(network.SecondDegree)
	assert.Equal(t, []string{"dora"}, secondIDs, "eli is three hops away and must not appear")

	// Both bridges are named, ordered by first encounter.
	require.Len(t, network.SecondDegree, 1)
	assert.Equal(t, []string{"Ben", "Cleo"}, network.SecondDegree[0].SharedConnections)

	assert.NotContains(t, firstIDs, "ana")
	assert.NotContains(t, secondIDs, "ana")
	for _, id := range secondIDs {
		assert.NotContains(t, firstIDs, id, "no user may appear in both layers")
	}
}

func TestLayeredNetworkSharedConnectionsAreFirstDegreeNames(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana")
	e.addUser(t, "ben", "Ben")
	e.addUser(t, "dora", "Dora")
	e.connect(t, "ana", "ben")
	e.connect(t, "ben", "dora")

	network, err := e.graph.LayeredNetwork(context.Background(), "ana")
	require.NoError(t, err)

	firstNames := map[string]struct{}{}
	for _, m := range network.FirstDegree {
		firstNames[m.User.Name] = struct{}{}
	}
	for _, m := range network.SecondDegree {
		require.NotEmpty(t, m.SharedConnections)
		for _, name := range m.SharedConnections {
			assert.Contains(t, firstNames, name)
		}
	}
}

func TestLayeredNetworkCountsPendingIncoming(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	opp := e.post(t, "ben", "project", "Garden build")

	_, err := e.requests.Create(context.Background(), "ben", "ana", opp.ID, nil)
	require.NoError(t, err)

	network, err := e.graph.LayeredNetwork(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, network.PendingIncoming)
}

func TestSearchTagsDegreesAndOrdersDeterministically(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana")
	e.addUser(t, "ben", "Ben Painter")
	e.addUser(t, "cleo", "Cleo Painter")
	e.addUser(t, "zoe", "Zoe Painter")
	e.connect(t, "ana", "cleo")
	e.connect(t, "cleo", "zoe")

	results, err := e.graph.Search(context.Background(), "ana", "painter")
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Equal text relevance: 1st degree first, then 2nd, then the rest.
	assert.Equal(t, "cleo", results[0].User.ID)
	assert.Equal(t, "1st", results[0].Degree)
	assert.Equal(t, "zoe", results[1].User.ID)
	assert.Equal(t, "2nd", results[1].Degree)
	assert.Equal(t, []string{"Cleo Painter"}, results[1].SharedConnections)
	assert.Equal(t, "ben", results[2].User.ID)
	assert.Equal(t, "other", results[2].Degree)

	// Same inputs, same order.
	again, err := e.graph.Search(context.Background(), "ana", "painter")
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestLayeredNetworkDeduplicatesUnnamedBridges(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana")
	e.addUser(t, "beta", "Beta")
	e.addUser(t, "dora", "Dora")
	// A profile with an empty name can exist; it must not break the
	// second-degree layer.
	err := e.users.Create(context.Background(), &models.User{
		ID:    "blank",
		Email: "blank@example.com",
	})
	require.NoError(t, err)

	e.connect(t, "ana", "blank")
	e.connect(t, "ana", "beta")
	e.connect(t, "blank", "dora")
	e.connect(t, "beta", "dora")

	network, err := e.graph.LayeredNetwork(context.Background(), "ana")
	require.NoError(t, err)

	assert.Equal(t, []string{"dora"}, memberIDs(network.SecondDegree),
		"a member reached through several bridges appears once")
	require.Len(t, network.SecondDegree, 1)
	assert.Equal(t, []string{"Beta"}, network.SecondDegree[0].SharedConnections)
}

func TestSearchNeverReturnsTheActor(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana Painter")
	e.addUser(t, "ben", "Ben Painter")

	results, err := e.graph.Search(context.Background(), "ana", "painter")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ben", results[0].User.ID)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana")

	_, err := e.graph.Search(context.Background(), "ana", "   ")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func memberIDs(members []service.NetworkMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.User.ID)
	}
	return out
}
