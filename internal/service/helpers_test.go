package service_test

import (
	"context"
	"sort"
	"testing"

	"serendip/backend/internal/embedding"
	"serendip/backend/internal/models"
	"serendip/backend/internal/repository"
	"serendip/backend/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedProvider is a similarity source with fixed per-user scores, playing
// the role of the external embedding backend.
type scriptedProvider struct {
	scores map[string]float64
}

func (p *scriptedProvider) UpsertProfile(context.Context, string, string) error { return nil }

func (p *scriptedProvider) SimilarProfiles(_ context.Context, _ string, n int) ([]embedding.ProfileScore, error) {
	out := make([]embedding.ProfileScore, 0, len(p.scores))
	for id, score := range p.scores {
		out = append(out, embedding.ProfileScore{UserID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

type env struct {
	store         *repository.Memory
	provider      *scriptedProvider
	graph         *service.GraphService
	matching      *service.MatchingService
	users         *service.UserService
	opportunities *service.OpportunityService
	requests      *service.RequestService
	feedback      *service.FeedbackService
}

func newEnv(t *testing.T, policy service.MatchPolicy) *env {
	t.Helper()
	store := repository.NewMemory()
	provider := &scriptedProvider{scores: map[string]float64{}}
	log := zap.NewNop()

	graph := service.NewGraphService(store, store, store, log)
	matching := service.NewMatchingService(store, store, store, graph, provider, policy, log)
	return &env{
		store:         store,
		provider:      provider,
		graph:         graph,
		matching:      matching,
		users:         service.NewUserService(store, store, provider, log),
		opportunities: service.NewOpportunityService(store, store, matching, log),
		requests:      service.NewRequestService(store, store, store, store, log),
		feedback:      service.NewFeedbackService(store, store, store, store, log),
	}
}

func (e *env) addUser(t *testing.T, id, name string, openTo ...string) {
	t.Helper()
	err := e.users.Create(context.Background(), &models.User{
		ID:     id,
		Name:   name,
		Email:  id + "@example.com",
		OpenTo: openTo,
	})
	require.NoError(t, err)
}

func (e *env) connect(t *testing.T, a, b string) {
	t.Helper()
	err := e.store.InsertConnection(context.Background(), models.Connection{
		UserA:    a,
		UserB:    b,
		Source:   models.SourceDiscovery,
		Strength: 1.0,
	})
	require.NoError(t, err)
}

func (e *env) post(t *testing.T, poster, oppType, title string) *models.Opportunity {
	t.Helper()
	opp, _, err := e.opportunities.Create(context.Background(), oppType, title, "", poster)
	require.NoError(t, err)
	return opp
}

// acceptRequest drives the full request flow from sender to accepted edge.
func (e *env) acceptRequest(t *testing.T, from, to, opportunityID string) *models.ConnectionRequest {
	t.Helper()
	req, err := e.requests.Create(context.Background(), from, to, opportunityID, nil)
	require.NoError(t, err)
	accepted, err := e.requests.Accept(context.Background(), to, req.ID)
	require.NoError(t, err)
	return accepted
}
