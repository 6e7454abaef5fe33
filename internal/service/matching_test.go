package service_test

import (
	"context"
	"strings"
	"testing"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkBoostCanOverturnSimilarityLead(t *testing.T) {
	// Embedding still dominates (0.8 vs 0.5), but a first-degree boost is
	// enough to flip a 0.3 raw-similarity lead.
	policy := service.MatchPolicy{
		EmbeddingWeight:   0.8,
		NetworkWeight:     0.5,
		FirstDegreeBoost:  0.5,
		SecondDegreeBoost: 0.25,
		TopK:              5,
	}
	e := newEnv(t, policy)
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	e.addUser(t, "cleo", "Cleo", "project")
	e.connect(t, "ana", "cleo")

	e.provider.scores = map[string]float64{"ben": 0.9, "cleo": 0.6}
	opp := e.post(t, "ana", "project", "Weekend design sprint")

	matches, err := e.matching.Matches(context.Background(), opp.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "cleo", matches[0].UserID)
	assert.InDelta(t, 0.73, matches[0].Score, 1e-9)
	assert.Equal(t, "ben", matches[1].UserID)
	assert.InDelta(t, 0.72, matches[1].Score, 1e-9)
}

func TestMatchRanksAreContiguousAndScoresMonotone(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	candidates := []string{"ben", "cleo", "dora", "eli"}
	scores := map[string]float64{"ben": 0.4, "cleo": 0.9, "dora": 0.7, "eli": 0.2}
	for _, id := range candidates {
		e.addUser(t, id, strings.ToUpper(id[:1])+id[1:], "project")
	}
	e.provider.scores = scores

	opp := e.post(t, "ana", "project", "Build a garden shed")
	matches, err := e.matching.Matches(context.Background(), opp.ID)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	for i, m := range matches {
		assert.Equal(t, i+1, m.Rank)
		if i > 0 {
			assert.LessOrEqual(t, m.Score, matches[i-1].Score)
		}
	}
}

func TestMatchTieBreaksAreDeterministic(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "collab")
	e.addUser(t, "mira", "Mira", "collab")
	e.addUser(t, "nils", "Nils", "collab")
	e.provider.scores = map[string]float64{"mira": 0.5, "nils": 0.5}

	opp := e.post(t, "ana", "collab", "Co-write a short story")
	matches, err := e.matching.Matches(context.Background(), opp.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Identical scores fall back to candidate id order.
	assert.Equal(t, "mira", matches[0].UserID)
	assert.Equal(t, "nils", matches[1].UserID)
}

func TestMatchingExcludesPosterAndOpenToMismatch(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "date") // not open to projects
	e.addUser(t, "cleo", "Cleo", "project")
	e.provider.scores = map[string]float64{"ana": 1.0, "ben": 0.9, "cleo": 0.5}

	opp := e.post(t, "ana", "project", "Prototype an app")
	matches, err := e.matching.Matches(context.Background(), opp.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "cleo", matches[0].UserID)
}

func TestRerunExcludesAcceptedButKeepsPending(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	e.addUser(t, "cleo", "Cleo", "project")
	e.provider.scores = map[string]float64{"ben": 0.8, "cleo": 0.7}

	opp := e.post(t, "ana", "project", "Paint a mural")

	// ben's request gets accepted, cleo's stays pending.
	e.acceptRequest(t, "ben", "ana", opp.ID)
	_, err := e.requests.Create(context.Background(), "cleo", "ana", opp.ID, nil)
	require.NoError(t, err)

	matches, err := e.matching.FindMatches(context.Background(), *opp)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "cleo", matches[0].UserID)
	assert.Equal(t, 1, matches[0].Rank)
}

func TestRerunReplacesWholeSnapshot(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "help")
	e.addUser(t, "ben", "Ben", "help")
	e.addUser(t, "cleo", "Cleo", "help")
	e.provider.scores = map[string]float64{"ben": 0.9, "cleo": 0.8}

	opp := e.post(t, "ana", "help", "Move some furniture")

	e.provider.scores = map[string]float64{"cleo": 0.8}
	_, err := e.matching.FindMatches(context.Background(), *opp)
	require.NoError(t, err)

	matches, err := e.matching.Matches(context.Background(), opp.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "cleo", matches[0].UserID)
	seen := map[int]bool{}
	for _, m := range matches {
		assert.False(t, seen[m.Rank], "ranks must not overlap across snapshots")
		seen[m.Rank] = true
	}
}

func TestExplanationReflectsScoringSignals(t *testing.T) {
	e := newEnv(t, service.DefaultMatchPolicy())
	e.addUser(t, "ana", "Ana", "project")
	e.addUser(t, "ben", "Ben", "project")
	e.connect(t, "ana", "ben")

	// cleo is second-degree and has a skill the post mentions.
	err := e.users.Create(context.Background(), &models.User{
		ID:     "cleo",
		Name:   "Cleo",
		Email:  "cleo@example.com",
		Skills: models.StringSet{"figma"},
		OpenTo: models.StringSet{"project"},
	})
	require.NoError(t, err)
	e.connect(t, "ben", "cleo")

	e.provider.scores = map[string]float64{"cleo": 0.9, "ben": 0.7}

	opp, matches, err := e.opportunities.Create(context.Background(),
		"project", "Need figma help", "Design screens in figma", "ana")
	require.NoError(t, err)
	require.NotNil(t, opp)
	require.Len(t, matches, 2)

	byUser := map[string]models.Match{}
	for _, m := range matches {
		byUser[m.UserID] = m
	}
	assert.Contains(t, byUser["cleo"].Explanation, "figma")
	assert.Contains(t, byUser["cleo"].Explanation, "Ben", "second-degree bridge must be named")
	assert.Contains(t, byUser["ben"].Explanation, "directly connected")
}
