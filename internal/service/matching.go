package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"serendip/backend/internal/embedding"
	"serendip/backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchPolicy holds the scoring constants. The numbers are configuration;
// the ordering (embedding weight >= network weight, first boost > second
// boost > 0) is a contract the rest of the engine relies on.
type MatchPolicy struct {
	EmbeddingWeight   float64
	NetworkWeight     float64
	FirstDegreeBoost  float64
	SecondDegreeBoost float64
	TopK              int
}

// DefaultMatchPolicy mirrors the config defaults.
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{
		EmbeddingWeight:   0.8,
		NetworkWeight:     0.2,
		FirstDegreeBoost:  0.5,
		SecondDegreeBoost: 0.25,
		TopK:              5,
	}
}

// MatchingService turns an opportunity plus externally supplied similarity
// scores into a ranked, explained match snapshot.
type MatchingService struct {
	users    UserStore
	matches  MatchStore
	requests RequestStore
	graph    *GraphService
	provider embedding.Provider
	policy   MatchPolicy
	log      *zap.Logger
}

// NewMatchingService builds a MatchingService.
func NewMatchingService(users UserStore, matches MatchStore, requests RequestStore,
	graph *GraphService, provider embedding.Provider, policy MatchPolicy, log *zap.Logger) *MatchingService {
	return &MatchingService{
		users:    users,
		matches:  matches,
		requests: requests,
		graph:    graph,
		provider: provider,
		policy:   policy,
		log:      log.Named("matching"),
	}
}

// candidate carries the signals for one user while scoring.
type candidate struct {
	user           models.User
	embeddingScore float64
	networkScore   float64
	score          float64
	degree         int
	bridges        []string
}

// FindMatches computes and stores the ranked match set for an opportunity,
// atomically replacing any prior set. The poster is never a candidate, and
// neither is anyone already connected to the poster through this exact
// opportunity. Candidates with a still-pending request stay in the pool.
func (s *MatchingService) FindMatches(ctx context.Context, opp models.Opportunity) ([]models.Match, error) {
	query := opp.Title + ". " + opp.Description
	raw, err := s.provider.SimilarProfiles(ctx, query, s.policy.TopK*3)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	if len(raw) == 0 {
		if err := s.matches.ReplaceMatches(ctx, opp.ID, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	n, err := s.graph.expand(ctx, opp.PostedBy)
	if err != nil {
		return nil, err
	}
	excluded, err := s.connectedViaOpportunity(ctx, opp)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, r.UserID)
	}
	users, err := s.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	candidates := make([]candidate, 0, len(raw))
	for _, r := range raw {
		if r.UserID == opp.PostedBy {
			continue
		}
		if _, out := excluded[r.UserID]; out {
			continue
		}
		user, ok := byID[r.UserID]
		if !ok {
			continue
		}
		if !user.OpenTo.Contains(string(opp.Type)) {
			continue
		}

		c := candidate{user: user, embeddingScore: clamp01(r.Score)}
		if n.isFirst(user.ID) {
			c.degree = 1
			c.networkScore = s.policy.FirstDegreeBoost
		} else if bridges, ok := n.bridges[user.ID]; ok {
			c.degree = 2
			c.networkScore = s.policy.SecondDegreeBoost
			c.bridges = bridges
		}
		c.score = clamp01(c.embeddingScore*s.policy.EmbeddingWeight + c.networkScore*s.policy.NetworkWeight)
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].embeddingScore != candidates[j].embeddingScore {
			return candidates[i].embeddingScore > candidates[j].embeddingScore
		}
		return candidates[i].user.ID < candidates[j].user.ID
	})
	if len(candidates) > s.policy.TopK {
		candidates = candidates[:s.policy.TopK]
	}

	now := time.Now().UTC()
	out := make([]models.Match, 0, len(candidates))
	for i, c := range candidates {
		out = append(out, models.Match{
			ID:             uuid.NewString(),
			OpportunityID:  opp.ID,
			UserID:         c.user.ID,
			EmbeddingScore: c.embeddingScore,
			NetworkScore:   c.networkScore,
			Score:          c.score,
			Explanation:    explain(opp, c),
			Rank:           i + 1,
			CreatedAt:      now,
		})
	}

	if err := s.matches.ReplaceMatches(ctx, opp.ID, out); err != nil {
		return nil, fmt.Errorf("storing matches: %w", err)
	}
	s.log.Info("match set replaced",
		zap.String("opportunity_id", opp.ID),
		zap.Int("matches", len(out)))
	return out, nil
}

// Matches returns the current snapshot for an opportunity, rank order.
func (s *MatchingService) Matches(ctx context.Context, opportunityID string) ([]models.Match, error) {
	return s.matches.MatchesByOpportunity(ctx, opportunityID)
}

// connectedViaOpportunity collects users with an accepted request to or from
// the poster in this opportunity's context.
func (s *MatchingService) connectedViaOpportunity(ctx context.Context, opp models.Opportunity) (map[string]struct{}, error) {
	accepted, err := s.requests.AcceptedForOpportunity(ctx, opp.ID)
	if err != nil {
		return nil, fmt.Errorf("loading accepted requests: %w", err)
	}
	out := make(map[string]struct{}, len(accepted))
	for _, r := range accepted {
		switch opp.PostedBy {
		case r.FromUserID:
			out[r.ToUserID] = struct{}{}
		case r.ToUserID:
			out[r.FromUserID] = struct{}{}
		}
	}
	return out, nil
}

// explain builds the human-readable justification from the same signals the
// score came from, dominant factor first.
func explain(opp models.Opportunity, c candidate) string {
	var parts []string

	if overlap := skillOverlap(opp, c.user); len(overlap) > 0 {
		parts = append(parts, "skills in "+strings.Join(overlap, ", ")+" match the post")
	} else if c.embeddingScore >= 0.5 {
		parts = append(parts, "profile closely fits what the post describes")
	} else {
		parts = append(parts, "profile partially fits what the post describes")
	}

	switch c.degree {
	case 1:
		parts = append(parts, "directly connected to the poster")
	case 2:
		if len(c.bridges) > 0 {
			parts = append(parts, "connected through "+strings.Join(c.bridges, ", "))
		} else {
			parts = append(parts, "in the poster's extended network")
		}
	}

	sentence := strings.Join(parts, "; ")
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}

// skillOverlap lists candidate skills mentioned in the opportunity text,
// keeping the candidate's own ordering.
func skillOverlap(opp models.Opportunity, u models.User) []string {
	text := strings.ToLower(opp.Title + " " + opp.Description)
	var overlap []string
	for _, skill := range u.Skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s != "" && strings.Contains(text, s) {
			overlap = append(overlap, skill)
		}
	}
	return overlap
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
