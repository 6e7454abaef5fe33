package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"serendip/backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Experience is one completed interaction a submitter may still leave
// feedback about.
type Experience struct {
	InteractionID    string
	OpportunityID    string
	OpportunityType  models.OpportunityType
	OpportunityTitle string
}

// Impression is the aggregated reputation view of a user. A user with no
// feedback has an empty summary and FeedbackCount 0; callers render a
// "no feedback yet" state instead of the empty string.
type Impression struct {
	Summary       string
	ByContext     map[string]string
	FeedbackCount int
}

// FeedbackService validates feedback eligibility against completed
// interactions, stores anonymous feedback and aggregates impressions.
//
// The impression is always recomputed from the stored feedback set (a pure
// projection), fronted by a per-user cache invalidated on every write.
type FeedbackService struct {
	users         UserStore
	opportunities OpportunityStore
	requests      RequestStore
	feedback      FeedbackStore
	log           *zap.Logger

	mu    sync.RWMutex
	cache map[string]Impression
}

// NewFeedbackService builds a FeedbackService.
func NewFeedbackService(users UserStore, opportunities OpportunityStore,
	requests RequestStore, feedback FeedbackStore, log *zap.Logger) *FeedbackService {
	return &FeedbackService{
		users:         users,
		opportunities: opportunities,
		requests:      requests,
		feedback:      feedback,
		log:           log.Named("feedback"),
		cache:         make(map[string]Impression),
	}
}

// ListExperiences returns the interactions between submitter and toUser that
// are still open for feedback: accepted requests, one per opportunity, minus
// those the submitter already reviewed.
func (s *FeedbackService) ListExperiences(ctx context.Context, submitterID, toUserID string) ([]Experience, error) {
	if submitterID == toUserID {
		return nil, nil
	}
	interactions, err := s.openInteractions(ctx, submitterID, toUserID)
	if err != nil {
		return nil, err
	}
	out := make([]Experience, 0, len(interactions))
	for _, it := range interactions {
		out = append(out, it.experience)
	}
	return out, nil
}

// CanLeave reports whether submitter has any accepted interaction with
// toUser at all, reviewed or not.
func (s *FeedbackService) CanLeave(ctx context.Context, submitterID, toUserID string) (bool, error) {
	if submitterID == toUserID {
		return false, nil
	}
	accepted, err := s.requests.AcceptedBetween(ctx, submitterID, toUserID)
	if err != nil {
		return false, err
	}
	return len(accepted) > 0, nil
}

// Submit stores anonymous feedback about toUser in an opportunity-type
// context. It consumes the oldest open interaction of that type; without one
// it fails with ErrNotEligible. The stored record carries the interaction id
// instead of the submitter id.
func (s *FeedbackService) Submit(ctx context.Context, submitterID, toUserID string, opportunityType, text string) (*models.Feedback, error) {
	if submitterID == toUserID {
		return nil, fmt.Errorf("%w: cannot leave feedback for yourself", ErrValidation)
	}
	if !models.ValidOpportunityType(opportunityType) {
		return nil, fmt.Errorf("%w: unknown opportunity type %q", ErrValidation, opportunityType)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: feedback text is empty", ErrValidation)
	}

	target, err := s.users.UserByID(ctx, toUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, toUserID)
	}

	interactions, err := s.openInteractions(ctx, submitterID, toUserID)
	if err != nil {
		return nil, err
	}
	var interactionID string
	for _, it := range interactions {
		if string(it.experience.OpportunityType) == opportunityType {
			interactionID = it.experience.InteractionID
			break
		}
	}
	if interactionID == "" {
		return nil, fmt.Errorf("%w: no completed %s interaction with this user awaits feedback",
			ErrNotEligible, opportunityType)
	}

	fb := &models.Feedback{
		ID:              uuid.NewString(),
		ToUserID:        toUserID,
		OpportunityType: models.OpportunityType(opportunityType),
		Text:            text,
		InteractionID:   interactionID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.feedback.InsertFeedback(ctx, fb); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.cache, toUserID)
	s.mu.Unlock()

	s.log.Info("feedback stored",
		zap.String("to_user_id", toUserID),
		zap.String("context", opportunityType))
	return fb, nil
}

// Impression aggregates all stored feedback for a user, grouped by
// opportunity type. Same feedback set in, same impression out.
func (s *FeedbackService) Impression(ctx context.Context, userID string) (Impression, error) {
	s.mu.RLock()
	cached, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	entries, err := s.feedback.FeedbackFor(ctx, userID)
	if err != nil {
		return Impression{}, err
	}
	imp := summarize(entries)

	s.mu.Lock()
	s.cache[userID] = imp
	s.mu.Unlock()
	return imp, nil
}

// summarize is the pure aggregation behind Impression.
func summarize(entries []models.Feedback) Impression {
	if len(entries) == 0 {
		return Impression{ByContext: map[string]string{}}
	}

	grouped := make(map[models.OpportunityType]int)
	for _, fb := range entries {
		grouped[fb.OpportunityType]++
	}

	byContext := make(map[string]string, len(grouped))
	var contexts []string
	for _, t := range models.OpportunityTypes {
		count, ok := grouped[t]
		if !ok {
			continue
		}
		contexts = append(contexts, string(t))
		byContext[string(t)] = fmt.Sprintf("%s shared feedback after %s interactions.",
			people(count), t)
	}

	summary := fmt.Sprintf("Based on %d anonymous feedback entries across %s interactions.",
		len(entries), strings.Join(contexts, ", "))
	return Impression{
		Summary:       summary,
		ByContext:     byContext,
		FeedbackCount: len(entries),
	}
}

func people(n int) string {
	if n == 1 {
		return "1 person"
	}
	return fmt.Sprintf("%d people", n)
}

type openInteraction struct {
	experience Experience
}

// openInteractions builds the submitter's eligible, not-yet-used interactions
// with toUser: accepted requests between the pair, oldest first, one per
// opportunity, excluding interactions already reviewed from this side.
func (s *FeedbackService) openInteractions(ctx context.Context, submitterID, toUserID string) ([]openInteraction, error) {
	accepted, err := s.requests.AcceptedBetween(ctx, submitterID, toUserID)
	if err != nil {
		return nil, fmt.Errorf("loading accepted requests: %w", err)
	}

	seenOpportunities := make(map[string]struct{}, len(accepted))
	var out []openInteraction
	for _, req := range accepted {
		if _, seen := seenOpportunities[req.OpportunityID]; seen {
			continue
		}
		seenOpportunities[req.OpportunityID] = struct{}{}

		used, err := s.feedback.FeedbackExists(ctx, req.ID, toUserID)
		if err != nil {
			return nil, err
		}
		if used {
			continue
		}
		opp, err := s.opportunities.OpportunityByID(ctx, req.OpportunityID)
		if err != nil {
			return nil, err
		}
		if opp == nil {
			continue
		}
		out = append(out, openInteraction{experience: Experience{
			InteractionID:    req.ID,
			OpportunityID:    opp.ID,
			OpportunityType:  opp.Type,
			OpportunityTitle: opp.Title,
		}})
	}
	return out, nil
}
