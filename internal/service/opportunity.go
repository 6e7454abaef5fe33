package service

import (
	"context"
	"fmt"
	"strings"

	"serendip/backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpportunityService owns opportunity creation and lookups. Creating an
// opportunity immediately computes its match snapshot.
type OpportunityService struct {
	opportunities OpportunityStore
	users         UserStore
	matching      *MatchingService
	log           *zap.Logger
}

// NewOpportunityService builds an OpportunityService.
func NewOpportunityService(opportunities OpportunityStore, users UserStore,
	matching *MatchingService, log *zap.Logger) *OpportunityService {
	return &OpportunityService{
		opportunities: opportunities,
		users:         users,
		matching:      matching,
		log:           log.Named("opportunity"),
	}
}

// Create validates and stores a new opportunity, then runs matching for it.
func (s *OpportunityService) Create(ctx context.Context, oppType, title, description, postedBy string) (*models.Opportunity, []models.Match, error) {
	if !models.ValidOpportunityType(oppType) {
		return nil, nil, fmt.Errorf("%w: unknown opportunity type %q", ErrValidation, oppType)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, fmt.Errorf("%w: title is empty", ErrValidation)
	}

	poster, err := s.users.UserByID(ctx, postedBy)
	if err != nil {
		return nil, nil, err
	}
	if poster == nil {
		return nil, nil, fmt.Errorf("%w: user %s", ErrNotFound, postedBy)
	}

	opp := &models.Opportunity{
		ID:          uuid.NewString(),
		Type:        models.OpportunityType(oppType),
		Title:       title,
		Description: description,
		PostedBy:    postedBy,
	}
	if err := s.opportunities.CreateOpportunity(ctx, opp); err != nil {
		return nil, nil, err
	}
	s.log.Info("opportunity created",
		zap.String("opportunity_id", opp.ID),
		zap.String("type", oppType))

	matches, err := s.matching.FindMatches(ctx, *opp)
	if err != nil {
		return nil, nil, err
	}
	return opp, matches, nil
}

// Get returns one opportunity or ErrNotFound.
func (s *OpportunityService) Get(ctx context.Context, id string) (*models.Opportunity, error) {
	opp, err := s.opportunities.OpportunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, fmt.Errorf("%w: opportunity %s", ErrNotFound, id)
	}
	return opp, nil
}

// List returns every opportunity.
func (s *OpportunityService) List(ctx context.Context) ([]models.Opportunity, error) {
	return s.opportunities.ListOpportunities(ctx)
}
