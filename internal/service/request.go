package service

import (
	"context"
	"fmt"
	"time"

	"serendip/backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService arbitrates the connection-request lifecycle. Accepting a
// request is the only path that creates graph edges from requests.
type RequestService struct {
	users         UserStore
	opportunities OpportunityStore
	requests      RequestStore
	connections   ConnectionStore
	log           *zap.Logger
}

// NewRequestService builds a RequestService.
func NewRequestService(users UserStore, opportunities OpportunityStore,
	requests RequestStore, connections ConnectionStore, log *zap.Logger) *RequestService {
	return &RequestService{
		users:         users,
		opportunities: opportunities,
		requests:      requests,
		connections:   connections,
		log:           log.Named("request"),
	}
}

// Create records a new pending request from fromID to toID in the context of
// an opportunity. Returns ErrDuplicateRequest when a pending request for the
// same triple already exists; resolved (accepted/declined) requests do not
// block a new one. The duplicate check and the insert are a single atomic
// operation at the storage layer.
func (s *RequestService) Create(ctx context.Context, fromID, toID, opportunityID string, matchID *string) (*models.ConnectionRequest, error) {
	if fromID == toID {
		return nil, fmt.Errorf("%w: cannot send a request to yourself", ErrValidation)
	}

	target, err := s.users.UserByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, toID)
	}
	opp, err := s.opportunities.OpportunityByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, fmt.Errorf("%w: opportunity %s", ErrNotFound, opportunityID)
	}

	key := models.RequestPendingKey(fromID, toID, opportunityID)
	req := &models.ConnectionRequest{
		ID:            uuid.NewString(),
		FromUserID:    fromID,
		ToUserID:      toID,
		OpportunityID: opportunityID,
		MatchID:       matchID,
		Status:        models.StatusPending,
		PendingKey:    &key,
	}
	if err := s.requests.InsertRequest(ctx, req); err != nil {
		return nil, err
	}
	s.log.Info("connection request created",
		zap.String("request_id", req.ID),
		zap.String("opportunity_id", opportunityID))
	return req, nil
}

// Accept transitions a pending request to accepted and inserts the
// connection edge. Only the request's recipient may accept. Exactly one of
// any set of racing accept/decline calls wins; the rest get ErrInvalidState.
func (s *RequestService) Accept(ctx context.Context, actorID, requestID string) (*models.ConnectionRequest, error) {
	req, err := s.resolve(ctx, actorID, requestID, models.StatusAccepted)
	if err != nil {
		return nil, err
	}

	// Edge insertion is idempotent, so a crash between the status update
	// and this insert is repaired by any later accept of another request
	// between the same pair, and a retry cannot double-create.
	err = s.connections.InsertConnection(ctx, models.Connection{
		UserA:     req.FromUserID,
		UserB:     req.ToUserID,
		Source:    models.SourceRequest,
		Strength:  1.0,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting connection edge: %w", err)
	}
	s.log.Info("connection request accepted", zap.String("request_id", req.ID))
	return req, nil
}

// Decline transitions a pending request to declined. No edge is created.
func (s *RequestService) Decline(ctx context.Context, actorID, requestID string) (*models.ConnectionRequest, error) {
	req, err := s.resolve(ctx, actorID, requestID, models.StatusDeclined)
	if err != nil {
		return nil, err
	}
	s.log.Info("connection request declined", zap.String("request_id", req.ID))
	return req, nil
}

func (s *RequestService) resolve(ctx context.Context, actorID, requestID string, status models.RequestStatus) (*models.ConnectionRequest, error) {
	req, err := s.requests.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	if req.ToUserID != actorID {
		return nil, fmt.Errorf("%w: only the recipient may resolve a request", ErrForbidden)
	}

	won, err := s.requests.ResolveRequest(ctx, requestID, status)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: request %s is no longer pending", ErrInvalidState, requestID)
	}
	req.Status = status
	req.PendingKey = nil
	return req, nil
}

// CheckExists is the read-only idempotency probe: it reports whether a
// pending request from fromID for (toID, opportunityID) exists, mirroring
// the uniqueness rule Create enforces.
func (s *RequestService) CheckExists(ctx context.Context, fromID, toID, opportunityID string) (bool, error) {
	return s.requests.PendingRequestExists(ctx, fromID, toID, opportunityID)
}

// Incoming lists pending requests addressed to userID, newest first.
func (s *RequestService) Incoming(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	return s.requests.PendingIncoming(ctx, userID)
}

// Outgoing lists requests sent by userID in any state, newest first.
func (s *RequestService) Outgoing(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	return s.requests.Outgoing(ctx, userID)
}

// ByOpportunity lists all requests in an opportunity's context. Restricted
// to the opportunity's poster.
func (s *RequestService) ByOpportunity(ctx context.Context, actorID, opportunityID string) ([]models.ConnectionRequest, error) {
	opp, err := s.opportunities.OpportunityByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, fmt.Errorf("%w: opportunity %s", ErrNotFound, opportunityID)
	}
	if opp.PostedBy != actorID {
		return nil, fmt.Errorf("%w: only the poster may list an opportunity's requests", ErrForbidden)
	}
	return s.requests.RequestsByOpportunity(ctx, opportunityID)
}
