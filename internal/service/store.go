package service

import (
	"context"

	"serendip/backend/internal/models"
)

// Storage contracts required by the services. Implementations must provide
// per-entity atomicity; the concurrency-sensitive methods spell out the exact
// guarantee they need.

// UserStore persists user profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// SearchUsers matches q case-insensitively as a substring of name,
	// skills, interests or bio.
	SearchUsers(ctx context.Context, q string) ([]models.User, error)
}

// ConnectionStore persists the undirected social graph.
type ConnectionStore interface {
	// InsertConnection is idempotent: inserting an edge that already
	// exists, in either direction, is a no-op. Safe under concurrent
	// inserts of the same or reversed pair.
	InsertConnection(ctx context.Context, conn models.Connection) error
	ConnectionsFor(ctx context.Context, userID string) ([]models.Connection, error)
	// ConnectionsForAll returns every edge touching any of the given ids,
	// deduplicated, letting callers expand a whole frontier in one read.
	ConnectionsForAll(ctx context.Context, userIDs []string) ([]models.Connection, error)
}

// OpportunityStore persists opportunities.
type OpportunityStore interface {
	CreateOpportunity(ctx context.Context, opp *models.Opportunity) error
	OpportunityByID(ctx context.Context, id string) (*models.Opportunity, error)
	ListOpportunities(ctx context.Context) ([]models.Opportunity, error)
}

// MatchStore persists match snapshots.
type MatchStore interface {
	// ReplaceMatches atomically swaps the full match set for an
	// opportunity. Readers see either the old complete set or the new one,
	// never a mix.
	ReplaceMatches(ctx context.Context, opportunityID string, matches []models.Match) error
	MatchesByOpportunity(ctx context.Context, opportunityID string) ([]models.Match, error)
}

// RequestStore persists connection requests.
type RequestStore interface {
	// InsertRequest performs an atomic check-and-insert on the pending
	// (from, to, opportunity) key and returns ErrDuplicateRequest when a
	// pending request for the triple already exists.
	InsertRequest(ctx context.Context, req *models.ConnectionRequest) error
	RequestByID(ctx context.Context, id string) (*models.ConnectionRequest, error)
	// ResolveRequest transitions the request out of pending with a
	// compare-and-swap on status; it reports false when the request was not
	// pending anymore, so concurrent accept/decline calls get exactly one
	// winner.
	ResolveRequest(ctx context.Context, id string, status models.RequestStatus) (bool, error)
	PendingRequestExists(ctx context.Context, fromID, toID, opportunityID string) (bool, error)
	PendingIncoming(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	Outgoing(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	RequestsByOpportunity(ctx context.Context, opportunityID string) ([]models.ConnectionRequest, error)
	AcceptedBetween(ctx context.Context, userA, userB string) ([]models.ConnectionRequest, error)
	AcceptedForOpportunity(ctx context.Context, opportunityID string) ([]models.ConnectionRequest, error)
}

// FeedbackStore persists anonymous feedback.
type FeedbackStore interface {
	// InsertFeedback fails with ErrNotEligible if feedback for the same
	// interaction and recipient was already stored (unique-key guarded).
	InsertFeedback(ctx context.Context, fb *models.Feedback) error
	FeedbackFor(ctx context.Context, toUserID string) ([]models.Feedback, error)
	FeedbackExists(ctx context.Context, interactionID, toUserID string) (bool, error)
}
