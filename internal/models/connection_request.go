package models

import (
	"fmt"
	"time"
)

// RequestStatus is the lifecycle state of a connection request. Transitions
// are one-way: pending -> accepted or pending -> declined, both terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

// ConnectionRequest is one user asking another to connect in the context of
// an opportunity.
//
// PendingKey holds "from:to:opportunity" while the request is pending and is
// cleared on accept/decline. The unique index on it is what makes concurrent
// duplicate creates lose at the storage layer instead of racing past an
// existence check, while still allowing a fresh request after a decline.
type ConnectionRequest struct {
	ID            string        `gorm:"type:uuid;primaryKey"`
	FromUserID    string        `gorm:"type:uuid;not null;index"`
	ToUserID      string        `gorm:"type:uuid;not null;index"`
	OpportunityID string        `gorm:"type:uuid;not null;index"`
	MatchID       *string       `gorm:"type:uuid"`
	Status        RequestStatus `gorm:"size:20;not null"`
	PendingKey    *string       `gorm:"size:120;uniqueIndex"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RequestPendingKey builds the uniqueness key for a pending request.
func RequestPendingKey(fromID, toID, opportunityID string) string {
	return fmt.Sprintf("%s:%s:%s", fromID, toID, opportunityID)
}
