package models

import "time"

// ConnectionSource records how an edge came to exist.
type ConnectionSource string

const (
	// SourceRequest means the edge was created by an accepted connection request.
	SourceRequest ConnectionSource = "request"

	// SourceDiscovery means the edge was created outside the request flow,
	// e.g. by seeding or a direct discovery action.
	SourceDiscovery ConnectionSource = "discovery"
)

// Connection is an undirected edge between two users.
//
// The pair is normalized before insert (UserA < UserB) so the composite
// primary key enforces at most one edge per unordered pair regardless of
// which direction the insert came from.
type Connection struct {
	UserA     string           `gorm:"type:uuid;primaryKey"`
	UserB     string           `gorm:"type:uuid;primaryKey"`
	Source    ConnectionSource `gorm:"size:20;not null"`
	Strength  float64          `gorm:"not null;default:1"`
	CreatedAt time.Time
}

// NormalizePair returns the two ids in canonical storage order.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Other returns the endpoint that is not userID.
func (c Connection) Other(userID string) string {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}
