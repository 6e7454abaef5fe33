package models

import "time"

// Match is an immutable ranked-candidate snapshot for one opportunity.
// Re-running matching replaces the whole set for that opportunity, so rank is
// unique per opportunity at any point in time.
type Match struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	OpportunityID  string  `gorm:"type:uuid;not null;index"`
	UserID         string  `gorm:"type:uuid;not null"`
	EmbeddingScore float64 `gorm:"not null"`
	NetworkScore   float64 `gorm:"not null"`
	Score          float64 `gorm:"not null"`
	Explanation    string  `gorm:"not null"`
	Rank           int     `gorm:"not null"`
	CreatedAt      time.Time
}
