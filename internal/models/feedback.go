package models

import "time"

// Feedback is an anonymous note about a user after a completed interaction.
//
// The submitter's identity is not stored. InteractionID is the id of the
// accepted connection request the feedback is about; together with ToUserID
// it pins the direction (the submitter is the interaction's other party), so
// the composite unique index enforces one-feedback-per-interaction-per-side
// without a reversible link back to the author from the reader's side.
type Feedback struct {
	ID              string          `gorm:"type:uuid;primaryKey"`
	ToUserID        string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_feedback_interaction_side"`
	OpportunityType OpportunityType `gorm:"size:20;not null"`
	Text            string          `gorm:"not null"`
	InteractionID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_interaction_side"`
	CreatedAt       time.Time
}
