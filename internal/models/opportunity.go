package models

import "time"

// OpportunityType classifies what a posting is about. The string values are
// part of the API contract.
type OpportunityType string

const (
	TypeJob     OpportunityType = "job"
	TypeProject OpportunityType = "project"
	TypeHelp    OpportunityType = "help"
	TypeCollab  OpportunityType = "collab"
	TypeDate    OpportunityType = "date"
	TypeFun     OpportunityType = "fun"
)

// OpportunityTypes lists every valid type, in contract order.
var OpportunityTypes = []OpportunityType{
	TypeJob, TypeProject, TypeHelp, TypeCollab, TypeDate, TypeFun,
}

// ValidOpportunityType reports whether s is one of the known types.
func ValidOpportunityType(s string) bool {
	for _, t := range OpportunityTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Opportunity is a posted opening (job, project, date, ...). Immutable once
// created; there is no edit flow.
type Opportunity struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	Type        OpportunityType `gorm:"size:20;not null;index"`
	Title       string          `gorm:"size:255;not null"`
	Description string          `gorm:"not null"`
	PostedBy    string          `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
}
