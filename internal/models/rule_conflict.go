package models

import (
	"github.com/google/uuid"
)

// RuleConflict records two or more rules matching the same description at
// equal top priority with differing outcomes.
//
// Conflicts are not errors. Classification still produces a deterministic
// winner, the conflict is persisted so that a user (or automation) can
// disambiguate the rule set, typically by adding negative keywords to one
// side. Rules are never merged silently.
type RuleConflict struct {
	DefaultModel
	OwnerID         uuid.UUID `gorm:"index"`
	DescriptionNorm string
	Priority        int
	WinnerID        uuid.UUID
	CandidateIDs    []uuid.UUID `gorm:"serializer:json"` // All rules tied at the top priority
	Categories      []string    `gorm:"serializer:json"` // Level-1 categories of the candidates, same order
	Resolved        bool
}
