package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rule is one categorization rule.
//
// Keywords and NegativeKeywords are semicolon separated lists. A rule
// matches a normalized description when at least one keyword is found and
// no negative keyword is found. Keywords containing "*" or "?" are treated
// as glob patterns, all others as substring matches.
//
// Rules are created and edited by users or the seed process, the engine
// itself never mutates them.
type Rule struct {
	DefaultModel
	OwnerID *uuid.UUID `gorm:"index"` // nil for system rules that apply to every owner
	Name    string

	Keywords         string // Positive keywords, semicolon separated, order preserved
	NegativeKeywords string // Semicolon separated

	CategoryLevel1 string
	CategoryLevel2 string
	CategoryLevel3 string

	Type   TransactionType
	FixVar FixVar

	Priority int  `gorm:"default:500"` // Higher wins
	Strict   bool // A strict match auto-confirms the result
	Active   bool `gorm:"default:true"`
	System   bool // Set for seeded rules
}

var (
	ErrRuleKeywordsEmpty = errors.New("a rule requires at least one keyword")
	ErrRuleNameEmpty     = errors.New("a rule requires a name")
)

// KeywordList returns the positive keywords, trimmed, with empty entries
// removed and the list order preserved.
func (r Rule) KeywordList() []string {
	return splitKeywords(r.Keywords)
}

// NegativeKeywordList returns the negative keywords, trimmed, with empty
// entries removed.
func (r Rule) NegativeKeywordList() []string {
	return splitKeywords(r.NegativeKeywords)
}

func splitKeywords(s string) []string {
	parts := strings.Split(s, ";")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

func (r *Rule) BeforeSave(_ *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Keywords = strings.TrimSpace(r.Keywords)
	r.NegativeKeywords = strings.TrimSpace(r.NegativeKeywords)

	if r.Name == "" {
		return ErrRuleNameEmpty
	}

	if len(r.KeywordList()) == 0 {
		return ErrRuleKeywordsEmpty
	}

	return nil
}
