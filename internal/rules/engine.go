// Package rules implements the deterministic keyword rule engine that
// classifies normalized transaction descriptions.
package rules

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/internal/normalize"
	"github.com/ryanuber/go-glob"
)

// CategoryOpen is the unclassified category used when no rule matches.
const CategoryOpen = "Open"

// CategoryInternal designates internal transfers. A winning rule with this
// level-1 category sets the internal-transfer and exclude-from-budget
// flags on the resulting transaction. This category-to-flag derivation is
// a fixed mapping, not inferred.
const CategoryInternal = "Internal"

// Confidence levels assigned by the engine.
const (
	ConfidenceStrict  = 100
	ConfidenceKeyword = 80
)

// Options holds externally configured knobs for classification.
type Options struct {
	// ConfidenceThreshold is the auto-approval threshold: a non-strict
	// result at or above it clears needs-review. Zero disables
	// auto-approval entirely.
	ConfidenceThreshold int
}

// Conflict reports two or more rules tied at the top priority with
// differing outcomes. The classification still has a deterministic winner,
// the conflict exists so the rule set can be disambiguated manually.
type Conflict struct {
	Priority     int
	CandidateIDs []uuid.UUID
	Categories   []string // level-1 categories of the candidates, same order
}

// Result is the outcome of classifying one description.
type Result struct {
	CategoryLevel1    string
	CategoryLevel2    string
	CategoryLevel3    string
	Type              models.TransactionType
	FixVar            models.FixVar
	RuleID            *uuid.UUID
	Confidence        int
	NeedsReview       bool
	InternalTransfer  bool
	ExcludeFromBudget bool
	Conflict          *Conflict
}

// Matches reports whether the rule matches the normalized description:
// at least one positive keyword is found and no negative keyword is.
//
// Keywords carrying "*" or "?" are evaluated as glob patterns, all others
// as substring matches. Keywords are normalized the same way as the
// description, so matching is case and diacritic insensitive.
func Matches(rule models.Rule, descNorm string) bool {
	positive := false
	for _, kw := range rule.KeywordList() {
		if keywordMatches(kw, descNorm) {
			positive = true
			break
		}
	}
	if !positive {
		return false
	}

	for _, kw := range rule.NegativeKeywordList() {
		if keywordMatches(kw, descNorm) {
			return false
		}
	}

	return true
}

func keywordMatches(keyword, descNorm string) bool {
	kw := normalize.Description(keyword)
	if strings.ContainsAny(kw, "*?") {
		return glob.Glob("*"+strings.Trim(kw, "*")+"*", descNorm) || glob.Glob(kw, descNorm)
	}
	return strings.Contains(descNorm, kw)
}

// Classify matches the description against the rule set and resolves the
// winner.
//
// The result is fully deterministic: matching rules are ordered by
// priority descending, then creation time ascending, then ID ascending.
// The first rule in that order wins. A tie at the top priority between
// rules with differing outcomes is additionally reported as a Conflict,
// the winner stays the same.
func Classify(descNorm string, ruleSet []models.Rule, opts Options) Result {
	matches := make([]models.Rule, 0)
	for _, rule := range ruleSet {
		if !rule.Active {
			continue
		}
		if Matches(rule, descNorm) {
			matches = append(matches, rule)
		}
	}

	if len(matches) == 0 {
		return Result{
			CategoryLevel1: CategoryOpen,
			NeedsReview:    true,
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})

	winner := matches[0]

	result := Result{
		CategoryLevel1: winner.CategoryLevel1,
		CategoryLevel2: winner.CategoryLevel2,
		CategoryLevel3: winner.CategoryLevel3,
		Type:           winner.Type,
		FixVar:         winner.FixVar,
		RuleID:         &winner.ID,
		Conflict:       conflictOf(matches),
	}

	if winner.CategoryLevel1 == CategoryInternal {
		result.InternalTransfer = true
		result.ExcludeFromBudget = true
	}

	if winner.Strict {
		result.Confidence = ConfidenceStrict
		result.NeedsReview = false
		return result
	}

	result.Confidence = ConfidenceKeyword
	result.NeedsReview = opts.ConfidenceThreshold == 0 || result.Confidence < opts.ConfidenceThreshold

	return result
}

// conflictOf inspects the sorted matches for a tie at the top priority
// with differing outcomes.
func conflictOf(matches []models.Rule) *Conflict {
	if len(matches) < 2 {
		return nil
	}

	top := matches[0].Priority
	tied := make([]models.Rule, 0, 2)
	for _, m := range matches {
		if m.Priority != top {
			break
		}
		tied = append(tied, m)
	}
	if len(tied) < 2 {
		return nil
	}

	differ := false
	for _, m := range tied[1:] {
		if m.CategoryLevel1 != tied[0].CategoryLevel1 ||
			m.CategoryLevel2 != tied[0].CategoryLevel2 ||
			m.CategoryLevel3 != tied[0].CategoryLevel3 ||
			m.Type != tied[0].Type {
			differ = true
			break
		}
	}
	if !differ {
		return nil
	}

	c := Conflict{Priority: top}
	for _, m := range tied {
		c.CandidateIDs = append(c.CandidateIDs, m.ID)
		c.Categories = append(c.Categories, m.CategoryLevel1)
	}
	return &c
}

// SuggestKeyword proposes a keyword for an unmatched description: the
// first three words of its normalized form.
func SuggestKeyword(descNorm string) string {
	words := strings.Fields(descNorm)
	if len(words) > 3 {
		words = words[:3]
	}

	suggestion := strings.Join(words, " ")
	if len(suggestion) > 30 {
		suggestion = suggestion[:30]
	}
	return suggestion
}
