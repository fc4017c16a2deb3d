package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/models"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
)

type RuleEditable struct {
	OwnerID          *uuid.UUID             `json:"ownerId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`            // Owner of the rule, null for system rules
	Name             string                 `json:"name" example:"Groceries" default:""`                               // Name of the rule
	Keywords         string                 `json:"keywords" example:"LIDL;ALDI;REWE" default:""`                      // Positive keywords, semicolon separated
	NegativeKeywords string                 `json:"negativeKeywords" example:"LIDL PLUS APP" default:""`               // Negative keywords, semicolon separated
	CategoryLevel1   string                 `json:"categoryLevel1" example:"Household" default:""`                     // First category level
	CategoryLevel2   string                 `json:"categoryLevel2" example:"Groceries" default:""`                     // Second category level
	CategoryLevel3   string                 `json:"categoryLevel3" example:"" default:""`                              // Third category level
	Type             models.TransactionType `json:"type" example:"EXPENSE" default:""`                                 // Transaction type the rule assigns
	FixVar           models.FixVar          `json:"fixVar" example:"VARIABLE" default:""`                              // Fixed or variable cost
	Priority         int                    `json:"priority" example:"500" default:"500"`                              // Priority of the rule, higher wins
	Strict           bool                   `json:"strict" example:"false" default:"false"`                            // A strict match auto-confirms the result
	Active           bool                   `json:"active" example:"true" default:"true"`                              // Inactive rules are skipped by the engine
}

// model returns the database resource for the API representation of the
// editable fields
func (editable RuleEditable) model() models.Rule {
	return models.Rule{
		OwnerID:          editable.OwnerID,
		Name:             editable.Name,
		Keywords:         editable.Keywords,
		NegativeKeywords: editable.NegativeKeywords,
		CategoryLevel1:   editable.CategoryLevel1,
		CategoryLevel2:   editable.CategoryLevel2,
		CategoryLevel3:   editable.CategoryLevel3,
		Type:             editable.Type,
		FixVar:           editable.FixVar,
		Priority:         editable.Priority,
		Strict:           editable.Strict,
		Active:           editable.Active,
	}
}

type RuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/rules/95685c82-53c6-455d-b235-f49960b73b21"` // The rule itself
}

// Rule is the representation of a categorization rule in API v1.
type Rule struct {
	models.DefaultModel
	RuleEditable
	System bool      `json:"system" example:"false"` // Set for seeded rules
	Links  RuleLinks `json:"links"`
}

// newRule returns the API v1 representation of the resource
func newRule(c *gin.Context, model models.Rule) Rule {
	url := c.GetString(string(models.DBContextURL))

	return Rule{
		DefaultModel: model.DefaultModel,
		RuleEditable: RuleEditable{
			OwnerID:          model.OwnerID,
			Name:             model.Name,
			Keywords:         model.Keywords,
			NegativeKeywords: model.NegativeKeywords,
			CategoryLevel1:   model.CategoryLevel1,
			CategoryLevel2:   model.CategoryLevel2,
			CategoryLevel3:   model.CategoryLevel3,
			Type:             model.Type,
			FixVar:           model.FixVar,
			Priority:         model.Priority,
			Strict:           model.Strict,
			Active:           model.Active,
		},
		System: model.System,
		Links: RuleLinks{
			Self: fmt.Sprintf("%s/v1/rules/%s", url, model.ID),
		},
	}
}

type RuleQueryFilter struct {
	Owner    ll_uuid.UUID `form:"owner" filterField:"false"`    // Rules of this owner plus the system rules
	Name     string       `form:"name" filterField:"false"`     // Filter by name, partial match
	Category string       `form:"category" filterField:"false"` // Filter by first category level
	Active   bool         `form:"active"`                       // Filter by active state
	Priority int          `form:"priority"`                     // Filter by priority
	Offset   uint         `form:"offset" filterField:"false"`   // The offset of the first Rule returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`    // Maximum number of Rules to return. Defaults to 50.
}

// model returns the database resource for the query filter
func (filter RuleQueryFilter) model() models.Rule {
	return models.Rule{
		Active:   filter.Active,
		Priority: filter.Priority,
	}
}

type RuleListResponse struct {
	Data       []Rule      `json:"data"`                                                          // List of rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type RuleCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []RuleResponse `json:"data"`                                                          // List of created Rules
}

func (r *RuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RuleResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this rule
	Data  *Rule   `json:"data"`                                                          // The Rule data, if creation was successful
}

type RuleSeedResponse struct {
	Data  *RuleSeedResult `json:"data"`                                            // The seed outcome
	Error *string         `json:"error" example:"an error on the server occurred"` // The error, if any occurred
}

type RuleSeedResult struct {
	Created int `json:"created" example:"14"` // Number of seeded rules created
}

type RuleApplyResponse struct {
	Data  *ApplyResult `json:"data"`                                            // The re-categorization outcome
	Error *string      `json:"error" example:"an error on the server occurred"` // The error, if any occurred
}

// ApplyResult mirrors importer.ApplyResult for the API surface.
type ApplyResult struct {
	Categorized  int `json:"categorized" example:"41"` // Transactions that received a category
	StillPending int `json:"stillPending" example:"7"` // Transactions that still need review
}
