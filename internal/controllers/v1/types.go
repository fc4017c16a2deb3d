package v1

import (
	"os"
	"strconv"

	"github.com/ledgerlift/backend/internal/rules"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
)

type URIID struct {
	ID ll_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// QueryOwner scopes a request to one owner. Every data-carrying endpoint
// requires it, owners never see each other's resources.
type QueryOwner struct {
	Owner ll_uuid.UUID `form:"owner" binding:"required" format:"UUID"` // Owner the resources belong to
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// ruleOptions reads the rule engine configuration from the environment.
// CONFIDENCE_THRESHOLD is the auto-approval threshold, unset or invalid
// values disable auto-approval.
func ruleOptions() rules.Options {
	threshold, err := strconv.Atoi(os.Getenv("CONFIDENCE_THRESHOLD"))
	if err != nil || threshold < 0 || threshold > 100 {
		return rules.Options{}
	}

	return rules.Options{ConfidenceThreshold: threshold}
}
