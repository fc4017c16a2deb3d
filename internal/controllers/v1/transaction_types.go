package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/models"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// TransactionEditable holds the fields a client may set on a ledger
// transaction. Amounts are serialized in major units, the minor-unit
// representation stays internal.
type TransactionEditable struct {
	PaymentDate      time.Time       `json:"paymentDate" example:"2026-07-14T00:00:00Z"`                      // Date of the payment
	Amount           decimal.Decimal `json:"amount" example:"-14.03"`                                         // Signed amount, negative for charges
	Currency         string          `json:"currency" example:"EUR" default:"EUR"`                            // ISO currency code
	DescriptionRaw   string          `json:"description" example:"LIDL SAGT DANKE FIL 4411" default:""`       // Original statement description
	DescriptionAlias string          `json:"descriptionAlias" example:"Lidl" default:""`                      // Optional short display name
	CategoryLevel1   string          `json:"categoryLevel1" example:"Household" default:""`                   // First category level
	CategoryLevel2   string          `json:"categoryLevel2" example:"Groceries" default:""`                   // Second category level
	CategoryLevel3   string          `json:"categoryLevel3" example:"" default:""`                            // Third category level

	Type   models.TransactionType `json:"type" example:"EXPENSE"`    // EXPENSE or INCOME
	FixVar models.FixVar          `json:"fixVar" example:"VARIABLE"` // Fixed or variable cost

	NeedsReview       bool `json:"needsReview" example:"false" default:"false"`       // Set when the categorization needs human review
	InternalTransfer  bool `json:"internalTransfer" example:"false" default:"false"`  // Transfer between own accounts
	ExcludeFromBudget bool `json:"excludeFromBudget" example:"false" default:"false"` // Excluded from budget calculations
}

// categorizationFields are the editable fields whose change marks a
// transaction as manually overridden. Rule re-application never touches
// an overridden transaction again.
var categorizationFields = []string{
	"CategoryLevel1", "CategoryLevel2", "CategoryLevel3", "Type", "FixVar",
	"InternalTransfer", "ExcludeFromBudget", "NeedsReview",
}

// model returns the database resource for the API representation of the
// editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		PaymentDate:       editable.PaymentDate,
		AmountCents:       editable.Amount.Shift(2).IntPart(),
		Currency:          editable.Currency,
		DescriptionRaw:    editable.DescriptionRaw,
		DescriptionAlias:  editable.DescriptionAlias,
		CategoryLevel1:    editable.CategoryLevel1,
		CategoryLevel2:    editable.CategoryLevel2,
		CategoryLevel3:    editable.CategoryLevel3,
		Type:              editable.Type,
		FixVar:            editable.FixVar,
		NeedsReview:       editable.NeedsReview,
		InternalTransfer:  editable.InternalTransfer,
		ExcludeFromBudget: editable.ExcludeFromBudget,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a ledger transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	OwnerID         string           `json:"ownerId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`
	DescriptionNorm string           `json:"descriptionNorm" example:"LIDL SAGT DANKE FIL 4411"`
	ManualOverride  bool             `json:"manualOverride" example:"false"`
	RuleApplied     *uuid.UUID       `json:"ruleApplied" example:"95685c82-53c6-455d-b235-f49960b73b21"`
	Confidence      int              `json:"confidence" example:"80"`
	BatchID         *uuid.UUID       `json:"batchId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`
	Links           TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			PaymentDate:       model.PaymentDate,
			Amount:            model.Amount(),
			Currency:          model.Currency,
			DescriptionRaw:    model.DescriptionRaw,
			DescriptionAlias:  model.DescriptionAlias,
			CategoryLevel1:    model.CategoryLevel1,
			CategoryLevel2:    model.CategoryLevel2,
			CategoryLevel3:    model.CategoryLevel3,
			Type:              model.Type,
			FixVar:            model.FixVar,
			NeedsReview:       model.NeedsReview,
			InternalTransfer:  model.InternalTransfer,
			ExcludeFromBudget: model.ExcludeFromBudget,
		},
		OwnerID:         model.OwnerID.String(),
		DescriptionNorm: model.DescriptionNorm,
		ManualOverride:  model.ManualOverride,
		RuleApplied:     model.RuleApplied,
		Confidence:      model.Confidence,
		BatchID:         model.BatchID,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionQueryFilter struct {
	Owner          ll_uuid.UUID `form:"owner" binding:"required" filterField:"false"` // Owner the transactions belong to
	Batch          ll_uuid.UUID `form:"batch" filterField:"false"`                    // Filter by origin batch
	FromDate       time.Time    `form:"fromDate" filterField:"false"`                 // Payment date from this date on. Time is ignored.
	UntilDate      time.Time    `form:"untilDate" filterField:"false"`                // Payment date until this date. Time is ignored.
	CategoryLevel1 string       `form:"category" filterField:"false"`                 // Filter by first category level
	Description    string       `form:"description" filterField:"false"`              // Filter by description, partial match on the normalized form
	NeedsReview    bool         `form:"needsReview"`                                  // Filter by review state
	ManualOverride bool         `form:"manualOverride"`                               // Filter by manual override state
	Type           string       `form:"type" filterField:"false"`                     // Filter by transaction type
	Offset         uint         `form:"offset" filterField:"false"`                   // The offset of the first Transaction returned. Defaults to 0.
	Limit          int          `form:"limit" filterField:"false"`                    // Maximum number of Transactions to return. Defaults to 50.
}

// model returns the database resource for the query filter
func (filter TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		NeedsReview:    filter.NeedsReview,
		ManualOverride: filter.ManualOverride,
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The Transaction data
}
