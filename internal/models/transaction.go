package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType classifies the direction of a ledger entry.
type TransactionType string

const (
	TypeExpense TransactionType = "EXPENSE"
	TypeIncome  TransactionType = "INCOME"
)

// FixVar marks whether a ledger entry is a fixed or variable cost.
type FixVar string

const (
	CostFixed    FixVar = "FIXED"
	CostVariable FixVar = "VARIABLE"
)

// Transaction represents a financial event in the owner's ledger.
type Transaction struct {
	DefaultModel
	OwnerID     uuid.UUID `gorm:"index;uniqueIndex:transaction_owner_dedup"`
	PaymentDate time.Time
	AmountCents int64  // Signed amount in minor units, negative for charges
	Currency    string // ISO code

	DescriptionRaw   string
	DescriptionNorm  string
	DescriptionAlias string // Optional short display name, set by hand

	CategoryLevel1 string
	CategoryLevel2 string
	CategoryLevel3 string

	Type   TransactionType
	FixVar FixVar

	// ManualOverride is set when a human edits the categorization. Once
	// set, rule re-application never touches this transaction again.
	ManualOverride bool

	NeedsReview       bool
	RuleApplied       *uuid.UUID // ID of the rule that categorized this transaction
	Confidence        int        // 0-100
	InternalTransfer  bool
	ExcludeFromBudget bool

	// BatchID is the origin batch for ingested transactions, nil for
	// manually created ones.
	BatchID *uuid.UUID `gorm:"index"`

	// DedupKey is the item fingerprint for ingested transactions. The
	// unique index on (owner_id, dedup_key) is the storage-level dedup
	// guard, NULL for manual entries so they never collide.
	DedupKey *string `gorm:"uniqueIndex:transaction_owner_dedup"`
}

var (
	ErrTransactionDedupKeyExists = errors.New("a transaction with the same fingerprint already exists in the ledger")
	ErrTransactionTypeInvalid    = errors.New("the transaction type must be EXPENSE or INCOME")
)

// Amount returns the amount as a decimal in major units.
func (t Transaction) Amount() decimal.Decimal {
	return decimal.New(t.AmountCents, -2)
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	if t.Currency == "" {
		t.Currency = "EUR"
	}

	if t.Type != "" && t.Type != TypeExpense && t.Type != TypeIncome {
		return ErrTransactionTypeInvalid
	}

	if t.PaymentDate.IsZero() {
		t.PaymentDate = time.Now().In(time.UTC)
	} else {
		t.PaymentDate = t.PaymentDate.In(time.UTC)
	}

	return nil
}

// AfterFind enforces UTC on the payment date, see DefaultModel.AfterFind.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	err := t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.PaymentDate = t.PaymentDate.In(time.UTC)
	return nil
}
