// Package importer owns the ingestion batch lifecycle: preview parsing
// with deduplication, the transactional commit into the ledger, rollback,
// and rule re-application.
package importer

import (
	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/internal/normalize"
	"github.com/shopspring/decimal"
)

// Row is one raw row as handed over by a format-specific parser.
//
// The engine does not know bank CSV dialects: parsers map their columns
// into the Record tuple and report per-row parse failures in Err. Raw
// keeps the original column values for audit only.
type Row struct {
	Number int
	Record normalize.RawRecord
	Raw    map[string]string
	Err    string
}

// ItemPreview is the per-row view of a batch preview.
type ItemPreview struct {
	RowNumber        int               `json:"rowNumber"`
	Status           models.ItemStatus `json:"status"`
	Date             string            `json:"date,omitempty"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency,omitempty"`
	Description      string            `json:"description,omitempty"`
	Diagnostic       string            `json:"diagnostic,omitempty"`
	SuggestedKeyword string            `json:"suggestedKeyword,omitempty"`
}

// Preview summarizes a parsed batch so the caller can decide whether to
// commit it.
type Preview struct {
	BatchID       uuid.UUID                `json:"batchId"`
	Status        models.BatchStatus       `json:"status"`
	TotalRows     int                      `json:"totalRows"`
	NewRows       int                      `json:"newRows"`
	DuplicateRows int                      `json:"duplicateRows"`
	InvalidRows   int                      `json:"invalidRows"`
	NewAmount     decimal.Decimal          `json:"newAmount"` // Sum of the new rows' amounts
	Diagnostics   []models.BatchDiagnostic `json:"diagnostics"`
	Items         []ItemPreview            `json:"items"`
}

// CommitResult reports the exact outcome of a commit so the caller can
// reconcile expectations against ledger state.
type CommitResult struct {
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors"`
}

// RollbackResult reports the outcome of a rollback. Warnings list
// manually edited transactions that were preserved.
type RollbackResult struct {
	Removed  int      `json:"removed"`
	Warnings []string `json:"warnings"`
}

// ApplyResult reports the outcome of re-running the rule engine over the
// existing ledger.
type ApplyResult struct {
	Categorized  int `json:"categorized"`
	StillPending int `json:"stillPending"`
}
