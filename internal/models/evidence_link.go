package models

import (
	"errors"

	"github.com/google/uuid"
)

// EvidenceLink is the provenance join between a ledger transaction and the
// ingestion item that produced it.
//
// Exactly one link exists per ingested transaction, none for manual
// entries. Links are append-only during commit and removed atomically with
// their transactions on rollback.
type EvidenceLink struct {
	DefaultModel
	TransactionID uuid.UUID   `gorm:"uniqueIndex"`
	Transaction   Transaction `json:"-"`
	BatchItemID   uuid.UUID   `gorm:"index"`
	BatchItem     BatchItem   `json:"-"`
}

var ErrEvidenceLinkExists = errors.New("the transaction already has an evidence link")
