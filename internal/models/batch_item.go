package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the per-row result of parsing a batch.
type ItemStatus string

const (
	ItemStatusNew       ItemStatus = "new"
	ItemStatusDuplicate ItemStatus = "duplicate"
	ItemStatusInvalid   ItemStatus = "invalid"
)

// BatchItem represents one parsed row of a batch.
//
// The raw column values are kept verbatim for audit and replay, they are
// never used for logic. Items are immutable after creation except for the
// status, which the commit coordinator may demote from new to duplicate
// when a concurrent batch has already committed the same fingerprint.
type BatchItem struct {
	DefaultModel
	BatchID   uuid.UUID `gorm:"index;uniqueIndex:batch_item_fingerprint"`
	Batch     Batch     `json:"-"`
	RowNumber int

	// RawPayload is the schema-less bag of original column values, JSON encoded.
	RawPayload map[string]string `gorm:"serializer:json"`

	// Canonical fields, only set for items that passed normalization
	Date            time.Time
	AmountCents     int64  // Signed amount in minor units
	Currency        string // ISO code, defaults to EUR
	DescriptionRaw  string
	DescriptionNorm string

	// Fingerprint is nil for invalid items. The partial unique index only
	// covers items in status new: parsing inserts every item as new and
	// demotes it to duplicate when the insert reports a conflict, so
	// duplicates keep their fingerprint for audit.
	Fingerprint *string `gorm:"uniqueIndex:batch_item_fingerprint,where:status = 'new'"`

	Status     ItemStatus `gorm:"default:new"`
	Diagnostic string     // Reason for invalid or duplicate status
}

var ErrItemFingerprintExists = errors.New("an identical row already exists in this batch")
