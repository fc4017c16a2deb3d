package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchStatus is the lifecycle state of an ingestion batch.
//
// Allowed transitions are preview -> committed, preview -> rolled_back and
// committed -> rolled_back. A rolled back batch is terminal, re-importing
// the file creates a new batch.
type BatchStatus string

const (
	BatchStatusPreview    BatchStatus = "preview"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCommitted  BatchStatus = "committed"
	BatchStatusRolledBack BatchStatus = "rolled_back"
)

// Batch represents one uploaded statement file.
type Batch struct {
	DefaultModel
	OwnerID     uuid.UUID   `gorm:"index"`
	SourceType  string      // Identifier of the statement format, e.g. "milesandmore", "sparkasse"
	Filename    string
	ContentHash string      // SHA256 of the raw file, used for the duplicate file guard
	Status      BatchStatus `gorm:"default:preview"`
	TotalRows   int
	NewRows     int
	DuplicateRows int
	InvalidRows int
	Diagnostics []BatchDiagnostic `gorm:"serializer:json"`
}

// BatchDiagnostic is one parse-time observation about the batch, e.g. a
// format drift warning. Diagnostics never abort a batch, they accumulate.
type BatchDiagnostic struct {
	RowNumber int    `json:"rowNumber,omitempty"` // 0 for batch-level diagnostics
	Code      string `json:"code"`
	Message   string `json:"message"`
}

var (
	ErrBatchFileAlreadyImported = errors.New("this file has already been imported")
	ErrBatchNotPreview          = errors.New("the batch is not in preview state")
	ErrBatchNotCommitted        = errors.New("the batch is not in committed state")
	ErrBatchOperationInProgress = errors.New("another operation is already running for this batch")
)

func (b *Batch) BeforeSave(_ *gorm.DB) error {
	b.Filename = strings.TrimSpace(b.Filename)
	b.ContentHash = strings.TrimSpace(b.ContentHash)
	return nil
}
