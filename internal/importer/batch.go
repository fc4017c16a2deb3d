package importer

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/fingerprint"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/internal/normalize"
	"github.com/ledgerlift/backend/internal/rules"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateBatch creates a batch in preview status.
//
// Creation fails with ErrBatchFileAlreadyImported when the content hash
// matches a committed batch of the same owner: this is the whole-file
// idempotency guard on top of the row-level fingerprint guard. The caller
// gets "duplicate file", not a preview full of duplicate rows.
func CreateBatch(db *gorm.DB, ownerID uuid.UUID, sourceType, filename, contentHash string) (models.Batch, error) {
	var count int64
	err := db.Model(&models.Batch{}).
		Where(&models.Batch{
			OwnerID:     ownerID,
			ContentHash: contentHash,
			Status:      models.BatchStatusCommitted,
		}).
		Count(&count).Error
	if err != nil {
		return models.Batch{}, err
	}

	if count > 0 {
		return models.Batch{}, models.ErrBatchFileAlreadyImported
	}

	batch := models.Batch{
		OwnerID:     ownerID,
		SourceType:  sourceType,
		Filename:    filename,
		ContentHash: contentHash,
		Status:      models.BatchStatusPreview,
	}

	err = db.Create(&batch).Error
	if err != nil {
		return models.Batch{}, err
	}

	return batch, nil
}

// ParseRows normalizes all rows of a batch, computes fingerprints and
// marks each resulting item as new, duplicate or invalid.
//
// Deduplication happens on two levels: against the owner's committed
// ledger entries and against other items of this same batch. The in-batch
// check is an atomic insert-or-detect-conflict on the partial unique
// fingerprint index, not a read-then-write, so concurrent parsing of
// overlapping uploads cannot slip a row past the guard.
//
// Row failures never abort the parse: a bad row degrades to invalid with
// a diagnostic and parsing continues.
func ParseRows(db *gorm.DB, batch *models.Batch, batchRows []Row) error {
	if batch.Status != models.BatchStatusPreview {
		return models.ErrBatchNotPreview
	}

	records := make([]normalize.RawRecord, 0, len(batchRows))
	for _, row := range batchRows {
		if row.Err == "" {
			records = append(records, row.Record)
		}
	}
	normalizer := normalize.ForBatch(records)

	diagnostics := batch.Diagnostics
	if normalizer.AmountFormat == normalize.AmountFormatUnknown && len(records) > 0 {
		diagnostics = append(diagnostics, models.BatchDiagnostic{
			Code:    "AMOUNT_FORMAT_AMBIGUOUS",
			Message: "no dominant decimal separator convention could be detected for this batch",
		})
	}
	if normalizer.DateLayout == "" && len(records) > 0 {
		diagnostics = append(diagnostics, models.BatchDiagnostic{
			Code:    "DATE_FORMAT_UNKNOWN",
			Message: "no dominant date format could be detected for this batch",
		})
	}

	var newCount, duplicateCount, invalidCount int

	for _, row := range batchRows {
		item := models.BatchItem{
			BatchID:    batch.ID,
			RowNumber:  row.Number,
			RawPayload: row.Raw,
		}

		if row.Err != "" {
			item.Status = models.ItemStatusInvalid
			item.Diagnostic = row.Err
		} else if record, err := normalizer.Record(row.Record); err != nil {
			item.Status = models.ItemStatusInvalid
			item.Diagnostic = err.Error()
		} else {
			hash := fingerprint.Hash(record)
			item.Date = record.Date
			item.AmountCents = record.AmountCents
			item.Currency = record.Currency
			item.DescriptionRaw = record.DescriptionRaw
			item.DescriptionNorm = record.DescriptionNorm
			item.Fingerprint = &hash
			item.Status = models.ItemStatusNew

			// Ledger-level dedup: committed imports of the same owner
			duplicate, err := ledgerHasFingerprint(db, batch.OwnerID, hash)
			if err != nil {
				return err
			}
			if duplicate {
				item.Status = models.ItemStatusDuplicate
				item.Diagnostic = "an identical transaction is already in the ledger"
			}
		}

		err := db.Create(&item).Error

		// In-batch dedup: the partial unique index rejects a second new
		// item with the same fingerprint, re-insert it as duplicate.
		if errors.Is(err, models.ErrItemFingerprintExists) {
			item.ID = uuid.Nil
			item.Status = models.ItemStatusDuplicate
			item.Diagnostic = models.ErrItemFingerprintExists.Error()
			err = db.Create(&item).Error
		}
		if err != nil {
			return err
		}

		switch item.Status {
		case models.ItemStatusNew:
			newCount++
		case models.ItemStatusDuplicate:
			duplicateCount++
		case models.ItemStatusInvalid:
			invalidCount++
			if item.Diagnostic != "" {
				diagnostics = append(diagnostics, models.BatchDiagnostic{
					RowNumber: row.Number,
					Code:      "ROW_INVALID",
					Message:   item.Diagnostic,
				})
			}
		}
	}

	batch.TotalRows = len(batchRows)
	batch.NewRows = newCount
	batch.DuplicateRows = duplicateCount
	batch.InvalidRows = invalidCount
	batch.Diagnostics = diagnostics

	err := db.Model(batch).
		Select("TotalRows", "NewRows", "DuplicateRows", "InvalidRows", "Diagnostics").
		Updates(batch).Error
	if err != nil {
		return err
	}

	log.Debug().
		Str("batch", batch.ID.String()).
		Int("rows", len(batchRows)).
		Int("new", newCount).
		Int("duplicate", duplicateCount).
		Int("invalid", invalidCount).
		Msg("batch parsed")

	return nil
}

func ledgerHasFingerprint(db *gorm.DB, ownerID uuid.UUID, hash string) (bool, error) {
	var count int64
	err := db.Model(&models.Transaction{}).
		Where("owner_id = ? AND dedup_key = ?", ownerID, hash).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetPreview assembles the preview summary of a batch.
func GetPreview(db *gorm.DB, ownerID, batchID uuid.UUID) (Preview, error) {
	var batch models.Batch
	err := db.First(&batch, "id = ? AND owner_id = ?", batchID, ownerID).Error
	if err != nil {
		return Preview{}, err
	}

	var items []models.BatchItem
	err = db.Where(&models.BatchItem{BatchID: batch.ID}).
		Order("row_number ASC").
		Find(&items).Error
	if err != nil {
		return Preview{}, err
	}

	preview := Preview{
		BatchID:       batch.ID,
		Status:        batch.Status,
		TotalRows:     batch.TotalRows,
		NewRows:       batch.NewRows,
		DuplicateRows: batch.DuplicateRows,
		InvalidRows:   batch.InvalidRows,
		Diagnostics:   batch.Diagnostics,
		NewAmount:     decimal.Zero,
		Items:         make([]ItemPreview, 0, len(items)),
	}

	for _, item := range items {
		p := ItemPreview{
			RowNumber:   item.RowNumber,
			Status:      item.Status,
			Amount:      decimal.New(item.AmountCents, -2),
			Currency:    item.Currency,
			Description: item.DescriptionRaw,
			Diagnostic:  item.Diagnostic,
		}

		if item.Status != models.ItemStatusInvalid {
			p.Date = item.Date.Format("2006-01-02")
		}

		if item.Status == models.ItemStatusNew {
			preview.NewAmount = preview.NewAmount.Add(p.Amount)
			p.SuggestedKeyword = rules.SuggestKeyword(item.DescriptionNorm)
		}

		preview.Items = append(preview.Items, p)
	}

	if preview.Diagnostics == nil {
		preview.Diagnostics = make([]models.BatchDiagnostic, 0)
	}

	return preview, nil
}
