package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/internal/rules"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// claimBatch flips the batch status inside the transaction, using the
// current status as an optimistic concurrency guard. Zero affected rows
// means the batch either does not exist or has already moved on, so a
// concurrent commit or rollback of the same batch loses cleanly.
func claimBatch(tx *gorm.DB, ownerID, batchID uuid.UUID, from, to models.BatchStatus) (models.Batch, error) {
	res := tx.Model(&models.Batch{}).
		Where("id = ? AND owner_id = ? AND status = ?", batchID, ownerID, from).
		Update("status", to)
	if res.Error != nil {
		return models.Batch{}, res.Error
	}

	var batch models.Batch
	err := tx.First(&batch, "id = ? AND owner_id = ?", batchID, ownerID).Error
	if err != nil {
		return models.Batch{}, err
	}

	if res.RowsAffected == 0 {
		switch from {
		case models.BatchStatusPreview:
			return models.Batch{}, models.ErrBatchNotPreview
		default:
			return models.Batch{}, models.ErrBatchNotCommitted
		}
	}

	return batch, nil
}

// Commit turns all new items of a preview batch into ledger transactions.
//
// The whole operation runs in one database transaction: every new item is
// classified, inserted into the ledger and linked to its originating item,
// then the batch flips to committed. On any unexpected failure everything
// is undone and the batch stays in preview. Items marked duplicate or
// invalid contribute nothing and never block the commit.
//
// A dedup-key conflict during the insert means another batch committed an
// identical row after this batch was parsed. The item is demoted to
// duplicate and the commit continues, matching the insert-time constraint
// model instead of a racy check-then-insert.
func Commit(db *gorm.DB, ownerID, batchID uuid.UUID, opts rules.Options) (CommitResult, error) {
	start := time.Now()
	result := CommitResult{Errors: make([]string, 0)}

	ruleSet, err := ActiveRules(db, ownerID)
	if err != nil {
		return result, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		batch, err := claimBatch(tx, ownerID, batchID, models.BatchStatusPreview, models.BatchStatusProcessing)
		if err != nil {
			return err
		}

		var items []models.BatchItem
		err = tx.Where(&models.BatchItem{BatchID: batch.ID, Status: models.ItemStatusNew}).
			Order("row_number ASC").
			Find(&items).Error
		if err != nil {
			return err
		}

		for _, item := range items {
			classification := rules.Classify(item.DescriptionNorm, ruleSet, opts)

			transaction := models.Transaction{
				OwnerID:           ownerID,
				PaymentDate:       item.Date,
				AmountCents:       item.AmountCents,
				Currency:          item.Currency,
				DescriptionRaw:    item.DescriptionRaw,
				DescriptionNorm:   item.DescriptionNorm,
				CategoryLevel1:    classification.CategoryLevel1,
				CategoryLevel2:    classification.CategoryLevel2,
				CategoryLevel3:    classification.CategoryLevel3,
				Type:              transactionType(classification, item.AmountCents),
				FixVar:            classification.FixVar,
				NeedsReview:       classification.NeedsReview,
				RuleApplied:       classification.RuleID,
				Confidence:        classification.Confidence,
				InternalTransfer:  classification.InternalTransfer,
				ExcludeFromBudget: classification.ExcludeFromBudget,
				BatchID:           &batch.ID,
				DedupKey:          item.Fingerprint,
			}

			err = tx.Create(&transaction).Error
			if errors.Is(err, models.ErrTransactionDedupKeyExists) {
				// A concurrent batch won the race for this fingerprint
				err = tx.Model(&models.BatchItem{}).
					Where("id = ?", item.ID).
					Updates(map[string]any{
						"status":     models.ItemStatusDuplicate,
						"diagnostic": models.ErrTransactionDedupKeyExists.Error(),
					}).Error
				if err != nil {
					return err
				}

				result.Duplicates++
				continue
			}
			if err != nil {
				return fmt.Errorf("row %d: %w", item.RowNumber, err)
			}

			err = tx.Create(&models.EvidenceLink{
				TransactionID: transaction.ID,
				BatchItemID:   item.ID,
			}).Error
			if err != nil {
				return fmt.Errorf("row %d: %w", item.RowNumber, err)
			}

			if classification.Conflict != nil {
				err = tx.Create(&models.RuleConflict{
					OwnerID:         ownerID,
					DescriptionNorm: item.DescriptionNorm,
					Priority:        classification.Conflict.Priority,
					WinnerID:        *classification.RuleID,
					CandidateIDs:    classification.Conflict.CandidateIDs,
					Categories:      classification.Conflict.Categories,
				}).Error
				if err != nil {
					return err
				}
			}

			result.Imported++
		}

		result.Duplicates += batch.DuplicateRows

		return tx.Model(&models.Batch{}).
			Where("id = ?", batch.ID).
			Updates(map[string]any{
				"status":         models.BatchStatusCommitted,
				"new_rows":       result.Imported,
				"duplicate_rows": result.Duplicates,
			}).Error
	})
	if err != nil {
		// The transaction rolled back, the batch is still in preview
		return CommitResult{Errors: []string{err.Error()}}, err
	}

	log.Info().
		Str("batch", batchID.String()).
		Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).
		Dur("duration", time.Since(start)).
		Msg("batch committed")

	return result, nil
}

// transactionType prefers the matched rule's type and falls back to the
// sign of the amount for unclassified rows.
func transactionType(classification rules.Result, amountCents int64) models.TransactionType {
	if classification.Type != "" {
		return classification.Type
	}
	if amountCents < 0 {
		return models.TypeExpense
	}
	return models.TypeIncome
}

// Rollback fully reverses a committed batch.
//
// All evidence links and transactions originating from the batch are
// removed in one database transaction and the batch becomes rolled_back,
// which is terminal. Transactions a human has edited since the import are
// preserved together with their provenance and reported as warnings
// instead of being deleted silently.
func Rollback(db *gorm.DB, ownerID, batchID uuid.UUID) (RollbackResult, error) {
	result := RollbackResult{Warnings: make([]string, 0)}

	err := db.Transaction(func(tx *gorm.DB) error {
		batch, err := claimBatch(tx, ownerID, batchID, models.BatchStatusCommitted, models.BatchStatusProcessing)
		if err != nil {
			return err
		}

		var overridden []models.Transaction
		err = tx.Where("batch_id = ? AND manual_override", batch.ID).
			Find(&overridden).Error
		if err != nil {
			return err
		}

		for _, t := range overridden {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("transaction %s was edited manually and has been kept", t.ID))
		}

		err = tx.
			Where("transaction_id IN (?)",
				tx.Model(&models.Transaction{}).
					Select("id").
					Where("batch_id = ? AND NOT manual_override", batch.ID),
			).
			Delete(&models.EvidenceLink{}).Error
		if err != nil {
			return err
		}

		res := tx.Where("batch_id = ? AND NOT manual_override", batch.ID).
			Delete(&models.Transaction{})
		if res.Error != nil {
			return res.Error
		}
		result.Removed = int(res.RowsAffected)

		return tx.Model(&models.Batch{}).
			Where("id = ?", batch.ID).
			Update("status", models.BatchStatusRolledBack).Error
	})
	if err != nil {
		return RollbackResult{Warnings: make([]string, 0)}, err
	}

	log.Info().
		Str("batch", batchID.String()).
		Int("removed", result.Removed).
		Int("warnings", len(result.Warnings)).
		Msg("batch rolled back")

	return result, nil
}

// ActiveRules loads the active rules visible to an owner: their own plus
// the system-wide ones.
func ActiveRules(db *gorm.DB, ownerID uuid.UUID) ([]models.Rule, error) {
	var ruleSet []models.Rule
	err := db.
		Where("active AND (owner_id = ? OR owner_id IS NULL)", ownerID).
		Order("priority DESC, created_at ASC, id ASC").
		Find(&ruleSet).Error
	if err != nil {
		return nil, err
	}
	return ruleSet, nil
}

// ApplyRules re-runs the rule engine over the owner's existing ledger.
//
// Transactions with a manual override are never touched. Strict-confirmed
// entries (confidence 100) are considered settled and are skipped as
// well, everything else is reclassified against the current rule set.
func ApplyRules(db *gorm.DB, ownerID uuid.UUID, opts rules.Options) (ApplyResult, error) {
	var result ApplyResult

	ruleSet, err := ActiveRules(db, ownerID)
	if err != nil {
		return result, err
	}

	var transactions []models.Transaction
	err = db.
		Where("owner_id = ? AND NOT manual_override AND confidence < ?", ownerID, rules.ConfidenceStrict).
		Order("created_at ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return result, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, transaction := range transactions {
			classification := rules.Classify(transaction.DescriptionNorm, ruleSet, opts)

			if classification.RuleID == nil {
				result.StillPending++
				continue
			}

			err := tx.Model(&models.Transaction{}).
				Where("id = ?", transaction.ID).
				Updates(map[string]any{
					"category_level1":     classification.CategoryLevel1,
					"category_level2":     classification.CategoryLevel2,
					"category_level3":     classification.CategoryLevel3,
					"type":                transactionType(classification, transaction.AmountCents),
					"fix_var":             classification.FixVar,
					"needs_review":        classification.NeedsReview,
					"rule_applied":        classification.RuleID,
					"confidence":          classification.Confidence,
					"internal_transfer":   classification.InternalTransfer,
					"exclude_from_budget": classification.ExcludeFromBudget,
				}).Error
			if err != nil {
				return err
			}

			if classification.NeedsReview {
				result.StillPending++
			} else {
				result.Categorized++
			}
		}

		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	return result, nil
}
