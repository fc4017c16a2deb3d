package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlift/backend/internal/importer"
	"github.com/ledgerlift/backend/internal/models"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
)

type BatchLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/batches/d430d7c3-d14c-4712-9336-ee56965a6673"`          // The batch itself
	Commit   string `json:"commit" example:"https://example.com/api/v1/batches/d430d7c3-d14c-4712-9336-ee56965a6673/commit"` // Commit endpoint for this batch
	Rollback string `json:"rollback" example:"https://example.com/api/v1/batches/d430d7c3-d14c-4712-9336-ee56965a6673/rollback"`
}

// Batch is the representation of an ingestion batch in API v1.
type Batch struct {
	models.DefaultModel
	OwnerID       string                   `json:"ownerId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`
	SourceType    string                   `json:"sourceType" example:"csv"`
	Filename      string                   `json:"filename" example:"statement-2026-07.csv"`
	ContentHash   string                   `json:"contentHash" example:"867e3a26dc0baf73f4bff506f31a97f6c32088917e9e5cf1a5ed6f3f84a6fa70"`
	Status        models.BatchStatus       `json:"status" example:"preview"`
	TotalRows     int                      `json:"totalRows" example:"120"`
	NewRows       int                      `json:"newRows" example:"97"`
	DuplicateRows int                      `json:"duplicateRows" example:"20"`
	InvalidRows   int                      `json:"invalidRows" example:"3"`
	Diagnostics   []models.BatchDiagnostic `json:"diagnostics"`
	Links         BatchLinks               `json:"links"`
}

// newBatch returns the API v1 representation of the resource
func newBatch(c *gin.Context, model models.Batch) Batch {
	url := c.GetString(string(models.DBContextURL))

	diagnostics := model.Diagnostics
	if diagnostics == nil {
		diagnostics = make([]models.BatchDiagnostic, 0)
	}

	return Batch{
		DefaultModel:  model.DefaultModel,
		OwnerID:       model.OwnerID.String(),
		SourceType:    model.SourceType,
		Filename:      model.Filename,
		ContentHash:   model.ContentHash,
		Status:        model.Status,
		TotalRows:     model.TotalRows,
		NewRows:       model.NewRows,
		DuplicateRows: model.DuplicateRows,
		InvalidRows:   model.InvalidRows,
		Diagnostics:   diagnostics,
		Links: BatchLinks{
			Self:     fmt.Sprintf("%s/v1/batches/%s", url, model.ID),
			Commit:   fmt.Sprintf("%s/v1/batches/%s/commit", url, model.ID),
			Rollback: fmt.Sprintf("%s/v1/batches/%s/rollback", url, model.ID),
		},
	}
}

type BatchQueryFilter struct {
	Owner  ll_uuid.UUID `form:"owner" binding:"required" filterField:"false"` // The owner the batches belong to
	Status string       `form:"status" filterField:"false"`                   // Filter by batch status
	Offset uint         `form:"offset" filterField:"false"`                   // The offset of the first Batch returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`                    // Maximum number of Batches to return. Defaults to 50.
}

type BatchListResponse struct {
	Data       []Batch     `json:"data"`                                                          // List of batches
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BatchPreviewResponse struct {
	Data  *importer.Preview `json:"data"`                                                          // The batch preview
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BatchCommitResponse struct {
	Data  *importer.CommitResult `json:"data"`                                                       // The commit outcome
	Error *string                `json:"error" example:"the batch is not in preview status anymore"` // The error, if any occurred
}

type BatchRollbackResponse struct {
	Data  *importer.RollbackResult `json:"data"`                                             // The rollback outcome
	Error *string                  `json:"error" example:"the batch has not been committed"` // The error, if any occurred
}
