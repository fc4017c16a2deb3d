package v1

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlift/backend/internal/fingerprint"
	"github.com/ledgerlift/backend/internal/httputil"
	"github.com/ledgerlift/backend/internal/importer"
	"github.com/ledgerlift/backend/internal/importer/parser/csvrow"
	"github.com/ledgerlift/backend/internal/models"
)

// RegisterBatchRoutes registers the routes for ingestion batches with
// the RouterGroup that is passed.
func RegisterBatchRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBatchList)
		r.GET("", GetBatches)
		r.POST("", CreateBatch)
	}

	// Batch with ID
	{
		r.OPTIONS("/:id", OptionsBatchDetail)
		r.GET("/:id", GetBatch)
		r.POST("/:id/commit", CommitBatch)
		r.POST("/:id/rollback", RollbackBatch)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Batches
// @Success		204
// @Router			/v1/batches [options]
func OptionsBatchList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Batches
// @Success		204
// @Failure		400	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/batches/{id} [options]
func OptionsBatchDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPost(c)
}

// getUploadedFile returns the content of the uploaded form file and
// handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (string, []byte, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return "", nil, errNoFilePost
	}
	if err != nil {
		return "", nil, err
	}

	if !strings.HasSuffix(strings.ToLower(formFile.Filename), suffix) {
		return "", nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}

	return formFile.Filename, data, nil
}

// @Summary		Create batch
// @Description	Uploads a bank statement CSV file and returns the parsed batch preview. Nothing is written to the ledger until the batch is committed.
// @Tags			Batches
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	BatchPreviewResponse
// @Failure		400		{object}	BatchPreviewResponse
// @Failure		409		{object}	BatchPreviewResponse
// @Failure		500		{object}	BatchPreviewResponse
// @Param			file	formData	file		true	"File to ingest"
// @Param			owner	query		QueryOwner	false	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/batches [post]
func CreateBatch(c *gin.Context) {
	var query QueryOwner
	err := c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, BatchPreviewResponse{Error: &s})
		return
	}

	filename, data, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchPreviewResponse{Error: &s})
		return
	}

	rows, err := csvrow.Parse(data)
	if err != nil {
		// csvrow.Parse returns a usable error already
		s := err.Error()
		c.JSON(http.StatusBadRequest, BatchPreviewResponse{Error: &s})
		return
	}

	batch, err := importer.CreateBatch(models.DB, query.Owner.UUID, "csv", filename, fingerprint.File(data))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchPreviewResponse{Error: &s})
		return
	}

	err = importer.ParseRows(models.DB, &batch, rows)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchPreviewResponse{Error: &s})
		return
	}

	preview, err := importer.GetPreview(models.DB, query.Owner.UUID, batch.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchPreviewResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, BatchPreviewResponse{Data: &preview})
}

// @Summary		List batches
// @Description	Returns a list of the owner's ingestion batches
// @Tags			Batches
// @Produce		json
// @Success		200		{object}	BatchListResponse
// @Failure		400		{object}	BatchListResponse
// @Failure		500		{object}	BatchListResponse
// @Param			owner	query		string	true	"Owner the batches belong to"
// @Param			status	query		string	false	"Filter by batch status"
// @Param			offset	query		uint	false	"The offset of the first Batch returned. Defaults to 0."
// @Param			limit	query		int		false	"Maximum number of Batches to return. Defaults to 50."
// @Router			/v1/batches [get]
func GetBatches(c *gin.Context) {
	var filter BatchQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, BatchListResponse{Error: &s})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("created_at DESC").
		Where("owner_id = ?", filter.Owner.UUID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var batches []models.Batch
	err := q.Find(&batches).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchListResponse{Error: &s})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchListResponse{Error: &s})
		return
	}

	data := make([]Batch, 0, len(batches))
	for _, batch := range batches {
		data = append(data, newBatch(c, batch))
	}

	c.JSON(http.StatusOK, BatchListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get batch
// @Description	Returns the preview of a specific batch
// @Tags			Batches
// @Produce		json
// @Success		200		{object}	BatchPreviewResponse
// @Failure		400		{object}	BatchPreviewResponse
// @Failure		404		{object}	BatchPreviewResponse
// @Failure		500		{object}	BatchPreviewResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the batch belongs to"
// @Router			/v1/batches/{id} [get]
func GetBatch(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchPreviewResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, BatchPreviewResponse{Error: &s})
		return
	}

	preview, err := importer.GetPreview(models.DB, query.Owner.UUID, uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchPreviewResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, BatchPreviewResponse{Data: &preview})
}

// @Summary		Commit batch
// @Description	Commits a batch in preview status: all new items become ledger transactions, each linked to its originating item. The commit is atomic.
// @Tags			Batches
// @Produce		json
// @Success		201		{object}	BatchCommitResponse
// @Failure		400		{object}	BatchCommitResponse
// @Failure		404		{object}	BatchCommitResponse
// @Failure		409		{object}	BatchCommitResponse
// @Failure		500		{object}	BatchCommitResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the batch belongs to"
// @Router			/v1/batches/{id}/commit [post]
func CommitBatch(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchCommitResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, BatchCommitResponse{Error: &s})
		return
	}

	result, err := importer.Commit(models.DB, query.Owner.UUID, uri.ID.UUID, ruleOptions())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchCommitResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, BatchCommitResponse{Data: &result})
}

// @Summary		Roll back batch
// @Description	Rolls back a committed batch: all transactions and provenance links created by it are removed. Manually edited transactions are preserved and reported as warnings.
// @Tags			Batches
// @Produce		json
// @Success		200		{object}	BatchRollbackResponse
// @Failure		400		{object}	BatchRollbackResponse
// @Failure		404		{object}	BatchRollbackResponse
// @Failure		409		{object}	BatchRollbackResponse
// @Failure		500		{object}	BatchRollbackResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the batch belongs to"
// @Router			/v1/batches/{id}/rollback [post]
func RollbackBatch(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchRollbackResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, BatchRollbackResponse{Error: &s})
		return
	}

	result, err := importer.Rollback(models.DB, query.Owner.UUID, uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchRollbackResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, BatchRollbackResponse{Data: &result})
}
