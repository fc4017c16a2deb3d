package v1

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlift/backend/internal/httputil"
	"github.com/ledgerlift/backend/internal/models"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Transaction{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Get transactions
// @Description	Returns a list of the owner's ledger transactions
// @Tags			Transactions
// @Produce		json
// @Success		200				{object}	TransactionListResponse
// @Failure		400				{object}	TransactionListResponse
// @Failure		500				{object}	TransactionListResponse
// @Param			owner			query		string	true	"Owner the transactions belong to"
// @Param			batch			query		string	false	"Filter by origin batch ID"
// @Param			fromDate		query		string	false	"Payment date from this date on"
// @Param			untilDate		query		string	false	"Payment date until this date"
// @Param			category		query		string	false	"Filter by first category level"
// @Param			description		query		string	false	"Filter by description, partial match on the normalized form"
// @Param			needsReview		query		bool	false	"Filter by review state"
// @Param			manualOverride	query		bool	false	"Filter by manual override state"
// @Param			type			query		string	false	"Filter by transaction type"
// @Param			offset			query		uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit			query		int		false	"Maximum number of Transactions to return. Defaults to 50."
// @Router			/v1/transactions [get]
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &s})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("payment_date DESC, created_at DESC").
		Where("owner_id = ?", filter.Owner.UUID).
		Where(filter.model(), queryFields...)

	if filter.Batch != ll_uuid.Nil {
		q = q.Where("batch_id = ?", filter.Batch.UUID)
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("payment_date >= date(?)", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("payment_date <= date(?)", filter.UntilDate)
	}

	if filter.CategoryLevel1 != "" {
		q = q.Where("category_level1 = ?", filter.CategoryLevel1)
	}

	if filter.Description != "" {
		q = q.Where("description_norm LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	}

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200		{object}	TransactionResponse
// @Failure		400		{object}	TransactionResponse
// @Failure		404		{object}	TransactionResponse
// @Failure		500		{object}	TransactionResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the transaction belongs to"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &s})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, "id = ? AND owner_id = ?", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Update a transaction. Only values to be updated need to be specified. Changing any categorization field marks the transaction as manually overridden, which permanently shields it from rule re-application.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner		query		string				true	"Owner the transaction belongs to"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &s})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, "id = ? AND owner_id = ?", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var data TransactionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	// The API serializes the amount in major units, the model stores
	// minor units
	for i, field := range updateFields {
		if field == "Amount" {
			updateFields[i] = "AmountCents"
		}
	}

	// A hand edit of the categorization flips the override flag
	for _, field := range updateFields {
		if name, ok := field.(string); ok && slices.Contains(categorizationFields, name) {
			updateFields = append(updateFields, "ManualOverride")
			break
		}
	}

	model := data.model()
	model.ManualOverride = true

	err = models.DB.Model(&transaction).Select("", updateFields...).Updates(model).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}
