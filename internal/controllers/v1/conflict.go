package v1

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerlift/backend/internal/httputil"
	"github.com/ledgerlift/backend/internal/models"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
)

// RegisterConflictRoutes registers the routes for rule conflicts with
// the RouterGroup that is passed.
func RegisterConflictRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsConflictList)
		r.GET("", GetConflicts)
	}

	// Conflict with ID
	{
		r.OPTIONS("/:id", OptionsConflictDetail)
		r.GET("/:id", GetConflict)
		r.PATCH("/:id", UpdateConflict)
	}
}

// RuleConflict is the representation of a rule conflict in API v1.
type RuleConflict struct {
	models.DefaultModel
	OwnerID         string      `json:"ownerId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`
	DescriptionNorm string      `json:"descriptionNorm" example:"LIDL SAGT DANKE FIL 4411"`
	Priority        int         `json:"priority" example:"500"`
	WinnerID        uuid.UUID   `json:"winnerId" example:"95685c82-53c6-455d-b235-f49960b73b21"`
	CandidateIDs    []uuid.UUID `json:"candidateIds"`
	Categories      []string    `json:"categories"`
	Resolved        bool        `json:"resolved" example:"false"`
}

func newRuleConflict(model models.RuleConflict) RuleConflict {
	return RuleConflict{
		DefaultModel:    model.DefaultModel,
		OwnerID:         model.OwnerID.String(),
		DescriptionNorm: model.DescriptionNorm,
		Priority:        model.Priority,
		WinnerID:        model.WinnerID,
		CandidateIDs:    model.CandidateIDs,
		Categories:      model.Categories,
		Resolved:        model.Resolved,
	}
}

type RuleConflictEditable struct {
	Resolved bool `json:"resolved" example:"true"` // Mark the conflict as handled
}

type RuleConflictQueryFilter struct {
	Owner    ll_uuid.UUID `form:"owner" binding:"required" filterField:"false"` // Owner the conflicts belong to
	Resolved bool         `form:"resolved"`                                     // Filter by resolution state
	Offset   uint         `form:"offset" filterField:"false"`                   // The offset of the first conflict returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`                    // Maximum number of conflicts to return. Defaults to 50.
}

type RuleConflictListResponse struct {
	Data       []RuleConflict `json:"data"`                                                          // List of rule conflicts
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type RuleConflictResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *RuleConflict `json:"data"`                                                          // The conflict data
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Conflicts
// @Success		204
// @Router			/v1/conflicts [options]
func OptionsConflictList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Conflicts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/conflicts/{id} [options]
func OptionsConflictDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.RuleConflict{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Get rule conflicts
// @Description	Returns a list of the owner's rule conflicts. A conflict records rules tied at the same priority with differing outcomes, the classification winner stays deterministic.
// @Tags			Conflicts
// @Produce		json
// @Success		200			{object}	RuleConflictListResponse
// @Failure		400			{object}	RuleConflictListResponse
// @Failure		500			{object}	RuleConflictListResponse
// @Param			owner		query		string	true	"Owner the conflicts belong to"
// @Param			resolved	query		bool	false	"Filter by resolution state"
// @Param			offset		query		uint	false	"The offset of the first conflict returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of conflicts to return. Defaults to 50."
// @Router			/v1/conflicts [get]
func GetConflicts(c *gin.Context) {
	var filter RuleConflictQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, RuleConflictListResponse{Error: &s})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("created_at DESC").
		Where("owner_id = ?", filter.Owner.UUID)

	if slices.Contains(setFields, "Resolved") {
		q = q.Where("resolved = ?", filter.Resolved)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var conflicts []models.RuleConflict
	err := q.Find(&conflicts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictListResponse{Error: &s})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictListResponse{Error: &s})
		return
	}

	data := make([]RuleConflict, 0, len(conflicts))
	for _, conflict := range conflicts {
		data = append(data, newRuleConflict(conflict))
	}

	c.JSON(http.StatusOK, RuleConflictListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get rule conflict
// @Description	Returns a specific rule conflict
// @Tags			Conflicts
// @Produce		json
// @Success		200	{object}	RuleConflictResponse
// @Failure		400	{object}	RuleConflictResponse
// @Failure		404	{object}	RuleConflictResponse
// @Failure		500	{object}	RuleConflictResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the conflict belongs to"
// @Router			/v1/conflicts/{id} [get]
func GetConflict(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, RuleConflictResponse{Error: &s})
		return
	}

	var conflict models.RuleConflict
	err = models.DB.First(&conflict, "id = ? AND owner_id = ?", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictResponse{Error: &s})
		return
	}

	data := newRuleConflict(conflict)
	c.JSON(http.StatusOK, RuleConflictResponse{Data: &data})
}

// @Summary		Update rule conflict
// @Description	Marks a rule conflict as resolved or unresolved
// @Tags			Conflicts
// @Accept			json
// @Produce		json
// @Success		200			{object}	RuleConflictResponse
// @Failure		400			{object}	RuleConflictResponse
// @Failure		404			{object}	RuleConflictResponse
// @Failure		500			{object}	RuleConflictResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner		query		string					true	"Owner the conflict belongs to"
// @Param			conflict	body		RuleConflictEditable	true	"Conflict"
// @Router			/v1/conflicts/{id} [patch]
func UpdateConflict(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictResponse{Error: &s})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, RuleConflictResponse{Error: &s})
		return
	}

	var conflict models.RuleConflict
	err = models.DB.First(&conflict, "id = ? AND owner_id = ?", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictResponse{Error: &s})
		return
	}

	var data RuleConflictEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictResponse{Error: &s})
		return
	}

	err = models.DB.Model(&conflict).Update("resolved", data.Resolved).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleConflictResponse{Error: &s})
		return
	}

	apiResource := newRuleConflict(conflict)
	c.JSON(http.StatusOK, RuleConflictResponse{Data: &apiResource})
}
