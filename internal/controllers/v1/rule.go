package v1

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlift/backend/internal/httputil"
	"github.com/ledgerlift/backend/internal/importer"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/internal/rules"
	ll_uuid "github.com/ledgerlift/backend/internal/uuid"
)

// RegisterRuleRoutes registers the routes for categorization rules with
// the RouterGroup that is passed.
func RegisterRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRuleList)
		r.GET("", GetRules)
		r.POST("", CreateRules)
		r.POST("/seed", SeedRules)
		r.POST("/apply", ApplyRules)
	}

	// Rule with ID
	{
		r.OPTIONS("/:id", OptionsRuleDetail)
		r.GET("/:id", GetRule)
		r.PATCH("/:id", UpdateRule)
		r.DELETE("/:id", DeleteRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rules
// @Success		204
// @Router			/v1/rules [options]
func OptionsRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/rules/{id} [options]
func OptionsRuleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Rule{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create rules
// @Description	Creates rules from the list of submitted rule data. The response code is the highest response code number that a single rule creation would have caused. If it is not equal to 201, at least one rule has an error.
// @Tags			Rules
// @Produce		json
// @Success		201		{object}	RuleCreateResponse
// @Failure		400		{object}	RuleCreateResponse
// @Failure		500		{object}	RuleCreateResponse
// @Param			rules	body		[]RuleEditable	true	"Rules"
// @Router			/v1/rules [post]
func CreateRules(c *gin.Context) {
	var editables []RuleEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleCreateResponse{Error: &e})
		return
	}

	// The final http status. Will be modified when errors occur
	s := http.StatusCreated
	r := RuleCreateResponse{}

	for _, editable := range editables {
		rule := editable.model()

		err = models.DB.Create(&rule).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		data := newRule(c, rule)
		r.Data = append(r.Data, RuleResponse{Data: &data})
	}

	c.JSON(s, r)
}

// @Summary		Get rules
// @Description	Returns a list of rules. When an owner is given, their rules plus the system rules are returned in evaluation order.
// @Tags			Rules
// @Produce		json
// @Success		200			{object}	RuleListResponse
// @Failure		400			{object}	RuleListResponse
// @Failure		500			{object}	RuleListResponse
// @Param			owner		query		string	false	"Rules of this owner plus the system rules"
// @Param			name		query		string	false	"Filter by name, partial match"
// @Param			category	query		string	false	"Filter by first category level"
// @Param			active		query		bool	false	"Filter by active state"
// @Param			priority	query		int		false	"Filter by priority"
// @Param			offset		query		uint	false	"The offset of the first Rule returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of Rules to return. Defaults to 50."
// @Router			/v1/rules [get]
func GetRules(c *gin.Context) {
	var filter RuleQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, RuleListResponse{Error: &s})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Evaluation order, the same the engine uses
	q := models.DB.
		Order("priority DESC, created_at ASC, id ASC").
		Where(filter.model(), queryFields...)

	if filter.Owner != ll_uuid.Nil {
		q = q.Where("owner_id = ? OR owner_id IS NULL", filter.Owner.UUID)
	}

	if filter.Name != "" {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("name = ''")
	}

	if filter.Category != "" {
		q = q.Where("category_level1 = ?", filter.Category)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var ruleSet []models.Rule
	err := q.Find(&ruleSet).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleListResponse{Error: &e})
		return
	}

	data := make([]Rule, 0, len(ruleSet))
	for _, rule := range ruleSet {
		data = append(data, newRule(c, rule))
	}

	c.JSON(http.StatusOK, RuleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get rule
// @Description	Returns a specific rule
// @Tags			Rules
// @Produce		json
// @Success		200	{object}	RuleResponse
// @Failure		400	{object}	RuleResponse
// @Failure		404	{object}	RuleResponse
// @Failure		500	{object}	RuleResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the rule belongs to. System rules are visible to every owner."
// @Router			/v1/rules/{id} [get]
func GetRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		e := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, RuleResponse{Error: &e})
		return
	}

	var rule models.Rule
	err = models.DB.First(&rule, "id = ? AND (owner_id = ? OR owner_id IS NULL)", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	data := newRule(c, rule)
	c.JSON(http.StatusOK, RuleResponse{Data: &data})
}

// @Summary		Update rule
// @Description	Update a rule. Only values to be updated need to be specified.
// @Tags			Rules
// @Accept			json
// @Produce		json
// @Success		200		{object}	RuleResponse
// @Failure		400		{object}	RuleResponse
// @Failure		404		{object}	RuleResponse
// @Failure		500		{object}	RuleResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string			true	"Owner the rule belongs to"
// @Param			rule	body		RuleEditable	true	"Rule"
// @Router			/v1/rules/{id} [patch]
func UpdateRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		e := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, RuleResponse{Error: &e})
		return
	}

	var rule models.Rule
	err = models.DB.First(&rule, "id = ? AND (owner_id = ? OR owner_id IS NULL)", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RuleEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	var data RuleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	err = models.DB.Model(&rule).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RuleResponse{Error: &e})
		return
	}

	apiResource := newRule(c, rule)
	c.JSON(http.StatusOK, RuleResponse{Data: &apiResource})
}

// @Summary		Delete rule
// @Description	Deletes a rule. Transactions categorized by it keep their categorization.
// @Tags			Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			owner	query		string	true	"Owner the rule belongs to"
// @Router			/v1/rules/{id} [delete]
func DeleteRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var query QueryOwner
	err = c.BindQuery(&query)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errOwnerParameter.Error()})
		return
	}

	var rule models.Rule
	err = models.DB.First(&rule, "id = ? AND (owner_id = ? OR owner_id IS NULL)", uri.ID.UUID, query.Owner.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&rule).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// @Summary		Seed rules
// @Description	Inserts the built-in starter rule set. Seeding is idempotent, existing system rules are never modified.
// @Tags			Rules
// @Produce		json
// @Success		201	{object}	RuleSeedResponse
// @Failure		500	{object}	RuleSeedResponse
// @Router			/v1/rules/seed [post]
func SeedRules(c *gin.Context) {
	created, err := rules.Seed(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleSeedResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, RuleSeedResponse{Data: &RuleSeedResult{Created: created}})
}

// @Summary		Apply rules
// @Description	Re-runs the rule engine over the owner's existing ledger. Manually overridden and strict-confirmed transactions are never touched.
// @Tags			Rules
// @Produce		json
// @Success		200		{object}	RuleApplyResponse
// @Failure		400		{object}	RuleApplyResponse
// @Failure		500		{object}	RuleApplyResponse
// @Param			owner	query		string	true	"Owner whose transactions are re-categorized"
// @Router			/v1/rules/apply [post]
func ApplyRules(c *gin.Context) {
	var query QueryOwner
	err := c.BindQuery(&query)
	if err != nil {
		s := errOwnerParameter.Error()
		c.JSON(http.StatusBadRequest, RuleApplyResponse{Error: &s})
		return
	}

	result, err := importer.ApplyRules(models.DB, query.Owner.UUID, ruleOptions())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleApplyResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, RuleApplyResponse{
		Data: &ApplyResult{
			Categorized:  result.Categorized,
			StillPending: result.StillPending,
		},
	})
}
