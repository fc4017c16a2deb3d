package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/ledgerlift/backend/internal/controllers/v1"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/test"
)

// createTestRule creates a rule via the API and returns its
// representation.
func (suite *TestSuiteStandard) createTestRule(editable v1.RuleEditable) v1.Rule {
	if editable.Name == "" {
		editable.Name = "Groceries"
	}
	if editable.Keywords == "" {
		editable.Keywords = "LIDL;ALDI;REWE"
	}
	if editable.Priority == 0 {
		editable.Priority = 500
	}
	editable.Active = true

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rules", []v1.RuleEditable{editable})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.RuleCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Require().NotNil(response.Data[0].Data)

	return *response.Data[0].Data
}

func (suite *TestSuiteStandard) TestOptionsRule() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/rules", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	rule := suite.createTestRule(v1.RuleEditable{})
	recorder = test.Request(suite.T(), http.MethodOptions, rule.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH, DELETE", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/rules/%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateRules() {
	ownerID := uuid.New()

	rule := suite.createTestRule(v1.RuleEditable{
		OwnerID:        &ownerID,
		Name:           "Fuel",
		Keywords:       "ARAL;SHELL;ESSO",
		CategoryLevel1: "Mobility",
		Type:           models.TypeExpense,
	})

	suite.Assert().Equal("Fuel", rule.Name)
	suite.Assert().Equal("Mobility", rule.CategoryLevel1)
	suite.Assert().False(rule.System)
	suite.Assert().Contains(rule.Links.Self, fmt.Sprintf("/v1/rules/%s", rule.ID))
}

func (suite *TestSuiteStandard) TestCreateRulesInvalid() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rules", []v1.RuleEditable{
		{Name: "Valid", Keywords: "OK", Active: true},
		{Name: "No keywords", Active: true},
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.RuleCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().NotNil(response.Data[0].Data)
	suite.Require().NotNil(response.Data[1].Error)
	suite.Assert().Equal("a rule requires at least one keyword", *response.Data[1].Error)
}

func (suite *TestSuiteStandard) TestCreateRulesEmptyBody() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rules", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.RuleCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Error)
	suite.Assert().Equal("the request body must not be empty", *response.Error)
}

func (suite *TestSuiteStandard) TestGetRules() {
	ownerID := uuid.New()

	suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "Low", Keywords: "LOW", Priority: 100})
	suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "High", Keywords: "HIGH", Priority: 900})
	suite.createTestRule(v1.RuleEditable{Name: "System wide", Keywords: "SYSTEM", Priority: 500})

	// Rules of another owner stay invisible
	otherID := uuid.New()
	suite.createTestRule(v1.RuleEditable{OwnerID: &otherID, Name: "Other", Keywords: "OTHER"})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/rules?owner=%s", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().Len(response.Data, 3)

	// Evaluation order: highest priority first
	suite.Assert().Equal("High", response.Data[0].Name)
	suite.Assert().Equal("System wide", response.Data[1].Name)
	suite.Assert().Equal("Low", response.Data[2].Name)
}

func (suite *TestSuiteStandard) TestGetRulesFilterName() {
	ownerID := uuid.New()
	suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "Groceries", Keywords: "LIDL"})
	suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "Fuel", Keywords: "ARAL"})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/rules?owner=%s&name=groc", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Groceries", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestGetRule() {
	ownerID := uuid.New()
	rule := suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID})

	recorder := test.Request(suite.T(), http.MethodGet, forOwner(rule.Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(rule.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetRuleSystemWide() {
	rule := suite.createTestRule(v1.RuleEditable{})

	// A rule without an owner is visible to every owner
	recorder := test.Request(suite.T(), http.MethodGet, forOwner(rule.Links.Self, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(rule.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetRuleNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/rules/%s?owner=%s", uuid.New(), uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestRuleWrongOwner() {
	ownerID := uuid.New()
	rule := suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "Mine", Keywords: "MINE"})

	// Another owner's rules are invisible and untouchable
	recorder := test.Request(suite.T(), http.MethodGet, forOwner(rule.Links.Self, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodPatch, forOwner(rule.Links.Self, uuid.New()), map[string]any{
		"name": "Not Yours",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodDelete, forOwner(rule.Links.Self, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodGet, forOwner(rule.Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Mine", response.Data.Name)
}

func (suite *TestSuiteStandard) TestUpdateRule() {
	ownerID := uuid.New()
	rule := suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID})

	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(rule.Links.Self, ownerID), map[string]any{
		"name":     "Renamed",
		"priority": 750,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Renamed", response.Data.Name)
	suite.Assert().Equal(750, response.Data.Priority)

	// Untouched fields keep their values
	suite.Assert().Equal(rule.Keywords, response.Data.Keywords)
}

func (suite *TestSuiteStandard) TestUpdateRuleInvalidBody() {
	ownerID := uuid.New()
	rule := suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID})

	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(rule.Links.Self, ownerID), `{"name":`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteRule() {
	ownerID := uuid.New()
	rule := suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID})

	recorder := test.Request(suite.T(), http.MethodDelete, forOwner(rule.Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, forOwner(rule.Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestRuleOwnerRequired() {
	rule := suite.createTestRule(v1.RuleEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, rule.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodDelete, rule.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSeedRules() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rules/seed", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.RuleSeedResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(14, response.Data.Created)

	// Seeding is idempotent
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rules/seed", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(0, response.Data.Created)
}

func (suite *TestSuiteStandard) TestApplyRules() {
	ownerID := uuid.New()
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)
	suite.commitTestBatch(ownerID, response.Data.BatchID)

	suite.createTestRule(v1.RuleEditable{
		OwnerID:        &ownerID,
		Name:           "Groceries",
		Keywords:       "LIDL",
		CategoryLevel1: "Household",
	})

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/rules/apply?owner=%s", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var apply v1.RuleApplyResponse
	test.DecodeResponse(suite.T(), &recorder, &apply)
	suite.Require().NotNil(apply.Data)
	suite.Assert().Equal(1, apply.Data.Categorized)
	suite.Assert().Equal(1, apply.Data.StillPending)
}

func (suite *TestSuiteStandard) TestApplyRulesOwnerRequired() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/rules/apply", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
