package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/ledgerlift/backend/internal/controllers/v1"
	"github.com/ledgerlift/backend/test"
)

// createTestConflict provokes a rule conflict by committing the
// statement fixture against two rules tied at the same priority with
// different categories. It returns the owner and the recorded conflict.
func (suite *TestSuiteStandard) createTestConflict() (uuid.UUID, v1.RuleConflict) {
	ownerID := uuid.New()

	suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "Groceries", Keywords: "LIDL", CategoryLevel1: "Household", Priority: 500})
	suite.createTestRule(v1.RuleEditable{OwnerID: &ownerID, Name: "Shopping", Keywords: "LIDL", CategoryLevel1: "Shopping", Priority: 500})

	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)
	suite.commitTestBatch(ownerID, response.Data.BatchID)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts?owner=%s", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.RuleConflictListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Require().Len(list.Data, 1)

	return ownerID, list.Data[0]
}

func (suite *TestSuiteStandard) TestOptionsConflict() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/conflicts", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/conflicts/%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	_, conflict := suite.createTestConflict()
	recorder = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/conflicts/%s", conflict.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestGetConflicts() {
	ownerID, conflict := suite.createTestConflict()

	suite.Assert().Equal(ownerID.String(), conflict.OwnerID)
	suite.Assert().Equal(500, conflict.Priority)
	suite.Assert().Len(conflict.CandidateIDs, 2)
	suite.Assert().ElementsMatch([]string{"Household", "Shopping"}, conflict.Categories)
	suite.Assert().False(conflict.Resolved)

	// Another owner sees nothing
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts?owner=%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.RuleConflictListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestGetConflictsOwnerRequired() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/conflicts", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetConflict() {
	ownerID, conflict := suite.createTestConflict()

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", conflict.ID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleConflictResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(conflict.ID, response.Data.ID)
	suite.Assert().Equal(conflict.WinnerID, response.Data.WinnerID)
}

func (suite *TestSuiteStandard) TestGetConflictNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", uuid.New(), uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestConflictWrongOwner() {
	ownerID, conflict := suite.createTestConflict()

	// Another owner cannot see or resolve the conflict
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", conflict.ID, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", conflict.ID, uuid.New()), map[string]any{
		"resolved": true,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", conflict.ID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleConflictResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().False(response.Data.Resolved)
}

func (suite *TestSuiteStandard) TestUpdateConflict() {
	ownerID, conflict := suite.createTestConflict()

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", conflict.ID, ownerID), map[string]any{
		"resolved": true,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RuleConflictResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().True(response.Data.Resolved)

	// The resolution filter excludes it now
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/conflicts?owner=%s&resolved=false", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.RuleConflictListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestUpdateConflictNotFound() {
	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/conflicts/%s?owner=%s", uuid.New(), uuid.New()), map[string]any{
		"resolved": true,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
