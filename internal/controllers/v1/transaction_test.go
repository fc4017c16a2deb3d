package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/ledgerlift/backend/internal/controllers/v1"
	"github.com/ledgerlift/backend/test"
	"github.com/shopspring/decimal"
)

// importTestTransactions uploads and commits the statement fixture and
// returns the owner's transactions, newest payment date first.
func (suite *TestSuiteStandard) importTestTransactions(ownerID uuid.UUID) []v1.Transaction {
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)
	suite.commitTestBatch(ownerID, response.Data.BatchID)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?owner=%s", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	return list.Data
}

// forOwner appends the owner scope to a resource link.
func forOwner(link string, ownerID uuid.UUID) string {
	return fmt.Sprintf("%s?owner=%s", link, ownerID)
}

func (suite *TestSuiteStandard) TestOptionsTransaction() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/transactions", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	transactions := suite.importTestTransactions(uuid.New())
	recorder = test.Request(suite.T(), http.MethodOptions, transactions[0].Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestGetTransactions() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	suite.Require().Len(transactions, 2)

	// Newest payment date first
	suite.Assert().Equal("STADTWERKE ABSCHLAG STROM", transactions[0].DescriptionRaw)
	suite.Assert().Equal("LIDL SAGT DANKE FIL 4411", transactions[1].DescriptionRaw)

	suite.Assert().Equal(ownerID.String(), transactions[0].OwnerID)
	suite.Assert().True(transactions[0].Amount.Equal(decimal.New(-4950, -2)), transactions[0].Amount.String())
	suite.Assert().Equal("EUR", transactions[0].Currency)
	suite.Assert().NotNil(transactions[0].BatchID)
}

func (suite *TestSuiteStandard) TestGetTransactionsOwnerRequired() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetTransactionsFilters() {
	ownerID := uuid.New()
	suite.importTestTransactions(ownerID)

	var list v1.TransactionListResponse

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?owner=%s&description=LIDL", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 1)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?owner=%s&fromDate=2026-07-15T00:00:00Z", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 1)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?owner=%s&type=INCOME", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestGetTransactionsPagination() {
	ownerID := uuid.New()
	suite.importTestTransactions(ownerID)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?owner=%s&limit=1&offset=1", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)

	suite.Require().Len(list.Data, 1)
	suite.Require().NotNil(list.Pagination)
	suite.Assert().Equal(1, list.Pagination.Count)
	suite.Assert().Equal(uint(1), list.Pagination.Offset)
	suite.Assert().Equal(1, list.Pagination.Limit)
	suite.Assert().Equal(int64(2), list.Pagination.Total)
}

func (suite *TestSuiteStandard) TestGetTransaction() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	recorder := test.Request(suite.T(), http.MethodGet, forOwner(transactions[0].Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(transactions[0].ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetTransactionNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/%s?owner=%s", uuid.New(), uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetTransactionOwnerRequired() {
	transactions := suite.importTestTransactions(uuid.New())

	recorder := test.Request(suite.T(), http.MethodGet, transactions[0].Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateTransaction() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(transactions[0].Links.Self, ownerID), map[string]any{
		"categoryLevel1": "Housing",
		"categoryLevel2": "Utilities",
		"needsReview":    false,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Housing", response.Data.CategoryLevel1)
	suite.Assert().Equal("Utilities", response.Data.CategoryLevel2)
	suite.Assert().False(response.Data.NeedsReview)

	// Editing the categorization marks the transaction
	suite.Assert().True(response.Data.ManualOverride)
}

func (suite *TestSuiteStandard) TestUpdateTransactionWrongOwner() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	// Another owner cannot see or edit the transaction
	recorder := test.Request(suite.T(), http.MethodGet, forOwner(transactions[1].Links.Self, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodPatch, forOwner(transactions[1].Links.Self, uuid.New()), map[string]any{
		"categoryLevel1": "Not Yours",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	// The transaction is untouched and not shielded from rules
	recorder = test.Request(suite.T(), http.MethodGet, forOwner(transactions[1].Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(transactions[1].CategoryLevel1, response.Data.CategoryLevel1)
	suite.Assert().False(response.Data.ManualOverride)
}

func (suite *TestSuiteStandard) TestUpdateTransactionAlias() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(transactions[1].Links.Self, ownerID), map[string]any{
		"descriptionAlias": "Lidl",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Lidl", response.Data.DescriptionAlias)

	// An alias is cosmetic, not a categorization change
	suite.Assert().False(response.Data.ManualOverride)
}

func (suite *TestSuiteStandard) TestUpdateTransactionAmount() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(transactions[0].Links.Self, ownerID), map[string]any{
		"amount": "-50.00",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().True(response.Data.Amount.Equal(decimal.New(-5000, -2)), response.Data.Amount.String())
}

func (suite *TestSuiteStandard) TestUpdateTransactionShieldsFromReapply() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	// transactions[1] is the LIDL row
	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(transactions[1].Links.Self, ownerID), map[string]any{
		"categoryLevel1": "My Own Category",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.createTestRule(v1.RuleEditable{
		OwnerID:        &ownerID,
		Name:           "Groceries",
		Keywords:       "LIDL",
		CategoryLevel1: "Household",
	})

	recorder = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/rules/apply?owner=%s", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, forOwner(transactions[1].Links.Self, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("My Own Category", response.Data.CategoryLevel1)
}

func (suite *TestSuiteStandard) TestUpdateTransactionInvalidBody() {
	ownerID := uuid.New()
	transactions := suite.importTestTransactions(ownerID)

	recorder := test.Request(suite.T(), http.MethodPatch, forOwner(transactions[0].Links.Self, ownerID), `{"amount":`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateTransactionNotFound() {
	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/transactions/%s?owner=%s", uuid.New(), uuid.New()), map[string]any{
		"categoryLevel1": "Housing",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
