package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/ledgerlift/backend/internal/controllers/v1"
	"github.com/ledgerlift/backend/internal/models"
	"github.com/ledgerlift/backend/test"
)

func (suite *TestSuiteStandard) TestOptionsBatch() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/batches", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/batches/%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/batches/NotAUUID", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateBatch() {
	response := suite.uploadTestBatch(uuid.New(), "statement.csv", statementCSV)

	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(models.BatchStatusPreview, response.Data.Status)
	suite.Assert().Equal(3, response.Data.TotalRows)
	suite.Assert().Equal(2, response.Data.NewRows)
	suite.Assert().Equal(1, response.Data.DuplicateRows)
	suite.Assert().Equal(0, response.Data.InvalidRows)
	suite.Require().Len(response.Data.Items, 3)
	suite.Assert().Equal(models.ItemStatusDuplicate, response.Data.Items[2].Status)
}

func (suite *TestSuiteStandard) TestCreateBatchOwnerRequired() {
	body, headers := test.MultipartFile(suite.T(), "statement.csv", statementCSV)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/batches", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateBatchNoFile() {
	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches?owner=%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.BatchPreviewResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Error)
	suite.Assert().Equal("you must send a file to this endpoint", *response.Error)
}

func (suite *TestSuiteStandard) TestCreateBatchWrongSuffix() {
	body, headers := test.MultipartFile(suite.T(), "statement.pdf", statementCSV)

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches?owner=%s", uuid.New()), body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateBatchEmptyFile() {
	body, headers := test.MultipartFile(suite.T(), "statement.csv", []byte(""))

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches?owner=%s", uuid.New()), body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.BatchPreviewResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Error)
	suite.Assert().Equal("the file is empty", *response.Error)
}

func (suite *TestSuiteStandard) TestCreateBatchCommittedFileConflicts() {
	ownerID := uuid.New()

	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)
	suite.commitTestBatch(ownerID, response.Data.BatchID)

	// The same content under a different name is still the same file
	body, headers := test.MultipartFile(suite.T(), "statement-copy.csv", statementCSV)
	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches?owner=%s", ownerID), body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	// Another owner is not affected
	recorder = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches?owner=%s", uuid.New()), body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
}

func (suite *TestSuiteStandard) TestGetBatches() {
	ownerID := uuid.New()
	suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/batches?owner=%s", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.BatchListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("statement.csv", response.Data[0].Filename)
	suite.Assert().Equal(models.BatchStatusPreview, response.Data[0].Status)
	suite.Assert().Contains(response.Data[0].Links.Self, "/v1/batches/")

	suite.Require().NotNil(response.Pagination)
	suite.Assert().Equal(int64(1), response.Pagination.Total)

	// Another owner sees nothing
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/batches?owner=%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestGetBatchesStatusFilter() {
	ownerID := uuid.New()
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)
	suite.commitTestBatch(ownerID, response.Data.BatchID)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/batches?owner=%s&status=preview", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.BatchListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 0)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/batches?owner=%s&status=committed", ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 1)
}

func (suite *TestSuiteStandard) TestGetBatchesOwnerRequired() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/batches", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetBatch() {
	ownerID := uuid.New()
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/batches/%s?owner=%s", response.Data.BatchID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var preview v1.BatchPreviewResponse
	test.DecodeResponse(suite.T(), &recorder, &preview)
	suite.Require().NotNil(preview.Data)
	suite.Assert().Equal(response.Data.BatchID, preview.Data.BatchID)
	suite.Assert().Len(preview.Data.Items, 3)
}

func (suite *TestSuiteStandard) TestGetBatchNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/batches/%s?owner=%s", uuid.New(), uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCommitBatch() {
	ownerID := uuid.New()
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)

	commit := suite.commitTestBatch(ownerID, response.Data.BatchID)
	suite.Require().NotNil(commit.Data)
	suite.Assert().Equal(2, commit.Data.Imported)
	suite.Assert().Equal(1, commit.Data.Duplicates)

	// A commit is not repeatable
	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches/%s/commit?owner=%s", response.Data.BatchID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestCommitBatchNotFound() {
	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches/%s/commit?owner=%s", uuid.New(), uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestRollbackBatch() {
	ownerID := uuid.New()
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)
	suite.commitTestBatch(ownerID, response.Data.BatchID)

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches/%s/rollback?owner=%s", response.Data.BatchID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var rollback v1.BatchRollbackResponse
	test.DecodeResponse(suite.T(), &recorder, &rollback)
	suite.Require().NotNil(rollback.Data)
	suite.Assert().Equal(2, rollback.Data.Removed)
	suite.Assert().Empty(rollback.Data.Warnings)

	// Rolled back batches cannot be rolled back again
	recorder = test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches/%s/rollback?owner=%s", response.Data.BatchID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestRollbackBatchInPreview() {
	ownerID := uuid.New()
	response := suite.uploadTestBatch(ownerID, "statement.csv", statementCSV)

	recorder := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/batches/%s/rollback?owner=%s", response.Data.BatchID, ownerID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}
