package v1

import (
	"errors"
	"net/http"

	"github.com/ledgerlift/backend/internal/httputil"
	"github.com/ledgerlift/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate HTTP status for a database or lifecycle
// error.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	// Lifecycle and uniqueness violations are conflicts with current
	// resource state, not malformed requests
	if errors.Is(err, models.ErrBatchFileAlreadyImported) ||
		errors.Is(err, models.ErrBatchNotPreview) ||
		errors.Is(err, models.ErrBatchNotCommitted) ||
		errors.Is(err, models.ErrBatchOperationInProgress) ||
		errors.Is(err, models.ErrItemFingerprintExists) ||
		errors.Is(err, models.ErrTransactionDedupKeyExists) ||
		errors.Is(err, models.ErrEvidenceLinkExists) {
		return http.StatusConflict
	}

	if errors.Is(err, httputil.ErrRequestBodyEmpty) ||
		errors.Is(err, httputil.ErrInvalidBody) ||
		errors.Is(err, httputil.ErrInvalidUUID) {
		return http.StatusBadRequest
	}

	return http.StatusBadRequest
}

var (
	errOwnerParameter  = errors.New("the owner query parameter must be set to a valid UUID")
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports files of the following types")
)
