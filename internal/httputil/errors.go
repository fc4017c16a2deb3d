package httputil

import "errors"

// Errors the request helpers return for malformed client input. The
// controllers translate all of them to a 400 response.
var (
	ErrInvalidBody      = errors.New("the request body could not be parsed, please check it for syntax errors")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidUUID      = errors.New("the specified resource ID is not a valid UUID")
)
