package documents

import (
	"errors"
	"fmt"

	"github.com/khryztiam/loans-app/internal/assignments"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

// fromSource translates errors bubbling up from the assignment source
// into this package's vocabulary.
func fromSource(err error) error {
	var api *assignments.APIError
	if errors.As(err, &api) {
		switch api.Code {
		case assignments.CodeNotFound:
			return ErrNotFound(api.Message)
		case assignments.CodeInvalidArgument:
			return ErrInvalid(api.Message)
		}
	}
	return err
}
