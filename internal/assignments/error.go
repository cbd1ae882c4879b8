package assignments

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnprocessable   Code = "UNPROCESSABLE_ENTITY"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError       { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError      { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrUnprocessable(msg string) *APIError { return &APIError{Code: CodeUnprocessable, Message: msg} }
func ErrInternal(msg string) *APIError      { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeUnprocessable:
			return 422
		default:
			return 500
		}
	}
	return 500
}
