package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrUnsupportedChain is returned when a chain has no mapping for the requested operation.
var ErrUnsupportedChain = errors.New("unsupported chain")

var (
	errNilBody   = errors.New("request body is required")
	errMissingID = errors.New("id is required")
)

// Error is a non-2xx answer from the remote API.
type Error struct {
	StatusCode int         `json:"statusCode"`
	ErrorCode  string      `json:"errorCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("request failed with status %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// ValidationError reports a request body rejected before any network call.
type ValidationError struct {
	Op     string
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: invalid request: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: invalid request fields [%s]: %v", e.Op, strings.Join(e.Fields, ", "), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a validation failure of op.
func NewValidationError(op string, err error) error {
	if err == nil {
		return nil
	}
	ve := &ValidationError{Op: op, Err: err}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			ve.Fields = append(ve.Fields, fe.Namespace())
		}
	}
	return ve
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
