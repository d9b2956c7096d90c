package engine

import (
	"errors"
	"fmt"
)

// ExecError represents a condition that aborts one test case before or
// during execution. It never propagates past the test case boundary: the
// batch runner converts it into a failed outcome and continues.
type ExecError struct {
	// Code identifies the error category.
	Code ExecErrorCode

	// Message is a human-readable description.
	Message string

	// TestCase names the affected test case.
	TestCase string

	// Err is the underlying cause, if any.
	Err error
}

// ExecErrorCode categorizes execution errors.
type ExecErrorCode string

const (
	// ErrCodeNoRows indicates a test case with zero rows. An empty test
	// must report an error, never an empty pass.
	ErrCodeNoRows ExecErrorCode = "NO_TEST_ROWS"

	// ErrCodeInvalidTestCase indicates a structural invariant violation
	// (cell/column count mismatch, duplicate signals).
	ErrCodeInvalidTestCase ExecErrorCode = "INVALID_TEST_CASE"

	// ErrCodeMissingInput indicates a row drives a circuit input the
	// simulation does not expose, with the degraded mode disabled.
	ErrCodeMissingInput ExecErrorCode = "MISSING_INPUT"

	// ErrCodeExpression indicates an expression failed to evaluate.
	ErrCodeExpression ExecErrorCode = "EXPRESSION"
)

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (test=%s): %v", e.Code, e.Message, e.TestCase, e.Err)
	}
	return fmt.Sprintf("%s: %s (test=%s)", e.Code, e.Message, e.TestCase)
}

// Unwrap exposes the underlying cause for errors.As / errors.Is.
func (e *ExecError) Unwrap() error { return e.Err }

// IsNoRowsError returns true if the error reports an empty test case.
// Uses errors.As to handle wrapped errors.
func IsNoRowsError(err error) bool {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeNoRows
	}
	return false
}

// IsMissingInputError returns true if the error reports an input the
// simulation does not expose.
func IsMissingInputError(err error) bool {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeMissingInput
	}
	return false
}

// NewNoRowsError creates an ExecError for an empty test case.
func NewNoRowsError(testCase string) *ExecError {
	return &ExecError{
		Code:     ErrCodeNoRows,
		Message:  "test case has no rows",
		TestCase: testCase,
	}
}
