package expr

import (
	"errors"
	"fmt"
)

// BuildError is reported while constructing an expression tree, before any
// evaluation runs. Build errors are fatal for the expression: a tree that
// fails to build is never executed.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Function names the function involved (for arity/unknown errors).
	Function string
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeArityMismatch indicates a call with the wrong argument count.
	ErrCodeArityMismatch BuildErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnknownFunction indicates a call to an unregistered function.
	ErrCodeUnknownFunction BuildErrorCode = "UNKNOWN_FUNCTION"

	// ErrCodeSyntax indicates malformed expression text.
	ErrCodeSyntax BuildErrorCode = "SYNTAX"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %s (function=%s)", e.Code, e.Message, e.Function)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EvalError is reported while evaluating an expression against a Context.
// It aborts the current test case but never the batch.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the variable or function involved, if any.
	Name string
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeUndefinedVariable indicates a reference to an unbound variable.
	ErrCodeUndefinedVariable EvalErrorCode = "UNDEFINED_VARIABLE"

	// ErrCodeInvalidArgument indicates an argument value outside a
	// function's domain (e.g. a negative value passed to get2421).
	ErrCodeInvalidArgument EvalErrorCode = "INVALID_ARGUMENT"

	// ErrCodeDivisionByZero indicates a zero divisor in div or mod.
	ErrCodeDivisionByZero EvalErrorCode = "DIVISION_BY_ZERO"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsBuildError returns true if the error is an expression build error.
// Uses errors.As to handle wrapped errors.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// IsEvalError returns true if the error is an expression evaluation error.
// Uses errors.As to handle wrapped errors.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}

// NewArityError creates a BuildError for an argument count mismatch.
func NewArityError(function string, want, got int) *BuildError {
	return &BuildError{
		Code:     ErrCodeArityMismatch,
		Message:  fmt.Sprintf("expected %d argument(s), got %d", want, got),
		Function: function,
	}
}

// NewUndefinedVariableError creates an EvalError for an unbound variable.
func NewUndefinedVariableError(name string) *EvalError {
	return &EvalError{
		Code:    ErrCodeUndefinedVariable,
		Message: "variable is not bound in the evaluation context",
		Name:    name,
	}
}

// NewInvalidArgumentError creates an EvalError for a value outside a
// function's domain.
func NewInvalidArgumentError(function, detail string) *EvalError {
	return &EvalError{
		Code:    ErrCodeInvalidArgument,
		Message: detail,
		Name:    function,
	}
}
