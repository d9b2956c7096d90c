package loader

import (
	"errors"
	"fmt"
)

// Error code constants for document loading failures.
const (
	ErrCodeNotFound   = "NOT_FOUND"   // file missing or unreadable
	ErrCodeParse      = "PARSE"       // YAML syntax or unknown field
	ErrCodeSchema     = "SCHEMA"      // document rejected by the CUE schema
	ErrCodeExpression = "EXPRESSION"  // a cell or output expression failed to parse
	ErrCodeInvalid    = "INVALID_DOC" // structurally valid YAML, semantically broken
)

// LoadError describes why a document could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is a LoadError, returning it if so.
func IsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
