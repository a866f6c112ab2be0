package zon

import (
	"errors"
	"fmt"
)

// ErrCircularReference is returned by the encoder when a container appears
// on its own containment path. The format cannot represent cycles.
var ErrCircularReference = errors.New("circular reference detected")

// ErrorCode classifies decode failures.
type ErrorCode string

const (
	// Structural errors: input does not conform to the format.
	ErrCodeHeader     ErrorCode = "INVALID_TABLE_HEADER"
	ErrCodeRowCount   ErrorCode = "ROW_COUNT_MISMATCH"
	ErrCodeFieldCount ErrorCode = "FIELD_COUNT_MISMATCH"

	// Security-limit errors: resource ceilings for untrusted input.
	ErrCodeDocumentSize ErrorCode = "DOCUMENT_TOO_LARGE"
	ErrCodeLineLength   ErrorCode = "LINE_TOO_LONG"
	ErrCodeArrayLength  ErrorCode = "ARRAY_TOO_LONG"
	ErrCodeObjectKeys   ErrorCode = "TOO_MANY_KEYS"
	ErrCodeDepth        ErrorCode = "NESTING_TOO_DEEP"
)

// DecodeError is a fatal decode failure. Decode never returns a partial
// value alongside one.
type DecodeError struct {
	Code    ErrorCode
	Message string
	Line    int // 1-based physical line, 0 if not line-scoped
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("zon: %s: %s (line %d)", e.Code, e.Message, e.Line)
	}
	return fmt.Sprintf("zon: %s: %s", e.Code, e.Message)
}

func decodeErrorf(code ErrorCode, line int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Code: code, Message: fmt.Sprintf(format, args...), Line: line}
}

// Limits bounds resource use while decoding untrusted input.
// Each ceiling maps to a distinct ErrorCode.
type Limits struct {
	MaxDocumentSize int // total input bytes
	MaxLineLength   int // single physical line bytes
	MaxArrayLength  int // elements per inline array
	MaxObjectKeys   int // keys per inline object
	MaxDepth        int // inline nesting depth
}

// DefaultLimits returns the production ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxDocumentSize: 10 << 20,
		MaxLineLength:   1 << 20,
		MaxArrayLength:  100000,
		MaxObjectKeys:   10000,
		MaxDepth:        64,
	}
}
