package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies the failures a compression call can end with.
// Callers branch on the category instead of matching error strings.
type ErrorCategory int

const (
	// ErrorInvalidParameter indicates malformed request parameters such as
	// a non-positive target size, a non-positive dimension or empty input.
	// Detected before any decode work begins.
	ErrorInvalidParameter ErrorCategory = iota + 1

	// ErrorDecode indicates the input bytes are not a decodable image:
	// truncated stream, unsupported format or zero-byte input.
	ErrorDecode

	// ErrorEncode indicates an internal encoder fault during a probe.
	// The search is aborted on the first such fault.
	ErrorEncode

	// ErrorUnattainable indicates every quality level across every bounded
	// shrink round produced output above the byte budget.
	ErrorUnattainable

	// ErrorInternal indicates a broken engine invariant, for example a
	// quality search that exceeded its iteration bound.
	ErrorInternal
)

// String returns the string representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorInvalidParameter:
		return "invalid-parameter"
	case ErrorDecode:
		return "decode"
	case ErrorEncode:
		return "encode"
	case ErrorUnattainable:
		return "unattainable-target"
	case ErrorInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// CompressionError is the single error type returned by the engine's public
// operations. Err holds the underlying cause and stays reachable through
// errors.Is and errors.As.
type CompressionError struct {
	Err       error
	Operation string
	Timestamp time.Time
	Category  ErrorCategory
}

// New wraps err into a CompressionError of the given category.
func New(category ErrorCategory, operation string, err error) *CompressionError {
	return &CompressionError{
		Err:       err,
		Operation: operation,
		Category:  category,
		Timestamp: time.Now(),
	}
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("[%v] %s: %v", e.Category, e.Operation, e.Err)
}

func (e *CompressionError) Unwrap() error {
	return e.Err
}

// IsRetryAble reports whether repeating the call can succeed. Only an
// unattainable target qualifies, and only after the caller relaxes the
// target: every other category reproduces deterministically.
func (e *CompressionError) IsRetryAble() bool {
	switch e.Category {
	case ErrorUnattainable:
		return true
	default:
		return false
	}
}

// CategoryOf returns the category of the first CompressionError in err's
// chain, or zero if there is none.
func CategoryOf(err error) ErrorCategory {
	var ce *CompressionError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return 0
}

func IsInvalidParameter(err error) bool {
	return CategoryOf(err) == ErrorInvalidParameter
}

func IsDecodeError(err error) bool {
	return CategoryOf(err) == ErrorDecode
}

func IsEncodeError(err error) bool {
	return CategoryOf(err) == ErrorEncode
}

func IsUnattainable(err error) bool {
	return CategoryOf(err) == ErrorUnattainable
}
