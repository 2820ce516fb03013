package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the codec. All of them abort the current
// encode/decode call; there is no recovery inside the codec.
var (
	// ErrMalformedVarint reports a varint whose continuation sequence runs
	// past 10 bytes without a terminating byte.
	ErrMalformedVarint = errors.New("malformed varint")

	// ErrTruncatedInput reports fewer bytes available than a length prefix
	// or fixed-width payload demands.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrUnexpectedWireType reports a decoded wire type that cannot carry
	// the kind declared for that field.
	ErrUnexpectedWireType = errors.New("unexpected wire type")

	// ErrUnknownStructureKind reports a value node whose kind the encoder
	// cannot dispatch, such as a bare primitive at the top level.
	ErrUnknownStructureKind = errors.New("unknown structure kind")

	// ErrUnsupportedOperation reports an attempt to reconfigure a shared
	// immutable codec instance.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNestingTooDeep reports a value tree or wire input nested beyond
	// the recursion bound.
	ErrNestingTooDeep = errors.New("nesting depth limit exceeded")
)

// FieldError carries the path of field names leading to the failure.
type FieldError struct {
	FieldPath []string // e.g. ["order", "items", "unit_price"]
	Err       error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("field %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapWithField prepends a field name to the error's path, folding nested
// FieldErrors into one path.
func wrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
