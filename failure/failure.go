// Package failure defines the closed set of errors raised while mapping
// typed values to and from the dynamic value tree. Every error is fatal to
// the operation that raised it and propagates unchanged to the caller.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Named is an error that you can read a name from.
type Named interface {
	Name() string
}

// Failure is the interface satisfied by every error in this package.
type Failure interface {
	error
	Named
}

// BinaryCodecError wraps an encode or decode failure from a binary codec.
// The underlying error is carried opaquely and never inspected.
type BinaryCodecError struct {
	Err error
}

func NewBinaryCodec(err error) *BinaryCodecError {
	return &BinaryCodecError{Err: errors.WithStack(err)}
}

func (e *BinaryCodecError) Name() string {
	return "BinaryCodecError"
}

func (e *BinaryCodecError) Error() string {
	return fmt.Sprintf("binary codec error: %s", e.Err)
}

func (e *BinaryCodecError) Unwrap() error {
	return e.Err
}

// CustomError carries a domain error reported by a consumer-supplied
// marshaler or unmarshaler.
type CustomError struct {
	Message string
}

func NewCustom(format string, args ...any) *CustomError {
	return &CustomError{Message: fmt.Sprintf(format, args...)}
}

func (e *CustomError) Name() string {
	return "CustomError"
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("custom error: %s", e.Message)
}

// ExpectedError is a shape or type mismatch. Both sides are human-readable
// descriptions, the found side names the offending Value's kind label.
type ExpectedError struct {
	Expected string
	Found    string
}

func NewExpected(expected string, found string) *ExpectedError {
	return &ExpectedError{Expected: expected, Found: found}
}

func (e *ExpectedError) Name() string {
	return "ExpectedError"
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// DuplicatedError reports that a named-field target saw the same field
// twice.
type DuplicatedError struct {
	Field string
}

func NewDuplicated(field string) *DuplicatedError {
	return &DuplicatedError{Field: field}
}

func (e *DuplicatedError) Name() string {
	return "DuplicatedError"
}

func (e *DuplicatedError) Error() string {
	return fmt.Sprintf("field %s was duplicated", e.Field)
}

// MissingError reports that a named-field target required a field absent
// from the input.
type MissingError struct {
	Field string
}

func NewMissing(field string) *MissingError {
	return &MissingError{Field: field}
}

func (e *MissingError) Name() string {
	return "MissingError"
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("field %s was missing", e.Field)
}

// UnknownError reports an unrecognized variant or field name.
type UnknownError struct {
	Ident string
}

func NewUnknown(ident string) *UnknownError {
	return &UnknownError{Ident: ident}
}

func (e *UnknownError) Name() string {
	return "UnknownError"
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("field or variant %s was unknown", e.Ident)
}

// DepthError reports that input nesting exceeded the configured maximum.
type DepthError struct {
	Max int
}

func NewDepth(max int) *DepthError {
	return &DepthError{Max: max}
}

func (e *DepthError) Name() string {
	return "DepthError"
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("maximum nesting depth %d exceeded", e.Max)
}

type eofError struct{}

func (e *eofError) Name() string {
	return "EOFError"
}

func (e *eofError) Error() string {
	return "unexpected eof"
}

// ErrEOF is returned when a value was required but none was available.
var ErrEOF Failure = &eofError{}

var (
	_ Failure = (*BinaryCodecError)(nil)
	_ Failure = (*CustomError)(nil)
	_ Failure = (*ExpectedError)(nil)
	_ Failure = (*DuplicatedError)(nil)
	_ Failure = (*MissingError)(nil)
	_ Failure = (*UnknownError)(nil)
	_ Failure = (*DepthError)(nil)
)
