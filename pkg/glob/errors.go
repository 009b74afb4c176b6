package glob

import (
	"errors"
	"fmt"
)

// Sentinel errors for glob compilation failures.
var (
	// ErrSyntax indicates a malformed glob pattern.
	ErrSyntax = errors.New("glob: syntax error")
	// ErrUnsupported indicates a recognized but unsupported glob construct.
	ErrUnsupported = errors.New("glob: unsupported feature")
)

// SyntaxError describes a malformed glob pattern. Offset is the byte offset
// of the offending character in the original pattern string.
type SyntaxError struct {
	Msg    string
	Offset int
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("glob: %s at offset %d", e.Msg, e.Offset)
}

// Unwrap makes the error match ErrSyntax under errors.Is.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// UnsupportedError describes a glob construct that is parsed but rejected,
// such as collating symbols, equivalence classes, or unknown named classes.
type UnsupportedError struct {
	Feature string
	Offset  int
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("glob: unsupported %s at offset %d", e.Feature, e.Offset)
}

// Unwrap makes the error match ErrUnsupported under errors.Is.
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

func syntaxErrorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func unsupportedError(offset int, feature string) error {
	return &UnsupportedError{Offset: offset, Feature: feature}
}
