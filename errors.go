package tcfg

import (
	"errors"
	"fmt"
)

// NameField is the reserved field every struct type must declare. It is
// populated from the optional quoted string after the type identifier.
const NameField = "name"

// UnexpectedTokenError is returned when the current token does not match
// any production expected at that point in the document.
type UnexpectedTokenError struct {
	Kind       TokenKind
	Value      string
	Start, End int
	Expected   string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected %v %q at %d..%d, expected %s", e.Kind, e.Value, e.Start, e.End, e.Expected)
}

// UnexpectedStructError is returned when a struct's type tag does not match
// the requested type name.
type UnexpectedStructError struct {
	Name     string
	Expected string
}

func (e *UnexpectedStructError) Error() string {
	return fmt.Sprintf("found struct %s, expected struct %s", e.Name, e.Expected)
}

// MissingNameFieldError is returned when a struct type is decoded without
// declaring the reserved name field. It is detected before any token is
// consumed.
type MissingNameFieldError struct {
	Type string
}

func (e *MissingNameFieldError) Error() string {
	return fmt.Sprintf("struct %s must declare a %q field", e.Type, NameField)
}

// These are the reasons an [InvalidCharError] can wrap, besides errors from
// [strconv] when a numeric escape does not fit in a byte.
var (
	ErrInvalidEscape = errors.New("unrecognized escape sequence")
	ErrNotSingleChar = errors.New("not a single character")
)

// InvalidCharError is returned when the body of a char literal cannot be
// resolved to a single character.
type InvalidCharError struct {
	Value string
	Err   error
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("invalid char literal %q: %v", e.Value, e.Err)
}

func (e *InvalidCharError) Unwrap() error {
	return e.Err
}

// MultiSegmentStringError is returned when a second consecutive quoted
// string is found where only a single segment was requested.
type MultiSegmentStringError struct {
	Start, End int
}

func (e *MultiSegmentStringError) Error() string {
	return fmt.Sprintf("multi-segment string at %d..%d cannot be decoded without copying", e.Start, e.End)
}

// UnclosedCommentError is returned when end of input is reached while a
// /* block comment is still open.
type UnclosedCommentError struct {
	Start, End int
}

func (e *UnclosedCommentError) Error() string {
	return fmt.Sprintf("unclosed block comment starting at %d", e.Start)
}
