// Package errs defines the error taxonomy shared by the lexer, parser,
// ast, and format packages.
package errs

import (
	"fmt"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Kinds of error this module raises. Every error returned across package
// boundaries wraps one of these via New/Wrap, so callers can distinguish
// them with errors.Is/errors.As against the Kind values below.
var (
	// Syntax is raised when the lexer or parser cannot match a required
	// production at a given source position.
	Syntax = goerrors.NewKind("syntax error: %s")

	// InvalidArgument is raised on programmatic misuse: inserting the
	// wrong node variant into a typed list, or assigning a raw string to
	// an element-parseable list that has no Parser reference.
	InvalidArgument = goerrors.NewKind("invalid argument: %s")

	// NotImplemented is raised when a walker has no VisitX for the
	// concrete node kind it was handed.
	NotImplemented = goerrors.NewKind("not implemented: %s")

	// Runtime is raised on internal invariant violations (a detached
	// node found mid-tree, a pool returning the wrong concrete type).
	Runtime = goerrors.NewKind("runtime error: %s")
)

// Position is a byte offset into the source text, attached to SyntaxError.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", p.Line, p.Column, p.Offset)
}

// SyntaxError carries the extra fields the spec's error taxonomy names for
// syntax errors: position, message, and the expected/got token text.
type SyntaxError struct {
	Position Position
	Message  string
	Expected string
	Got      string
	cause    error
}

func (e *SyntaxError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s at %s: expected %s, got %s", e.Message, e.Position, e.Expected, e.Got)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

func (e *SyntaxError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return Syntax.New(e.Message)
}

// NewSyntaxError builds a SyntaxError at pos with the given message.
func NewSyntaxError(pos Position, message string) *SyntaxError {
	return &SyntaxError{Position: pos, Message: message, cause: Syntax.New(message)}
}

// WithExpectedGot attaches the expected/got token descriptions.
func (e *SyntaxError) WithExpectedGot(expected, got string) *SyntaxError {
	e.Expected = expected
	e.Got = got
	return e
}

// NewInvalidArgument builds an InvalidArgument error with a formatted message.
func NewInvalidArgument(format string, args ...any) error {
	return InvalidArgument.New(fmt.Sprintf(format, args...))
}

// NewNotImplemented builds a NotImplemented error describing the unhandled kind.
func NewNotImplemented(what string) error {
	return NotImplemented.New(what)
}

// NewRuntime builds a Runtime error describing the broken invariant.
func NewRuntime(format string, args ...any) error {
	return Runtime.New(fmt.Sprintf(format, args...))
}
