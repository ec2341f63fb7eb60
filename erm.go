/*
Package erm parses ERM, the scripting language embedded in ZVSE-format script
files used by a turn-based strategy game's event system.

Consists of subpackages:
  - ast: the tagged-variant AST produced for a single parsed script line;
  - config: YAML-backed configuration for the ermparse command;
  - diag: the diagnostic sink parsing failures are reported through;
  - grammar: the recursive-descent grammar turning a logical line into an ast.Line;
  - lineio: physical-line classification and logical-line reassembly;
  - reader: the physical source reader (header check, physical-line iteration);
  - parser: ties the above together behind the package's public Parser type;
  - source: source file and cursor helpers used for line/col bookkeeping.

Typical usage is:

	p := parser.New("scripts/day1.erm")
	p.ParseFile(sink)

where sink implements diag.Sink and receives one report per parse failure. A
failure on one logical line never aborts the rest of the file (see diag.Kind).
*/
package erm

import (
	"fmt"
)

// Error classes used by subpackages, each class covers up to 99 error codes:
const (
	ReaderErrors  = 101 // used by reader: FileOpenFailed, BadHeader, LineTooLong
	GrammarErrors = 201 // reserved for grammar; grammar.Parse returns its own *grammar.Error instead
	ConfigErrors  = 301 // used by config
)

// Error is the error type used by erm subpackages. Unlike a plain string
// error, it keeps its code, position and any wrapped cause available to
// callers instead of baking everything into one opaque message, so a
// diag.Sink or a top-level CLI handler can branch on Code or unwrap down to
// the underlying os/io error without parsing text.
type Error struct {
	// Code contains a non-zero error code.
	Code int

	// Reason is the bare, unformatted-with-position message.
	Reason string

	// SourceName contains the source name that caused this error, or an empty string.
	SourceName string

	// Line contains the line number in the source file, or 0.
	Line int

	// Col contains the column number in the source file, or 0.
	Col int

	// Cause, if non-nil, is the underlying error this one wraps.
	Cause error
}

// SourcePos is used to retrieve source name and position information when
// constructing an error; source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns the source file name or an empty string.
	SourceName() string
	// Line returns the line number or 0.
	Line() int
	// Col returns the column number or 0.
	Col() int
}

// NewError creates a new Error structure. Position information, when
// present, is rendered compiler-style ("name:line:col: reason") rather than
// appended as a trailing clause, so messages read the way a tool's output
// normally does when piped through an editor's error-jump feature.
func NewError(code int, reason, name string, line, col int) *Error {
	return &Error{Code: code, Reason: reason, SourceName: name, Line: line, Col: col}
}

// Error renders the position prefix (if any) followed by the reason and,
// if a Cause was attached, the cause's own message.
func (e *Error) Error() string {
	msg := e.Reason
	if e.SourceName != "" && e.Line != 0 && e.Col != 0 {
		msg = fmt.Sprintf("%s:%d:%d: %s", e.SourceName, e.Line, e.Col, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying error and returns e for chaining.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// FormatError creates an Error with no source and position information.
// params are applied to msg using fmt.Sprintf.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates an Error with source and position information.
// pos must not be nil. params are applied to msg using fmt.Sprintf.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
