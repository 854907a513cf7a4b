package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/flyux/lang/token"
)

// Predefined errors (sentinel values).
//
// Every runtime error is fatal to the running program; the caller decides
// whether that also ends the process.
var (
	ErrSyntax           = NewError("syntax error")
	ErrReadInput        = NewError("failed to read input")
	ErrUndefined        = NewError("undefined name")
	ErrConstAssign      = NewError("cannot assign to constant")
	ErrConstRedefine    = NewError("cannot redefine constant")
	ErrTypeMismatch     = NewError("type mismatch")
	ErrUnknownType      = NewError("unknown type")
	ErrInvalidLiteral   = NewError("invalid literal")
	ErrNotObject        = NewError("value is not an object")
	ErrPropertyNotFound = NewError("property not found")
	ErrInvalidIndex     = NewError("invalid index")
	ErrIndexRange       = NewError("index out of range")
	ErrKeyNotFound      = NewError("key not found")
	ErrLoopCount        = NewError("invalid loop count")
	ErrNotArray         = NewError("value is not an array")
	ErrIncrement        = NewError("cannot increment non-numeric value")
)

// Error represents an error with optional structured logging attributes and
// an optional source position.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error           // Wrapped error (for errors.Unwrap)
	pos   *token.Position // Source location, if known
	attrs []slog.Attr     // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> at line L, column C: <err>", where each
// part is omitted when unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString("at line ")
		sb.WriteString(strconv.Itoa(e.pos.Line))
		sb.WriteString(", column ")
		sb.WriteString(strconv.Itoa(e.pos.Column))
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Is reports whether target is the sentinel this error was derived from.
// Errors derived from the same sentinel via [Error.Wrap], [Error.Wrapf],
// [Error.At] or [Error.With] share its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg && t.err == nil && t.pos == nil
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Pos returns the source position attached to the error, if any.
func (e *Error) Pos() (token.Position, bool) {
	if e.pos == nil {
		return token.Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// Wrapf creates a new Error wrapping a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// At creates a new Error positioned at pos.
func (e *Error) At(pos token.Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   &pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}
