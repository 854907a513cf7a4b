package cmd

import (
	"log/slog"
)

// Error is a command failure. Commands return one of the sentinels below,
// refined with the failing cause and the source or query it concerns, and
// main logs it as a structured group.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel command error.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error formats the error as "msg: cause", omitting whichever is empty.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg && t.err == nil
}

func (e *Error) Unwrap() error { return e.err }

// LogValue groups the message, the cause and the attributes.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(append(make([]slog.Attr, 0, len(e.attrs)+len(attrs)),
		e.attrs...), attrs...)

	return &c
}

var (
	// ErrReadSource is a script source that could not be opened or read.
	ErrReadSource = NewError("read source")
	// ErrQuery is a run --query expression that failed to compile or run.
	ErrQuery = NewError("evaluate query")
	// ErrConfig is a malformed configuration file.
	ErrConfig = NewError("load configuration")

	ErrJSONMarshal = NewError("marshal JSON")
	ErrYAMLMarshal = NewError("marshal YAML")
)
