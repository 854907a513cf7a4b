package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the minimum level of a logger made without [WithLevel].
const DefaultLevel = LevelInfo

var levelName = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// Levels returns an iterator over the names of the defined levels, from
// least to most severe.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, ln := range levelName {
			if !yield(ln.name) {
				return
			}
		}
	}
}

// String returns the lowercase level name. A level between two named
// levels is written as the nearest lower name and an offset, e.g. "info+2".
func (l Level) String() string {
	base := levelName[0]

	for _, ln := range levelName {
		if ln.level <= l {
			base = ln
		}
	}

	if d := l - base.level; d != 0 {
		return fmt.Sprintf("%s%+d", base.name, d)
	}

	return base.name
}

// ParseLevel parses a level name, case-insensitively, optionally followed
// by a signed integer offset such as "debug-2" or "warn+1".
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	name, offset := s, 0

	if i := strings.IndexAny(s, "+-"); i > 0 {
		n, err := strconv.Atoi(s[i:])
		if err != nil {
			return DefaultLevel, fmt.Errorf("invalid log level offset %q", s)
		}

		name, offset = s[:i], n
	}

	for _, ln := range levelName {
		if ln.name == name {
			return ln.level + Level(offset), nil
		}
	}

	return DefaultLevel, fmt.Errorf("unknown log level %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = level

	return nil
}

// Format is the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a logger made without [WithFormat].
const DefaultFormat = FormatText

var formatName = [...]string{
	FormatText: "text",
	FormatJSON: "json",
}

// Formats returns an iterator over the names of the defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatName {
			if !yield(name) {
				return
			}
		}
	}
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatName) {
		return formatName[f]
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatName {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Format(f), nil
		}
	}

	return DefaultFormat, fmt.Errorf("unknown log format %q", s)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	format, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = format

	return nil
}
