package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/flyux/log"
)

// logLevel configures the package logger's level as a side effect of
// parsing, so kong's own errors are filtered at the requested level.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	level, err := log.ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = logLevel(text)
	log.Config(log.WithLevel(level))

	return nil
}

// logFormat configures the package logger's format as a side effect of
// parsing.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	format, err := log.ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = logFormat(text)
	log.Config(log.WithFormat(format))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"warn"    help:"Set log level (${logLevels}, with optional +N or -N)."`
	Format     logFormat `default:"text"    enum:"${logFormats}"                                          help:"Set log format."`
	TimeLayout string    `default:"RFC3339" help:"Set timestamp layout by name or Go reference time; none omits it." name:"time"`
	Caller     bool      `default:"false"   help:"Include caller information."                            negatable:""`
	Pretty     bool      `default:"true"    help:"Enable colorized pretty printing."                      negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ", "),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every logging flag to the package logger, including the
// time layout which has no parse-time side effect.
func (f *logConfig) start(ctx context.Context) {
	opts := []log.Option{
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}

	if level, err := log.ParseLevel(string(f.Level)); err == nil {
		opts = append(opts, log.WithLevel(level))
	}

	if format, err := log.ParseFormat(string(f.Format)); err == nil {
		opts = append(opts, log.WithFormat(format))
	}

	log.Config(opts...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found anywhere in args before kong parses them.
// Boolean flags have no parse-time hook, so this is the only way they can
// affect messages written during parsing.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		operand := func() string {
			if !assigned && i+1 < len(args) &&
				!strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(operand()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(operand()))

		case "--log-pretty", "--no-log-pretty":
			f.Pretty = boolFlag(name, value, assigned)
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller", "--no-log-caller":
			f.Caller = boolFlag(name, value, assigned)
			log.Config(log.WithCaller(f.Caller))
		}
	}
}

// boolFlag returns the value of a negatable boolean flag. A bare flag is
// true; an unparsable assignment is treated as bare.
func boolFlag(name, value string, assigned bool) bool {
	v := true

	if assigned {
		if b, err := strconv.ParseBool(value); err == nil {
			v = b
		}
	}

	if strings.HasPrefix(name, "--no-") {
		v = !v
	}

	return v
}
