// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is an immutable value built from functional options. Every
// logging method takes a message and typed [slog.Attr] values, with a
// context-aware variant for each level:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("parse complete", slog.Int("function_count", 3))
//	logger.TraceContext(ctx, "call", slog.String("function", "main"))
//
// # Levels
//
// Besides the four slog levels, [LevelTrace] sits below [LevelDebug] and
// is used for per-call and per-loop detail. Levels are written by name
// (TRACE rather than DEBUG-4) and parse from text with [ParseLevel], so a
// [Level] can be decoded directly from a command-line flag.
//
// # Output
//
// Records are encoded as [FormatText] or [FormatJSON]. With [WithPretty]
// (the default) both formats go through a colorized handler: text as one
// line of key=value pairs, JSON as an indented block. Colors are only
// emitted when the output is a terminal.
//
// Timestamps follow [WithTimeLayout]; the layout "none" omits them.
// [WithCaller] adds the file and line of the logging call.
//
// # Package Logger
//
// The package-level functions log through a shared default [Logger] that
// writes to standard error, leaving standard output to the program being
// run. [Config] reconfigures it and [SetDefault] replaces it.
package log
