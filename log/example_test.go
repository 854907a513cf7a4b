package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/flyux/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false),
	)

	logger.Info("program loaded", slog.Int("function_count", 2))
	logger.Debug("not written at the default level")

	// Output:
	// level=INFO msg="program loaded" function_count=2
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false),
		log.WithFormat(log.FormatJSON),
		log.WithLevel(log.LevelTrace),
	)

	logger.With(slog.String("function", "main")).
		TraceContext(context.Background(), "call", slog.Int("args", 0))

	// Output:
	// {"level":"TRACE","msg":"call","function":"main","args":0}
}
