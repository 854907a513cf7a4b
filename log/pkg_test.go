package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

// withDefault installs a JSON package logger writing to buf for the
// duration of the test.
func withDefault(t *testing.T, buf *bytes.Buffer, opts ...Option) {
	t.Helper()

	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	SetDefault(Make(buf, plain(opts...)...))
}

func TestPackage_Functions(t *testing.T) {
	var buf bytes.Buffer

	withDefault(t, &buf, WithLevel(LevelTrace))

	ctx := context.Background()

	TraceContext(ctx, "a", slog.String("k", "v"))
	DebugContext(ctx, "b")
	Debug("c")
	InfoContext(ctx, "d")
	WarnContext(ctx, "e")
	Warn("f")
	ErrorContext(ctx, "g")
	Error("h")

	records := decode(t, &buf)

	want := []string{"TRACE", "DEBUG", "DEBUG", "INFO", "WARN", "WARN", "ERROR", "ERROR"}
	if len(records) != len(want) {
		t.Fatalf("wrote %d records, want %d", len(records), len(want))
	}

	for i, rec := range records {
		if rec["level"] != want[i] {
			t.Errorf("record %d level = %v, want %s", i, rec["level"], want[i])
		}
	}

	if records[0]["k"] != "v" {
		t.Errorf("attribute missing from %v", records[0])
	}
}

func TestPackage_Config(t *testing.T) {
	var buf bytes.Buffer

	withDefault(t, &buf)

	Debug("before")
	Config(WithLevel(LevelDebug))
	Debug("after")

	records := decode(t, &buf)
	if len(records) != 1 || records[0]["msg"] != "after" {
		t.Errorf("records = %v", records)
	}

	if Default().Level() != LevelDebug {
		t.Errorf("Default().Level() = %v", Default().Level())
	}
}
