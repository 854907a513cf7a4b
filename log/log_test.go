package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// plain returns options for deterministic, uncolored JSON records.
func plain(opts ...Option) []Option {
	return append([]Option{
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	}, opts...)
}

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any

	for line := range strings.Lines(buf.String()) {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid record %q: %v", line, err)
		}

		records = append(records, rec)
	}

	return records
}

func TestMake_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf)

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("level %v format %v", l.Level(), l.Format())
	}

	l.Debug("hidden")
	l.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug record written at default level")
	}

	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	calls := []struct {
		level Level
		log   func(Logger, string)
	}{
		{LevelTrace, func(l Logger, m string) { l.Trace(m) }},
		{LevelDebug, func(l Logger, m string) { l.Debug(m) }},
		{LevelInfo, func(l Logger, m string) { l.Info(m) }},
		{LevelWarn, func(l Logger, m string) { l.Warn(m) }},
		{LevelError, func(l Logger, m string) { l.Error(m) }},
		{LevelTrace, func(l Logger, m string) { l.TraceContext(t.Context(), m) }},
		{LevelDebug, func(l Logger, m string) { l.DebugContext(t.Context(), m) }},
		{LevelInfo, func(l Logger, m string) { l.InfoContext(t.Context(), m) }},
		{LevelWarn, func(l Logger, m string) { l.WarnContext(t.Context(), m) }},
		{LevelError, func(l Logger, m string) { l.ErrorContext(t.Context(), m) }},
	}

	for name := range Levels() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			threshold, _ := ParseLevel(name)

			var buf bytes.Buffer

			l := Make(&buf, plain(WithLevel(threshold))...)

			want := 0

			for _, c := range calls {
				c.log(l, c.level.String())

				if c.level >= threshold {
					want++
				}
			}

			records := decode(t, &buf)
			if len(records) != want {
				t.Fatalf("wrote %d records, want %d", len(records), want)
			}

			for _, rec := range records {
				if rec["level"] != strings.ToUpper(rec["msg"].(string)) {
					t.Errorf("record %v has mismatched level", rec)
				}
			}
		})
	}
}

func TestLogger_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, plain()...).With(slog.String("component", "parser"))
	l.Info("parsed", slog.Int("function_count", 2))

	records := decode(t, &buf)
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}

	rec := records[0]
	if rec["component"] != "parser" || rec["function_count"] != float64(2) {
		t.Errorf("record = %v", rec)
	}

	if _, ok := rec["time"]; ok {
		t.Errorf("time written with layout none: %v", rec)
	}
}

func TestLogger_Wrap(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer

	base := Make(&first, plain()...)
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelTrace))

	if base.Level() != DefaultLevel {
		t.Error("Wrap changed the receiver")
	}

	if wrapped.Level() != LevelTrace || wrapped.Format() != FormatJSON {
		t.Errorf("wrapped level %v format %v", wrapped.Level(), wrapped.Format())
	}

	wrapped.Trace("deep")

	if first.Len() != 0 {
		t.Errorf("receiver output = %q", first.String())
	}

	if rec := decode(t, &second); len(rec) != 1 || rec[0]["level"] != "TRACE" {
		t.Errorf("wrapped records = %v", rec)
	}
}

func TestLogger_Caller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, plain(WithCaller(true))...)
	l.Info("here")
	l.WarnContext(t.Context(), "there")

	for _, rec := range decode(t, &buf) {
		src, _ := rec["source"].(map[string]any)

		file, _ := src["file"].(string)
		if !strings.HasSuffix(file, "log_test.go") {
			t.Errorf("record %v source = %v", rec["msg"], src)
		}
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	t.Parallel()

	var l Logger

	l.Trace("ignored")
	l.Info("ignored")
	l.ErrorContext(t.Context(), "ignored")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on zero Logger returned a live logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero Logger reports non-default settings")
	}

	if l.Wrap(WithOutput(nil)).Logger == nil {
		t.Error("Wrap on zero Logger returned a dead logger")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, plain()...)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Go(func() {
			for j := range 25 {
				l.Info("tick", slog.Int("worker", i), slog.Int("n", j))
			}
		})
	}

	wg.Wait()

	if n := len(decode(t, &buf)); n != 200 {
		t.Errorf("wrote %d records, want 200", n)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	l := Make(&buf, plain()...)

	for i := 0; b.Loop(); i++ {
		l.Info("benchmark", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Trace_Disabled(b *testing.B) {
	l := Make(&bytes.Buffer{})

	for b.Loop() {
		l.Trace("skipped", slog.String("k", "v"))
	}
}
