package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// Buffers are not terminals, so the pretty handler writes no color codes.

func TestPretty_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace))
	l.Trace("call",
		slog.String("function", "main"),
		slog.Int("depth", 2),
		slog.Bool("ok", true),
		slog.Duration("took", 1500*time.Millisecond),
		slog.String("text", "a\tb"),
		slog.String("empty", ""),
		slog.Any("err", errors.New("boom")),
		slog.Any("nothing", nil),
	)

	want := `level=TRACE msg=call function=main depth=2 ok=true took=1.5s ` +
		`text="a\tb" empty="" err=boom nothing=null` + "\n"

	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestPretty_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"))

	grouped := slog.New(l.Handler().WithGroup("run").WithAttrs([]slog.Attr{
		slog.String("file", "a.fx"),
	}))

	grouped.Info("done", slog.Group("result", slog.String("value", "3")))

	want := "level=INFO msg=done run.file=a.fx run.result.value=3\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

type secret string

func (secret) LogValue() slog.Value { return slog.StringValue("***") }

func TestPretty_Block(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON))
	l.With(slog.String("component", "cache")).
		Warn("miss", slog.Any("key", secret("k")))

	want := strings.Join([]string{
		"{",
		"  level: WARN,",
		"  msg: miss,",
		"  component: cache,",
		"  key: ***",
		"}",
	}, "\n") + "\n"

	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPretty_Caller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"), WithCaller(true))
	l.Error("failed")

	if !strings.Contains(buf.String(), "source=pretty_test.go:") {
		t.Errorf("output = %q", buf.String())
	}
}
