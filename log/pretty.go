package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handler. Styles are bound to a
// renderer for the handler's output, so they emit no escape sequences when
// the output is not a terminal.
type palette struct {
	key, text, number, yes, no, span, when, null lipgloss.Style

	trace, debug, info, warn, fail lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	fg := func(color string) lipgloss.Style {
		return r.NewStyle().
			Foreground(lipgloss.Color(color)).
			TabWidth(lipgloss.NoTabConversion)
	}

	return &palette{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		span:   fg("5"),
		when:   fg("4"),
		null:   fg("8"),
		trace:  fg("8"),
		debug:  fg("4"),
		info:   fg("2").Bold(true),
		warn:   fg("3").Bold(true),
		fail:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes colorized records, either as a single line of
// key=value pairs or as an indented block of key: value lines.
// Attributes inside groups are written with dotted keys.
type prettyHandler struct {
	opts      slog.HandlerOptions
	pal       *palette
	mu        *sync.Mutex
	w         io.Writer
	multiline bool
	prefix    string
	attrs     []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	multiline bool,
) *prettyHandler {
	return &prettyHandler{
		opts:      *opts,
		pal:       newPalette(w),
		mu:        &sync.Mutex{},
		w:         w,
		multiline: multiline,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	least := slog.LevelInfo
	if h.opts.Level != nil {
		least = h.opts.Level.Level()
	}

	return level >= least
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = flatten(h.prefix, attrs, append([]slog.Attr(nil), h.attrs...))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, a)
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey,
				filepath.Base(src.File)+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	fields = append(fields, h.attrs...)

	own := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	fields = flatten(h.prefix, own, fields)

	var buf bytes.Buffer

	if h.multiline {
		buf.WriteString("{\n")

		for i, a := range fields {
			buf.WriteString("  ")
			buf.WriteString(h.pal.key.Render(a.Key))
			buf.WriteString(": ")
			buf.WriteString(h.value(a, r.Level))

			if i < len(fields)-1 {
				buf.WriteByte(',')
			}

			buf.WriteByte('\n')
		}

		buf.WriteString("}\n")
	} else {
		for i, a := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.pal.key.Render(a.Key))
			buf.WriteByte('=')
			buf.WriteString(h.value(a, r.Level))
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) value(a slog.Attr, level slog.Level) string {
	v := a.Value

	if a.Key == slog.LevelKey {
		return h.pal.level(level).Render(v.String())
	}

	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, "\t\n\r\"") {
			s = strconv.Quote(s)
		}

		return h.pal.text.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.pal.number.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Render("true")
		}

		return h.pal.no.Render("false")

	case slog.KindDuration:
		return h.pal.span.Render(v.Duration().String())

	case slog.KindTime:
		return h.pal.when.Render(v.Time().Format(time.RFC3339))
	}

	switch x := v.Any().(type) {
	case nil:
		return h.pal.null.Render("null")
	case error:
		return h.pal.fail.Render(x.Error())
	default:
		return h.pal.text.Render(fmt.Sprint(x))
	}
}

// flatten appends attrs to out with resolved values, expanding groups into
// dotted keys under prefix and dropping empty attributes.
func flatten(prefix string, attrs, out []slog.Attr) []slog.Attr {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() == slog.KindGroup {
			inner := prefix
			if a.Key != "" {
				inner += a.Key + "."
			}

			out = flatten(inner, a.Value.Group(), out)

			continue
		}

		a.Key = prefix + a.Key
		out = append(out, a)
	}

	return out
}
