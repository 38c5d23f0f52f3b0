package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the output writer, so colors are dropped automatically when
// the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, null, dur, time lipgloss.Style
	trace, debug, info, warn, err           lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8"),
		dur:   fg("5"),
		time:  fg("4"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	s := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.err.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(v.Time().String())
	case slog.KindAny:
		switch a := v.Any().(type) {
		case nil:
			return p.null.Render("null")
		case slog.Level:
			return p.level(a)
		case error:
			return p.no.Render(a.Error())
		}
	}

	return p.str.Render(v.String())
}

// prettyHandler writes one colorized record per Handle call, either as
// key=value pairs on a single line or as an indented JSON-like block.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	pal        palette
	attrs      []slog.Attr
	prefix     string
	block      bool
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
		pal:        newPalette(w),
	}
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	h := newPrettyTextHandler(w, opts, formatTime)
	h.block = true

	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

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

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

type field struct{ key, val string }

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []field

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, field{slog.TimeKey, h.pal.time.Render(ts)})
		}
	}

	fields = append(fields, field{slog.LevelKey, h.pal.level(r.Level)})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			loc := fmt.Sprintf("%s:%d", src.File, src.Line)
			fields = append(fields, field{slog.SourceKey, h.pal.str.Render(loc)})
		}
	}

	fields = append(fields, field{slog.MessageKey, r.Message})

	for _, a := range h.attrs {
		fields = h.appendAttr(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.block {
		buf.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  " + h.pal.key.Render(f.key) + ": " + f.val)
		}

		buf.WriteString("\n}\n")
	} else {
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.pal.key.Render(f.key) + "=" + f.val)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) appendAttr(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.appendAttr(fields, prefix, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, h.pal.value(a.Value)})
}
