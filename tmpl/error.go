package tmpl

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Phase identifies the stage of template processing that failed.
type Phase int

const (
	PhaseLex Phase = iota + 1
	PhaseParse
	PhaseEval
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	case PhaseEval:
		return "eval"
	default:
		return "unknown"
	}
}

// Predefined errors (sentinel values). Every error returned by this package
// matches exactly one of them with [errors.Is].
var (
	ErrUnterminatedTag = newError(PhaseLex, "unterminated tag")

	ErrMismatchedBlock       = newError(PhaseParse, "mismatched block")
	ErrUnclosedBlock         = newError(PhaseParse, "unclosed block")
	ErrUnexpectedDirective   = newError(PhaseParse, "unexpected directive")
	ErrInvalidSyntax         = newError(PhaseParse, "invalid syntax")
	ErrUnsupportedExpression = newError(PhaseParse, "unsupported expression")
	ErrMaxDepthExceeded      = newError(PhaseParse, "maximum block depth exceeded")

	ErrUndefinedPath   = newError(PhaseEval, "undefined path")
	ErrNotIterable     = newError(PhaseEval, "value is not iterable")
	ErrRenderCanceled  = newError(PhaseEval, "render canceled")
	ErrUnsupportedType = newError(PhaseEval, "unsupported value type")
)

// Error is a template error with a source offset and structured attributes.
// It implements both error and [slog.LogValuer].
//
// Values are immutable: [Error.With], [Error.Wrap] and [Error.WithOffset]
// return copies that still match their sentinel under [errors.Is].
type Error struct {
	base   *Error
	phase  Phase
	msg    string
	err    error
	offset int
	attrs  []slog.Attr
}

func newError(phase Phase, msg string) *Error {
	return &Error{phase: phase, msg: msg, offset: -1}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

func (e *Error) derive() *Error {
	c := *e
	c.base = e.root()

	return &c
}

// Error formats as "<msg> at offset <n> (k=v, ...): <cause>", omitting the
// parts that are unset.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.offset))
	}

	if len(e.attrs) > 0 {
		b.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Value.String())
		}

		b.WriteByte(')')
	}

	if e.err != nil {
		b.WriteString(": ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.root() == t.root()
}

// Phase returns the processing stage that produced e.
func (e *Error) Phase() Phase { return e.phase }

// Message returns the sentinel message without offset or attributes.
func (e *Error) Message() string { return e.msg }

// Offset returns the byte offset in the template source, or -1.
func (e *Error) Offset() int { return e.offset }

// Attr returns the value of the first attribute named key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Attrs returns a copy of the attributes of e in the order they were added.
func (e *Error) Attrs() []slog.Attr { return slices.Clone(e.attrs) }

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)
	attrs = append(attrs,
		slog.String("error", e.msg),
		slog.String("phase", e.phase.String()))

	if e.offset >= 0 {
		attrs = append(attrs, slog.Int("offset", e.offset))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return c
}

// WithOffset returns a copy of e positioned at the given source offset.
func (e *Error) WithOffset(offset int) *Error {
	c := e.derive()
	c.offset = offset

	return c
}

// AsError returns the [*Error] in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}
