package tmpl

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" candidates of an undefined path.
const maxSuggestions = 3

// scope is a stack of name bindings. Lookups start at the innermost frame;
// frame 0 is the root mapping of the render context.
type scope struct {
	frames []map[string]Value
}

func newScope(data Value) *scope {
	global := data.m
	if data.Type() != TypeMapping {
		global = nil
	}

	return &scope{frames: []map[string]Value{global}}
}

func (s *scope) push(name string, v Value) {
	s.frames = append(s.frames, map[string]Value{name: v})
}

func (s *scope) pop() { s.frames = s.frames[:len(s.frames)-1] }

func (s *scope) lookup(name string) (Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// names returns every name visible in s in sorted order.
func (s *scope) names() []string {
	seen := map[string]bool{}

	var out []string

	for i := len(s.frames) - 1; i >= 0; i-- {
		for k := range s.frames[i] {
			if !seen[k] {
				seen[k] = true

				out = append(out, k)
			}
		}
	}

	slices.Sort(out)

	return out
}

// resolve evaluates a path: the first segment names a binding and each
// following segment selects a mapping key.
func (s *scope) resolve(p Path, offset int) (Value, error) {
	undefined := func(i int, reason string, candidates []string) error {
		attrs := []slog.Attr{
			slog.String("path", p.String()),
			slog.String("segment", p.Segments[i]),
			slog.String("reason", reason),
		}

		if sugg := suggest(p.Segments[i], candidates); len(sugg) > 0 {
			attrs = append(attrs, slog.String("suggestions", strings.Join(sugg, ", ")))
		}

		return ErrUndefinedPath.WithOffset(offset).With(attrs...)
	}

	v, ok := s.lookup(p.Segments[0])
	if !ok {
		return Value{}, undefined(0, "name is not defined", s.names())
	}

	for i := 1; i < len(p.Segments); i++ {
		switch v.Type() {
		case TypeMapping:
			next, ok := v.m[p.Segments[i]]
			if !ok {
				return Value{}, undefined(i, "key is not present", v.Keys())
			}

			v = next

		case TypeSequence:
			return Value{}, undefined(i, "sequence elements are not addressable by name", nil)

		default:
			return Value{}, undefined(i, v.Type().String()+" has no keys", nil)
		}
	}

	return v, nil
}

func suggest(name string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(name, candidates)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
