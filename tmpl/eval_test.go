package tmpl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func mustValue(t *testing.T, x any) Value {
	t.Helper()

	v, err := FromNative(x)
	if err != nil {
		t.Fatalf("FromNative: %v", err)
	}

	return v
}

func render(t *testing.T, src string, data any) (string, error) {
	t.Helper()

	tpl, err := Parse(src)
	if err != nil {
		return "", err
	}

	return tpl.Render(context.Background(), mustValue(t, data))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		data map[string]any
		want string
	}{
		{
			name: "directive-free text is identity",
			src:  "plain { text } with %} and }} stray delimiters\n",
			want: "plain { text } with %} and }} stray delimiters\n",
		},
		{
			name: "interpolation",
			src:  "namespace {{namespace}} {",
			data: map[string]any{"namespace": "geo"},
			want: "namespace geo {",
		},
		{
			name: "empty loop contributes nothing",
			src:  "a{% for x in xs %}X{% endfor %}b",
			data: map[string]any{"xs": []any{}},
			want: "ab",
		},
		{
			name: "loop binds element",
			src:  "{% for x in xs %}[{{ x }}]{% endfor %}",
			data: map[string]any{"xs": []any{1, "two", 3.5, true, nil}},
			want: "[1][two][3.5][true][]",
		},
		{
			name: "loop variable shadows global",
			src:  "{% for x in xs %}{{ x }}{% endfor %}{{ x }}",
			data: map[string]any{"x": "outer", "xs": []any{1, 2}},
			want: "12outer",
		},
		{
			name: "nested loops see outer bindings",
			src:  "{% for n in nodes %}{% for m in n.members %}{{ n.name }}.{{ m }} {% endfor %}{% endfor %}",
			data: map[string]any{"nodes": []any{
				map[string]any{"name": "P", "members": []any{"x", "y"}},
				map[string]any{"name": "Q", "members": []any{"z"}},
			}},
			want: "P.x P.y Q.z ",
		},
		{
			name: "trim markers",
			src:  "X\n{%- if true -%}\nY\n{%- endif -%}\nZ",
			want: "XYZ",
		},
		{
			name: "trim only one line break",
			src:  "a\n\n  {{- v -}}  \n\nb",
			data: map[string]any{"v": "V"},
			want: "a\nV\nb",
		},
		{
			name: "elif chain",
			src:  `{% for t in ts %}{% if t == "struct" %}S{% elif t == "enum" %}E{% else %}?{% endif %}{% endfor %}`,
			data: map[string]any{"ts": []any{"enum", "struct", "alias"}},
			want: "ES?",
		},
		{
			name: "integral float keeps its fraction",
			src:  "{{ f }} {{ i }}",
			data: map[string]any{"f": 2.0, "i": 2},
			want: "2.0 2",
		},
		{
			name: "not equal",
			src:  `{% if a != "x" %}diff{% endif %}`,
			data: map[string]any{"a": "y"},
			want: "diff",
		},
		{
			name: "numeric comparison across representations",
			src:  "{% if n == 1.0 %}eq{% endif %}{% if n == -1 %}neg{% endif %}",
			data: map[string]any{"n": 1},
			want: "eq",
		},
		{
			name: "logical operators",
			src:  "{% if a and not b %}1{% endif %}{% if b or a %}2{% endif %}{% if (b or a) and b %}3{% endif %}",
			data: map[string]any{"a": "x", "b": 0},
			want: "12",
		},
		{
			name: "and short-circuits",
			src:  "{% if false and missing %}x{% endif %}{% if true or missing %}y{% endif %}",
			want: "y",
		},
		{
			name: "sequences and mappings interpolate as JSON",
			src:  "{{ a }} {{ m }}",
			data: map[string]any{"a": []any{1, "b"}, "m": map[string]any{"k": nil}},
			want: `[1,"b"] {"k":null}`,
		},
		{
			name: "null interpolates as nothing",
			src:  "[{{ a }}]",
			data: map[string]any{"a": nil},
			want: "[]",
		},
		{
			name: "literal interpolation",
			src:  `{{ "lit" }}{{ 4 }}{{ nil }}`,
			want: "lit4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := render(t, tt.src, tt.data)
			if err != nil {
				t.Fatalf("render error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRender_Truthiness(t *testing.T) {
	const src = "{% if flag %}A{% else %}B{% endif %}"

	tests := []struct {
		flag any
		want string
	}{
		{0, "B"},
		{"x", "A"},
		{"", "B"},
		{nil, "B"},
		{false, "B"},
		{2.5, "A"},
		{[]any{}, "B"},
		{[]any{0}, "A"},
		{map[string]any{}, "B"},
	}

	for _, tt := range tests {
		got, err := render(t, src, map[string]any{"flag": tt.flag})
		if err != nil {
			t.Fatalf("flag %#v: %v", tt.flag, err)
		}

		if got != tt.want {
			t.Errorf("flag %#v: got %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestRender_PathOrderMatters(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": 1}}

	got, err := render(t, "{{ a.b }}", data)
	if err != nil || got != "1" {
		t.Fatalf("a.b = %q, %v", got, err)
	}

	_, err = render(t, "{{ a.c }}", data)
	if !errors.Is(err, ErrUndefinedPath) {
		t.Fatalf("a.c error = %v, want ErrUndefinedPath", err)
	}
}

func TestRender_UndefinedPath(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		data    any
		segment string
		reason  string
		suggest string
	}{
		{
			name:    "unknown name",
			src:     "ok {{ nmespace }}",
			data:    map[string]any{"name": "n", "namespace": "geo"},
			segment: "nmespace",
			reason:  "name is not defined",
			suggest: "namespace",
		},
		{
			name:    "missing key",
			src:     "{{ node.nme }}",
			data:    map[string]any{"node": map[string]any{"name": "P", "members": nil}},
			segment: "nme",
			reason:  "key is not present",
			suggest: "name",
		},
		{
			name:    "sequence mid-path",
			src:     "{{ a.b }}",
			data:    map[string]any{"a": []any{map[string]any{"b": 1}}},
			segment: "b",
			reason:  "sequence elements are not addressable by name",
		},
		{
			name:    "scalar mid-path",
			src:     "{{ a.b }}",
			data:    map[string]any{"a": 1},
			segment: "b",
			reason:  "number has no keys",
		},
		{
			name:    "non-mapping context",
			src:     "{{ x }}",
			data:    []any{1},
			segment: "x",
			reason:  "name is not defined",
		},
		{
			name:    "loop binding out of scope",
			src:     "{% for x in xs %}{% endfor %}{{ x }}",
			data:    map[string]any{"xs": []any{1}},
			segment: "x",
			reason:  "name is not defined",
			suggest: "xs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := render(t, tt.src, tt.data)
			if !errors.Is(err, ErrUndefinedPath) {
				t.Fatalf("error = %v, want ErrUndefinedPath", err)
			}

			if out != "" {
				t.Errorf("partial output %q returned with error", out)
			}

			e, _ := AsError(err)
			if e.Phase() != PhaseEval {
				t.Errorf("phase = %v", e.Phase())
			}

			check := func(key, want string) {
				got, ok := e.Attr(key)
				if want == "" {
					if ok {
						t.Errorf("unexpected %s=%v", key, got)
					}

					return
				}

				if !ok || got.String() != want {
					t.Errorf("%s = %v, want %q", key, got, want)
				}
			}

			check("segment", tt.segment)
			check("reason", tt.reason)
			check("suggestions", tt.suggest)
		})
	}
}

func TestRender_NotIterable(t *testing.T) {
	_, err := render(t, "x{% for c in a %}{% endfor %}", map[string]any{"a": "str"})
	if !errors.Is(err, ErrNotIterable) {
		t.Fatalf("error = %v, want ErrNotIterable", err)
	}

	e, _ := AsError(err)
	if typ, _ := e.Attr("type"); typ.String() != "string" {
		t.Errorf("type attr = %v", typ)
	}

	if e.Offset() != 1 {
		t.Errorf("offset = %d, want 1", e.Offset())
	}
}

func TestRender_Idempotent(t *testing.T) {
	tpl, err := Parse("{% for x in xs %}{{ x }},{% endfor %}")
	if err != nil {
		t.Fatal(err)
	}

	data := mustValue(t, map[string]any{"xs": []any{"a", "b"}})

	first, err := tpl.Render(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}

	for range 3 {
		again, err := tpl.Render(context.Background(), data)
		if err != nil || again != first {
			t.Fatalf("render changed: %q vs %q (%v)", again, first, err)
		}
	}
}

func TestRender_Canceled(t *testing.T) {
	tpl, err := Parse("{% for x in xs %}{{ x }}{% endfor %}")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = tpl.Render(ctx, mustValue(t, map[string]any{"xs": []any{1}}))
	if !errors.Is(err, ErrRenderCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want ErrRenderCanceled wrapping context.Canceled", err)
	}
}

func TestExecute_AllOrNothing(t *testing.T) {
	tpl, err := Parse("header\n{{ missing }}")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(context.Background(), &buf, Map(nil)); err == nil {
		t.Fatal("expected error")
	}

	if buf.Len() != 0 {
		t.Errorf("partial output written: %q", buf.String())
	}

	ok, err := Parse("a{{ b }}")
	if err != nil {
		t.Fatal(err)
	}

	if err := ok.Execute(context.Background(), &buf, mustValue(t, map[string]any{"b": "c"})); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "ac" {
		t.Errorf("Execute wrote %q", buf.String())
	}
}

func TestRender_MismatchedBlockProducesNothing(t *testing.T) {
	out, err := render(t, "head {% for n in x %}body{% endif %}", map[string]any{"x": []any{1}})
	if !errors.Is(err, ErrMismatchedBlock) {
		t.Fatalf("error = %v, want ErrMismatchedBlock", err)
	}

	if out != "" {
		t.Errorf("output %q, want none", out)
	}

	if !strings.Contains(err.Error(), "expected=endfor") {
		t.Errorf("message %q lacks the expected keyword", err.Error())
	}
}
