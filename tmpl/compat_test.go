package tmpl_test

import (
	"context"
	"testing"

	"github.com/flosch/pongo2/v6"

	"github.com/ardnew/gentmpl/tmpl"
)

// Templates without trim markers, boolean output or undefined names render
// identically under pongo2, whose Django syntax shares this subset.
func TestRender_MatchesPongo2(t *testing.T) {
	data := map[string]any{
		"name":  "geo",
		"items": []any{1, 2, 3},
		"flag":  0,
		"label": "x",
		"ast": map[string]any{"nodes": []any{
			map[string]any{"trait": "struct", "name": "Point", "members": []any{"x", "y"}},
			map[string]any{"trait": "enum", "name": "Color", "members": []any{"Red"}},
			map[string]any{"trait": "alias", "name": "Id", "members": []any{}},
		}},
	}

	tests := []struct {
		name string
		src  string
	}{
		{"text", "just text\n  with lines\n"},
		{"interpolation", "Hello {{ name }}!"},
		{"loop", "{% for n in items %}[{{ n }}]{% endfor %}"},
		{"empty loop", "a{% for m in ast.nodes %}{% for x in m.members %}{% endfor %}{% endfor %}b"},
		{
			"dispatch",
			`{% for node in ast.nodes %}{% if node.trait == "struct" %}S:{{ node.name }}` +
				`{% elif node.trait == "enum" %}E:{{ node.name }}{% else %}?{% endif %};{% endfor %}`,
		},
		{"nested", "{% for node in ast.nodes %}{{ node.name }}({% for m in node.members %}{{ m }} {% endfor %}){% endfor %}"},
		{"truthiness", "{% if flag %}A{% else %}B{% endif %}{% if label %}C{% endif %}"},
		{"logic", "{% if label and not flag %}1{% endif %}{% if flag or label %}2{% endif %}"},
		{"not equal", `{% if name != "geo" %}diff{% else %}same{% endif %}`},
		{"whitespace", "  {% for n in items %}\n  {{ n }}\n{% endfor %}\n"},
	}

	model, err := tmpl.FromNative(data)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := pongo2.FromString(tt.src)
			if err != nil {
				t.Fatalf("pongo2 parse: %v", err)
			}

			want, err := ref.Execute(pongo2.Context(data))
			if err != nil {
				t.Fatalf("pongo2 execute: %v", err)
			}

			tpl, err := tmpl.Parse(tt.src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			got, err := tpl.Render(context.Background(), model)
			if err != nil {
				t.Fatalf("render: %v", err)
			}

			if got != want {
				t.Errorf("got  %q\nwant %q (pongo2)", got, want)
			}
		})
	}
}
