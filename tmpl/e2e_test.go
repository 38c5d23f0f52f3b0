package tmpl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/gentmpl/tmpl"
)

func geoModel(t *testing.T, nodes ...any) tmpl.Value {
	t.Helper()

	v, err := tmpl.FromNative(map[string]any{
		"namespace": "geo",
		"ast":       map[string]any{"nodes": nodes},
	})
	if err != nil {
		t.Fatal(err)
	}

	return v
}

var (
	point = map[string]any{
		"trait": "struct",
		"name":  "Point",
		"members": []any{
			map[string]any{"name": "x", "type": map[string]any{"name": "float"}},
		},
	}
	color = map[string]any{
		"trait": "enum",
		"name":  "Color",
		"members": []any{
			map[string]any{"name": "Red"},
			map[string]any{"name": "Green"},
		},
	}
)

func TestEndToEnd_StructDeclaration(t *testing.T) {
	const src = "namespace {{namespace}} {\n" +
		"{% for node in ast.nodes -%}\n" +
		"{% if node.trait == \"struct\" -%}\n" +
		"struct {{node.name}} {\n" +
		"{% for member in node.members -%}\n" +
		"  {{member.type.name}} {{member.name}};\n" +
		"{% endfor -%}\n" +
		"};\n" +
		"{% endif -%}\n" +
		"{% endfor -%}\n" +
		"} // {{namespace}}\n"

	const want = "namespace geo {\n" +
		"struct Point {\n" +
		"  float x;\n" +
		"};\n" +
		"} // geo\n"

	tpl, err := tmpl.Parse(src)
	if err != nil {
		t.Fatal(err)
	}

	got, err := tpl.Render(context.Background(), geoModel(t, point))
	if err != nil {
		t.Fatal(err)
	}

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEndToEnd_RootTemplate(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "root.cpp"))
	if err != nil {
		t.Fatal(err)
	}

	tpl, err := tmpl.Parse(string(src), tmpl.WithName("root.cpp"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		nodes []any
		want  string
	}{
		{
			name:  "no nodes",
			nodes: []any{},
			want:  "namespace geo {\n\n\n} // geo\n",
		},
		{
			name:  "struct",
			nodes: []any{point},
			want: "namespace geo {\n\n" +
				"      struct Point {\n" +
				"                float x;\n" +
				"           };\n" +
				"  \n" +
				"\n} // geo\n",
		},
		{
			name:  "struct and enum",
			nodes: []any{point, color},
			want: "namespace geo {\n\n" +
				"      struct Point {\n" +
				"                float x;\n" +
				"           };\n" +
				"  \n" +
				"      enum Color {\n" +
				"                Red,\n" +
				"                Green,\n" +
				"           };\n" +
				"  \n" +
				"\n} // geo\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tpl.Render(context.Background(), geoModel(t, tt.nodes...))
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}
