package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/ardnew/gentmpl/tmpl"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	const src = "ab\ncdé f\r\n\nlast"

	tests := []struct {
		name     string
		offset   int
		wantPos  Position
		wantLine string
	}{
		{"start", 0, Position{1, 1}, "ab"},
		{"end of first line", 2, Position{1, 3}, "ab"},
		{"second line", 3, Position{2, 1}, "cdé f"},
		{"after multibyte rune", 7, Position{2, 4}, "cdé f"},
		{"empty line", 11, Position{3, 1}, ""},
		{"last line", 13, Position{4, 2}, "last"},
		{"negative clamps", -4, Position{1, 1}, "ab"},
		{"past end clamps", 99, Position{4, 5}, "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pos, line := Locate(src, tt.offset)
			if pos != tt.wantPos {
				t.Errorf("Locate(%d) pos = %+v, want %+v", tt.offset, pos, tt.wantPos)
			}

			if line != tt.wantLine {
				t.Errorf("Locate(%d) line = %q, want %q", tt.offset, line, tt.wantLine)
			}
		})
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		err  error
		want string
	}{
		{
			name: "caret under offset",
			src:  "line one\n  {{ ast.ndes }}\n",
			err: tmpl.ErrUndefinedPath.WithOffset(14).
				With(slog.String("path", "ast.ndes")),
			want: "t.cpp:2:6: undefined path\n" +
				"  2 |   {{ ast.ndes }}\n" +
				"    |      ^\n" +
				"    = path=ast.ndes\n",
		},
		{
			name: "tabs kept in caret indent",
			src:  "\t{% endif %}",
			err:  tmpl.ErrMismatchedBlock.WithOffset(1),
			want: "t.cpp:1:2: mismatched block\n" +
				"  1 | \t{% endif %}\n" +
				"    | \t^\n",
		},
		{
			name: "cause in details",
			src:  "{{ x }}",
			err:  tmpl.ErrRenderCanceled.WithOffset(0).Wrap(errors.New("stop")),
			want: "t.cpp:1:1: render canceled\n" +
				"  1 | {{ x }}\n" +
				"    | ^\n" +
				"    = cause=stop\n",
		},
		{
			name: "plain error",
			src:  "",
			err:  errors.New("boom"),
			want: "t.cpp: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			Diagnose(&buf, "t.cpp", tt.src, tt.err)

			if got := buf.String(); got != tt.want {
				t.Errorf("Diagnose() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
