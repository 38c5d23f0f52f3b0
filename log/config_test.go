package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	names := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(names, want) {
		t.Fatalf("Levels() = %v, want %v", names, want)
	}

	for _, name := range names {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"kitchen", "2:05PM"},
		{"Date-Time", "2024-03-09 14:05:06"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(at); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestWithOutput_NilDiscards(t *testing.T) {
	c := apply(makeConfig(nil), WithOutput(nil))
	if c.output == nil {
		t.Fatal("nil output not replaced")
	}

	if _, err := c.output.Write([]byte("x")); err != nil {
		t.Errorf("discard writer failed: %v", err)
	}
}

func TestConfig_Handler_FormatSelection(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		prefix string
	}{
		{"plain text", []Option{WithFormat(FormatText), WithPretty(false)}, "level=WARN"},
		{"plain json", []Option{WithFormat(FormatJSON), WithPretty(false)}, `{"level":"WARN"`},
		{"pretty text", []Option{WithFormat(FormatText), WithPretty(true)}, "level=WARN"},
		{"pretty json", []Option{WithFormat(FormatJSON), WithPretty(true)}, "{\n  level: WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			opts := append([]Option{WithTimeLayout("none")}, tt.opts...)
			Make(&buf, opts...).Warn("hello")

			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("output %q does not start with %q", buf.String(), tt.prefix)
			}
		})
	}
}
