package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				LogLevel string `default:"warn" name:"log-level"`
				Pretty   bool   `default:"true" name:"log-pretty"`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			kctx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			ctx := WithContext(context.Background(), kctx)

			err = (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			want := map[string]any{"log-level": "warn", "log-pretty": true}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigDocument(t *testing.T) {
	t.Parallel()

	type level string

	var cli struct {
		Verbose bool     `help:"Enable verbose output" name:"verbose"`
		Output  string   `help:"Output file"           name:"output"`
		Count   int      `help:"Number of items"       name:"count"`
		Level   level    `help:"Level"                 name:"level"`
		Tags    []string `help:"Tags"                  name:"tags"`
		Empty   string   `help:"Unset"                 name:"empty"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse([]string{
		"--verbose", "--output=test.txt", "--count=5", "--level=info", "--tags=a,b",
	})
	if err != nil {
		t.Fatal(err)
	}

	got := configDocument(kctx)

	want := yaml.MapSlice{
		{Key: "verbose", Value: true},
		{Key: "output", Value: "test.txt"},
		{Key: "count", Value: int64(5)},
		{Key: "level", Value: "info"},
		{Key: "tags", Value: []string{"a", "b"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("configDocument() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	type named string

	tests := []struct {
		name   string
		in     any
		want   any
		wantOK bool
	}{
		{"nil", nil, nil, false},
		{"bool", false, false, true},
		{"string", "x", "x", true},
		{"empty string", "", "", false},
		{"named string", named("debug"), "debug", true},
		{"int", 3, int64(3), true},
		{"uint", uint8(7), uint64(7), true},
		{"float", 1.5, 1.5, true},
		{"empty slice", []string{}, nil, false},
		{"struct", struct{}{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := configValue(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("configValue(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}

			if ok && !cmp.Equal(got, tt.want) {
				t.Errorf("configValue(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
