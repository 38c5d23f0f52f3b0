package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/tmpl"
)

func TestUniquePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	a := filepath.Join(dir, "a.tmpl")
	b := filepath.Join(dir, "b.tmpl")
	link := filepath.Join(dir, "link.tmpl")
	missing := filepath.Join(dir, "missing.tmpl")

	for _, path := range []string{a, b} {
		if err := os.WriteFile(path, []byte(path), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	dotted := dir + string(filepath.Separator) + "." + string(filepath.Separator) + "a.tmpl"

	got := uniquePaths([]string{a, "-", b, link, dotted, "-", missing, a})
	want := []string{a, "-", b, missing}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("uniquePaths() mismatch (-want +got):\n%s", diff)
	}
}

func TestStreams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if stdoutFrom(ctx) != os.Stdout || stderrFrom(ctx) != os.Stderr {
		t.Error("default streams are not the process streams")
	}

	var out, errs bytes.Buffer

	ctx = WithStreams(ctx, &out, &errs)

	if stdoutFrom(ctx) != &out || stderrFrom(ctx) != &errs {
		t.Error("WithStreams() streams not returned")
	}
}

func TestCacheFrom(t *testing.T) {
	t.Parallel()

	if cacheFrom(context.Background()) == nil {
		t.Fatal("cacheFrom() without cache returned nil")
	}

	c := tmpl.NewCache(log.Logger{})
	if got := cacheFrom(WithCache(context.Background(), c)); got != c {
		t.Errorf("cacheFrom() = %p, want %p", got, c)
	}
}

func TestReadSource(t *testing.T) {
	t.Parallel()

	src, err := readSource(filepath.Join("testdata", "root.cpp"))
	if err != nil {
		t.Fatal(err)
	}

	if len(src) == 0 || src[:9] != "namespace" {
		t.Errorf("readSource() = %q", src)
	}

	_, err = readSource(filepath.Join("testdata", "missing.cpp"))
	if !errors.Is(err, ErrReadTemplate) {
		t.Errorf("readSource() error = %v, want %v", err, ErrReadTemplate)
	}
}
