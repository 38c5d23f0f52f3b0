package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/tmpl"
)

type (
	contextKey struct{}
	cacheKey   struct{}
	streamsKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// WithCache returns a new context.Context whose commands parse templates
// through c.
func WithCache(ctx context.Context, c *tmpl.Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, c)
}

// cacheFrom returns the cache stored by [WithCache], or a new one.
func cacheFrom(ctx context.Context) *tmpl.Cache {
	if c, ok := ctx.Value(cacheKey{}).(*tmpl.Cache); ok && c != nil {
		return c
	}

	return tmpl.NewCache(log.Default())
}

type streams struct {
	stdout, stderr io.Writer
}

// WithStreams returns a new context.Context whose commands write results to
// stdout and diagnostics to stderr instead of the process streams.
func WithStreams(ctx context.Context, stdout, stderr io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{stdout, stderr})
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(streamsKey{}).(streams); ok && s.stdout != nil {
		return s.stdout
	}

	return os.Stdout
}

func stderrFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(streamsKey{}).(streams); ok && s.stderr != nil {
		return s.stderr
	}

	return os.Stderr
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSource returns the content of the file at path, or of stdin if path
// is "-".
func readSource(path string) (string, error) {
	var r io.Reader = os.Stdin

	if path != stdinSource {
		f, err := os.Open(path)
		if err != nil {
			return "", ErrReadTemplate.With(sourceAttr(path)).Wrap(err)
		}
		defer f.Close()

		r = f
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	b, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadTemplate.With(sourceAttr(path)).Wrap(err)
	}

	return string(b), nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths returns paths in order with duplicates removed. Two paths are
// duplicates if they resolve to the same file, even through symlinks.
// Paths that cannot be resolved are kept so that reading them reports the
// error. Every occurrence of "-" after the first is dropped.
func uniquePaths(paths []string) []string {
	unique := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{}, len(paths))
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				unique = append(unique, path)
			}

			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		unique = append(unique, path)
	}

	return unique
}

func resolveFileKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
