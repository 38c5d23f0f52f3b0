package model

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/tmpl"
)

// Format is the encoding of a model document.
type Format int

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// FormatOf returns the format implied by the extension of path.
// Standard input ("-") and paths without an extension are YAML.
func FormatOf(path string) (Format, error) {
	if path == "" || path == "-" {
		return FormatYAML, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", "":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return FormatAuto, ErrUnsupportedFormat.With(
			slog.String("path", path),
			slog.String("extension", ext))
	}
}

// Model is a decoded definitions model.
type Model struct {
	// Path is the file the model was read from, or "-" for standard input.
	Path string
	// Namespace names the generated code. It defaults to the stem of Path.
	Namespace string
	// AST is the decoded document.
	AST tmpl.Value
}

type config struct {
	logger    log.Logger
	namespace string
	format    Format
}

// Option configures [Load] and [LoadReader].
type Option func(config) config

// WithFormat overrides format detection.
func WithFormat(f Format) Option {
	return func(c config) config {
		c.format = f

		return c
	}
}

// WithNamespace overrides the namespace derived from the file name.
func WithNamespace(ns string) Option {
	return func(c config) config {
		c.namespace = ns

		return c
	}
}

// WithLogger traces loading to logger.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// Load reads and decodes the model at path. A path of "-" reads standard
// input.
func Load(ctx context.Context, path string, opts ...Option) (Model, error) {
	if path == "-" {
		return LoadReader(ctx, os.Stdin, path, opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return Model{}, ErrReadModel.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return LoadReader(ctx, f, path, opts...)
}

// LoadReader decodes a model from r. The name supplies the format and
// namespace defaults, as the path does for [Load].
func LoadReader(ctx context.Context, r io.Reader, name string, opts ...Option) (Model, error) {
	var cfg config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	format := cfg.format
	if format == FormatAuto {
		var err error
		if format, err = FormatOf(name); err != nil {
			return Model{}, err
		}
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Model{}, ErrReadModel.Wrap(err).With(slog.String("path", name))
	}

	cfg.logger.TraceContext(ctx, "read model",
		slog.String("path", name),
		slog.String("format", format.String()),
		slog.Int("bytes", len(data)))

	// JSON is decoded by the YAML decoder, which accepts it as flow style.
	var doc any
	if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
		return Model{}, ErrDecodeModel.Wrap(err).With(
			slog.String("path", name),
			slog.String("format", format.String()))
	}

	ast, err := tmpl.FromNative(doc)
	if err != nil {
		return Model{}, ErrDecodeModel.Wrap(err).With(slog.String("path", name))
	}

	ns := cfg.namespace
	if ns == "" {
		ns = Namespace(name)
	}

	return Model{Path: name, Namespace: ns, AST: ast}, nil
}

// Namespace returns the file stem of path: its base name without the final
// extension. Standard input has no namespace.
func Namespace(path string) string {
	if path == "" || path == "-" {
		return ""
	}

	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Context returns the render context {ast, namespace} merged with extra.
// Entries of extra override the built-in names.
func (m Model) Context(extra map[string]tmpl.Value) tmpl.Value {
	ctx := map[string]tmpl.Value{
		"ast":       m.AST,
		"namespace": tmpl.String(m.Namespace),
	}

	maps.Copy(ctx, extra)

	return tmpl.Map(ctx)
}
