package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/tmpl"
)

// Check parses templates and reports the first error of each.
type Check struct {
	MaxDepth int `default:"${maxDepth}" help:"Maximum block nesting depth"`

	Templates []string `arg:"" help:"Template files or '-' for stdin" name:"template"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cache := cacheFrom(ctx)
	paths := uniquePaths(c.Templates)

	var failed []string

	for _, path := range paths {
		src, err := readSource(path)
		if err == nil {
			_, err = cache.Parse(ctx, src,
				tmpl.WithName(path),
				tmpl.WithMaxDepth(c.MaxDepth),
				tmpl.WithLogger(log.Default()))
		}

		if err != nil {
			Diagnose(stderrFrom(ctx), path, src, err)

			failed = append(failed, path)

			continue
		}

		log.InfoContext(ctx, "template ok", sourceAttr(path))
	}

	if len(failed) > 0 {
		return ErrCheckFailed.With(
			slog.Int("checked", len(paths)),
			slog.Int("failed", len(failed)),
			slog.Any("templates", failed))
	}

	return nil
}
