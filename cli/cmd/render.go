package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/model"
	"github.com/ardnew/gentmpl/tmpl"
)

// watchSettle is how long render --watch waits for a burst of file events to
// end before rendering again.
const watchSettle = 100 * time.Millisecond

// Render renders a template against a definitions model.
type Render struct {
	Template  string            `help:"Template file or '-' for stdin"                 required:"" short:"t"`
	Model     string            `help:"Model file (.yaml, .yml, .json) or '-' for stdin" required:"" short:"m"`
	Output    string            `help:"Output file or '-' for stdout"                  default:"-" short:"o"`
	Namespace string            `help:"Namespace (default: model file stem)"                           short:"n"`
	Set       map[string]string `help:"Add a string value to the render context"                        short:"s" mapsep:"none"`
	Watch     bool              `help:"Render again whenever the template or model changes"             short:"w"`
	MaxDepth  int               `help:"Maximum block nesting depth"                    default:"${maxDepth}"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Template == stdinSource && r.Model == stdinSource {
		return ErrReadTemplate.With(sourceAttr(stdinSource)).
			Wrap(errors.New("template and model cannot both be read from stdin"))
	}

	if !r.Watch {
		return r.render(ctx)
	}

	if r.Template == stdinSource || r.Model == stdinSource {
		return ErrWatch.With(sourceAttr(stdinSource)).
			Wrap(errors.New("cannot watch stdin"))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return r.watch(ctx)
}

// render performs a single render and writes the result.
func (r *Render) render(ctx context.Context) error {
	start := time.Now()

	src, err := readSource(r.Template)
	if err != nil {
		return err
	}

	t, err := cacheFrom(ctx).Parse(ctx, src,
		tmpl.WithName(r.Template),
		tmpl.WithMaxDepth(r.MaxDepth),
		tmpl.WithLogger(log.Default()))
	if err != nil {
		Diagnose(stderrFrom(ctx), r.Template, src, err)

		return ErrTemplate.With(sourceAttr(r.Template)).Wrap(err)
	}

	m, err := model.Load(ctx, r.Model,
		model.WithNamespace(r.Namespace),
		model.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	out, err := t.Render(ctx, m.Context(r.extra()))
	if err != nil {
		Diagnose(stderrFrom(ctx), r.Template, src, err)

		return ErrTemplate.With(sourceAttr(r.Template)).Wrap(err)
	}

	if err := r.write(ctx, out); err != nil {
		return err
	}

	log.DebugContext(ctx, "rendered",
		sourceAttr(r.Template),
		slog.String("model", r.Model),
		slog.String("namespace", m.Namespace),
		slog.String("output", r.Output),
		slog.Int("bytes", len(out)),
		slog.Duration("took", time.Since(start)))

	return nil
}

func (r *Render) extra() map[string]tmpl.Value {
	if len(r.Set) == 0 {
		return nil
	}

	extra := make(map[string]tmpl.Value, len(r.Set))
	for k, v := range r.Set {
		extra[k] = tmpl.String(v)
	}

	return extra
}

func (r *Render) write(ctx context.Context, out string) error {
	if r.Output == "" || r.Output == stdinSource {
		_, err := io.WriteString(stdoutFrom(ctx), out)
		if err != nil {
			return ErrWriteOutput.With(slog.String("output", "-")).Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(r.Output, []byte(out), 0o644); err != nil {
		return ErrWriteOutput.With(slog.String("output", r.Output)).Wrap(err)
	}

	return nil
}

// watch renders once, then again after every change to the template or
// model until ctx is done. Failed renders are logged and do not end the
// watch.
func (r *Render) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	files := make(map[string]struct{}, 2)

	// Directories are watched instead of the files so that editors which
	// replace a file by renaming over it are still seen.
	for _, path := range []string{r.Template, r.Model} {
		abs, err := filepath.Abs(path)
		if err != nil {
			return ErrWatch.With(sourceAttr(path)).Wrap(err)
		}

		files[abs] = struct{}{}

		if err := w.Add(filepath.Dir(abs)); err != nil {
			return ErrWatch.With(sourceAttr(path)).Wrap(err)
		}
	}

	r.renderLogged(ctx)

	settle := time.NewTimer(watchSettle)
	settle.Stop()

	for {
		select {
		case <-ctx.Done():
			log.DebugContext(ctx, "watch stopped",
				slog.Any("cause", context.Cause(ctx)))

			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if _, watched := files[filepath.Clean(ev.Name)]; !watched {
				continue
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			log.TraceContext(ctx, "watch event",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()))

			settle.Reset(watchSettle)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-settle.C:
			r.renderLogged(ctx)
		}
	}
}

func (r *Render) renderLogged(ctx context.Context) {
	if err := r.render(ctx); err != nil {
		log.ErrorContext(ctx, "render failed", slog.Any("error", err))

		return
	}

	log.InfoContext(ctx, "rendered",
		sourceAttr(r.Template),
		slog.String("output", r.Output))
}
