package cmd

import (
	"context"

	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/tmpl"
)

// Tree prints the parsed node tree of a template.
type Tree struct {
	YAML     bool `help:"Print the tree as YAML"                         short:"y"`
	Indent   int  `default:"2"           help:"Indent width for YAML output" short:"i"`
	MaxDepth int  `default:"${maxDepth}" help:"Maximum block nesting depth"`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" name:"template"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	src, err := readSource(t.Template)
	if err != nil {
		return err
	}

	parsed, err := cacheFrom(ctx).Parse(ctx, src,
		tmpl.WithName(t.Template),
		tmpl.WithMaxDepth(t.MaxDepth),
		tmpl.WithLogger(log.Default()))
	if err != nil {
		Diagnose(stderrFrom(ctx), t.Template, src, err)

		return ErrTemplate.With(sourceAttr(t.Template)).Wrap(err)
	}

	w := stdoutFrom(ctx)

	if t.YAML {
		err = parsed.FormatYAML(ctx, w, t.Indent)
	} else {
		err = parsed.Print(w)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
