package cmd

import (
	"context"

	"github.com/ardnew/gentmpl/tmpl"
)

// Tokens prints the lexer output for a template.
type Tokens struct {
	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" name:"template"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	src, err := readSource(t.Template)
	if err != nil {
		return err
	}

	tokens, err := tmpl.Lex(src)
	if err != nil {
		Diagnose(stderrFrom(ctx), t.Template, src, err)

		return ErrTemplate.With(sourceAttr(t.Template)).Wrap(err)
	}

	if err := tmpl.FormatTokens(stdoutFrom(ctx), tokens); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
