package tmpl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
)

// Render evaluates t against data and returns the output. The root of data
// should be a mapping; its keys are the global names of the template.
//
// Rendering is all-or-nothing: on error the partial output is discarded.
func (t *Template) Render(ctx context.Context, data Value) (string, error) {
	var buf strings.Builder

	if err := t.render(ctx, &buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Execute renders t against data and writes the output to w. Nothing is
// written unless rendering succeeds.
func (t *Template) Execute(ctx context.Context, w io.Writer, data Value) error {
	var buf bytes.Buffer

	if err := t.render(ctx, &buf, data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)

	return err
}

type output interface {
	io.StringWriter
	Len() int
}

func (t *Template) render(ctx context.Context, out output, data Value) error {
	r := renderer{ctx: ctx, scope: newScope(data), out: out}

	if err := r.nodes(t.Nodes); err != nil {
		t.logger.TraceContext(ctx, "render failed", slog.Any("error", err))

		return err
	}

	t.logger.TraceContext(ctx, "rendered", slog.Int("bytes", out.Len()))

	return nil
}

type renderer struct {
	ctx   context.Context
	scope *scope
	out   output
}

func (r *renderer) canceled() error {
	if err := r.ctx.Err(); err != nil {
		return ErrRenderCanceled.Wrap(context.Cause(r.ctx))
	}

	return nil
}

func (r *renderer) nodes(nodes []Node) error {
	for _, n := range nodes {
		if err := r.canceled(); err != nil {
			return err
		}

		if err := r.node(n); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) node(n Node) error {
	switch n := n.(type) {
	case *TextNode:
		_, _ = r.out.WriteString(n.Content)

	case *ExprNode:
		v, err := r.eval(n.Expr, n.Offset)
		if err != nil {
			return err
		}

		_, _ = r.out.WriteString(v.String())

	case *ForNode:
		return r.loop(n)

	case *IfNode:
		return r.branch(n)
	}

	return nil
}

func (r *renderer) loop(n *ForNode) error {
	seq, err := r.scope.resolve(n.Iterable, n.Offset)
	if err != nil {
		return err
	}

	if seq.Type() != TypeSequence {
		return ErrNotIterable.WithOffset(n.Offset).With(
			slog.String("path", n.Iterable.String()),
			slog.String("type", seq.Type().String()))
	}

	for _, elem := range seq.seq {
		r.scope.push(n.Binding, elem)
		err := r.nodes(n.Body)
		r.scope.pop()

		if err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) branch(n *IfNode) error {
	for _, b := range n.Branches {
		v, err := r.eval(b.Cond, b.Offset)
		if err != nil {
			return err
		}

		if v.Truthy() {
			return r.nodes(b.Body)
		}
	}

	return r.nodes(n.Else)
}

func (r *renderer) eval(e Expr, offset int) (Value, error) {
	switch e := e.(type) {
	case Path:
		return r.scope.resolve(e, offset)

	case Literal:
		return e.Value, nil

	case Compare:
		left, err := r.eval(e.Left, offset)
		if err != nil {
			return Value{}, err
		}

		right, err := r.eval(e.Right, offset)
		if err != nil {
			return Value{}, err
		}

		return Bool(left.Equal(right) == (e.Op == OpEq)), nil

	case Not:
		v, err := r.eval(e.X, offset)
		if err != nil {
			return Value{}, err
		}

		return Bool(!v.Truthy()), nil

	case Logical:
		left, err := r.eval(e.Left, offset)
		if err != nil {
			return Value{}, err
		}

		if left.Truthy() == (e.Op == OpOr) {
			return Bool(left.Truthy()), nil
		}

		right, err := r.eval(e.Right, offset)
		if err != nil {
			return Value{}, err
		}

		return Bool(right.Truthy()), nil
	}

	return Value{}, ErrUnsupportedExpression.WithOffset(offset)
}
