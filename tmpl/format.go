package tmpl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Print writes an indented outline of the template's nodes to w.
func (t *Template) Print(w io.Writer) error {
	var b strings.Builder

	printNodes(&b, t.Nodes, 0)

	_, err := io.WriteString(w, b.String())

	return err
}

func printNodes(b *strings.Builder, nodes []Node, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, n := range nodes {
		switch n := n.(type) {
		case *TextNode:
			fmt.Fprintf(b, "%stext %s\n", indent, strconv.Quote(n.Content))

		case *ExprNode:
			fmt.Fprintf(b, "%sexpr %s\n", indent, n.Expr)

		case *ForNode:
			fmt.Fprintf(b, "%sfor %s in %s\n", indent, n.Binding, n.Iterable)
			printNodes(b, n.Body, depth+1)

		case *IfNode:
			for i, br := range n.Branches {
				kw := "elif"
				if i == 0 {
					kw = "if"
				}

				fmt.Fprintf(b, "%s%s %s\n", indent, kw, br.Cond)
				printNodes(b, br.Body, depth+1)
			}

			if n.HasElse {
				fmt.Fprintf(b, "%selse\n", indent)
				printNodes(b, n.Else, depth+1)
			}
		}
	}
}

// FormatYAML writes the template's node tree to w as a YAML document.
// An indent below 1 means 2.
func (t *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	if indent < 1 {
		indent = 2
	}

	doc := yaml.MapSlice{
		{Key: "name", Value: t.Name},
		{Key: "nodes", Value: yamlNodes(t.Nodes)},
	}

	out, err := yaml.MarshalContext(ctx, doc, yaml.Indent(indent))
	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

func yamlNodes(nodes []Node) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(nodes))

	for _, n := range nodes {
		switch n := n.(type) {
		case *TextNode:
			out = append(out, yaml.MapSlice{
				{Key: "kind", Value: "text"},
				{Key: "offset", Value: n.Offset},
				{Key: "content", Value: n.Content},
			})

		case *ExprNode:
			out = append(out, yaml.MapSlice{
				{Key: "kind", Value: "expr"},
				{Key: "offset", Value: n.Offset},
				{Key: "expr", Value: n.Expr.String()},
			})

		case *ForNode:
			out = append(out, yaml.MapSlice{
				{Key: "kind", Value: "for"},
				{Key: "offset", Value: n.Offset},
				{Key: "binding", Value: n.Binding},
				{Key: "iterable", Value: n.Iterable.String()},
				{Key: "body", Value: yamlNodes(n.Body)},
			})

		case *IfNode:
			branches := make([]yaml.MapSlice, len(n.Branches))
			for i, br := range n.Branches {
				branches[i] = yaml.MapSlice{
					{Key: "cond", Value: br.Cond.String()},
					{Key: "offset", Value: br.Offset},
					{Key: "body", Value: yamlNodes(br.Body)},
				}
			}

			m := yaml.MapSlice{
				{Key: "kind", Value: "if"},
				{Key: "offset", Value: n.Offset},
				{Key: "branches", Value: branches},
			}

			if n.HasElse {
				m = append(m, yaml.MapItem{Key: "else", Value: yamlNodes(n.Else)})
			}

			out = append(out, m)
		}
	}

	return out
}

// FormatTokens writes one line per token: offset, kind, trim flags and the
// quoted content. A "<" flag marks TrimLeft and ">" marks TrimRight.
func FormatTokens(w io.Writer, tokens []Token) error {
	var b strings.Builder

	for _, tok := range tokens {
		flags := []byte("..")
		if tok.TrimLeft {
			flags[0] = '<'
		}

		if tok.TrimRight {
			flags[1] = '>'
		}

		fmt.Fprintf(&b, "%6d %-9s %s", tok.Offset, tok.Kind, flags)

		if tok.Kind == TokenText || tok.Kind.isOpen() {
			b.WriteString(" " + strconv.Quote(tok.Content))
		}

		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}
