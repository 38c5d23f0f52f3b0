package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/gentmpl/tmpl"
)

// Position is a 1-based line and column in a source text. Columns count
// runes.
type Position struct {
	Line, Column int
}

// Locate returns the position of the byte offset in src and the text of the
// line containing it. An offset outside src is clamped to its bounds.
func Locate(src string, offset int) (Position, string) {
	offset = max(0, min(offset, len(src)))

	start := strings.LastIndexByte(src[:offset], '\n') + 1

	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}

	pos := Position{
		Line:   strings.Count(src[:start], "\n") + 1,
		Column: utf8.RuneCountInString(src[start:offset]) + 1,
	}

	return pos, strings.TrimSuffix(src[start:end], "\r")
}

type diagStyle struct {
	source, message, detail, gutter, caret lipgloss.Style
}

func makeDiagStyle(w io.Writer) diagStyle {
	r := lipgloss.NewRenderer(w)

	return diagStyle{
		source:  r.NewStyle().Bold(true),
		message: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		detail:  r.NewStyle().Faint(true),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("12")),
		caret:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Diagnose writes err to w as a diagnostic for the template at path with
// source src. Template errors with an offset show the offending line with a
// caret under the reported column:
//
//	root.cpp:3:20: undefined path
//	  3 | {% for node in ast.ndes -%}
//	    |                    ^
//	    = path=ast.ndes, segment=ndes, reason=key is not present
//
// Other errors are written as "path: err". Styles apply only when w is a
// terminal.
func Diagnose(w io.Writer, path, src string, err error) {
	st := makeDiagStyle(w)

	te, ok := tmpl.AsError(err)
	if !ok || te.Offset() < 0 {
		fmt.Fprintf(w, "%s: %s\n", st.source.Render(path), st.message.Render(err.Error()))

		return
	}

	pos, line := Locate(src, te.Offset())

	num := fmt.Sprint(pos.Line)
	pad := strings.Repeat(" ", len(num))

	// Keep tabs under the caret so it lines up with the source line.
	var indent strings.Builder
	for i, r := range []rune(line) {
		if i >= pos.Column-1 {
			break
		}

		if r == '\t' {
			indent.WriteRune('\t')
		} else {
			indent.WriteByte(' ')
		}
	}

	fmt.Fprintf(w, "%s: %s\n",
		st.source.Render(fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Column)),
		st.message.Render(te.Message()))
	fmt.Fprintf(w, "  %s %s\n", st.gutter.Render(num+" |"), line)
	fmt.Fprintf(w, "  %s %s%s\n", st.gutter.Render(pad+" |"), indent.String(), st.caret.Render("^"))

	if detail := details(te); detail != "" {
		fmt.Fprintf(w, "  %s %s\n", st.gutter.Render(pad+" ="), st.detail.Render(detail))
	}
}

func details(e *tmpl.Error) string {
	attrs := e.Attrs()
	part := make([]string, 0, len(attrs)+1)

	for _, a := range attrs {
		part = append(part, a.Key+"="+a.Value.String())
	}

	if cause := e.Unwrap(); cause != nil {
		part = append(part, "cause="+cause.Error())
	}

	return strings.Join(part, ", ")
}
