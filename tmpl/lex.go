package tmpl

import (
	"log/slog"
	"strings"
)

const (
	exprOpener = "{{"
	exprCloser = "}}"
	stmtOpener = "{%"
	stmtCloser = "%}"
	trimMarker = '-'
)

// Lex splits src into tokens. Tags must be closed; a closer inside a quoted
// string does not end its tag.
//
// After scanning, the trim markers of each tag are copied onto the adjacent
// Text tokens so that the parser can apply them without looking around.
func Lex(src string) ([]Token, error) {
	l := lexer{src: src}

	if err := l.run(); err != nil {
		return nil, err
	}

	l.propagateTrim()

	return l.tokens, nil
}

type lexer struct {
	src    string
	pos    int
	tokens []Token
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		rel := nextOpener(l.src[l.pos:])
		if rel < 0 {
			l.emit(Token{Kind: TokenText, Content: l.src[l.pos:], Offset: l.pos})
			l.pos = len(l.src)

			break
		}

		if rel > 0 {
			l.emit(Token{Kind: TokenText, Content: l.src[l.pos : l.pos+rel], Offset: l.pos})
		}

		if err := l.tag(l.pos + rel); err != nil {
			return err
		}
	}

	return nil
}

// nextOpener returns the index of the first "{{" or "{%" in s, or -1.
func nextOpener(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '{' && (s[i+1] == '{' || s[i+1] == '%') {
			return i
		}
	}

	return -1
}

// tag scans the tag whose opener starts at start and emits its open and
// close tokens.
func (l *lexer) tag(start int) error {
	open, closeKind, closer := TokenExprOpen, TokenExprClose, exprCloser
	if l.src[start+1] == '%' {
		open, closeKind, closer = TokenStmtOpen, TokenStmtClose, stmtCloser
	}

	body := start + 2
	trimLeft := body < len(l.src) && l.src[body] == trimMarker

	if trimLeft {
		body++
	}

	end, ok := l.findCloser(body, closer)
	if !ok {
		return ErrUnterminatedTag.WithOffset(start).With(
			slog.String("opener", l.src[start:start+2]),
			slog.String("closer", closer))
	}

	contentEnd := end
	trimRight := end > body && l.src[end-1] == trimMarker

	if trimRight {
		contentEnd--
	}

	l.emit(Token{
		Kind:     open,
		Content:  strings.TrimSpace(l.src[body:contentEnd]),
		TrimLeft: trimLeft,
		Offset:   start,
	})
	l.emit(Token{Kind: closeKind, TrimRight: trimRight, Offset: end})

	l.pos = end + len(closer)

	return nil
}

// findCloser returns the offset of the first closer at or after from that is
// not inside a single- or double-quoted string.
func (l *lexer) findCloser(from int, closer string) (int, bool) {
	var quote byte

	for i := from; i < len(l.src); i++ {
		c := l.src[i]

		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '"' || c == '\'':
			quote = c
		case strings.HasPrefix(l.src[i:], closer):
			return i, true
		}
	}

	return 0, false
}

func (l *lexer) emit(t Token) { l.tokens = append(l.tokens, t) }

// propagateTrim copies each tag's trim markers onto its neighboring Text
// tokens: a closer written "-}}" trims the text that follows it, and an opener
// written "{{-" trims the text that precedes it.
func (l *lexer) propagateTrim() {
	for i := range l.tokens {
		if l.tokens[i].Kind != TokenText {
			continue
		}

		if i > 0 && l.tokens[i-1].Kind.isClose() && l.tokens[i-1].TrimRight {
			l.tokens[i].TrimLeft = true
		}

		if i+1 < len(l.tokens) && l.tokens[i+1].Kind.isOpen() && l.tokens[i+1].TrimLeft {
			l.tokens[i].TrimRight = true
		}
	}
}

// trimLeading removes spaces and tabs from the start of s, then at most one
// line break.
func trimLeading(s string) string {
	s = strings.TrimLeft(s, " \t")

	switch {
	case strings.HasPrefix(s, "\r\n"):
		return s[2:]
	case strings.HasPrefix(s, "\n"):
		return s[1:]
	default:
		return s
	}
}

// trimTrailing removes spaces and tabs from the end of s, then at most one
// line break.
func trimTrailing(s string) string {
	s = strings.TrimRight(s, " \t")

	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"):
		return s[:len(s)-1]
	default:
		return s
	}
}
