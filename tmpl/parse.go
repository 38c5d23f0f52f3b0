package tmpl

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/ardnew/gentmpl/log"
)

// DefaultMaxDepth bounds the nesting of for and if blocks. It is far deeper
// than any hand-written template and only stops runaway input.
const DefaultMaxDepth = 10000

// Template is a parsed template. It is immutable and safe for concurrent
// use by multiple goroutines.
type Template struct {
	Name  string
	Nodes []Node

	source string
	logger log.Logger
}

// Source returns the text the template was parsed from.
func (t *Template) Source() string { return t.source }

type options struct {
	logger   log.Logger
	name     string
	maxDepth int
}

// Option configures [Parse].
type Option func(options) options

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// WithName names the template in logs and diagnostics.
func WithName(name string) Option {
	return func(o options) options {
		o.name = name

		return o
	}
}

// WithMaxDepth bounds block nesting. Values below 1 select
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o options) options {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth

		return o
	}
}

// WithLogger enables trace logging of lexing, parsing and rendering.
// The zero [log.Logger] logs nothing.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// Parse lexes and parses src into a [Template].
func Parse(src string, opts ...Option) (*Template, error) {
	o := makeOptions(opts...)
	logger := o.logger.With(slog.String("template", o.name))

	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	logger.Trace("lexed", slog.Int("tokens", len(tokens)))

	p := parser{tokens: tokens, maxDepth: o.maxDepth}

	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}

	logger.Trace("parsed", slog.Int("nodes", len(nodes)))

	return &Template{Name: o.name, Nodes: nodes, source: src, logger: logger}, nil
}

type blockKind int

const (
	blockFor blockKind = iota
	blockIf
)

func (k blockKind) String() string {
	if k == blockIf {
		return "if"
	}

	return "for"
}

func (k blockKind) end() string { return "end" + k.String() }

// block is an open for or if awaiting its end keyword.
type block struct {
	kind    blockKind
	offset  int
	forNode *ForNode
	ifNode  *IfNode
	body    *[]Node
	sawElse bool
}

type parser struct {
	tokens   []Token
	pos      int
	maxDepth int
	root     []Node
	stack    []*block
}

func (p *parser) parse() ([]Node, error) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		var err error

		switch tok.Kind {
		case TokenText:
			p.text(tok)
		case TokenExprOpen:
			err = p.interpolation(tok)
		case TokenStmtOpen:
			err = p.statement(tok)
		case TokenExprClose, TokenStmtClose:
			err = ErrInvalidSyntax.WithOffset(tok.Offset).With(
				slog.String("detail", "unexpected "+tok.Kind.String()))
		}

		if err != nil {
			return nil, err
		}
	}

	if n := len(p.stack); n > 0 {
		top := p.stack[n-1]

		return nil, ErrUnclosedBlock.WithOffset(top.offset).With(
			slog.String("kind", top.kind.String()),
			slog.Int("opened_at", top.offset))
	}

	return p.root, nil
}

func (p *parser) body() *[]Node {
	if n := len(p.stack); n > 0 {
		return p.stack[n-1].body
	}

	return &p.root
}

func (p *parser) append(n Node) {
	b := p.body()
	*b = append(*b, n)
}

func (p *parser) text(tok Token) {
	s := tok.Content
	if tok.TrimLeft {
		s = trimLeading(s)
	}

	if tok.TrimRight {
		s = trimTrailing(s)
	}

	if s != "" {
		p.append(&TextNode{Content: s, Offset: tok.Offset})
	}
}

// expectClose consumes the close token the lexer emits after every open
// token.
func (p *parser) expectClose(kind TokenKind) {
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == kind {
		p.pos++
	}
}

func (p *parser) interpolation(tok Token) error {
	p.expectClose(TokenExprClose)

	e, err := ParseExpr(tok.Content, tok.Offset)
	if err != nil {
		return err
	}

	p.append(&ExprNode{Expr: e, Offset: tok.Offset})

	return nil
}

func (p *parser) statement(tok Token) error {
	p.expectClose(TokenStmtClose)

	keyword, rest := splitKeyword(tok.Content)

	switch keyword {
	case "for":
		return p.openFor(tok, rest)
	case "if":
		return p.openIf(tok, rest)
	case "elif":
		return p.elif(tok, rest)
	case "else":
		return p.els(tok, rest)
	case "endfor":
		return p.closeBlock(tok, blockFor, rest)
	case "endif":
		return p.closeBlock(tok, blockIf, rest)
	case "":
		return ErrInvalidSyntax.WithOffset(tok.Offset).With(
			slog.String("detail", "empty statement"))
	default:
		return ErrUnexpectedDirective.WithOffset(tok.Offset).With(
			slog.String("directive", keyword))
	}
}

func splitKeyword(s string) (keyword, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimSpace(s[i:])
}

func (p *parser) push(b *block) error {
	if len(p.stack) >= p.maxDepth {
		return ErrMaxDepthExceeded.WithOffset(b.offset).With(
			slog.Int("max_depth", p.maxDepth))
	}

	p.stack = append(p.stack, b)

	return nil
}

func (p *parser) openFor(tok Token, header string) error {
	invalid := func(detail string) error {
		return ErrInvalidSyntax.WithOffset(tok.Offset).With(
			slog.String("detail", detail),
			slog.String("source", tok.Content))
	}

	fields := strings.Fields(header)
	if len(fields) < 3 || fields[1] != "in" {
		return invalid("for header must be: for <name> in <path>")
	}

	if !isIdentifier(fields[0]) {
		return invalid("invalid loop variable " + fields[0])
	}

	iterable, err := ParseExpr(strings.Join(fields[2:], " "), tok.Offset)
	if err != nil {
		return err
	}

	path, ok := iterable.(Path)
	if !ok {
		return invalid("loop iterable must be a path")
	}

	n := &ForNode{Binding: fields[0], Iterable: path, Offset: tok.Offset}

	return p.push(&block{kind: blockFor, offset: tok.Offset, forNode: n, body: &n.Body})
}

func (p *parser) openIf(tok Token, cond string) error {
	e, err := ParseExpr(cond, tok.Offset)
	if err != nil {
		return err
	}

	n := &IfNode{
		Branches: []Branch{{Cond: e, Offset: tok.Offset}},
		Offset:   tok.Offset,
	}

	return p.push(&block{kind: blockIf, offset: tok.Offset, ifNode: n, body: &n.Branches[0].Body})
}

// accumulatingIf returns the innermost open if when it can still take an
// elif or else arm.
func (p *parser) accumulatingIf(tok Token, directive string) (*block, error) {
	if n := len(p.stack); n > 0 {
		if top := p.stack[n-1]; top.kind == blockIf && !top.sawElse {
			return top, nil
		}
	}

	return nil, ErrUnexpectedDirective.WithOffset(tok.Offset).With(
		slog.String("directive", directive))
}

func (p *parser) elif(tok Token, cond string) error {
	top, err := p.accumulatingIf(tok, "elif")
	if err != nil {
		return err
	}

	e, err := ParseExpr(cond, tok.Offset)
	if err != nil {
		return err
	}

	n := top.ifNode
	n.Branches = append(n.Branches, Branch{Cond: e, Offset: tok.Offset})
	top.body = &n.Branches[len(n.Branches)-1].Body

	return nil
}

func (p *parser) els(tok Token, rest string) error {
	top, err := p.accumulatingIf(tok, "else")
	if err != nil {
		return err
	}

	if rest != "" {
		return ErrInvalidSyntax.WithOffset(tok.Offset).With(
			slog.String("detail", "else takes no arguments"))
	}

	top.sawElse = true
	top.ifNode.HasElse = true
	top.body = &top.ifNode.Else

	return nil
}

func (p *parser) closeBlock(tok Token, kind blockKind, rest string) error {
	n := len(p.stack)
	if n == 0 || p.stack[n-1].kind != kind {
		expected := "(none)"
		if n > 0 {
			expected = p.stack[n-1].kind.end()
		}

		return ErrMismatchedBlock.WithOffset(tok.Offset).With(
			slog.String("expected", expected),
			slog.String("found", kind.end()))
	}

	if rest != "" {
		return ErrInvalidSyntax.WithOffset(tok.Offset).With(
			slog.String("detail", kind.end()+" takes no arguments"))
	}

	top := p.stack[n-1]
	p.stack = p.stack[:n-1]

	if top.forNode != nil {
		p.append(top.forNode)
	} else {
		p.append(top.ifNode)
	}

	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}

		return false
	}

	return true
}
