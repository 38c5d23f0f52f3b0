package tmpl

import "strconv"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenExprOpen
	TokenExprClose
	TokenStmtOpen
	TokenStmtClose
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "Text"
	case TokenExprOpen:
		return "ExprOpen"
	case TokenExprClose:
		return "ExprClose"
	case TokenStmtOpen:
		return "StmtOpen"
	case TokenStmtClose:
		return "StmtClose"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is one lexical unit of a template.
//
// Open tokens carry the tag's inner source, trimmed of surrounding spaces and
// trim markers, in Content. Close tokens carry no content.
//
// On tag tokens, TrimLeft marks an opener written "{{-" or "{%-" and
// TrimRight marks a closer written "-}}" or "-%}". On Text tokens the same
// flags ask the parser to strip the text's leading or trailing whitespace.
type Token struct {
	Kind      TokenKind
	Content   string
	TrimLeft  bool
	TrimRight bool
	Offset    int
}

func (k TokenKind) isOpen() bool  { return k == TokenExprOpen || k == TokenStmtOpen }
func (k TokenKind) isClose() bool { return k == TokenExprClose || k == TokenStmtClose }
