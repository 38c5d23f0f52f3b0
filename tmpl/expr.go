package tmpl

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	exprparser "github.com/expr-lang/expr/parser"
)

// Expr is a tag expression. The set of implementations is closed: [Path],
// [Literal], [Compare], [Not] and [Logical].
type Expr interface {
	fmt.Stringer
	expr()
}

// Path is a dotted name such as ast.nodes.
type Path struct {
	Segments []string
}

// Literal is a constant string, number, boolean or nil.
type Literal struct {
	Value Value
}

// CompareOp is an equality operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
)

func (op CompareOp) String() string {
	if op == OpNe {
		return "!="
	}

	return "=="
}

// Compare tests two operands for equality.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

// Not negates the truthiness of its operand.
type Not struct {
	X Expr
}

// LogicalOp is a short-circuiting boolean connective.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	if op == OpOr {
		return "or"
	}

	return "and"
}

// Logical combines the truthiness of two operands.
type Logical struct {
	Op          LogicalOp
	Left, Right Expr
}

func (Path) expr()    {}
func (Literal) expr() {}
func (Compare) expr() {}
func (Not) expr()     {}
func (Logical) expr() {}

func (p Path) String() string { return strings.Join(p.Segments, ".") }

func (l Literal) String() string {
	if l.Value.Type() == TypeString {
		return strconv.Quote(l.Value.str)
	}

	if l.Value.IsNull() {
		return "nil"
	}

	return l.Value.String()
}

func (c Compare) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

func (n Not) String() string { return "not " + group(n.X) }

func (l Logical) String() string {
	return group(l.Left) + " " + l.Op.String() + " " + group(l.Right)
}

func group(e Expr) string {
	switch e.(type) {
	case Path, Literal:
		return e.String()
	default:
		return "(" + e.String() + ")"
	}
}

// ParseExpr parses the source of a tag expression. The offset positions any
// error within the enclosing template.
//
// The grammar is that of expr-lang restricted to identifiers, member access
// by name, literals, == and !=, not, and, or and parentheses. Operator words
// such as let, in and not may follow a dot (x.let) but cannot begin a path;
// a path led by one is reported as [ErrUnsupportedExpression].
func ParseExpr(src string, offset int) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrInvalidSyntax.WithOffset(offset).With(
			slog.String("detail", "empty expression"))
	}

	if head, ok := reservedHead(src); ok {
		return nil, ErrUnsupportedExpression.WithOffset(offset).With(
			slog.String("construct", "reserved word as name"),
			slog.String("name", head),
			slog.String("source", src))
	}

	tree, err := exprparser.Parse(src)
	if err != nil {
		return nil, ErrInvalidSyntax.WithOffset(offset).Wrap(err).With(
			slog.String("source", src))
	}

	return lower(tree.Node, src, offset)
}

// reservedWords are the names the expression lexer reads as operators.
var reservedWords = map[string]bool{
	"not": true, "in": true, "and": true, "or": true, "let": true,
	"if": true, "else": true, "matches": true, "contains": true,
	"startsWith": true, "endsWith": true,
}

// reservedHead reports the first segment of src when src is a dotted path
// whose first segment is a reserved word.
func reservedHead(src string) (string, bool) {
	segs := strings.Split(strings.TrimSpace(src), ".")
	if !reservedWords[segs[0]] {
		return "", false
	}

	for _, seg := range segs[1:] {
		if !isIdentifier(seg) {
			return "", false
		}
	}

	return segs[0], true
}

// lower converts an expr-lang syntax tree to an [Expr], rejecting every
// construct outside the template expression subset.
func lower(n ast.Node, src string, offset int) (Expr, error) {
	unsupported := func(what string) error {
		return ErrUnsupportedExpression.WithOffset(offset).With(
			slog.String("construct", what),
			slog.String("source", src))
	}

	switch n := n.(type) {
	case *ast.IdentifierNode:
		return Path{Segments: []string{n.Value}}, nil

	case *ast.MemberNode:
		if n.Optional || n.Method {
			return nil, unsupported("optional or method member")
		}

		key, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, unsupported("index")
		}

		base, err := lower(n.Node, src, offset)
		if err != nil {
			return nil, err
		}

		p, ok := base.(Path)
		if !ok {
			return nil, unsupported("member of non-path")
		}

		segs := make([]string, len(p.Segments), len(p.Segments)+1)
		copy(segs, p.Segments)

		return Path{Segments: append(segs, key.Value)}, nil

	case *ast.StringNode:
		return Literal{Value: String(n.Value)}, nil

	case *ast.IntegerNode:
		return Literal{Value: Int(int64(n.Value))}, nil

	case *ast.FloatNode:
		return Literal{Value: Float(n.Value)}, nil

	case *ast.BoolNode:
		return Literal{Value: Bool(n.Value)}, nil

	case *ast.NilNode:
		return Literal{Value: Null()}, nil

	case *ast.UnaryNode:
		x, err := lower(n.Node, src, offset)
		if err != nil {
			return nil, err
		}

		switch n.Operator {
		case "not", "!":
			return Not{X: x}, nil
		case "-", "+":
			// Signed numeric literals only; there is no arithmetic.
			if lit, ok := x.(Literal); ok && lit.Value.Type() == TypeNumber {
				if n.Operator == "-" {
					return Literal{Value: lit.Value.negate()}, nil
				}

				return lit, nil
			}
		}

		return nil, unsupported("unary " + n.Operator)

	case *ast.BinaryNode:
		left, err := lower(n.Left, src, offset)
		if err != nil {
			return nil, err
		}

		right, err := lower(n.Right, src, offset)
		if err != nil {
			return nil, err
		}

		switch n.Operator {
		case "==":
			return Compare{Op: OpEq, Left: left, Right: right}, nil
		case "!=":
			return Compare{Op: OpNe, Left: left, Right: right}, nil
		case "and", "&&":
			return Logical{Op: OpAnd, Left: left, Right: right}, nil
		case "or", "||":
			return Logical{Op: OpOr, Left: left, Right: right}, nil
		}

		return nil, unsupported("operator " + n.Operator)

	default:
		return nil, unsupported(strings.TrimSuffix(strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."), "Node"))
	}
}
