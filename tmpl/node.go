package tmpl

// Node is an element of a parsed template. The set of implementations is
// closed: [*TextNode], [*ExprNode], [*ForNode] and [*IfNode].
//
// Nodes are immutable once returned by [Parse].
type Node interface {
	// Pos returns the byte offset of the node in the template source.
	Pos() int
	node()
}

// TextNode is literal output with trim markers already applied.
type TextNode struct {
	Content string
	Offset  int
}

// ExprNode interpolates the value of an expression.
type ExprNode struct {
	Expr   Expr
	Offset int
}

// ForNode renders Body once per element of the sequence at Iterable, with
// the element bound to Binding.
type ForNode struct {
	Binding  string
	Iterable Path
	Body     []Node
	Offset   int
}

// Branch is one "if" or "elif" arm.
type Branch struct {
	Cond   Expr
	Body   []Node
	Offset int
}

// IfNode renders the body of its first truthy branch, or Else when no branch
// is truthy.
type IfNode struct {
	Branches []Branch
	Else     []Node
	HasElse  bool
	Offset   int
}

func (n *TextNode) Pos() int { return n.Offset }
func (n *ExprNode) Pos() int { return n.Offset }
func (n *ForNode) Pos() int  { return n.Offset }
func (n *IfNode) Pos() int   { return n.Offset }

func (*TextNode) node() {}
func (*ExprNode) node() {}
func (*ForNode) node()  {}
func (*IfNode) node()   {}
