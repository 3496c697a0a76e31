package ast

import (
	"github.com/loomtext/loom/internal/pool"
	"github.com/loomtext/loom/internal/strutil"
)

// This file documents and enforces the field mapping for each Kind:
// every node the parser builds should go through one of these
// constructors rather than setting Node fields directly.

// textInterner deduplicates literal text (NoneEmbedded template runs,
// String/NoEscapeString literals, Identifier names) across every node
// built in the process, so re-parsing the same template text repeatedly
// shares backing bytes instead of reallocating (internal/pool.Interner;
// see intern.go's doc comment for the teacher-grounded rationale).
var textInterner = pool.NewInterner()

func intern(s strutil.String) strutil.String {
	return strutil.FromGoString(textInterner.Intern(s.Go()))
}

// NewList builds a List node: template concatenation of children.
func NewList(pos int, children []*Node) *Node {
	return &Node{Kind: List, Pos: pos, Children: children}
}

// NewNoneEmbedded builds a NoneEmbedded node: literal template text.
func NewNoneEmbedded(pos int, text strutil.String) *Node {
	return &Node{Kind: NoneEmbedded, Pos: pos, Text: intern(text)}
}

// NewUnfold builds an Unfold node: evaluate inner, escape on output.
func NewUnfold(pos int, inner *Node) *Node {
	return &Node{Kind: Unfold, Pos: pos, First: inner}
}

// NewNoEscapeUnfold builds a NoEscapeUnfold node: evaluate inner, insert raw.
func NewNoEscapeUnfold(pos int, inner *Node) *Node {
	return &Node{Kind: NoEscapeUnfold, Pos: pos, First: inner}
}

// NewVariableList builds a VariableList node: VariableDecl children
// evaluated left to right for side effect.
func NewVariableList(pos int, decls []*Node) *Node {
	return &Node{Kind: VariableList, Pos: pos, Children: decls}
}

// NewVariableDecl builds a VariableDecl node: binds name to value in
// the current scope.
func NewVariableDecl(pos int, name strutil.String, value *Node) *Node {
	return &Node{Kind: VariableDecl, Pos: pos, Text: intern(name), First: value}
}

// NewIf builds an If node: children are IfCondition/Else nodes,
// evaluated in order.
func NewIf(pos int, branches []*Node) *Node {
	return &Node{Kind: If, Pos: pos, Children: branches}
}

// NewIfCondition builds an IfCondition node.
func NewIfCondition(pos int, cond, body *Node) *Node {
	return &Node{Kind: IfCondition, Pos: pos, First: cond, Second: body}
}

// NewElse builds an Else node wrapping its body.
func NewElse(pos int, body *Node) *Node {
	return &Node{Kind: Else, Pos: pos, First: body}
}

// NewTernary builds a Ternary node: cond ? then : else.
func NewTernary(pos int, cond, then, els *Node) *Node {
	return &Node{Kind: Ternary, Pos: pos, First: cond, Second: then, Third: els}
}

// NewParen builds a Paren node wrapping a parenthesized sub-expression.
func NewParen(pos int, inner *Node) *Node {
	return &Node{Kind: Paren, Pos: pos, First: inner}
}

// NewBinary builds a Binary node.
func NewBinary(pos int, op BinOp, lhs, rhs *Node) *Node {
	return &Node{Kind: Binary, Pos: pos, BinOp: op, First: lhs, Second: rhs}
}

// NewUnary builds a Unary node.
func NewUnary(pos int, op UnOp, expr *Node) *Node {
	return &Node{Kind: Unary, Pos: pos, UnOp: op, First: expr}
}

// NewNumber builds a Number literal node.
func NewNumber(pos int, n float64) *Node {
	return &Node{Kind: Number, Pos: pos, Num: n}
}

// NewBool builds a Bool literal node.
func NewBool(pos int, b bool) *Node {
	return &Node{Kind: Bool, Pos: pos, Flag: b}
}

// NewString builds a String literal node (decoded text).
func NewString(pos int, text strutil.String) *Node {
	return &Node{Kind: String, Pos: pos, Text: intern(text)}
}

// NewNoEscapeString builds a NoEscapeString node: already-decoded
// literal text (e.g. a string value that eval turns back into a literal
// node).
func NewNoEscapeString(pos int, text strutil.String) *Node {
	return &Node{Kind: NoEscapeString, Pos: pos, Text: intern(text)}
}

// NewIdentifier builds an Identifier node referencing a variable name.
func NewIdentifier(pos int, name strutil.String) *Node {
	return &Node{Kind: Identifier, Pos: pos, Text: intern(name)}
}

// NewArrayLiteral builds an ArrayLiteral node.
func NewArrayLiteral(pos int, elems []*Node) *Node {
	return &Node{Kind: ArrayLiteral, Pos: pos, Children: elems}
}

// NewArrayIndex builds an ArrayIndex node: base[index].
func NewArrayIndex(pos int, base, index *Node) *Node {
	return &Node{Kind: ArrayIndex, Pos: pos, First: base, Second: index}
}

// NewFor builds a For node: for var in collection { body }.
func NewFor(pos int, v strutil.String, collection, body *Node) *Node {
	return &Node{Kind: For, Pos: pos, Text: intern(v), First: collection, Second: body}
}

// NewSelect builds a Select node: first child is SelectTop, remainder
// are SelectCase/SelectDefault.
func NewSelect(pos int, children []*Node) *Node {
	return &Node{Kind: Select, Pos: pos, Children: children}
}

// NewSelectTop builds a SelectTop node: the scrutinee and the prelude
// text preceding the first case.
func NewSelectTop(pos int, expr, prelude *Node) *Node {
	return &Node{Kind: SelectTop, Pos: pos, First: expr, Second: prelude}
}

// NewSelectCase builds a SelectCase node: case expr { body }.
func NewSelectCase(pos int, expr, body *Node) *Node {
	return &Node{Kind: SelectCase, Pos: pos, First: expr, Second: body}
}

// NewSelectDefault builds a SelectDefault node wrapping its body.
func NewSelectDefault(pos int, body *Node) *Node {
	return &Node{Kind: SelectDefault, Pos: pos, First: body}
}

// NewFunctionCall builds a FunctionCall node: name(args…).
func NewFunctionCall(pos int, name *Node, args []*Node) *Node {
	return &Node{Kind: FunctionCall, Pos: pos, First: name, Children: args}
}

// Accessor aliases give each Kind's consumers (parser, eval) readable
// names instead of bare First/Second/Third at call sites.

func (n *Node) Cond() *Node       { return n.First }
func (n *Node) Then() *Node       { return n.Second }
func (n *Node) ElseExpr() *Node   { return n.Third }
func (n *Node) Lhs() *Node        { return n.First }
func (n *Node) Rhs() *Node        { return n.Second }
func (n *Node) Inner() *Node      { return n.First }
func (n *Node) Value() *Node      { return n.First }
func (n *Node) Base() *Node       { return n.First }
func (n *Node) Index() *Node      { return n.Second }
func (n *Node) Body() *Node       { return n.Second }
func (n *Node) Collection() *Node { return n.First }
func (n *Node) Expr() *Node       { return n.First }
func (n *Node) Prelude() *Node    { return n.Second }
func (n *Node) Name() *Node       { return n.First }
func (n *Node) Args() []*Node     { return n.Children }
