// Package ast defines the single node type shared by both the
// expression and template grammars (C7, spec.md §3 "AST node
// (Expression)"). Rather than one Go type per grammar production —
// barn's parser package takes that route with its Expr interface and
// one struct per node kind — Node here is a single flat struct with a
// Kind discriminant and the union of every variant's fields, mirroring
// barn's types.Result{Flow, Val, Error, Label} discriminated-union-
// as-struct. One concrete Go type also keeps every node a single,
// uniform heap allocation (spec.md §4.2's pointer-stability
// requirement) — see internal/pool's doc comment for why a Go
// *Node pointer already satisfies that without a separate arena.
//
// Field reuse follows Result's pattern of one field per payload slot,
// reused across kinds that never need it simultaneously (Result reuses
// Val for both FlowNormal and FlowReturn, and Label only for
// Break/Continue). Node reuses First/Second/Third the same way;
// constructors in build.go are the documented, type-safe way to set
// them so callers never need to memorize the mapping by hand.
package ast

import "github.com/loomtext/loom/internal/strutil"

// Kind discriminates the Node variants (spec.md §3).
type Kind int

const (
	List Kind = iota
	NoneEmbedded
	Unfold
	NoEscapeUnfold
	VariableList
	VariableDecl
	If
	IfCondition
	Else
	Ternary
	Paren
	Binary
	Unary
	Number
	Bool
	String
	NoEscapeString
	Identifier
	ArrayLiteral
	ArrayIndex
	For
	Select
	SelectTop
	SelectCase
	SelectDefault
	FunctionCall
)

var kindNames = map[Kind]string{
	List:           "List",
	NoneEmbedded:   "NoneEmbedded",
	Unfold:         "Unfold",
	NoEscapeUnfold: "NoEscapeUnfold",
	VariableList:   "VariableList",
	VariableDecl:   "VariableDecl",
	If:             "If",
	IfCondition:    "IfCondition",
	Else:           "Else",
	Ternary:        "Ternary",
	Paren:          "Paren",
	Binary:         "Binary",
	Unary:          "Unary",
	Number:         "Number",
	Bool:           "Bool",
	String:         "String",
	NoEscapeString: "NoEscapeString",
	Identifier:     "Identifier",
	ArrayLiteral:   "ArrayLiteral",
	ArrayIndex:     "ArrayIndex",
	For:            "For",
	Select:         "Select",
	SelectTop:      "SelectTop",
	SelectCase:     "SelectCase",
	SelectDefault:  "SelectDefault",
	FunctionCall:   "FunctionCall",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// BinOp names a Binary node's operator. Values are restricted to the
// subset of lexer.WordKind that can appear as a binary operator
// (spec.md §4.5's `comparison`/`additive`/`multiplicative`/`logical`
// productions); kept as its own type so ast does not import lexer.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
	OpXor
)

// UnOp names a Unary node's operator (spec.md §4.5's factor rule:
// unary `+`/`-`/`!`).
type UnOp int

const (
	OpPlus UnOp = iota
	OpNeg
	OpNot
)

// Node is the flat tagged-union AST node (spec.md §3). Every *Node
// referenced by a field is reachable only through its parent, so the
// whole tree is reclaimed together once the owning ParseAnswer (and
// any reference into the tree) goes out of scope; nothing frees a
// single Node mid-tree.
//
// Only the fields relevant to Kind are meaningful; the rest are zero.
// See build.go for the per-kind field mapping, expressed as
// constructors rather than documented here field-by-field.
type Node struct {
	Kind Kind
	Pos  int

	Children []*Node         // variadic-arity payload; see build.go
	Text     strutil.String  // literal text payload; see build.go
	Num      float64         // Number literal value
	Flag     bool            // Bool literal value
	BinOp    BinOp           // Binary operator
	UnOp     UnOp            // Unary operator

	First  *Node // primary child; see build.go
	Second *Node // secondary child; see build.go
	Third  *Node // tertiary child (Ternary.Else only)
}
