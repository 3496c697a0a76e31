// Package lexer implements the two tokenizers described in spec.md §4.4
// (C4): splitWords, over expression text, and splitEmbedded, over template
// text. Both are hand-rolled byte scanners in the style of barn's
// parser/lexer.go (a position-tracking, switch-on-current-byte scanner
// with readX helper methods), generalized here to classify bytes via a
// static splitter table instead of a Go switch, since spec.md describes
// word-splitting as table-driven.
package lexer

import "github.com/loomtext/loom/internal/strutil"

// WordKind classifies a Word produced by splitWords (spec.md §3).
type WordKind int

const (
	Identifier WordKind = iota
	Number
	StringLiteral
	TrueLiteral
	FalseLiteral
	Period
	Assign
	Equal
	NotEqual
	Less
	Greater
	LessEq
	GreaterEq
	Plus
	Minus
	Multiply
	Divide
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	Not
	Comma
	Hash
	Dollar
	Question
	Colon
	Semicolon
	Backslash
	And
	Or
	Xor
	In
)

var wordKindNames = map[WordKind]string{
	Identifier:    "Identifier",
	Number:        "Number",
	StringLiteral: "StringLiteral",
	TrueLiteral:   "TrueLiteral",
	FalseLiteral:  "FalseLiteral",
	Period:        "Period",
	Assign:        "Assign",
	Equal:         "Equal",
	NotEqual:      "NotEqual",
	Less:          "Less",
	Greater:       "Greater",
	LessEq:        "LessEq",
	GreaterEq:     "GreaterEq",
	Plus:          "Plus",
	Minus:         "Minus",
	Multiply:      "Multiply",
	Divide:        "Divide",
	LeftParen:     "LeftParen",
	RightParen:    "RightParen",
	LeftBracket:   "LeftBracket",
	RightBracket:  "RightBracket",
	Not:           "Not",
	Comma:         "Comma",
	Hash:          "Hash",
	Dollar:        "Dollar",
	Question:      "Question",
	Colon:         "Colon",
	Semicolon:     "Semicolon",
	Backslash:     "Backslash",
	And:           "And",
	Or:            "Or",
	Xor:           "Xor",
	In:            "In",
}

func (k WordKind) String() string {
	if s, ok := wordKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Word is a single expression-lexer token (spec.md §3).
type Word struct {
	Text strutil.String
	Kind WordKind
	Pos  int // byte offset in the original input
}

// keywords maps a bare identifier spelling to its reclassified WordKind.
var keywords = map[string]WordKind{
	"true":  TrueLiteral,
	"false": FalseLiteral,
	"and":   And,
	"or":    Or,
	"xor":   Xor,
	"in":    In,
}
