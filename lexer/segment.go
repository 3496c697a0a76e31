package lexer

import "github.com/loomtext/loom/internal/strutil"

// SegmentKind classifies an EmbeddedText produced by splitEmbedded
// (spec.md §3).
type SegmentKind int

const (
	Text SegmentKind = iota
	Unfold
	NoEscapeUnfold
	Variables
	IfBlock
	ElseIfBlock
	ElseBlock
	EndIfBlock
	ForBlock
	EndForBlock
	SelectBlock
	SelectCaseBlock
	SelectDefaultBlock
	EndSelectBlock
	EmptyBlock
)

var segmentKindNames = map[SegmentKind]string{
	Text:                "Text",
	Unfold:              "Unfold",
	NoEscapeUnfold:      "NoEscapeUnfold",
	Variables:           "Variables",
	IfBlock:             "IfBlock",
	ElseIfBlock:         "ElseIfBlock",
	ElseBlock:           "ElseBlock",
	EndIfBlock:          "EndIfBlock",
	ForBlock:            "ForBlock",
	EndForBlock:         "EndForBlock",
	SelectBlock:         "SelectBlock",
	SelectCaseBlock:     "SelectCaseBlock",
	SelectDefaultBlock:  "SelectDefaultBlock",
	EndSelectBlock:      "EndSelectBlock",
	EmptyBlock:          "EmptyBlock",
}

func (k SegmentKind) String() string {
	if s, ok := segmentKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// EmbeddedText is a single template-lexer segment (spec.md §3). For
// IfBlock, ElseIfBlock, ForBlock, SelectBlock, and SelectCaseBlock, Text
// holds only the inner condition/header — the keyword and braces are
// already stripped.
type EmbeddedText struct {
	Text strutil.String
	Kind SegmentKind
	Pos  int
}
