package lexer

import (
	"strings"

	"github.com/loomtext/loom/internal/strutil"
)

// SplitEmbedded tokenizes a template string into a sequence of
// EmbeddedText segments (spec.md §4.4 "splitEmbedded").
func SplitEmbedded(input string) ([]EmbeddedText, error) {
	if _, err := strutil.Decode(input); err != nil {
		return nil, err
	}
	var segments []EmbeddedText
	pos := 0
	textStart := 0

	flushText := func(end int) {
		if end > textStart {
			text, _ := strutil.Decode(input[textStart:end])
			segments = append(segments, EmbeddedText{Text: text, Kind: Text, Pos: textStart})
		}
	}

	for pos < len(input) {
		c := input[pos]

		if c == '\\' && pos+1 < len(input) && isEscapable(input[pos+1]) {
			pos += 2
			continue
		}

		if c == '{' {
			flushText(pos)
			end, ok := findClosingBrace(input, pos+1)
			if !ok {
				return nil, newError(UnclosedBlock, pos, "missing closing '}'")
			}
			kind, payload, ok := classifyCommand(input[pos+1 : end])
			if !ok {
				return nil, newError(InvalidCommand, pos, "unrecognized {...} command")
			}
			text, _ := strutil.Decode(payload)
			segments = append(segments, EmbeddedText{Text: text, Kind: kind, Pos: pos})
			pos = end + 1
			textStart = pos
			continue
		}

		if (c == '#' || c == '!' || c == '$') && pos+1 < len(input) && input[pos+1] == '{' {
			flushText(pos)
			end, ok := findClosingBrace(input, pos+2)
			if !ok {
				return nil, newError(UnclosedBlock, pos, "missing closing '}'")
			}
			kind := Unfold
			switch c {
			case '!':
				kind = NoEscapeUnfold
			case '$':
				kind = Variables
			}
			text, _ := strutil.Decode(input[pos+2 : end])
			segments = append(segments, EmbeddedText{Text: text, Kind: kind, Pos: pos})
			pos = end + 1
			textStart = pos
			continue
		}

		pos++
	}

	flushText(len(input))
	return segments, nil
}

func isEscapable(b byte) bool {
	return b == '{' || b == '}' || b == '#' || b == '!' || b == '$'
}

// findClosingBrace scans input from start for the first '}' that is not
// inside a single- or double-quoted string literal (so that conditions
// like {if x == "}"} don't terminate the block early), respecting
// backslash-escapes within the quoted text. It returns the index of the
// '}' and true, or (0, false) if input runs out first (spec.md §4.4:
// "Unterminated {...} → UnclosedBlockError").
func findClosingBrace(input string, start int) (int, bool) {
	i := start
	var quote byte
	for i < len(input) {
		c := input[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(input) {
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '}':
			return i, true
		}
		i++
	}
	return 0, false
}

// classifyCommand identifies which SegmentKind a {...} block's raw
// content names, and returns the header/condition payload with the
// keyword stripped (spec.md §4.4's command table).
func classifyCommand(content string) (SegmentKind, string, bool) {
	trimmed := strings.TrimSpace(content)
	switch trimmed {
	case "":
		return EmptyBlock, "", true
	case "else":
		return ElseBlock, "", true
	case "/if":
		return EndIfBlock, "", true
	case "/for":
		return EndForBlock, "", true
	case "default":
		return SelectDefaultBlock, "", true
	case "/select":
		return EndSelectBlock, "", true
	}

	if rest, ok := stripKeyword(content, "elseif"); ok {
		return ElseIfBlock, rest, true
	}
	if rest, ok := stripKeyword(content, "else if"); ok {
		return ElseIfBlock, rest, true
	}
	if rest, ok := stripKeyword(content, "if"); ok {
		return IfBlock, rest, true
	}
	if rest, ok := stripKeyword(content, "for"); ok {
		return ForBlock, rest, true
	}
	if rest, ok := stripKeyword(content, "select"); ok {
		return SelectBlock, rest, true
	}
	if rest, ok := stripKeyword(content, "case"); ok {
		return SelectCaseBlock, rest, true
	}
	return 0, "", false
}

// stripKeyword reports whether content (after trimming leading
// whitespace) begins with kw followed by whitespace, and if so returns
// the remainder after kw with surrounding whitespace trimmed.
func stripKeyword(content, kw string) (string, bool) {
	t := strings.TrimLeft(content, " \t\n\r")
	if !strings.HasPrefix(t, kw) {
		return "", false
	}
	rest := t[len(kw):]
	if rest == "" {
		return "", false
	}
	switch rest[0] {
	case ' ', '\t', '\n', '\r':
		return strings.TrimSpace(rest), true
	default:
		return "", false
	}
}
