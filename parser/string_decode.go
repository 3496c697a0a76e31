package parser

import (
	"strings"

	"github.com/loomtext/loom/value"
)

// DecodeStringLiteral implements spec.md §4.5.1: raw is the literal
// text including its outer quotes. Within the body, `\n`→LF, `\t`→TAB,
// `\\`→`\`, `\"`→`"`, `\'`→`'`, `\{`→`{`, `\}`→`}`; any other `\?` is an
// EscapeSequenceParseFailed. Two consecutive copies of the opening
// quote escape one copy of that quote (`''` inside a `'...'` literal,
// `""` inside a `"..."` literal).
func DecodeStringLiteral(raw string) (string, error) {
	if len(raw) < 2 {
		return "", newError(StringParseFailed, 0, "string literal too short")
	}
	quote := raw[0]
	body := raw[1 : len(raw)-1]

	var b strings.Builder
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			switch body[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			case '{':
				b.WriteByte('{')
			case '}':
				b.WriteByte('}')
			default:
				return "", &value.Error{Kind: value.EscapeSequenceParseFailed, Msg: "unrecognized escape sequence"}
			}
			i += 2
		case c == quote && i+1 < len(body) && body[i+1] == quote:
			b.WriteByte(quote)
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}
