package lexer

import "github.com/loomtext/loom/internal/strutil"

// splitterTable marks the bytes that terminate a bare identifier: ASCII
// whitespace, quotes, and every recognized operator/punctuation byte. Built
// once at init time, mirroring spec.md §4.4's "256-entry byte table of
// splitter bytes".
var splitterTable [256]bool

func init() {
	for _, b := range []byte(" \t\n\r'\".=<>+-*/()[]!,#$?:;\\") {
		splitterTable[b] = true
	}
}

func isSplitter(b byte) bool { return splitterTable[b] }

func isASCIIWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// SplitWords tokenizes an expression string into a sequence of Words
// (spec.md §4.4 "splitWords").
func SplitWords(input string) ([]Word, error) {
	if _, err := strutil.Decode(input); err != nil {
		return nil, err
	}
	s := &wordScanner{input: input}
	var words []Word
	for {
		s.skipASCIIWhitespace()
		if s.pos >= len(s.input) {
			break
		}
		w, err := s.next()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

type wordScanner struct {
	input string
	pos   int
}

func (s *wordScanner) skipASCIIWhitespace() {
	for s.pos < len(s.input) && isASCIIWhitespace(s.input[s.pos]) {
		s.pos++
	}
}

func (s *wordScanner) peekAt(offset int) (byte, bool) {
	p := s.pos + offset
	if p >= len(s.input) {
		return 0, false
	}
	return s.input[p], true
}

func (s *wordScanner) next() (Word, error) {
	start := s.pos
	ch := s.input[s.pos]

	switch {
	case ch == '\'' || ch == '"':
		return s.readStringLiteral(ch)
	case isDigitByte(ch):
		return s.readNumber()
	case (ch == '+' || ch == '-') && func() bool {
		nb, ok := s.peekAt(1)
		return ok && isDigitByte(nb)
	}():
		return s.readNumber()
	case !isSplitter(ch):
		return s.readIdentifier()
	default:
		return s.readOperator(start)
	}
}

// readStringLiteral scans a quoted string literal per spec.md §4.4: the
// opening quote is skipped, scanning advances until the matching
// unescaped quote; a backslash consumes itself and the following byte
// verbatim (decoding is deferred to §4.5.1, invoked by the parser).
func (s *wordScanner) readStringLiteral(quote byte) (Word, error) {
	start := s.pos
	s.pos++ // skip opening quote
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		if c == quote {
			s.pos++
			text, _ := strutil.Decode(s.input[start:s.pos])
			return Word{Text: text, Kind: StringLiteral, Pos: start}, nil
		}
		s.pos++
	}
	return Word{}, newError(UnclosedStringLiteral, start, "missing closing quote")
}

// readNumber scans an integer/decimal literal: an optional leading sign
// (only valid as the token's first byte), digits, at most one '.', and
// '_' digit-separators that may not repeat consecutively.
func (s *wordScanner) readNumber() (Word, error) {
	start := s.pos
	if s.input[s.pos] == '+' || s.input[s.pos] == '-' {
		s.pos++
	}
	seenDot := false
	lastWasUnderscore := false
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch {
		case isDigitByte(c):
			lastWasUnderscore = false
			s.pos++
		case c == '_':
			if lastWasUnderscore {
				return Word{}, newError(ConsecutiveUnderscore, s.pos, "two underscores in a row in number literal")
			}
			lastWasUnderscore = true
			s.pos++
		case c == '.' && !seenDot:
			seenDot = true
			lastWasUnderscore = false
			s.pos++
		default:
			goto done
		}
	}
done:
	text, _ := strutil.Decode(s.input[start:s.pos])
	return Word{Text: text, Kind: Number, Pos: start}, nil
}

// readIdentifier scans a run of non-splitter bytes, then reclassifies it
// as a keyword (true/false/and/or/xor/in) or leaves it as Identifier.
func (s *wordScanner) readIdentifier() (Word, error) {
	start := s.pos
	for s.pos < len(s.input) && !isSplitter(s.input[s.pos]) {
		s.pos++
	}
	lit := s.input[start:s.pos]
	text, _ := strutil.Decode(lit)
	kind := Identifier
	if k, ok := keywords[lit]; ok {
		kind = k
	}
	return Word{Text: text, Kind: kind, Pos: start}, nil
}

// readOperator scans a recognized single- or double-byte operator token.
func (s *wordScanner) readOperator(start int) (Word, error) {
	ch := s.input[start]
	one := func(k WordKind) (Word, error) {
		s.pos++
		text, _ := strutil.Decode(s.input[start:s.pos])
		return Word{Text: text, Kind: k, Pos: start}, nil
	}
	two := func(k WordKind) (Word, error) {
		s.pos += 2
		text, _ := strutil.Decode(s.input[start:s.pos])
		return Word{Text: text, Kind: k, Pos: start}, nil
	}
	next, hasNext := s.peekAt(1)

	switch ch {
	case '.':
		return one(Period)
	case '+':
		return one(Plus)
	case '-':
		return one(Minus)
	case '*':
		return one(Multiply)
	case '/':
		return one(Divide)
	case '(':
		return one(LeftParen)
	case ')':
		return one(RightParen)
	case '[':
		return one(LeftBracket)
	case ']':
		return one(RightBracket)
	case '!':
		return one(Not)
	case ',':
		return one(Comma)
	case '#':
		return one(Hash)
	case '$':
		return one(Dollar)
	case '?':
		return one(Question)
	case ':':
		return one(Colon)
	case ';':
		return one(Semicolon)
	case '\\':
		return one(Backslash)
	case '=':
		if hasNext && next == '=' {
			return two(Equal)
		}
		return one(Assign)
	case '<':
		if hasNext && next == '=' {
			return two(LessEq)
		}
		if hasNext && next == '>' {
			return two(NotEqual)
		}
		return one(Less)
	case '>':
		if hasNext && next == '=' {
			return two(GreaterEq)
		}
		return one(Greater)
	default:
		return one(Identifier) // unrecognized splitter byte: single-char fallback
	}
}
