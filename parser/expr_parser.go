// Package parser implements the expression parser (C5) and template
// parser (C6) described in spec.md §4.5–§4.6, in the style of barn's
// parser.Parser: a one-token-lookahead recursive-descent parser walked
// over a pre-lexed token slice rather than a live lexer, since spec.md
// §4.5's factor rule for `(` and `[` wants paren-balanced sub-parsing —
// straightforward here because the whole token slice is already in
// hand, rather than barn's single-token NextToken() streaming style.
package parser

import (
	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/internal/strutil"
	"github.com/loomtext/loom/lexer"
	"github.com/loomtext/loom/value"
)

// ExprParser parses a lexer.Word slice (spec.md §4.5: ternary → logical
// → comparison → additive → multiplicative → factor).
type ExprParser struct {
	words []lexer.Word
	pos   int
}

// NewExprParser creates a parser over an already-lexed Word slice.
func NewExprParser(words []lexer.Word) *ExprParser {
	return &ExprParser{words: words}
}

// ParseExpression parses one complete ternary expression and rejects
// any leftover tokens (spec.md §7 "unsupported embedded expression").
func (p *ExprParser) ParseExpression() (*ast.Node, error) {
	n, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, newError(UnexpectedTrailingTokens, p.curPos(), "unexpected trailing tokens after expression")
	}
	return n, nil
}

func (p *ExprParser) atEnd() bool { return p.pos >= len(p.words) }

func (p *ExprParser) cur() (lexer.Word, bool) {
	if p.atEnd() {
		return lexer.Word{}, false
	}
	return p.words[p.pos], true
}

func (p *ExprParser) curPos() int {
	if w, ok := p.cur(); ok {
		return w.Pos
	}
	if len(p.words) > 0 {
		return p.words[len(p.words)-1].Pos
	}
	return 0
}

func (p *ExprParser) curKind() (lexer.WordKind, bool) {
	w, ok := p.cur()
	if !ok {
		return 0, false
	}
	return w.Kind, true
}

func (p *ExprParser) advance() lexer.Word {
	w := p.words[p.pos]
	p.pos++
	return w
}

func (p *ExprParser) expect(kind lexer.WordKind) (lexer.Word, error) {
	w, ok := p.cur()
	if !ok || w.Kind != kind {
		return lexer.Word{}, newError(InvalidExpression, p.curPos(), "unexpected token")
	}
	p.pos++
	return w, nil
}

// ternary: logical ('?' ternary ':' ternary)?
func (p *ExprParser) ternary() (*ast.Node, error) {
	cond, err := p.logical()
	if err != nil {
		return nil, err
	}
	if k, ok := p.curKind(); ok && k == lexer.Question {
		pos := p.curPos()
		p.advance()
		then, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, newError(TernaryParseFailed, p.curPos(), "expected ':' in ternary expression")
		}
		els, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return ast.NewTernary(pos, cond, then, els), nil
	}
	return cond, nil
}

// logical: comparison (('and'|'or'|'xor') comparison)*
func (p *ExprParser) logical() (*ast.Node, error) {
	lhs, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for {
		k, ok := p.curKind()
		if !ok {
			return lhs, nil
		}
		var op ast.BinOp
		switch k {
		case lexer.And:
			op = ast.OpAnd
		case lexer.Or:
			op = ast.OpOr
		case lexer.Xor:
			op = ast.OpXor
		default:
			return lhs, nil
		}
		pos := p.curPos()
		p.advance()
		rhs, err := p.comparison()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// comparison: additive (('=='|'<>'|'<'|'<='|'>'|'>=') additive)*
func (p *ExprParser) comparison() (*ast.Node, error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		k, ok := p.curKind()
		if !ok {
			return lhs, nil
		}
		var op ast.BinOp
		switch k {
		case lexer.Equal:
			op = ast.OpEq
		case lexer.NotEqual:
			op = ast.OpNotEq
		case lexer.Less:
			op = ast.OpLess
		case lexer.LessEq:
			op = ast.OpLessEq
		case lexer.Greater:
			op = ast.OpGreater
		case lexer.GreaterEq:
			op = ast.OpGreaterEq
		default:
			return lhs, nil
		}
		pos := p.curPos()
		p.advance()
		rhs, err := p.additive()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// additive: multiplicative (('+'|'-') multiplicative)*
func (p *ExprParser) additive() (*ast.Node, error) {
	lhs, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		k, ok := p.curKind()
		if !ok {
			return lhs, nil
		}
		var op ast.BinOp
		switch k {
		case lexer.Plus:
			op = ast.OpAdd
		case lexer.Minus:
			op = ast.OpSub
		default:
			return lhs, nil
		}
		pos := p.curPos()
		p.advance()
		rhs, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// multiplicative: factor (('*'|'/') factor)*
func (p *ExprParser) multiplicative() (*ast.Node, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		k, ok := p.curKind()
		if !ok {
			return lhs, nil
		}
		var op ast.BinOp
		switch k {
		case lexer.Multiply:
			op = ast.OpMul
		case lexer.Divide:
			op = ast.OpDiv
		default:
			return lhs, nil
		}
		pos := p.curPos()
		p.advance()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// factor: spec.md §4.5's factor rule.
func (p *ExprParser) factor() (*ast.Node, error) {
	w, ok := p.cur()
	if !ok {
		return nil, newError(InvalidExpression, p.curPos(), "unexpected end of expression")
	}

	switch w.Kind {
	case lexer.Number:
		p.advance()
		v, err := value.ParseNumber(w.Text.Go())
		if err != nil {
			return nil, newError(NumberParseFailed, w.Pos, "malformed number literal")
		}
		return ast.NewNumber(w.Pos, float64(v.(value.Number))), nil

	case lexer.StringLiteral:
		p.advance()
		decoded, err := DecodeStringLiteral(w.Text.Go())
		if err != nil {
			return nil, err
		}
		return ast.NewString(w.Pos, strutil.FromGoString(decoded)), nil

	case lexer.TrueLiteral:
		p.advance()
		return ast.NewBool(w.Pos, true), nil

	case lexer.FalseLiteral:
		p.advance()
		return ast.NewBool(w.Pos, false), nil

	case lexer.Plus, lexer.Minus, lexer.Not:
		p.advance()
		var op ast.UnOp
		switch w.Kind {
		case lexer.Plus:
			op = ast.OpPlus
		case lexer.Minus:
			op = ast.OpNeg
		case lexer.Not:
			op = ast.OpNot
		}
		inner, err := p.factor()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(w.Pos, op, inner), nil

	case lexer.Identifier:
		p.advance()
		node := ast.NewIdentifier(w.Pos, w.Text)
		return p.postfixIdentifier(node)

	case lexer.LeftParen:
		p.advance()
		inner, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RightParen); err != nil {
			return nil, newError(InvalidExpression, p.curPos(), "expected closing ')'")
		}
		return ast.NewParen(w.Pos, inner), nil

	case lexer.LeftBracket:
		arr, err := p.arrayLiteral()
		if err != nil {
			return nil, err
		}
		return p.postfixIndex(arr)

	default:
		return nil, newError(InvalidExpression, w.Pos, "unexpected token in expression")
	}
}

// postfixIdentifier handles `name(args)` → FunctionCall and
// `name[index]` (chainable) → ArrayIndex, per spec.md §4.5's factor
// rule.
func (p *ExprParser) postfixIdentifier(node *ast.Node) (*ast.Node, error) {
	if k, ok := p.curKind(); ok && k == lexer.LeftParen {
		pos := p.curPos()
		p.advance()
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RightParen); err != nil {
			return nil, newError(InvalidExpression, p.curPos(), "expected closing ')' in function call")
		}
		node = ast.NewFunctionCall(pos, node, args)
	}
	return p.postfixIndex(node)
}

// postfixIndex applies any chain of `[index]` suffixes to node, each
// becoming an ArrayIndex; it serves identifiers and array literals.
func (p *ExprParser) postfixIndex(node *ast.Node) (*ast.Node, error) {
	for {
		k, ok := p.curKind()
		if !ok || k != lexer.LeftBracket {
			break
		}
		pos := p.curPos()
		p.advance()
		idx, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RightBracket); err != nil {
			return nil, newError(InvalidExpression, p.curPos(), "expected closing ']' in array index")
		}
		node = ast.NewArrayIndex(pos, node, idx)
	}
	return node, nil
}

// argList parses a comma-separated list of ternary expressions, empty
// if the next token is the closing ')'.
func (p *ExprParser) argList() ([]*ast.Node, error) {
	var args []*ast.Node
	if k, ok := p.curKind(); ok && k == lexer.RightParen {
		return args, nil
	}
	for {
		arg, err := p.ternary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if k, ok := p.curKind(); ok && k == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// arrayLiteral parses `[ e, e, … ]` (spec.md §4.5's factor rule, and
// §9's note that array literals reuse the ternary entry per element).
func (p *ExprParser) arrayLiteral() (*ast.Node, error) {
	open, _ := p.expect(lexer.LeftBracket)
	var elems []*ast.Node
	if k, ok := p.curKind(); ok && k == lexer.RightBracket {
		p.advance()
		return ast.NewArrayLiteral(open.Pos, elems), nil
	}
	for {
		e, err := p.ternary()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if k, ok := p.curKind(); ok && k == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RightBracket); err != nil {
		return nil, newError(InvalidExpression, p.curPos(), "expected closing ']' in array literal")
	}
	return ast.NewArrayLiteral(open.Pos, elems), nil
}
