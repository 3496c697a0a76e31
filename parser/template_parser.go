package parser

import (
	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/internal/strutil"
	"github.com/loomtext/loom/lexer"
)

// ParseTemplate lexes and parses a full template string (C6, spec.md
// §4.6) into a single List node.
func ParseTemplate(input string) (*ast.Node, error) {
	segs, err := lexer.SplitEmbedded(input)
	if err != nil {
		return nil, err
	}
	p := &templateParser{segs: segs}
	children, err := p.parseSequence(nil)
	if err != nil {
		return nil, err
	}
	return ast.NewList(0, children), nil
}

type templateParser struct {
	segs []lexer.EmbeddedText
	pos  int
}

func (p *templateParser) atEnd() bool { return p.pos >= len(p.segs) }

func (p *templateParser) cur() lexer.EmbeddedText { return p.segs[p.pos] }

func (p *templateParser) advance() lexer.EmbeddedText {
	s := p.segs[p.pos]
	p.pos++
	return s
}

func (p *templateParser) curPos() int {
	if !p.atEnd() {
		return p.segs[p.pos].Pos
	}
	if len(p.segs) > 0 {
		return p.segs[len(p.segs)-1].Pos
	}
	return 0
}

// parseSequence parses child nodes until encountering a segment whose
// Kind is in stopAt (left unconsumed) or running out of input. A nil
// stopAt means "parse to end of input".
func (p *templateParser) parseSequence(stopAt map[lexer.SegmentKind]bool) ([]*ast.Node, error) {
	var out []*ast.Node
	for {
		if p.atEnd() {
			return out, nil
		}
		seg := p.cur()
		if stopAt != nil && stopAt[seg.Kind] {
			return out, nil
		}

		switch seg.Kind {
		case lexer.Text:
			p.advance()
			out = append(out, ast.NewNoneEmbedded(seg.Pos, seg.Text))

		case lexer.Unfold:
			p.advance()
			expr, err := parseExprText(seg.Text.Go())
			if err != nil {
				return nil, err
			}
			out = append(out, ast.NewUnfold(seg.Pos, expr))

		case lexer.NoEscapeUnfold:
			p.advance()
			expr, err := parseExprText(seg.Text.Go())
			if err != nil {
				return nil, err
			}
			out = append(out, ast.NewNoEscapeUnfold(seg.Pos, expr))

		case lexer.Variables:
			p.advance()
			words, err := lexer.SplitWords(seg.Text.Go())
			if err != nil {
				return nil, err
			}
			decl, err := ParseVariableList(words)
			if err != nil {
				return nil, err
			}
			out = append(out, decl)

		case lexer.EmptyBlock:
			p.advance()

		case lexer.IfBlock:
			node, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			out = append(out, node)

		case lexer.ForBlock:
			node, err := p.parseFor()
			if err != nil {
				return nil, err
			}
			out = append(out, node)

		case lexer.SelectBlock:
			node, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			out = append(out, node)

		case lexer.ElseIfBlock, lexer.ElseBlock, lexer.EndIfBlock:
			return nil, newError(IfBlockNotStarted, seg.Pos, "unexpected {if} terminator without an open {if}: "+seg.Kind.String())

		case lexer.EndForBlock:
			return nil, newError(ForBlockNotStarted, seg.Pos, "unexpected {for} terminator without an open {for}: "+seg.Kind.String())

		default:
			return nil, newError(BlockNotStarted, seg.Pos, "unexpected block terminator: "+seg.Kind.String())
		}
	}
}

var ifStop = map[lexer.SegmentKind]bool{
	lexer.ElseIfBlock: true,
	lexer.ElseBlock:   true,
	lexer.EndIfBlock:  true,
}

func (p *templateParser) parseIf() (*ast.Node, error) {
	open := p.advance() // IfBlock
	cond, err := parseExprText(open.Text.Go())
	if err != nil {
		return nil, err
	}
	body, err := p.parseSequence(ifStop)
	if err != nil {
		return nil, err
	}
	branches := []*ast.Node{ast.NewIfCondition(open.Pos, cond, ast.NewList(open.Pos, body))}

	for {
		if p.atEnd() {
			return nil, newError(IfBlockNotClosed, p.curPos(), "unclosed {if}")
		}
		seg := p.cur()
		switch seg.Kind {
		case lexer.ElseIfBlock:
			p.advance()
			cond, err := parseExprText(seg.Text.Go())
			if err != nil {
				return nil, err
			}
			body, err := p.parseSequence(ifStop)
			if err != nil {
				return nil, err
			}
			branches = append(branches, ast.NewIfCondition(seg.Pos, cond, ast.NewList(seg.Pos, body)))

		case lexer.ElseBlock:
			p.advance()
			body, err := p.parseSequence(map[lexer.SegmentKind]bool{lexer.EndIfBlock: true})
			if err != nil {
				return nil, err
			}
			branches = append(branches, ast.NewElse(seg.Pos, ast.NewList(seg.Pos, body)))
			if p.atEnd() || p.cur().Kind != lexer.EndIfBlock {
				return nil, newError(IfBlockNotClosed, p.curPos(), "unclosed {if} after {else}")
			}
			p.advance()
			return ast.NewIf(open.Pos, branches), nil

		case lexer.EndIfBlock:
			p.advance()
			return ast.NewIf(open.Pos, branches), nil

		default:
			return nil, newError(IfBlockNotClosed, seg.Pos, "unclosed {if}")
		}
	}
}

func (p *templateParser) parseFor() (*ast.Node, error) {
	open := p.advance() // ForBlock
	varName, collExpr, err := parseForHeader(open.Text.Go())
	if err != nil {
		return nil, err
	}
	body, err := p.parseSequence(map[lexer.SegmentKind]bool{lexer.EndForBlock: true})
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return nil, newError(ForBlockNotClosed, p.curPos(), "unclosed {for}")
	}
	p.advance() // EndForBlock
	return ast.NewFor(open.Pos, varName, collExpr, ast.NewList(open.Pos, body)), nil
}

var selectStop = map[lexer.SegmentKind]bool{
	lexer.SelectCaseBlock:    true,
	lexer.SelectDefaultBlock: true,
	lexer.EndSelectBlock:     true,
}

func (p *templateParser) parseSelect() (*ast.Node, error) {
	open := p.advance() // SelectBlock
	scrutinee, err := parseExprText(open.Text.Go())
	if err != nil {
		return nil, newError(InvalidSelectExpression, open.Pos, "malformed {select} expression: "+err.Error())
	}
	prelude, err := p.parseSequence(selectStop)
	if err != nil {
		return nil, err
	}
	children := []*ast.Node{ast.NewSelectTop(open.Pos, scrutinee, ast.NewList(open.Pos, prelude))}

	for {
		if p.atEnd() {
			return nil, newError(SelectBlockNotClosed, p.curPos(), "unclosed {select}")
		}
		seg := p.cur()
		switch seg.Kind {
		case lexer.SelectCaseBlock:
			p.advance()
			caseExpr, err := parseExprText(seg.Text.Go())
			if err != nil {
				return nil, newError(InvalidSelectCaseValue, seg.Pos, "malformed {case} value: "+err.Error())
			}
			body, err := p.parseSequence(selectStop)
			if err != nil {
				return nil, err
			}
			children = append(children, ast.NewSelectCase(seg.Pos, caseExpr, ast.NewList(seg.Pos, body)))

		case lexer.SelectDefaultBlock:
			p.advance()
			body, err := p.parseSequence(map[lexer.SegmentKind]bool{lexer.EndSelectBlock: true})
			if err != nil {
				return nil, err
			}
			children = append(children, ast.NewSelectDefault(seg.Pos, ast.NewList(seg.Pos, body)))

		case lexer.EndSelectBlock:
			p.advance()
			return ast.NewSelect(open.Pos, children), nil

		default:
			return nil, newError(SelectBlockNotClosed, seg.Pos, "unclosed {select}")
		}
	}
}

func parseExprText(text string) (*ast.Node, error) {
	words, err := lexer.SplitWords(text)
	if err != nil {
		return nil, err
	}
	return NewExprParser(words).ParseExpression()
}

func parseForHeader(text string) (strutil.String, *ast.Node, error) {
	words, err := lexer.SplitWords(text)
	if err != nil {
		return strutil.String{}, nil, err
	}
	if len(words) < 3 || words[0].Kind != lexer.Identifier || words[1].Kind != lexer.In {
		return strutil.String{}, nil, newError(InvalidExpression, 0, "malformed {for} header, expected '<ident> in <expr>'")
	}
	ep := &ExprParser{words: words[2:]}
	coll, err := ep.ternary()
	if err != nil {
		return strutil.String{}, nil, err
	}
	if !ep.atEnd() {
		return strutil.String{}, nil, newError(UnexpectedTrailingTokens, ep.curPos(), "unexpected trailing tokens in {for} header")
	}
	return words[0].Text, coll, nil
}
