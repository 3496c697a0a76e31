package parser

import (
	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/lexer"
)

// ParseVariableList parses a `${...}` segment's body: one or more
// `<ident> = <expr>` declarations separated by `;` (spec.md §4.5
// "variableParser for `<ident> = <expr>`"; scenario S5:
// `${a = 10; b = 20}`). A missing `=` after the leading identifier is
// VariableAssignmentMissing (scenario S7: `${invalid 10}`).
func ParseVariableList(words []lexer.Word) (*ast.Node, error) {
	p := &ExprParser{words: words}
	var decls []*ast.Node
	for {
		decl, err := p.variableDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		if k, ok := p.curKind(); ok && k == lexer.Semicolon {
			p.advance()
			if p.atEnd() {
				break
			}
			continue
		}
		break
	}
	if !p.atEnd() {
		return nil, newError(VariableNotSemicolonSeparated, p.curPos(), "variable declarations must be separated by ';'")
	}
	return ast.NewVariableList(0, decls), nil
}

func (p *ExprParser) variableDecl() (*ast.Node, error) {
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, newError(InvalidVariableName, p.curPos(), "expected identifier in variable declaration")
	}
	if k, ok := p.curKind(); !ok || k != lexer.Assign {
		return nil, newError(VariableAssignmentMissing, p.curPos(), "expected '=' after identifier")
	}
	p.advance()
	if p.atEnd() {
		return nil, newError(VariableValueMissing, p.curPos(), "missing value after '=' in variable declaration")
	}
	value, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return ast.NewVariableDecl(name.Pos, name.Text, value), nil
}
