package parser

import (
	"testing"

	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/lexer"
)

func parseExpr(t *testing.T, src string) *ast.Node {
	t.Helper()
	words, err := lexer.SplitWords(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	n, err := NewExprParser(words).ParseExpression()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return n
}

func TestParseNumberLiteral(t *testing.T) {
	n := parseExpr(t, "3.5")
	if n.Kind != ast.Number || n.Num != 3.5 {
		t.Fatalf("got %+v", n)
	}
}

func TestParseStringLiteralWithEscapes(t *testing.T) {
	n := parseExpr(t, `'World \{\}'`)
	if n.Kind != ast.String || n.Text.Go() != "World {}" {
		t.Fatalf("got %+v (%q)", n, n.Text.Go())
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	n := parseExpr(t, "1 + 2 * 3")
	if n.Kind != ast.Binary || n.BinOp != ast.OpAdd {
		t.Fatalf("expected top-level +, got %+v", n)
	}
	rhs := n.Rhs()
	if rhs.Kind != ast.Binary || rhs.BinOp != ast.OpMul {
		t.Fatalf("expected rhs to be *, got %+v", rhs)
	}
}

func TestParseTernary(t *testing.T) {
	n := parseExpr(t, "true ? 1 : 2")
	if n.Kind != ast.Ternary {
		t.Fatalf("got %+v", n)
	}
}

func TestParseParenGrouping(t *testing.T) {
	n := parseExpr(t, "(1 + 2) * 3")
	if n.Kind != ast.Binary || n.BinOp != ast.OpMul {
		t.Fatalf("got %+v", n)
	}
	if n.Lhs().Kind != ast.Paren {
		t.Fatalf("expected lhs to be Paren, got %+v", n.Lhs())
	}
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	n := parseExpr(t, "[1,2,3][1]")
	if n.Kind != ast.ArrayIndex {
		t.Fatalf("got %+v", n)
	}
	if n.Base().Kind != ast.ArrayLiteral || len(n.Base().Children) != 3 {
		t.Fatalf("got %+v", n.Base())
	}
}

func TestParseFunctionCall(t *testing.T) {
	n := parseExpr(t, "now()")
	if n.Kind != ast.FunctionCall || n.Name().Text.Go() != "now" {
		t.Fatalf("got %+v", n)
	}
	if len(n.Args()) != 0 {
		t.Fatalf("expected no args, got %v", n.Args())
	}
}

func TestParseUnaryOperators(t *testing.T) {
	n := parseExpr(t, "-5")
	// lexer absorbs the sign into the number token when directly adjacent
	if n.Kind != ast.Number || n.Num != -5 {
		t.Fatalf("got %+v", n)
	}
	n = parseExpr(t, "!true")
	if n.Kind != ast.Unary || n.UnOp != ast.OpNot {
		t.Fatalf("got %+v", n)
	}
}

func TestParseTrailingTokensRejected(t *testing.T) {
	words, err := lexer.SplitWords("1 2")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = NewExprParser(words).ParseExpression()
	parseErr, ok := err.(*Error)
	if !ok || parseErr.Kind != UnexpectedTrailingTokens {
		t.Fatalf("got %v, want UnexpectedTrailingTokensError", err)
	}
}

func TestParseVariableListBasic(t *testing.T) {
	words, err := lexer.SplitWords("a = 10; b = 20")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	n, err := ParseVariableList(words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != ast.VariableList || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
	if n.Children[0].Text.Go() != "a" || n.Children[1].Text.Go() != "b" {
		t.Fatalf("unexpected decl names: %+v", n.Children)
	}
}

func TestParseVariableListMissingAssignment(t *testing.T) {
	words, err := lexer.SplitWords("invalid 10")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = ParseVariableList(words)
	parseErr, ok := err.(*Error)
	if !ok || parseErr.Kind != VariableAssignmentMissing {
		t.Fatalf("got %v, want VariableAssignmentMissing", err)
	}
}

func TestParseVariableListInvalidName(t *testing.T) {
	words, err := lexer.SplitWords("10 = 20")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = ParseVariableList(words)
	parseErr, ok := err.(*Error)
	if !ok || parseErr.Kind != InvalidVariableName {
		t.Fatalf("got %v, want InvalidVariableName", err)
	}
}

func TestParseVariableListMissingValue(t *testing.T) {
	words, err := lexer.SplitWords("a =")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = ParseVariableList(words)
	parseErr, ok := err.(*Error)
	if !ok || parseErr.Kind != VariableValueMissing {
		t.Fatalf("got %v, want VariableValueMissing", err)
	}
}

func TestParseVariableListNotSemicolonSeparated(t *testing.T) {
	words, err := lexer.SplitWords("a = 10 b = 20")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = ParseVariableList(words)
	parseErr, ok := err.(*Error)
	if !ok || parseErr.Kind != VariableNotSemicolonSeparated {
		t.Fatalf("got %v, want VariableNotSemicolonSeparated", err)
	}
}
