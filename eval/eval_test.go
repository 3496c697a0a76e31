package eval

import (
	"testing"
	"time"

	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/internal/strutil"
	"github.com/loomtext/loom/value"
	"github.com/loomtext/loom/varenv"
)

func s(text string) strutil.String {
	v, _ := strutil.Decode(text)
	return v
}

func newEval() *Evaluator {
	return New(varenv.New(), nil, DefaultBuiltins(func() time.Time {
		return time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	}))
}

func TestEvalNumberAndBinary(t *testing.T) {
	e := newEval()
	n := ast.NewBinary(0, ast.OpAdd, ast.NewNumber(0, 1.1), ast.NewNumber(0, 1))
	v, err := e.Eval(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ToString() != "2.1" {
		t.Errorf("got %q, want 2.1", v.ToString())
	}
}

func TestEvalListConcatenation(t *testing.T) {
	e := newEval()
	list := ast.NewList(0, []*ast.Node{
		ast.NewNoEscapeString(0, s("a")),
		ast.NewNoEscapeString(0, s("b")),
	})
	v, err := e.Eval(list)
	if err != nil || v.ToString() != "ab" {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvalUnfoldEscapePolicy(t *testing.T) {
	env := varenv.New()
	e := New(env, func(s string) string { return "[" + s + "]" }, DefaultBuiltins(nil))
	n := ast.NewUnfold(0, ast.NewNumber(0, 5))
	v, err := e.Eval(n)
	if err != nil || v.ToString() != "[5]" {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvalVariableDeclEagerBinding(t *testing.T) {
	e := newEval()
	if _, err := e.Eval(ast.NewVariableDecl(0, s("y"), ast.NewNumber(0, 10))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := ast.NewVariableDecl(0, s("x"), ast.NewIdentifier(0, s("y")))
	if _, err := e.Eval(decl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rebinding y after x was declared must not retroactively affect x's
	// already-evaluated value (eager policy, spec.md §9).
	if _, err := e.Eval(ast.NewVariableDecl(0, s("y"), ast.NewNumber(0, 20))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref := ast.NewIdentifier(0, s("x"))
	v, err := e.Eval(ref)
	if err != nil || v.ToString() != "10" {
		t.Fatalf("got %v, %v, want 10", v, err)
	}
}

func TestEvalIfElse(t *testing.T) {
	e := newEval()
	n := ast.NewIf(0, []*ast.Node{
		ast.NewIfCondition(0, ast.NewBool(0, false), ast.NewNoEscapeString(0, s("A"))),
		ast.NewElse(0, ast.NewNoEscapeString(0, s("B"))),
	})
	v, err := e.Eval(n)
	if err != nil || v.ToString() != "B" {
		t.Fatalf("got %v, %v, want B", v, err)
	}
}

func TestEvalTernary(t *testing.T) {
	e := newEval()
	n := ast.NewTernary(0, ast.NewBool(0, true), ast.NewNumber(0, 1), ast.NewNumber(0, 2))
	v, err := e.Eval(n)
	if err != nil || v.(value.Number) != 1 {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvalIfConditionNotBool(t *testing.T) {
	e := newEval()
	n := ast.NewIf(0, []*ast.Node{
		ast.NewIfCondition(0, ast.NewNumber(0, 1), ast.NewNoEscapeString(0, s("A"))),
	})
	_, err := e.Eval(n)
	astErr, ok := err.(*ast.Error)
	if !ok || astErr.Kind != ast.InvalidIfStatement {
		t.Fatalf("got %v, want InvalidIfStatementError", err)
	}
}

func TestEvalTernaryConditionNotBool(t *testing.T) {
	e := newEval()
	n := ast.NewTernary(0, ast.NewNumber(0, 1), ast.NewNumber(0, 1), ast.NewNumber(0, 2))
	_, err := e.Eval(n)
	astErr, ok := err.(*ast.Error)
	if !ok || astErr.Kind != ast.InvalidExpression {
		t.Fatalf("got %v, want InvalidExpressionError", err)
	}
}

func TestEvalArrayIndex(t *testing.T) {
	e := newEval()
	arr := ast.NewArrayLiteral(0, []*ast.Node{
		ast.NewNumber(0, 10), ast.NewNumber(0, 20), ast.NewNumber(0, 30),
	})
	idx := ast.NewArrayIndex(0, arr, ast.NewNumber(0, 1))
	v, err := e.Eval(idx)
	if err != nil || v.(value.Number) != 20 {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvalArrayIndexOutOfBounds(t *testing.T) {
	e := newEval()
	arr := ast.NewArrayLiteral(0, []*ast.Node{ast.NewNumber(0, 1)})
	idx := ast.NewArrayIndex(0, arr, ast.NewNumber(0, 5))
	_, err := e.Eval(idx)
	valErr, ok := err.(*value.Error)
	if !ok || valErr.Kind != value.ArrayIndexOutOfBounds {
		t.Fatalf("got %v, want ArrayIndexOutOfBounds", err)
	}
}

func TestEvalForLoop(t *testing.T) {
	e := newEval()
	arr := ast.NewArrayLiteral(0, []*ast.Node{
		ast.NewNumber(0, 1), ast.NewNumber(0, 2), ast.NewNumber(0, 3),
	})
	body := ast.NewIdentifier(0, s("i"))
	loop := ast.NewFor(0, s("i"), arr, body)
	v, err := e.Eval(loop)
	if err != nil || v.ToString() != "123" {
		t.Fatalf("got %v, %v, want 123", v, err)
	}
	// post-loop binding is gone (spec.md §8 invariant 9)
	if _, err := e.Env.Get("i"); err == nil {
		t.Fatal("expected loop variable to be unbound after the loop")
	}
}

func TestEvalForLoopEmptyArray(t *testing.T) {
	e := newEval()
	loop := ast.NewFor(0, s("i"), ast.NewArrayLiteral(0, nil), ast.NewIdentifier(0, s("i")))
	v, err := e.Eval(loop)
	if err != nil || v.ToString() != "" {
		t.Fatalf("got %v, %v, want empty string", v, err)
	}
}

func TestEvalSelectFirstMatchWins(t *testing.T) {
	e := newEval()
	top := ast.NewSelectTop(0, ast.NewNumber(0, 2), ast.NewNoEscapeString(0, s("_")))
	sel := ast.NewSelect(0, []*ast.Node{
		top,
		ast.NewSelectCase(0, ast.NewNumber(0, 1), ast.NewNoEscapeString(0, s("one"))),
		ast.NewSelectCase(0, ast.NewNumber(0, 2), ast.NewNoEscapeString(0, s("two"))),
		ast.NewSelectDefault(0, ast.NewNoEscapeString(0, s("other"))),
	})
	v, err := e.Eval(sel)
	if err != nil || v.ToString() != "_two" {
		t.Fatalf("got %v, %v, want _two", v, err)
	}
}

func TestEvalSelectDefaultFallback(t *testing.T) {
	e := newEval()
	top := ast.NewSelectTop(0, ast.NewNumber(0, 99), nil)
	sel := ast.NewSelect(0, []*ast.Node{
		top,
		ast.NewSelectCase(0, ast.NewNumber(0, 1), ast.NewNoEscapeString(0, s("one"))),
		ast.NewSelectDefault(0, ast.NewNoEscapeString(0, s("other"))),
	})
	v, err := e.Eval(sel)
	if err != nil || v.ToString() != "other" {
		t.Fatalf("got %v, %v, want other", v, err)
	}
}

func TestEvalFunctionCallNow(t *testing.T) {
	e := newEval()
	call := ast.NewFunctionCall(0, ast.NewIdentifier(0, s("now")), nil)
	v, err := e.Eval(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ToString() != "2026-07-31T12:00:00.000Z" {
		t.Errorf("got %q", v.ToString())
	}
}

func TestEvalFunctionCallUnknown(t *testing.T) {
	e := newEval()
	call := ast.NewFunctionCall(0, ast.NewIdentifier(0, s("nope")), nil)
	_, err := e.Eval(call)
	astErr, ok := err.(*ast.Error)
	if !ok || astErr.Kind != ast.FunctionCallFailed {
		t.Fatalf("got %v, want FunctionCallFailedError", err)
	}
}

func TestEvalScopeUnwindsOnError(t *testing.T) {
	e := newEval()
	depth := e.Env.Depth()
	body := ast.NewArrayIndex(0,
		ast.NewArrayLiteral(0, []*ast.Node{ast.NewNumber(0, 1)}),
		ast.NewNumber(0, 9))
	n := ast.NewIf(0, []*ast.Node{
		ast.NewIfCondition(0, ast.NewBool(0, true), body),
	})
	if _, err := e.Eval(n); err == nil {
		t.Fatal("expected an error")
	}
	if e.Env.Depth() != depth {
		t.Fatalf("scope depth after error = %d, want %d", e.Env.Depth(), depth)
	}
}

func TestEvalIdentifierUnbound(t *testing.T) {
	e := newEval()
	_, err := e.Eval(ast.NewIdentifier(0, s("missing")))
	astErr, ok := err.(*ast.Error)
	if !ok || astErr.Kind != ast.IdentifierParseFailed {
		t.Fatalf("got %v, want IdentifierParseFailedError", err)
	}
}

func TestEvalNoneEmbeddedDecodesEscapes(t *testing.T) {
	e := newEval()
	n := ast.NewNoneEmbedded(0, s(`World \{\}`))
	v, err := e.Eval(n)
	if err != nil || v.ToString() != "World {}" {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvalNoneEmbeddedIdempotent(t *testing.T) {
	e := newEval()
	once, _ := e.Eval(ast.NewNoneEmbedded(0, s(`a \{b\}`)))
	twice, _ := e.Eval(ast.NewNoneEmbedded(0, s(once.ToString())))
	if once.ToString() != twice.ToString() {
		t.Fatalf("decoding should be idempotent: %q vs %q", once.ToString(), twice.ToString())
	}
}
