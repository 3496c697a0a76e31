// Package eval implements the AST evaluator (C7, spec.md §4.7): the
// single recursive Eval function dispatching on ast.Node.Kind, in the
// style of barn's eval.Evaluator.Eval — a switch over the node's
// concrete kind, one evalX method per kind — generalized from barn's
// type-switch-on-interface to a switch-on-enum since ast.Node is a
// single flat struct rather than an interface hierarchy.
package eval

import (
	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/internal/strutil"
	"github.com/loomtext/loom/value"
	"github.com/loomtext/loom/varenv"
)

// EscapeFunc is the injected output-escape policy for Unfold nodes
// (spec.md §4.7 "the escape policy for the output... is an injected
// responsibility"). Identity is a valid policy and is the default.
type EscapeFunc func(string) string

// BuiltinFunc is a registered function-call target (spec.md §4.7
// "FunctionCall{name,args}... resolve name as identifier against a
// built-in registry").
type BuiltinFunc func(e *Evaluator, args []value.Value) (value.Value, error)

// Evaluator carries the services an evaluation needs beyond the AST
// and environment themselves: the escape policy and the builtin
// registry (which includes the host clock hook for now()).
type Evaluator struct {
	Env      *varenv.Environment
	Escape   EscapeFunc
	Builtins map[string]BuiltinFunc
}

// New creates an Evaluator over env with the given escape policy and
// builtin registry. Passing a nil escape defaults to identity
// (spec.md §9: "the default escape function is identity").
func New(env *varenv.Environment, escape EscapeFunc, builtins map[string]BuiltinFunc) *Evaluator {
	if escape == nil {
		escape = func(s string) string { return s }
	}
	if builtins == nil {
		builtins = map[string]BuiltinFunc{}
	}
	return &Evaluator{Env: env, Escape: escape, Builtins: builtins}
}

// Eval dispatches on node.Kind and returns the evaluated Value. On any
// error, the scope stack is restored to its depth at entry before the
// error propagates (spec.md §8 invariant 3).
func (e *Evaluator) Eval(node *ast.Node) (value.Value, error) {
	depth := e.Env.Depth()
	v, err := e.eval(node)
	if err != nil {
		e.Env.TruncateTo(depth)
		return nil, err
	}
	return v, nil
}

func (e *Evaluator) eval(node *ast.Node) (value.Value, error) {
	switch node.Kind {
	case ast.List:
		return e.evalList(node)
	case ast.NoneEmbedded:
		return e.evalNoneEmbedded(node)
	case ast.Unfold:
		return e.evalUnfold(node)
	case ast.NoEscapeUnfold:
		return e.evalNoEscapeUnfold(node)
	case ast.VariableList:
		return e.evalVariableList(node)
	case ast.VariableDecl:
		return e.evalVariableDecl(node)
	case ast.If:
		return e.evalIf(node)
	case ast.Ternary:
		return e.evalTernary(node)
	case ast.Paren:
		return e.eval(node.Inner())
	case ast.Binary:
		return e.evalBinary(node)
	case ast.Unary:
		return e.evalUnary(node)
	case ast.Number:
		return value.Number(node.Num), nil
	case ast.Bool:
		return value.Bool(node.Flag), nil
	case ast.String:
		// Already decoded at parse time (see parser/string_decode.go);
		// a String node's Text is the final runtime text.
		return value.String(node.Text.Go()), nil
	case ast.NoEscapeString:
		return value.String(node.Text.Go()), nil
	case ast.Identifier:
		return e.evalIdentifier(node)
	case ast.ArrayLiteral:
		return e.evalArrayLiteral(node)
	case ast.ArrayIndex:
		return e.evalArrayIndex(node)
	case ast.For:
		return e.evalFor(node)
	case ast.Select:
		return e.evalSelect(node)
	case ast.FunctionCall:
		return e.evalFunctionCall(node)
	default:
		return nil, ast.NewError(ast.IdentifierParseFailed, node.Pos, "unhandled node kind: "+node.Kind.String())
	}
}

func (e *Evaluator) evalList(node *ast.Node) (value.Value, error) {
	var out string
	for _, child := range node.Children {
		v, err := e.eval(child)
		if err != nil {
			return nil, err
		}
		s := v.ToString()
		if s == "" {
			continue
		}
		out += s
	}
	return value.String(out), nil
}

// evalNoneEmbedded removes the backslash in front of each {, }, #, !, $
// or \ in literal template text (spec.md §4.7 "NoneEmbedded(s)"); other
// backslashes are kept. Text with no backslash is returned unchanged, so
// decoded text that has no backslash left decodes to itself.
func (e *Evaluator) evalNoneEmbedded(node *ast.Node) (value.Value, error) {
	s := node.Text.Go()
	if !hasEscape(s) {
		return value.String(s), nil
	}
	return value.String(decodeEscapes(s)), nil
}

func hasEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			return true
		}
	}
	return false
}

func decodeEscapes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '{', '}', '#', '!', '$', '\\':
				out = append(out, s[i+1])
				i++
				continue
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (e *Evaluator) evalUnfold(node *ast.Node) (value.Value, error) {
	v, err := e.eval(node.Inner())
	if err != nil {
		return nil, err
	}
	return value.String(e.Escape(v.ToString())), nil
}

func (e *Evaluator) evalNoEscapeUnfold(node *ast.Node) (value.Value, error) {
	v, err := e.eval(node.Inner())
	if err != nil {
		return nil, err
	}
	return value.String(v.ToString()), nil
}

func (e *Evaluator) evalVariableList(node *ast.Node) (value.Value, error) {
	for _, decl := range node.Children {
		if _, err := e.eval(decl); err != nil {
			return nil, err
		}
	}
	return value.String(""), nil
}

// evalVariableDecl binds name in the innermost scope. Per the eager
// policy resolved for the Open Question in spec.md §9, value is
// evaluated once, now, and the resulting Value (not the unevaluated
// expression) is what gets bound: scalars bind directly; an Array
// result is bound as a literal-ized ast.Node so later Identifier reads
// recurse into something still representable by VariableValue's
// Expr|Number|String|Bool union.
func (e *Evaluator) evalVariableDecl(node *ast.Node) (value.Value, error) {
	v, err := e.eval(node.Value())
	if err != nil {
		return nil, err
	}
	name := node.Text.Go()
	switch val := v.(type) {
	case value.Number:
		e.Env.RegistNumber(name, float64(val))
	case value.String:
		e.Env.RegistString(name, string(val))
	case value.Bool:
		e.Env.RegistBoolean(name, bool(val))
	case value.Array:
		e.Env.RegistExpr(name, literalNodeForArray(node.Pos, val))
	}
	return value.String(""), nil
}

func literalNodeForValue(pos int, v value.Value) *ast.Node {
	switch val := v.(type) {
	case value.Number:
		return ast.NewNumber(pos, float64(val))
	case value.String:
		return ast.NewNoEscapeString(pos, strutil.FromGoString(string(val)))
	case value.Bool:
		return ast.NewBool(pos, bool(val))
	case value.Array:
		return literalNodeForArray(pos, val)
	}
	return ast.NewNoEscapeString(pos, strutil.FromGoString(""))
}

func literalNodeForArray(pos int, a value.Array) *ast.Node {
	children := make([]*ast.Node, len(a))
	for i, elem := range a {
		children[i] = literalNodeForValue(pos, elem)
	}
	return ast.NewArrayLiteral(pos, children)
}

func (e *Evaluator) evalIf(node *ast.Node) (value.Value, error) {
	for _, branch := range node.Children {
		switch branch.Kind {
		case ast.IfCondition:
			depth := e.Env.Depth()
			e.Env.AddHierarchy()
			cond, err := e.eval(branch.Cond())
			if err != nil {
				e.Env.TruncateTo(depth)
				return nil, err
			}
			b, ok := cond.(value.Bool)
			if !ok {
				e.Env.TruncateTo(depth)
				return nil, ast.NewError(ast.InvalidIfStatement, branch.Pos, "if condition must be a Bool")
			}
			if bool(b) {
				v, err := e.eval(branch.Body())
				e.Env.TruncateTo(depth)
				return v, err
			}
			e.Env.TruncateTo(depth)
		case ast.Else:
			depth := e.Env.Depth()
			e.Env.AddHierarchy()
			v, err := e.eval(branch.Inner())
			e.Env.TruncateTo(depth)
			return v, err
		default:
			return nil, ast.NewError(ast.InvalidIfStatement, branch.Pos, "invalid node inside If")
		}
	}
	return value.String(""), nil
}

func (e *Evaluator) evalTernary(node *ast.Node) (value.Value, error) {
	cond, err := e.eval(node.Cond())
	if err != nil {
		return nil, err
	}
	b, ok := cond.(value.Bool)
	if !ok {
		return nil, ast.NewError(ast.InvalidExpression, node.Pos, "ternary condition must be a Bool")
	}
	if bool(b) {
		return e.eval(node.Then())
	}
	return e.eval(node.ElseExpr())
}

func (e *Evaluator) evalBinary(node *ast.Node) (value.Value, error) {
	l, err := e.eval(node.Lhs())
	if err != nil {
		return nil, err
	}
	r, err := e.eval(node.Rhs())
	if err != nil {
		return nil, err
	}
	return value.EvalBinary(binOpToValueOp(node.BinOp), l, r)
}

func binOpToValueOp(op ast.BinOp) value.BinaryOp {
	switch op {
	case ast.OpAdd:
		return value.Add
	case ast.OpSub:
		return value.Sub
	case ast.OpMul:
		return value.Mul
	case ast.OpDiv:
		return value.Div
	case ast.OpEq:
		return value.Eq
	case ast.OpNotEq:
		return value.NotEq
	case ast.OpLess:
		return value.Less
	case ast.OpLessEq:
		return value.LessEq
	case ast.OpGreater:
		return value.Greater
	case ast.OpGreaterEq:
		return value.GreaterEq
	case ast.OpAnd:
		return value.And
	case ast.OpOr:
		return value.Or
	case ast.OpXor:
		return value.Xor
	default:
		return value.Add
	}
}

func (e *Evaluator) evalUnary(node *ast.Node) (value.Value, error) {
	operand, err := e.eval(node.Inner())
	if err != nil {
		return nil, err
	}
	op := value.Plus
	switch node.UnOp {
	case ast.OpPlus:
		op = value.Plus
	case ast.OpNeg:
		op = value.Neg
	case ast.OpNot:
		op = value.Not
	}
	return value.EvalUnary(op, operand)
}

// evalIdentifier looks up name: a bound expression recurses into its
// own evaluation in the current scope; a bound scalar returns a copy
// (spec.md §4.7 "Identifier(name)").
func (e *Evaluator) evalIdentifier(node *ast.Node) (value.Value, error) {
	name := node.Text.Go()
	v, err := e.Env.Get(name)
	if err != nil {
		return nil, ast.NewError(ast.IdentifierParseFailed, node.Pos, "unbound identifier: "+name)
	}
	switch v.Kind {
	case varenv.KindExpr:
		return e.eval(v.Expr)
	case varenv.KindNumber:
		return value.Number(v.Num), nil
	case varenv.KindString:
		return value.String(v.Str), nil
	case varenv.KindBool:
		return value.Bool(v.Bool), nil
	default:
		return nil, ast.NewError(ast.IdentifierParseFailed, node.Pos, "unrecognized binding kind")
	}
}

func (e *Evaluator) evalArrayLiteral(node *ast.Node) (value.Value, error) {
	out := make(value.Array, 0, len(node.Children))
	for _, child := range node.Children {
		v, err := e.eval(child)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalArrayIndex(node *ast.Node) (value.Value, error) {
	base, err := e.eval(node.Base())
	if err != nil {
		return nil, err
	}
	arr, ok := base.(value.Array)
	if !ok {
		return nil, &value.Error{Kind: value.NotAnArray, Msg: "array index base is not an Array"}
	}
	idxVal, err := e.eval(node.Index())
	if err != nil {
		return nil, err
	}
	idxNum, ok := idxVal.(value.Number)
	if !ok || float64(idxNum) < 0 {
		return nil, &value.Error{Kind: value.InvalidArrayAccess, Msg: "array index must be a non-negative Number"}
	}
	idx := int(idxNum)
	if idx < 0 || idx >= len(arr) {
		return nil, &value.Error{Kind: value.ArrayIndexOutOfBounds, Msg: "array index out of range"}
	}
	return arr[idx], nil
}

func (e *Evaluator) evalFor(node *ast.Node) (value.Value, error) {
	collVal, err := e.eval(node.Collection())
	if err != nil {
		return nil, err
	}
	arr, ok := collVal.(value.Array)
	if !ok {
		return nil, ast.NewError(ast.InvalidForCollection, node.Pos, "for-loop collection must be an Array")
	}

	varName := node.Text.Go()
	var out string
	depth := e.Env.Depth()
	e.Env.AddHierarchy()
	for _, elem := range arr {
		switch ev := elem.(type) {
		case value.Number:
			e.Env.RegistNumber(varName, float64(ev))
		case value.String:
			e.Env.RegistString(varName, string(ev))
		case value.Bool:
			e.Env.RegistBoolean(varName, bool(ev))
		default:
			e.Env.TruncateTo(depth)
			return nil, ast.NewError(ast.InvalidForCollection, node.Pos, "for-loop elements may not be nested arrays")
		}
		v, err := e.eval(node.Body())
		if err != nil {
			e.Env.TruncateTo(depth)
			return nil, err
		}
		out += v.ToString()
	}
	e.Env.TruncateTo(depth)
	return value.String(out), nil
}

func (e *Evaluator) evalSelect(node *ast.Node) (value.Value, error) {
	if len(node.Children) == 0 {
		return value.String(""), nil
	}
	top := node.Children[0]
	depth := e.Env.Depth()
	e.Env.AddHierarchy()

	scrutinee, err := e.eval(top.Expr())
	if err != nil {
		e.Env.TruncateTo(depth)
		return nil, err
	}
	var out string
	if prelude := top.Prelude(); prelude != nil {
		v, err := e.eval(prelude)
		if err != nil {
			e.Env.TruncateTo(depth)
			return nil, err
		}
		out += v.ToString()
	}

	for _, branch := range node.Children[1:] {
		switch branch.Kind {
		case ast.SelectCase:
			caseVal, err := e.eval(branch.Lhs())
			if err != nil {
				e.Env.TruncateTo(depth)
				return nil, err
			}
			if scrutinee.Equal(caseVal) {
				v, err := e.eval(branch.Body())
				e.Env.TruncateTo(depth)
				if err != nil {
					return nil, err
				}
				return value.String(out + v.ToString()), nil
			}
		case ast.SelectDefault:
			v, err := e.eval(branch.Inner())
			e.Env.TruncateTo(depth)
			if err != nil {
				return nil, err
			}
			return value.String(out + v.ToString()), nil
		default:
			e.Env.TruncateTo(depth)
			return nil, ast.NewError(ast.IdentifierParseFailed, branch.Pos, "invalid node inside Select")
		}
	}
	e.Env.TruncateTo(depth)
	return value.String(out), nil
}

func (e *Evaluator) evalFunctionCall(node *ast.Node) (value.Value, error) {
	name := node.Name().Text.Go()
	fn, ok := e.Builtins[name]
	if !ok {
		return nil, ast.NewError(ast.FunctionCallFailed, node.Pos, "unknown function: "+name)
	}
	args := make([]value.Value, 0, len(node.Args()))
	for _, a := range node.Args() {
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	v, err := fn(e, args)
	if err != nil {
		return nil, err
	}
	return v, nil
}
