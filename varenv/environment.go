// Package varenv implements the variable environment (C9, spec.md §4.9):
// a non-empty stack of Scopes, each an ordered map from name to
// VariableValue. The stack-of-scopes shape follows barn's eval.Environment
// (parent-linked lexical scoping, innermost-first lookup), generalized
// from a parent-pointer chain to an explicit slice so depth can be
// measured and restored exactly — spec.md §8 invariant 3 requires that
// evaluation leaves env.depth() unchanged across any return, success or
// error, and an explicit stack makes that restoration a simple truncate.
// Each Scope's backing map is internal/ordmap.Tree rather than a Go map,
// per spec.md §4.3's note that the ordered map is "used for variable
// lookup... we want range/iteration for debugging".
package varenv

import (
	"sort"
	"strings"

	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/internal/ordmap"
)

// ValueKind discriminates VariableValue's variants (spec.md §3
// "VariableEnvironment... Expr(&Expression) | Number | String | Bool").
type ValueKind int

const (
	KindExpr ValueKind = iota
	KindNumber
	KindString
	KindBool
)

// VariableValue is a binding's stored payload: either an unevaluated
// expression (used by the eager-VariableDecl policy only as an
// occasional alias target, see DESIGN.md) or one of the three scalar
// kinds.
type VariableValue struct {
	Kind ValueKind
	Expr *ast.Node
	Num  float64
	Str  string
	Bool bool
}

// Scope is one level of the environment stack.
type Scope struct {
	vars *ordmap.Tree[string, VariableValue]
}

func newScope() *Scope {
	return &Scope{vars: ordmap.New[string, VariableValue](4, less)}
}

func less(a, b string) bool { return a < b }

// Environment is the non-empty stack of Scopes (spec.md §4.9).
type Environment struct {
	scopes []*Scope
}

// New creates an Environment with exactly one (global) scope.
func New() *Environment {
	return &Environment{scopes: []*Scope{newScope()}}
}

// Depth reports the current scope-stack height, used to checkpoint
// and restore balance around an evaluation (spec.md §8 invariant 3).
func (e *Environment) Depth() int { return len(e.scopes) }

// AddHierarchy pushes a new, empty innermost scope.
func (e *Environment) AddHierarchy() {
	e.scopes = append(e.scopes, newScope())
}

// RemoveHierarchy pops the innermost scope. Popping the last remaining
// scope is forbidden (spec.md §4.9: "always at least one global scope").
func (e *Environment) RemoveHierarchy() error {
	if len(e.scopes) <= 1 {
		return newError(AddScopeFailed, "cannot remove the global scope")
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
	return nil
}

// TruncateTo restores the scope stack to a previously recorded Depth,
// discarding any scopes pushed since. Used on error paths to guarantee
// the scope-balance invariant regardless of how many AddHierarchy
// calls a partially-evaluated node performed before failing.
func (e *Environment) TruncateTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth > len(e.scopes) {
		return
	}
	e.scopes = e.scopes[:depth]
}

func (e *Environment) innermost() *Scope {
	return e.scopes[len(e.scopes)-1]
}

// RegistExpr, RegistNumber, RegistString, RegistBoolean: insert or
// overwrite name in the innermost scope (spec.md §4.9 "regist{Expr,
// Number,String,Bool}").

func (e *Environment) RegistExpr(name string, expr *ast.Node) {
	e.overwrite(name, VariableValue{Kind: KindExpr, Expr: expr})
}

func (e *Environment) RegistNumber(name string, n float64) {
	e.overwrite(name, VariableValue{Kind: KindNumber, Num: n})
}

func (e *Environment) RegistString(name string, s string) {
	e.overwrite(name, VariableValue{Kind: KindString, Str: s})
}

func (e *Environment) RegistBoolean(name string, b bool) {
	e.overwrite(name, VariableValue{Kind: KindBool, Bool: b})
}

// overwrite inserts name=value in the innermost scope. An existing
// binding there is replaced in place through the pointer Search returns;
// ordmap.Tree.Insert rejects duplicates, so it is used only for new keys.
func (e *Environment) overwrite(name string, v VariableValue) {
	scope := e.innermost()
	if p, ok := scope.vars.Search(name); ok {
		*p = v
		return
	}
	scope.vars.Insert(name, v)
}

// Get scans scopes innermost→outermost; the first hit wins (spec.md
// §4.9 "get(name)").
func (e *Environment) Get(name string) (VariableValue, error) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if p, ok := e.scopes[i].vars.Search(name); ok {
			return *p, nil
		}
	}
	return VariableValue{}, newError(NotFound, "variable not bound: "+name)
}

// Unregist removes name from the innermost scope only; a missing name
// is silently OK (spec.md §4.9 "unregist(name)").
func (e *Environment) Unregist(name string) {
	e.innermost().vars.Remove(name)
}

// Names returns the innermost scope's bound variable names in sorted
// order, for debugging/introspection (spec.md §4.3's stated reason for
// using an ordered map here).
func (e *Environment) Names() []string {
	keys := e.innermost().vars.Keys()
	sort.Strings(keys)
	return keys
}

// Dump renders every scope's bindings, outermost first, for debug
// output (e.g. a CLI --dump-env flag).
func (e *Environment) Dump() string {
	var b strings.Builder
	for i, scope := range e.scopes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString("scope ")
		for _, k := range scope.vars.Keys() {
			b.WriteString(k)
			b.WriteString(" ")
		}
	}
	return b.String()
}
