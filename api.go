package loom

import (
	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/eval"
	"github.com/loomtext/loom/lexer"
	"github.com/loomtext/loom/parser"
	"github.com/loomtext/loom/value"
	"github.com/loomtext/loom/varenv"
)

// BuiltinFunc is a function-call target registered against the name
// resolved by a FunctionCall node (spec.md §4.7). Re-exported from eval
// so callers configuring a ParseAnswer never need to import eval
// directly.
type BuiltinFunc = eval.BuiltinFunc

// Option configures a ParseAnswer at construction time (Execute/Translate).
type Option func(*config)

type config struct {
	escape   func(string) string
	clock    Clock
	builtins map[string]BuiltinFunc
}

// WithEscapePolicy overrides the policy applied to #{...} (Unfold)
// output. !{...} (NoEscapeUnfold) is never filtered, by design.
func WithEscapePolicy(policy func(string) string) Option {
	return func(c *config) { c.escape = policy }
}

// WithClock overrides the host clock backing the now() builtin.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithBuiltin registers (or overrides) a single builtin function by
// name, in addition to the default registry (currently just now()).
func WithBuiltin(name string, fn BuiltinFunc) Option {
	return func(c *config) {
		if c.builtins == nil {
			c.builtins = map[string]BuiltinFunc{}
		}
		c.builtins[name] = fn
	}
}

func newConfig(opts []Option) *config {
	c := &config{escape: IdentityEscape}
	for _, opt := range opts {
		opt(c)
	}
	builtins := eval.DefaultBuiltins(eval.Clock(c.clock))
	for name, fn := range c.builtins {
		builtins[name] = fn
	}
	c.builtins = builtins
	return c
}

// ParseAnswer is the result of parsing a source string in either
// expression or template mode (spec.md §4.10). It owns the resulting
// AST and the evaluation configuration fixed at Execute/Translate
// time. The AST's literal text is deduplicated through
// internal/pool.Interner at parse time, but the nodes themselves are
// plain Go heap values collected by the garbage collector, not a
// pooled arena (see DESIGN.md). Get may be called repeatedly against
// different environments; each call is an independent evaluation of
// the same parsed AST.
type ParseAnswer struct {
	root     *ast.Node
	escape   func(string) string
	builtins map[string]BuiltinFunc
}

// Execute parses source as a single expression (spec.md §4.5) and
// returns a ParseAnswer that evaluates it on Get.
func Execute(source string, opts ...Option) (*ParseAnswer, error) {
	words, err := lexer.SplitWords(source)
	if err != nil {
		return nil, err
	}
	root, err := parser.NewExprParser(words).ParseExpression()
	if err != nil {
		return nil, err
	}
	return newAnswer(root, opts), nil
}

// Translate parses source as a template (spec.md §4.6) and returns a
// ParseAnswer that evaluates it on Get.
func Translate(source string, opts ...Option) (*ParseAnswer, error) {
	root, err := parser.ParseTemplate(source)
	if err != nil {
		return nil, err
	}
	return newAnswer(root, opts), nil
}

func newAnswer(root *ast.Node, opts []Option) *ParseAnswer {
	c := newConfig(opts)
	return &ParseAnswer{root: root, escape: c.escape, builtins: c.builtins}
}

// Get evaluates the parsed AST against env, which is borrowed mutably
// for the duration of the call: evaluation may push and pop scopes, but
// the scope stack is always restored to its entry depth before Get
// returns, on both success and error (spec.md §8 invariant 3). Get may
// be called repeatedly; each call is independent.
func (a *ParseAnswer) Get(env *varenv.Environment) (value.Value, error) {
	ev := eval.New(env, eval.EscapeFunc(a.escape), a.builtins)
	return ev.Eval(a.root)
}
