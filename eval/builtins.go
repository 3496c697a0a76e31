package eval

import (
	"time"

	"github.com/loomtext/loom/ast"
	"github.com/loomtext/loom/value"
)

// Clock is the host-provided time source for the now() builtin
// (spec.md §9 "now() built-in: depends on system clock. Make this a
// host-provided clock function to keep evaluation deterministic under
// test").
type Clock func() time.Time

// DefaultBuiltins returns the standard builtin registry. now() returns
// an ISO-8601 UTC timestamp with millisecond precision (spec.md §4.7),
// computed from clock(); pass nil to use time.Now().UTC().
func DefaultBuiltins(clock Clock) map[string]BuiltinFunc {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return map[string]BuiltinFunc{
		"now": func(e *Evaluator, args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return nil, ast.NewError(ast.FunctionCallFailed, 0, "now() takes no arguments")
			}
			t := clock().UTC()
			return value.String(t.Format("2006-01-02T15:04:05.000Z")), nil
		},
	}
}
