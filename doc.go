// Package loom implements the Parse Answer / driver API (C10, spec.md
// §4.10): the top-level entry points `Execute` (expression mode) and
// `Translate` (template mode), each returning a ParseAnswer whose Get
// method evaluates the parsed AST against a caller-supplied
// varenv.Environment. Configuration (escape policy, host clock, extra
// builtins) is a functional-options set on Execute/Translate, the same
// shape the teacher uses for its NewEvaluatorWithEnv/NewEvaluatorWithStore
// constructor variants.
package loom
