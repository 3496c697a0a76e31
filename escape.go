package loom

import "html"

// An escape policy (a func(string) string passed to WithEscapePolicy)
// filters the stringified result of an Unfold (`#{...}`)
// expression before it is spliced into the template's output (spec.md §9
// "String escape of unfolded output"). The zero policy (IdentityEscape)
// passes text through unchanged.

// IdentityEscape is the default escape policy: output is inserted
// unchanged, matching spec.md's documented default.
func IdentityEscape(s string) string { return s }

// HTMLEscape wraps html.EscapeString, for callers producing HTML
// documents from template output who want `#{...}` unfolds escaped
// against injection (`!{...}` bypasses any policy by design, per
// spec.md §6).
func HTMLEscape(s string) string { return html.EscapeString(s) }
