package loom

import "time"

// Clock is the host-provided time source backing the now() builtin
// (spec.md §9). The zero value is not usable directly; Execute/Translate
// default it to time.Now().UTC() unless overridden with WithClock.
type Clock = func() time.Time
