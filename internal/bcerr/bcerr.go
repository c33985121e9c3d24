// Package bcerr defines the backend's fatal-abort error taxonomy
// (spec.md §7). The backend treats its input as already type-checked:
// every case here indicates a frontend bug, not a recoverable condition,
// so every constructor here is meant to be panicked with, never
// returned and checked. Grounded on the teacher's internal/errors
// (sentra.SentraError): a typed Kind plus a rendered message.
package bcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a fatal abort, mirroring spec.md §7's taxonomy.
type Kind string

const (
	StructuralMismatch    Kind = "StructuralMismatch"
	UnsupportedExternShape Kind = "UnsupportedExternShape"
	LValueMisuse          Kind = "LValueMisuse"
	OutOfLoopJump         Kind = "OutOfLoopJump"
	BadLiteralType        Kind = "BadLiteralType"
)

// AbortError is the typed payload of a fatal abort panic. Callers should
// not recover from it except at a process boundary for diagnostics —
// per spec.md §7 there is no partial output and no recovery policy.
type AbortError struct {
	Kind    Kind
	Message string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Abort panics with an AbortError wrapped by pkg/errors.WithStack, so a
// recovered value at the orchestrating binary (out of scope per §6)
// carries a stack trace pinpointing which lowering rule aborted.
func Abort(kind Kind, format string, args ...any) {
	err := &AbortError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	panic(errors.WithStack(err))
}

// OneObjectRequired is the structural-mismatch abort for MaybeList.One()
// called on a non-singleton shape (spec.md §7 row 1).
func OneObjectRequired(got int) {
	Abort(StructuralMismatch, "one object required, but got %d", got)
}

// UnknownSymbol is the structural-mismatch abort for a lookup miss in
// the symbol table / scope stack.
func UnknownSymbol(what string) {
	Abort(StructuralMismatch, "unknown symbol: %s", what)
}

// ExternTupleReturn is the fixed-message abort for an extern function
// declared to return a >=2-tuple that isn't exactly (Array, length)
// (spec.md §7 row 2, exact wording required).
func ExternTupleReturn() {
	Abort(UnsupportedExternShape, "Extern function can't return tuple")
}

// NotAnLValue aborts when a term that isn't a variable/index/property
// is used where an l-value is required (spec.md §3 "L-values").
func NotAnLValue(what string) {
	Abort(LValueMisuse, "not an l-value: %s", what)
}

// MultiComponentPropertySet aborts on assignment to a multi-component
// class member, which spec.md §9 Open Questions flags as unimplemented.
func MultiComponentPropertySet() {
	Abort(LValueMisuse, "assignment to a multi-component property is not supported")
}

// BreakOutsideLoop / ContinueOutsideLoop abort when block_label() finds
// no enclosing loop (spec.md §7 row 4).
func BreakOutsideLoop()    { Abort(OutOfLoopJump, "'break' outside of loop") }
func ContinueOutsideLoop() { Abort(OutOfLoopJump, "'continue' outside of loop") }

// NonIntegerLiteralType aborts when a Literal's Kind doesn't match its
// declared Type (spec.md §7 row 5, unreachable under a sound frontend).
func NonIntegerLiteralType() {
	Abort(BadLiteralType, "integer literal has a non-integer declared type")
}
