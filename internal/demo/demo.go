// Package demo provides a minimal, in-memory ir.Bindings implementation
// plus a handful of hand-built ir.Module fixtures. The real symbol
// interner is a frontend concern out of scope for this backend (spec.md
// §6, "external collaborators"); this package exists only so
// cmd/bytecgen has something concrete to drive end to end without a
// parser. Grounded on the teacher's internal/compregister, which wires
// a small fixed registry in front of the real compiler the same way.
package demo

import (
	"fmt"

	"bytec/internal/ir"
)

// Interner is a trivial ir.Bindings: a string pool plus three
// monotonic id counters, with no module-qualification logic beyond
// recording whatever Path it was given. Good enough to drive one
// module through Declare-P1/P2/Codegen; it is not meant to resemble a
// production symbol table.
type Interner struct {
	strings []string
	index   map[string]ir.RawSym

	symPaths  map[ir.Sym]ir.Path
	symPublic map[ir.Sym]bool
	fnNames   map[ir.FnId]ir.RawSym
	typeNames map[ir.TypeId]ir.RawSym

	nextSym  uint64
	nextFn   uint64
	nextType uint64
}

func New() *Interner {
	return &Interner{
		index:     make(map[string]ir.RawSym),
		symPaths:  make(map[ir.Sym]ir.Path),
		symPublic: make(map[ir.Sym]bool),
		fnNames:   make(map[ir.FnId]ir.RawSym),
		typeNames: make(map[ir.TypeId]ir.RawSym),
	}
}

func (in *Interner) Raw(s string) ir.RawSym {
	if r, ok := in.index[s]; ok {
		return r
	}
	in.strings = append(in.strings, s)
	r := ir.RawSym(len(in.strings) - 1)
	in.index[s] = r
	return r
}

func (in *Interner) ResolveRaw(r ir.RawSym) string {
	i := int(r)
	if i < 0 || i >= len(in.strings) {
		panic(fmt.Sprintf("demo: unresolved raw symbol %d", r))
	}
	return in.strings[i]
}

func (in *Interner) FnName(id ir.FnId) ir.RawSym     { return in.fnNames[id] }
func (in *Interner) TypeName(id ir.TypeId) ir.RawSym { return in.typeNames[id] }
func (in *Interner) SymPath(s ir.Sym) ir.Path        { return in.symPaths[s] }
func (in *Interner) Public(s ir.Sym) bool            { return in.symPublic[s] }

func (in *Interner) SymName(s ir.Sym) ir.RawSym {
	p := in.symPaths[s]
	if len(p) == 0 {
		return in.Raw("")
	}
	return in.Raw(p[len(p)-1])
}

func (in *Interner) Create(path ir.Path, public bool) ir.Sym {
	in.nextSym++
	s := ir.Sym(in.nextSym)
	in.symPaths[s] = path
	in.symPublic[s] = public
	return s
}

// NewFn and NewClass mint ids and file their display names directly,
// bypassing Create (which is a Sym-only factory per the Bindings
// contract) — the demo fixtures call these instead.
func (in *Interner) NewFn(name string, public bool) ir.FnId {
	in.nextFn++
	id := ir.FnId(in.nextFn)
	in.fnNames[id] = in.Raw(name)
	return id
}

func (in *Interner) NewClass(name string) ir.TypeId {
	in.nextType++
	id := ir.TypeId(in.nextType)
	in.typeNames[id] = in.Raw(name)
	return id
}
