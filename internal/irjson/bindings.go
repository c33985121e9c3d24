// Package irjson decodes a JSON-encoded ir.Module plus its accompanying
// symbol tables — the wire format cmd/bytecgen reads from a file or
// stdin (SPEC_FULL.md's "Configuration" section). The real frontend and
// symbol interner are external collaborators out of scope for this
// repository (spec.md §6); this package only has to produce a value
// satisfying ir.Bindings, not implement a real one. Grounded on the
// teacher's internal/lsp/server.go: json.RawMessage fields plus a
// string "kind"/"type" discriminator, decoded in two passes.
package irjson

import "bytec/internal/ir"

// Bindings is a read-only ir.Bindings backed by tables loaded verbatim
// from the JSON document's "symbols"/"fns"/"types" sections, plus a
// flat interned-string pool for everything else (variant names, inline
// splices, string literal text).
type Bindings struct {
	strings []string
	index   map[string]ir.RawSym

	symPaths  map[ir.Sym]ir.Path
	symPublic map[ir.Sym]bool
	fnNames   map[ir.FnId]ir.RawSym
	typeNames map[ir.TypeId]ir.RawSym

	nextSym uint64
}

func newBindings() *Bindings {
	return &Bindings{
		index:     make(map[string]ir.RawSym),
		symPaths:  make(map[ir.Sym]ir.Path),
		symPublic: make(map[ir.Sym]bool),
		fnNames:   make(map[ir.FnId]ir.RawSym),
		typeNames: make(map[ir.TypeId]ir.RawSym),
	}
}

func (b *Bindings) Raw(s string) ir.RawSym {
	if r, ok := b.index[s]; ok {
		return r
	}
	b.strings = append(b.strings, s)
	r := ir.RawSym(len(b.strings) - 1)
	b.index[s] = r
	return r
}

func (b *Bindings) ResolveRaw(r ir.RawSym) string { return b.strings[int(r)] }
func (b *Bindings) FnName(id ir.FnId) ir.RawSym   { return b.fnNames[id] }
func (b *Bindings) TypeName(id ir.TypeId) ir.RawSym { return b.typeNames[id] }
func (b *Bindings) SymPath(s ir.Sym) ir.Path      { return b.symPaths[s] }
func (b *Bindings) Public(s ir.Sym) bool          { return b.symPublic[s] }

func (b *Bindings) SymName(s ir.Sym) ir.RawSym {
	p := b.symPaths[s]
	if len(p) == 0 {
		return b.Raw("")
	}
	return b.Raw(p[len(p)-1])
}

// Create is never called by the backend (only a real frontend calls
// it) but must exist to satisfy ir.Bindings; it mints a symbol past the
// highest id reserved by the document's "symbols" table.
func (b *Bindings) Create(path ir.Path, public bool) ir.Sym {
	b.nextSym++
	s := ir.Sym(b.nextSym)
	b.symPaths[s] = path
	b.symPublic[s] = public
	return s
}

func (b *Bindings) loadSym(id uint64, path []string, public bool) {
	s := ir.Sym(id)
	b.symPaths[s] = path
	b.symPublic[s] = public
	if id > b.nextSym {
		b.nextSym = id
	}
}

func (b *Bindings) loadFn(id uint64, name string)   { b.fnNames[ir.FnId(id)] = b.Raw(name) }
func (b *Bindings) loadType(id uint64, name string) { b.typeNames[ir.TypeId(id)] = b.Raw(name) }
