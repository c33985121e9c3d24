// Package symtab implements the lowering-time context object: the fresh
// id allocator, scope stack, and current statement buffer that
// internal/lower threads through every recursive call (spec.md §4.1).
// Grounded on backend.rs's Cxt and the teacher's two-pass scoping style
// in internal/compiler/hoisting_compiler.go.
package symtab

import (
	"bytec/internal/bcerr"
	"bytec/internal/ir"
	"bytec/internal/target"
)

type varEntry struct {
	sym  ir.Sym
	vars target.JVars
}

type fnEntry struct {
	src ir.FnId
	id  target.JFnId
}

type typeEntry struct {
	src   ir.TypeId
	class target.JClass
}

type blockFrame struct {
	label    *target.JBlock
	start    int
}

// Scope is the per-codegen-run context. It is not safe for concurrent
// use — spec.md §5 requires the backend be strictly single-threaded and
// non-reentrant per run.
type Scope struct {
	vars  []varEntry
	fns   []fnEntry
	types []typeEntry

	tys      map[target.JVar]target.JTy
	fnRetTys map[target.JFnId]target.JTys
	wrappers map[target.JClass]*target.JWrapper

	scopeStack [][3]int
	block      []target.JStmt
	blockStack []blockFrame

	currentFn target.JFnId
	items     []target.JItem
	next      uint64

	arrayCopyFn target.JFnId
}

func New() *Scope {
	return &Scope{
		tys:      make(map[target.JVar]target.JTy),
		fnRetTys: make(map[target.JFnId]target.JTys),
		wrappers: make(map[target.JClass]*target.JWrapper),
	}
}

// --- fresh id allocation ---

func (s *Scope) FreshVar(public bool) target.JVar {
	s.next++
	return target.JVar{Id: s.next, Public: public}
}

func (s *Scope) FreshFn() target.JFnId {
	s.next++
	return target.JFnId{Id: s.next}
}

func (s *Scope) FreshClass() target.JClass {
	s.next++
	return target.JClass{Id: s.next}
}

func (s *Scope) FreshBlock() target.JBlock {
	s.next++
	return target.JBlock{Id: s.next}
}

// --- scope stack ---

// Push saves the current lengths of the three scoping lists.
func (s *Scope) Push() {
	s.scopeStack = append(s.scopeStack, [3]int{len(s.vars), len(s.fns), len(s.types)})
}

// Pop truncates the three scoping lists back to their saved lengths,
// discarding inner-scope bindings. Ids remain valid name-table keys —
// only the lookup lists shrink.
func (s *Scope) Pop() {
	n := len(s.scopeStack)
	saved := s.scopeStack[n-1]
	s.scopeStack = s.scopeStack[:n-1]
	s.vars = s.vars[:saved[0]]
	s.fns = s.fns[:saved[1]]
	s.types = s.types[:saved[2]]
}

// PushBlock saves a scope plus the current statement-buffer length,
// with no loop label.
func (s *Scope) PushBlock() {
	s.Push()
	s.blockStack = append(s.blockStack, blockFrame{label: nil, start: len(s.block)})
}

// PushLoop is PushBlock tagged with a label for break/continue
// targeting.
func (s *Scope) PushLoop(label target.JBlock) {
	s.Push()
	l := label
	s.blockStack = append(s.blockStack, blockFrame{label: &l, start: len(s.block)})
}

// PopBlock pops the scope and returns the statements accumulated since
// the matching PushBlock/PushLoop, splitting them off the tail of the
// shared buffer.
func (s *Scope) PopBlock() []target.JStmt {
	s.Pop()
	n := len(s.blockStack)
	frame := s.blockStack[n-1]
	s.blockStack = s.blockStack[:n-1]
	tail := s.block[frame.start:]
	out := make([]target.JStmt, len(tail))
	copy(out, tail)
	s.block = s.block[:frame.start]
	return out
}

func (s *Scope) innermostLoop() (target.JBlock, bool) {
	for i := len(s.blockStack) - 1; i >= 0; i-- {
		if s.blockStack[i].label != nil {
			return *s.blockStack[i].label, true
		}
	}
	return target.JBlock{}, false
}

// BreakLabel returns the innermost enclosing loop label for a `break`,
// aborting with the exact "'break' outside of loop" message if there is
// none (spec.md §7 row 4).
func (s *Scope) BreakLabel() target.JBlock {
	if l, ok := s.innermostLoop(); ok {
		return l
	}
	bcerr.BreakOutsideLoop()
	panic("unreachable")
}

// ContinueLabel is BreakLabel's counterpart for `continue`, aborting
// with the distinct "'continue' outside of loop" message (spec.md §7
// row 4).
func (s *Scope) ContinueLabel() target.JBlock {
	if l, ok := s.innermostLoop(); ok {
		return l
	}
	bcerr.ContinueOutsideLoop()
	panic("unreachable")
}

// --- current statement buffer ---

func (s *Scope) Emit(stmt target.JStmt) {
	s.block = append(s.block, stmt)
}

// SwapBlock replaces the current buffer, returning the old one — used
// when entering a function body (spec.md §4.4).
func (s *Scope) SwapBlock(next []target.JStmt) []target.JStmt {
	old := s.block
	s.block = next
	return old
}

// --- bindings ---

func (s *Scope) BindVar(sym ir.Sym, vars target.JVars) {
	s.vars = append(s.vars, varEntry{sym: sym, vars: vars})
}

func (s *Scope) BindFn(src ir.FnId, id target.JFnId) {
	s.fns = append(s.fns, fnEntry{src: src, id: id})
}

func (s *Scope) BindClass(src ir.TypeId, class target.JClass) {
	s.types = append(s.types, typeEntry{src: src, class: class})
}

// LookupVar walks the list in reverse to honor shadowing.
func (s *Scope) LookupVar(sym ir.Sym) (target.JVars, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if s.vars[i].sym == sym {
			return s.vars[i].vars, true
		}
	}
	return target.JVars{}, false
}

func (s *Scope) LookupFn(fn ir.FnId) (target.JFnId, bool) {
	for i := len(s.fns) - 1; i >= 0; i-- {
		if s.fns[i].src == fn {
			return s.fns[i].id, true
		}
	}
	return target.JFnId{}, false
}

func (s *Scope) LookupClass(ty ir.TypeId) (target.JClass, bool) {
	for i := len(s.types) - 1; i >= 0; i-- {
		if s.types[i].src == ty {
			return s.types[i].class, true
		}
	}
	return target.JClass{}, false
}

// MustVar/MustFn/MustClass abort with StructuralMismatch on a lookup
// miss (spec.md §7 row 1: "unknown symbol lookup").
func (s *Scope) MustVar(sym ir.Sym) target.JVars {
	v, ok := s.LookupVar(sym)
	if !ok {
		bcerr.UnknownSymbol("variable")
	}
	return v
}

func (s *Scope) MustFn(fn ir.FnId) target.JFnId {
	v, ok := s.LookupFn(fn)
	if !ok {
		bcerr.UnknownSymbol("function")
	}
	return v
}

func (s *Scope) MustClass(ty ir.TypeId) target.JClass {
	v, ok := s.LookupClass(ty)
	if !ok {
		bcerr.UnknownSymbol("class")
	}
	return v
}

// --- var type table ---

func (s *Scope) SetVarType(v target.JVar, ty target.JTy) { s.tys[v] = ty }

func (s *Scope) VarType(v target.JVar) target.JTy {
	ty, ok := s.tys[v]
	if !ok {
		bcerr.UnknownSymbol("variable type")
	}
	return ty
}

// --- function return-shape table ---

func (s *Scope) SetFnRetTys(fn target.JFnId, tys target.JTys) { s.fnRetTys[fn] = tys }

func (s *Scope) FnRetTys(fn target.JFnId) target.JTys {
	tys, ok := s.fnRetTys[fn]
	if !ok {
		bcerr.UnknownSymbol("function return type")
	}
	return tys
}

// --- enum wrapper map ---

// RegisterWrapper files w under the enum's class and under the wrapper's
// own class, so Wrapper resolves from either: values of a wrapped enum
// are typed as the wrapper class once lowered (internal/typelower).
func (s *Scope) RegisterWrapper(enum target.JClass, w *target.JWrapper) {
	s.wrappers[enum] = w
	if w != nil {
		s.wrappers[w.Class] = w
	}
}

func (s *Scope) Wrapper(enum target.JClass) (*target.JWrapper, bool) {
	w, ok := s.wrappers[enum]
	return w, ok
}

// --- current function / completed items ---

func (s *Scope) CurrentFn() target.JFnId     { return s.currentFn }
func (s *Scope) SetCurrentFn(fn target.JFnId) { s.currentFn = fn }

func (s *Scope) PushItem(it target.JItem) { s.items = append(s.items, it) }
func (s *Scope) Items() []target.JItem    { return s.items }

// --- predefined intrinsics (spec.md §6) ---

// SetArrayCopyFn registers the one predefined intrinsic entry, keyed by
// tag ArrayCopy and resolved to `System.arraycopy` (spec.md §6),
// allocated during Declare-P2 like any extern function.
func (s *Scope) SetArrayCopyFn(id target.JFnId) { s.arrayCopyFn = id }
func (s *Scope) ArrayCopyFn() target.JFnId      { return s.arrayCopyFn }
