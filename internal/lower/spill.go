package lower

import (
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

// isSimple reports whether t can be duplicated freely without
// recomputing a side effect or cost: variable, literal, enum constant,
// null, or this (spec.md glossary "Simple term").
func isSimple(t target.JTerm) bool {
	switch t.(type) {
	case target.JTVar, target.JTLit, target.JTVariant, target.JTNull, target.JTThis:
		return true
	default:
		return false
	}
}

// spillOne binds t to a fresh local if it isn't simple, returning a
// reference to the local; otherwise returns t unchanged. Used wherever
// a term would otherwise need to be duplicated (member receivers,
// non-simple indices).
func spillOne(s *symtab.Scope, bnd ir.Bindings, t target.JTerm) target.JTerm {
	if isSimple(t) {
		return t
	}
	ty := t.Ty()
	v := s.FreshVar(false)
	s.SetVarType(v, ty)
	s.Emit(target.JSLet{Name: uint64(bnd.Raw("$spill")), Ty: ty, Var: v, Init: t})
	return target.JTVar{Var: v, Typ: ty}
}

// spillComponents binds every component of a multi-component value
// (e.g. the (array, length) pair) to a fresh local, unconditionally —
// used when the old value must survive a reassignment of the same
// variable (push's capacity-growth spill, spec.md Scenario C).
func spillComponents(s *symtab.Scope, bnd ir.Bindings, ts []target.JTerm) []target.JVar {
	out := make([]target.JVar, len(ts))
	for i, t := range ts {
		ty := t.Ty()
		v := s.FreshVar(false)
		s.SetVarType(v, ty)
		s.Emit(target.JSLet{Name: uint64(bnd.Raw("$old")), Ty: ty, Var: v, Init: t})
		out[i] = v
	}
	return out
}

func varsToTerms(vars []target.JVar, s *symtab.Scope) []target.JTerm {
	out := make([]target.JTerm, len(vars))
	for i, v := range vars {
		out[i] = target.JTVar{Var: v, Typ: s.VarType(v)}
	}
	return out
}
