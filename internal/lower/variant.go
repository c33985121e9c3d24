package lower

import (
	"bytec/internal/bcerr"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

// lowerVariant implements spec.md §4.3 "Constructor / Variant" and
// Scenario B: if the enum has a wrapper, constructing a variant spills
// a fresh `wrapper$_variant` local, sets `$type` to the bare enum
// constant, then sets each payload component
// `_enum$<VariantName>$<i>`, and returns a reference to the wrapper.
// Without a wrapper, payload arity must be zero and the term is the
// bare enum constant.
func lowerVariant(x ir.TermVariant, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	enumClass := s.MustClass(x.Enum)
	w, ok := s.Wrapper(enumClass)
	if !ok || w == nil {
		if len(x.Args) != 0 {
			bcerr.Abort(bcerr.StructuralMismatch, "variant constructed with payload args but its enum has no wrapper class")
		}
		return target.One(target.JTVariant{Class: enumClass, Variant: uint64(x.Variant)})
	}

	var args []target.JTerm
	for _, a := range x.Args {
		args = append(args, Term(a, s, bnd).Slice()...)
	}

	v := s.FreshVar(false)
	wty := target.Class(w.Class)
	s.SetVarType(v, wty)
	s.Emit(target.JSLet{
		Name: uint64(bnd.Raw("wrapper$_variant")),
		Ty:   wty,
		Var:  v,
		Init: target.JTNew{Class: w.Class, Typ: wty},
	})
	objRef := target.JTVar{Var: v, Typ: wty}

	s.Emit(target.JSSet{
		LV:  target.JTProp{Object: objRef, RawProp: "$type", Typ: target.Class(w.Enum)},
		RHS: target.JTVariant{Class: w.Enum, Variant: uint64(x.Variant)},
	})

	for i, a := range args {
		raw := fieldRaw(bnd, x.Variant, i)
		s.Emit(target.JSSet{
			LV:  target.JTProp{Object: objRef, RawProp: raw, Typ: a.Ty()},
			RHS: a,
		})
	}
	return target.One(objRef)
}
