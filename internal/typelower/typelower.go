// Package typelower implements spec.md §4.2: mapping an IR type to a
// target-type shape (possibly more than one target type, for tuples and
// arrays).
package typelower

import (
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

// Lower maps ty to its target shape per spec.md §4.2:
//   - scalars map 1:1
//   - Unit maps to the empty tuple
//   - Class(c): the registered wrapper class if c has one, else c itself
//   - Tuple(ts): each component lowered and concatenated (flattening
//     nested tuples)
//   - Array(t): for each component type u of t's lowering, an
//     Array(u); plus a trailing I32 length slot.
func Lower(ty ir.Type, s *symtab.Scope) target.JTys {
	switch ty.Kind {
	case ir.TyI32:
		return target.One(target.I32)
	case ir.TyI64:
		return target.One(target.I64)
	case ir.TyBool:
		return target.One(target.Bool)
	case ir.TyStr:
		return target.One(target.String)
	case ir.TyUnit:
		return target.Empty[target.JTy]()
	case ir.TyClass:
		class := s.MustClass(ty.Class)
		if w, ok := s.Wrapper(class); ok && w != nil {
			return target.One(target.Class(w.Class))
		}
		return target.One(target.Class(class))
	case ir.TyTuple:
		var out []target.JTy
		for _, t := range ty.Tuple {
			out = append(out, Lower(t, s).Slice()...)
		}
		return target.List(out)
	case ir.TyArray:
		comps := Lower(*ty.Elem, s).Slice()
		out := make([]target.JTy, 0, len(comps)+1)
		for _, u := range comps {
			out = append(out, target.Array(u))
		}
		out = append(out, target.I32)
		return target.List(out)
	}
	panic("typelower: unreachable type kind")
}

// LowerOne lowers ty and extracts its single component, aborting (via
// MaybeList.One's panic path) if it isn't shaped as exactly one.
func LowerOne(ty ir.Type, s *symtab.Scope) target.JTy {
	return Lower(ty, s).One()
}
