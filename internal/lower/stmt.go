package lower

import (
	"fmt"

	"bytec/internal/bcerr"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
	"bytec/internal/typelower"
)

// Statement lowers one IR statement, pushing zero or more JStmt onto the
// current block (spec.md §4.3's Statement impl in backend.rs, extended
// for assignment and for-in per SPEC_FULL.md).
func Statement(st ir.Statement, s *symtab.Scope, bnd ir.Bindings) {
	switch x := st.(type) {
	case ir.StmtTerm:
		for _, t := range Term(x.X, s, bnd).Slice() {
			s.Emit(target.JSExpr{X: t})
		}

	case ir.StmtLet:
		vals := Term(x.Init, s, bnd).Slice()
		tys := typelower.Lower(x.Ty, s).Slice()
		vars := make([]target.JVar, len(tys))
		for i, ty := range tys {
			v := s.FreshVar(bnd.Public(x.Name))
			s.SetVarType(v, ty)
			var init target.JTerm
			if i < len(vals) {
				init = vals[i]
			}
			s.Emit(target.JSLet{Name: uint64(bnd.SymName(x.Name)), Ty: ty, Var: v, Init: init})
			vars[i] = v
		}
		s.BindVar(x.Name, target.List(vars))

	case ir.StmtAssign:
		lowerAssign(x, s, bnd)

	case ir.StmtWhile:
		cond := Term(x.Cond, s, bnd).One()
		k := s.FreshBlock()
		s.PushLoop(k)
		for _, inner := range x.Body {
			Statement(inner, s, bnd)
		}
		body := s.PopBlock()
		s.Emit(target.JSWhile{Label: k, Cond: cond, Body: body})

	case ir.StmtForIn:
		lowerForIn(x, s, bnd)

	case ir.StmtInline:
		s.Emit(target.JSInline{Raw: uint64(x.Raw)})

	default:
		panic(fmt.Sprintf("lower: unhandled statement %T", st))
	}
}

// lowerAssign implements spec.md §4.3 "Set(lvalue, op, rhs)": for
// variable and indexed l-values, emit one Set per component, spilling a
// non-simple index once; property l-values currently support only
// single-component members (spec.md §9 Open Questions).
func lowerAssign(x ir.StmtAssign, s *symtab.Scope, bnd ir.Bindings) {
	rhs := Term(x.RHS, s, bnd).Slice()

	switch lv := x.LValue.(type) {
	case ir.TermVar:
		vars := s.MustVar(lv.Sym).Slice()
		for i, v := range vars {
			emitSet(s, target.JTVar{Var: v, Typ: s.VarType(v)}, x.CompoundOp, rhs[i])
		}

	case ir.TermIndex:
		parts := Term(lv.Array, s, bnd).Slice()
		n := len(parts) - 1
		dataParts := parts[:n]
		idx := Term(lv.Index, s, bnd).One()
		if n > 1 && !isSimple(idx) {
			idx = spillOne(s, bnd, idx)
		}
		for i, a := range dataParts {
			elemTy := *a.Ty().Elem
			emitSet(s, target.JTIndex{Array: a, Index: idx, Typ: elemTy}, x.CompoundOp, rhs[i])
		}

	case ir.TermMember:
		obj := Term(lv.Object, s, bnd).One()
		vars := s.MustVar(lv.Field).Slice()
		if len(vars) != 1 {
			bcerr.MultiComponentPropertySet()
		}
		emitSet(s, target.JTProp{Object: obj, Prop: vars[0], Typ: s.VarType(vars[0])}, x.CompoundOp, rhs[0])

	default:
		bcerr.NotAnLValue(fmt.Sprintf("%T", x.LValue))
	}
}

func emitSet(s *symtab.Scope, lv target.LValue, op *ir.BinOp, rhs target.JTerm) {
	var compound *target.BinOpLike
	if op != nil {
		o := binOp(*op)
		compound = &o
	}
	s.Emit(target.JSSet{LV: lv, CompoundOp: compound, RHS: rhs})
}

// lowerForIn iterates a dynamic array's elements, binding per-iteration
// locals by indexing each component array at the loop variable (spec.md
// §8 property 10, §4.6 RangeFor).
func lowerForIn(x ir.StmtForIn, s *symtab.Scope, bnd ir.Bindings) {
	parts := Term(x.Array, s, bnd).Slice()
	n := len(parts) - 1
	dataParts := parts[:n]
	lengthTerm := parts[n]

	idxVar := s.FreshVar(false)
	s.SetVarType(idxVar, target.I32)
	idxRef := target.JTVar{Var: idxVar, Typ: target.I32}

	k := s.FreshBlock()
	s.PushLoop(k)

	elemVars := make([]target.JVar, n)
	for i, d := range dataParts {
		elemTy := *d.Ty().Elem
		v := s.FreshVar(false)
		s.SetVarType(v, elemTy)
		s.Emit(target.JSLet{
			Name: uint64(bnd.SymName(x.Name)),
			Ty:   elemTy,
			Var:  v,
			Init: target.JTIndex{Array: d, Index: idxRef, Typ: elemTy},
		})
		elemVars[i] = v
	}
	s.BindVar(x.Name, target.List(elemVars))

	for _, inner := range x.Body {
		Statement(inner, s, bnd)
	}
	body := s.PopBlock()

	s.Emit(target.JSRangeFor{
		Label: k,
		Name:  uint64(bnd.Raw("$i")),
		Var:   idxVar,
		Start: intLit(0),
		End:   lengthTerm,
		Body:  body,
	})
}
