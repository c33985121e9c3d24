// This file implements spec.md §3 "Dynamic arrays", §4.3 "Array literal"
// / "Array index" / "Array methods", and §9 "Dynamic arrays in a
// fixed-array target" — the dynamic-array runtime shape component.
package lower

import (
	"bytec/internal/bcerr"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
	"bytec/internal/typelower"
)

func intLit(n int32) target.JTerm {
	return target.JTLit{Lit: target.JLit{Kind: target.LInt, Int: n}}
}

func addI32() target.BinOpLike { return target.BAdd }
func subI32() target.BinOpLike { return target.BSub }

// lowerArrayLit handles both the empty-literal and populated-literal
// forms (spec.md §4.3).
func lowerArrayLit(x ir.TermArrayLit, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	elemTys := typelower.Lower(x.ElemTy, s).Slice()

	if len(x.Elems) == 0 {
		out := make([]target.JTerm, len(elemTys)+1)
		for i, et := range elemTys {
			out[i] = target.JTArrayLit{ElemT: et, Len: 0}
		}
		out[len(elemTys)] = intLit(0)
		return target.List(out)
	}

	rows := make([][]target.JTerm, len(x.Elems))
	for i, e := range x.Elems {
		rows[i] = Term(e, s, bnd).Slice()
	}
	n := len(elemTys)
	cols := make([][]target.JTerm, n)
	for c := 0; c < n; c++ {
		for r := range rows {
			cols[c] = append(cols[c], rows[r][c])
		}
	}
	out := make([]target.JTerm, n+1)
	for c := 0; c < n; c++ {
		out[c] = target.JTArrayLit{Elems: cols[c], ElemT: elemTys[c]}
	}
	out[n] = intLit(int32(len(x.Elems)))
	return target.List(out)
}

// lowerIndex emits parallel Index terms for the data components only —
// the length slot is never indexed (spec.md §4.3 "Array index").
func lowerIndex(x ir.TermIndex, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	parts := Term(x.Array, s, bnd).Slice()
	n := len(parts) - 1
	dataParts := parts[:n]

	idx := Term(x.Index, s, bnd).One()
	if n > 1 && !isSimple(idx) {
		idx = spillOne(s, bnd, idx)
	}

	out := make([]target.JTerm, n)
	for i, a := range dataParts {
		out[i] = target.JTIndex{Array: a, Index: idx, Typ: *a.Ty().Elem}
	}
	return target.List(out)
}

// lowerArrayOp handles len/clear/pop/push on an l-value-bearing array
// (spec.md §4.3 "Array methods").
func lowerArrayOp(x ir.TermArrayOp, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	parts := Term(x.Array, s, bnd).Slice()
	n := len(parts) - 1
	dataParts := parts[:n]
	lenTerm := parts[n]

	lenLV, ok := target.AsLValue(lenTerm)
	if !ok {
		bcerr.NotAnLValue("array length")
	}

	switch x.Kind {
	case ir.ArrayLen:
		return target.One(lenTerm)

	case ir.ArrayClear:
		s.Emit(target.JSSet{LV: lenLV, RHS: intLit(0)})
		return target.Empty[target.JTerm]()

	case ir.ArrayPop:
		op := subI32()
		s.Emit(target.JSSet{LV: lenLV, CompoundOp: &op, RHS: intLit(1)})
		out := make([]target.JTerm, n)
		for i, d := range dataParts {
			out[i] = target.JTIndex{Array: d, Index: lenTerm, Typ: *d.Ty().Elem}
		}
		return target.List(out)

	case ir.ArrayPush:
		argParts := Term(x.Arg, s, bnd).Slice()

		op := addI32()
		s.Emit(target.JSSet{LV: lenLV, CompoundOp: &op, RHS: intLit(1)})

		capProp := target.JTProp{Object: dataParts[0], RawProp: "length", Typ: target.I32}
		cond := target.JTBinOp{Op: target.BGt, L: lenTerm, R: capProp}

		s.PushBlock()
		// The old backing arrays must survive the reassignment below, so
		// spill every component unconditionally before overwriting any of
		// them.
		oldVars := spillComponents(s, bnd, dataParts)
		oldRefs := varsToTerms(oldVars, s)

		newIdxes := make([]target.LValue, n)
		for i, d := range dataParts {
			dLV, ok := target.AsLValue(d)
			if !ok {
				bcerr.NotAnLValue("array backing field")
			}
			oldTy := d.Ty()
			oldRef := oldRefs[i]
			oldCap := target.JTProp{Object: oldRef, RawProp: "length", Typ: target.I32}

			newCap := target.JTBinOp{Op: target.BMul, L: oldCap, R: intLit(2)}
			s.Emit(target.JSSet{LV: dLV, RHS: target.JTArrayLit{ElemT: *oldTy.Elem, Len: -1, DynLen: &newCap}})

			s.Emit(target.JSExpr{X: target.JTCall{
				Fn:    s.ArrayCopyFn(),
				Args:  []target.JTerm{oldRef, intLit(0), d, intLit(0), oldCap},
				RetTy: target.Unit,
			}})
			newIdxes[i] = dLV
		}
		growBlock := s.PopBlock()

		s.Emit(target.JSIf{Cond: cond, Then: growBlock, Else: nil})

		// The write happens unconditionally, whether or not this push
		// triggered growth — a non-growing push must still land its
		// element (backend.rs writes arr[arr_len-1]=x after the grow
		// `if`, not inside it).
		newLenMinus1 := target.JTBinOp{Op: target.BSub, L: lenTerm, R: intLit(1)}
		for i := range dataParts {
			idxLV := target.JTIndex{Array: newIdxes[i].AsJTerm(), Index: newLenMinus1, Typ: *dataParts[i].Ty().Elem}
			s.Emit(target.JSSet{LV: idxLV, RHS: argParts[i]})
		}
		return target.Empty[target.JTerm]()
	}
	panic("lower: unknown array op kind")
}
