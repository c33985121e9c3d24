package lower

import (
	"fmt"

	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

// resultVar is one "_then$i" result local: its var, display raw name and
// type. freshResultVars allocates one per component type and registers
// each type — shared by If and Match, which both implement the
// if/match-as-value protocol (spec.md §4.3, Scenario D).
type resultVar struct {
	v   target.JVar
	raw uint64
	ty  target.JTy
}

func freshResultVars(tys []target.JTy, s *symtab.Scope, bnd ir.Bindings) []resultVar {
	out := make([]resultVar, len(tys))
	for i, ty := range tys {
		v := s.FreshVar(false)
		s.SetVarType(v, ty)
		out[i] = resultVar{v: v, raw: uint64(bnd.Raw(fmt.Sprintf("_then$%d", i))), ty: ty}
	}
	return out
}

func assignBranch(vars []resultVar, vals []target.JTerm, s *symtab.Scope) {
	for i, rv := range vars {
		s.Emit(target.JSSet{LV: target.JTVar{Var: rv.v, Typ: rv.ty}, RHS: vals[i]})
	}
}

// lowerIf implements the if-as-value protocol (spec.md §4.3 "If-as-value",
// Scenario D): lower cond; in a pushed block lower the then branch and
// set each result var; do the same for else (empty if absent); declare
// the result vars uninitialized; emit If; return Var refs.
func lowerIf(x ir.TermIf, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	cond := Term(x.Cond, s, bnd).One()

	s.PushBlock()
	thenVal := Term(x.Then, s, bnd)
	tys := target.TermsTy(thenVal).Slice()
	vars := freshResultVars(tys, s, bnd)
	assignBranch(vars, thenVal.Slice(), s)
	thenStmts := s.PopBlock()

	var elseStmts []target.JStmt
	if x.Else != nil {
		s.PushBlock()
		elseVal := Term(x.Else, s, bnd)
		assignBranch(vars, elseVal.Slice(), s)
		elseStmts = s.PopBlock()
	}

	ret := make([]target.JTerm, len(vars))
	for i, rv := range vars {
		s.Emit(target.JSLet{Name: rv.raw, Ty: rv.ty, Var: rv.v})
		ret[i] = target.JTVar{Var: rv.v, Typ: rv.ty}
	}
	s.Emit(target.JSIf{Cond: cond, Then: thenStmts, Else: elseStmts})
	return target.List(ret)
}

// lowerMatch implements spec.md §4.3 "Match" and §8 property 9: if the
// scrutinee's enum has a wrapper, the switch discriminates on its
// `$type` field (spilling the scrutinee first if it isn't simple) and
// each arm binds its payload fields before lowering the body with the
// if-as-value protocol; without a wrapper, the scrutinee is the switch
// value itself.
func lowerMatch(x ir.TermMatch, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	scrutinee := Term(x.Scrutinee, s, bnd).One()

	var wrapper *target.JWrapper
	if cls, ok := classOf(scrutinee.Ty()); ok {
		if w, ok := s.Wrapper(cls); ok {
			wrapper = w
		}
	}

	var switchTarget target.JTerm
	if wrapper != nil {
		scrutinee = spillOne(s, bnd, scrutinee)
		switchTarget = target.JTProp{Object: scrutinee, RawProp: "$type", Typ: target.Class(wrapper.Enum)}
	} else {
		switchTarget = scrutinee
	}

	var branches []target.SwitchBranch
	var defaultBody []target.JStmt
	var vars []resultVar
	haveVars := false

	for _, arm := range x.Arms {
		s.PushBlock()
		if wrapper != nil && arm.Variant != nil {
			bindPayload(s, bnd, scrutinee, wrapper, *arm.Variant, arm.Binds)
		}
		val := Term(arm.Body, s, bnd)
		if !haveVars {
			tys := target.TermsTy(val).Slice()
			vars = freshResultVars(tys, s, bnd)
			haveVars = true
		}
		assignBranch(vars, val.Slice(), s)
		block := s.PopBlock()

		if arm.Variant != nil {
			branches = append(branches, target.SwitchBranch{Variant: uint64(*arm.Variant), Body: block})
		} else {
			defaultBody = block
		}
	}

	ret := make([]target.JTerm, len(vars))
	for i, rv := range vars {
		s.Emit(target.JSLet{Name: rv.raw, Ty: rv.ty, Var: rv.v})
		ret[i] = target.JTVar{Var: rv.v, Typ: rv.ty}
	}
	label := s.FreshBlock()
	s.Emit(target.JSSwitch{Label: label, Scrutinee: switchTarget, Branches: branches, Default: defaultBody})
	return target.List(ret)
}

// bindPayload binds each captured payload symbol to the wrapper's
// `_enum$<variant>$<i>` property, per spec.md Scenario B. Per spec.md
// §9 Open Questions, the wrapper's payload fields are never cleared
// between variants — reading one under the "wrong" tag is undefined,
// and this lowering does not attempt to guard against it.
func bindPayload(s *symtab.Scope, bnd ir.Bindings, scrutinee target.JTerm, w *target.JWrapper, variant ir.RawSym, binds []ir.Sym) {
	i := 0
	for _, f := range w.Fields {
		if f.Variant != uint64(variant) {
			continue
		}
		if i >= len(binds) {
			break
		}
		field := s.FreshVar(false)
		s.SetVarType(field, f.Ty)
		raw := fieldRaw(bnd, variant, f.Index)
		prop := target.JTProp{Object: scrutinee, RawProp: raw, Typ: f.Ty}
		s.Emit(target.JSLet{Name: uint64(bnd.Raw(raw)), Ty: f.Ty, Var: field, Init: prop})
		s.BindVar(binds[i], target.One(field))
		i++
	}
}

// fieldRaw names a wrapper payload field: `_enum$<VariantName>$<i>`
// (spec.md Scenario B).
func fieldRaw(bnd ir.Bindings, variant ir.RawSym, i int) string {
	return fmt.Sprintf("_enum$%s$%d", bnd.ResolveRaw(variant), i)
}

// classOf extracts the JClass from a JTy if it's a Class, else ok=false.
func classOf(t target.JTy) (target.JClass, bool) {
	if t.Kind == target.TClass {
		return t.Class, true
	}
	return target.JClass{}, false
}
