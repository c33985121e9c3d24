// This file implements spec.md §4.4 "Function lowering" and §4.5 "Item
// lowering": functions, classes (with the member-symbol binding step
// TermMember depends on), enums, top-level lets, and inline passthrough.
package lower

import (
	"fmt"

	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
	"bytec/internal/typelower"
)

// Item lowers one top-level declaration, appending zero or more JItem to
// the scope's completed-items list. Extern items contribute only to the
// name table (populated earlier, during Declare-P2) and emit nothing
// here (spec.md §4.5).
func Item(it ir.Item, s *symtab.Scope, bnd ir.Bindings) {
	switch x := it.(type) {
	case ir.ItemFn:
		s.PushItem(lowerFn(x.Fn, x.Name, s, bnd))

	case ir.ItemExternFn:
		// name-table only

	case ir.ItemClass:
		classId := s.MustClass(x.Class)
		s.PushItem(lowerClass(ir.Class(x), classId, s, bnd))

	case ir.ItemExternClass:
		// name-table only

	case ir.ItemEnum:
		classId := s.MustClass(x.Class)
		s.PushItem(lowerEnum(ir.Enum(x), classId, s, bnd))

	case ir.ItemLet:
		for _, out := range lowerLetItem(ir.LetItem(x), s, bnd) {
			s.PushItem(out)
		}

	case ir.ItemInline:
		s.PushItem(target.JSInline{Raw: uint64(x.Raw)})

	default:
		panic(fmt.Sprintf("lower: unhandled item %T", it))
	}
}

// lowerFn flattens a function's args and return type, pushes a fresh
// scope and statement buffer, lowers the body, and — when the body's
// final value wasn't already consumed by an explicit Return — emits one
// trailing Ret for the tail value (spec.md §4.4, §4.6 Scenario A).
func lowerFn(fn ir.Fn, name ir.RawSym, s *symtab.Scope, bnd ir.Bindings) target.JFn {
	fnId := s.MustFn(fn.Id)

	s.Push()
	savedBlock := s.SwapBlock(nil)
	savedFn := s.CurrentFn()
	s.SetCurrentFn(fnId)

	var args []target.JFnArg
	for _, a := range fn.Args {
		tys := typelower.Lower(a.Ty, s).Slice()
		vars := make([]target.JVar, len(tys))
		for i, ty := range tys {
			v := s.FreshVar(bnd.Public(a.Name))
			s.SetVarType(v, ty)
			args = append(args, target.JFnArg{Name: uint64(bnd.SymName(a.Name)), Var: v, Ty: ty})
			vars[i] = v
		}
		s.BindVar(a.Name, target.List(vars))
	}

	retTys := typelower.Lower(fn.RetTy, s)
	s.SetFnRetTys(fnId, retTys)

	tail := Term(fn.Body, s, bnd).Slice()
	if len(tail) > 0 {
		// A Unit-returning function whose body is a value-producing
		// expression discards that value as a statement instead of
		// returning it — a `void` method can't `return <expr>;`
		// (backend.rs's codegen of the Fn/Ret pair; emit.go's `fn`
		// renders an empty RetTys as a void signature).
		if fn.RetTy.Kind == ir.TyUnit {
			for _, v := range tail {
				s.Emit(target.JSExpr{X: v})
			}
		} else {
			s.Emit(target.JSRet{Fn: fnId, Values: tail})
		}
	}

	body := s.SwapBlock(savedBlock)
	s.SetCurrentFn(savedFn)
	s.Pop()

	var throws []uint64
	for _, t := range fn.Throws {
		throws = append(throws, uint64(t))
	}

	return target.JFn{
		Name:   uint64(name),
		FnId:   fnId,
		RetTys: retTys.Slice(),
		Args:   args,
		Body:   body,
		Public: fn.Public,
		Throws: throws,
	}
}

// lowerClass binds each member symbol to its flattened field vars
// before any method is lowered, so TermMember (always an explicit
// `this.field` or `obj.field` access) resolves through the ordinary
// MustVar path used for local variables (spec.md §4.5, the
// member-binding design note in lower.go's lowerMember). These
// bindings are deliberately never popped: a class's fields must resolve
// from any other class or module lowered later in the same codegen run,
// exactly like its own JFnId/JClass bindings.
func lowerClass(cls ir.Class, classId target.JClass, s *symtab.Scope, bnd ir.Bindings) target.JClassItem {
	groups := make([]target.JClassGroup, 0, len(cls.Groups))
	for _, g := range cls.Groups {
		s.PushBlock()
		for _, st := range g.InitBlock {
			Statement(st, s, bnd)
		}
		initBlock := s.PopBlock()

		var members []target.JClassMember
		for _, m := range g.Members {
			tys := typelower.Lower(m.Ty, s).Slice()
			vals := Term(m.Init, s, bnd).Slice()
			vars := make([]target.JVar, len(tys))
			for i, ty := range tys {
				v := s.FreshVar(bnd.Public(m.Name))
				s.SetVarType(v, ty)
				var init target.JTerm
				if i < len(vals) {
					init = vals[i]
				}
				members = append(members, target.JClassMember{
					Name: uint64(bnd.SymName(m.Name)),
					Var:  v,
					Ty:   ty,
					Init: init,
				})
				vars[i] = v
			}
			s.BindVar(m.Name, target.List(vars))
		}

		groups = append(groups, target.JClassGroup{Members: members, InitBlock: initBlock})
	}

	methods := make([]target.JFn, 0, len(cls.Methods))
	for _, fn := range cls.Methods {
		methods = append(methods, lowerFn(fn, bnd.FnName(fn.Id), s, bnd))
	}

	return target.JClassItem{Class: classId, Groups: groups, Methods: methods}
}

// lowerEnum reads back the wrapper class registered for this enum during
// Declare-P1 (spec.md §3 "Wrapper class"), if any.
func lowerEnum(e ir.Enum, classId target.JClass, s *symtab.Scope, bnd ir.Bindings) target.JEnum {
	variants := make([]target.JEnumVariant, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = target.JEnumVariant{Name: uint64(v.Name)}
	}
	w, _ := s.Wrapper(classId)
	return target.JEnum{Class: classId, Variants: variants, Wrapper: w}
}

// lowerLetItem flattens a top-level let into one JLetItem per component.
// The flattened vars were already allocated and bound — and entered
// into the shared name table — during Declare-P2 (internal/module),
// exactly like a function or class id, so a top-level let remains
// resolvable from any module lowered later in the same run. A present
// Init is lowered once into a statement block that assigns every
// component; that block is attached to the first component's item only,
// so the emitter renders one static initializer, not N (spec.md §4.5,
// SPEC_FULL.md "top-level Let items").
func lowerLetItem(x ir.LetItem, s *symtab.Scope, bnd ir.Bindings) []target.JItem {
	vars := s.MustVar(x.Name).Slice()
	tys := make([]target.JTy, len(vars))
	for i, v := range vars {
		tys[i] = s.VarType(v)
	}

	items := make([]target.JItem, len(tys))

	if x.Init == nil {
		for i, ty := range tys {
			items[i] = target.JLetItem{Name: uint64(bnd.SymName(x.Name)), Var: vars[i], Ty: ty}
		}
		return items
	}

	s.PushBlock()
	vals := Term(x.Init, s, bnd).Slice()
	for i, v := range vars {
		lv := target.JTVar{Var: v, Typ: s.VarType(v)}
		s.Emit(target.JSSet{LV: lv, RHS: vals[i]})
	}
	initBlock := s.PopBlock()

	for i, ty := range tys {
		var block []target.JStmt
		if i == 0 {
			block = initBlock
		}
		items[i] = target.JLetItem{Name: uint64(bnd.SymName(x.Name)), Var: vars[i], Ty: ty, Init: block}
	}
	return items
}
