// Package module implements spec.md §4.7: the three-phase entry points
// that drive internal/lower and internal/emit over a set of modules
// sharing one symbol interner — Declare-P1 (types), Declare-P2
// (names/signatures), and Codegen (lowering + serialization). Grounded
// on the teacher's internal/compiler two-pass driver (declare, then
// compile) and internal/module's multi-file aggregation.
package module

import (
	"fmt"

	"bytec/internal/bcerr"
	"bytec/internal/emit"
	"bytec/internal/ir"
	"bytec/internal/lower"
	"bytec/internal/nametable"
	"bytec/internal/symtab"
	"bytec/internal/target"
	"bytec/internal/typelower"
)

// arrayCopyMapping is the one predefined intrinsic entry (spec.md §6):
// tag ArrayCopy, resolved to `System.arraycopy`, empty-tuple return.
const arrayCopyMapping = "System.arraycopy"

// DeclareTypes is Declare-P1: for every class/enum item in every
// module, allocate a fresh class id; for an enum with any
// payload-bearing variant, also allocate and register a companion
// wrapper class (spec.md §2 step 1, §3 "every enum with at least one
// payload-bearing variant has a registered wrapper class").
func DeclareTypes(mods []ir.Module, s *symtab.Scope, bnd ir.Bindings) {
	for _, mod := range mods {
		for _, it := range mod.Items {
			switch x := it.(type) {
			case ir.ItemClass:
				s.BindClass(x.Class, s.FreshClass())
			case ir.ItemExternClass:
				s.BindClass(x.Class, s.FreshClass())
			case ir.ItemEnum:
				classId := s.FreshClass()
				s.BindClass(x.Class, classId)
				if hasPayload(ir.Enum(x)) {
					wrapperId := s.FreshClass()
					s.RegisterWrapper(classId, &target.JWrapper{Class: wrapperId, Enum: classId})
				}
			}
		}
	}

	// Second pass: now that every class/enum id is bound, flatten each
	// wrapper's payload fields (a payload type may itself be a class
	// declared later in iteration order, or in another module).
	for _, mod := range mods {
		for _, it := range mod.Items {
			e, ok := it.(ir.ItemEnum)
			if !ok {
				continue
			}
			classId := s.MustClass(e.Class)
			w, ok := s.Wrapper(classId)
			if !ok {
				continue
			}
			var fields []target.WrapperField
			for _, v := range e.Variants {
				for i, pt := range v.PayloadTypes {
					ty := typelower.LowerOne(pt, s)
					fields = append(fields, target.WrapperField{Variant: uint64(v.Name), Index: i, Ty: ty})
				}
			}
			w.Fields = fields
		}
	}
}

func hasPayload(e ir.Enum) bool {
	for _, v := range e.Variants {
		if len(v.PayloadTypes) > 0 {
			return true
		}
	}
	return false
}

// DeclareTables bundles the per-module name table produced alongside
// Declare-P2; Codegen merges every module's table before emission
// (spec.md §2 step 2, §4.7).
type DeclareTables map[string]*nametable.Table

// intrinsicsKey names the synthetic table slot the predefined intrinsic
// table lives under, merged in alongside every real module's table.
const intrinsicsKey = "$intrinsics"

// DeclareNames is Declare-P2: registers the predefined array-copy
// intrinsic (spec.md §6 — owned by the backend, not declared by the
// frontend), then walks every module allocating fn/var/class-member
// ids, recording signatures, and building each module's slice of the
// shared name table (spec.md §2 step 2, §4.7).
func DeclareNames(mods []ir.Module, s *symtab.Scope, bnd ir.Bindings) DeclareTables {
	tables := make(DeclareTables, len(mods)+1)

	intrinsics := nametable.New()
	registerArrayCopy(s, intrinsics)
	tables[intrinsicsKey] = intrinsics

	for _, mod := range mods {
		tbl := nametable.New()
		for _, it := range mod.Items {
			declareItem(it, s, bnd, tbl)
		}
		tables[mod.Name] = tbl
	}
	return tables
}

// registerArrayCopy seeds the one predefined intrinsic entry (spec.md
// §6): tag ArrayCopy, resolved to `System.arraycopy`, empty-tuple
// return shape.
func registerArrayCopy(s *symtab.Scope, tbl *nametable.Table) {
	fnId := s.FreshFn()
	s.SetArrayCopyFn(fnId)
	s.SetFnRetTys(fnId, target.Empty[target.JTy]())
	tbl.Insert(fnId.Id, []string{arrayCopyMapping}, false)
}

func declareItem(it ir.Item, s *symtab.Scope, bnd ir.Bindings, tbl *nametable.Table) {
	switch x := it.(type) {
	case ir.ItemFn:
		declareFn(x.Fn, s, bnd, tbl)

	case ir.ItemExternFn:
		fnId := s.FreshFn()
		s.BindFn(x.Id, fnId)
		retTys := typelower.Lower(x.RetTy, s)
		if retTys.Len() >= 2 {
			tys := retTys.Slice()
			if len(tys) != 2 || tys[0].Kind != target.TArray || tys[1].Kind != target.TI32 {
				bcerr.ExternTupleReturn()
			}
		}
		s.SetFnRetTys(fnId, retTys)
		tbl.Insert(fnId.Id, []string{bnd.ResolveRaw(x.Mapping)}, false)

	case ir.ItemClass:
		classId := s.MustClass(x.Class)
		tbl.Insert(classId.Id, []string{bnd.ResolveRaw(bnd.TypeName(x.Class))}, false)
		for _, fn := range x.Methods {
			declareFn(fn, s, bnd, tbl)
		}

	case ir.ItemExternClass:
		classId := s.MustClass(x.Class)
		tbl.Insert(classId.Id, []string{bnd.ResolveRaw(bnd.TypeName(x.Class))}, false)

	case ir.ItemEnum:
		classId := s.MustClass(x.Class)
		tbl.Insert(classId.Id, []string{bnd.ResolveRaw(bnd.TypeName(x.Class))}, false)
		if w, ok := s.Wrapper(classId); ok {
			tbl.Insert(w.Class.Id, []string{bnd.ResolveRaw(bnd.TypeName(x.Class)) + "$Wrapper"}, false)
		}

	case ir.ItemLet:
		declareLet(x, s, bnd, tbl)

	case ir.ItemInline:
		// no name-table contribution
	}
}

func declareFn(fn ir.Fn, s *symtab.Scope, bnd ir.Bindings, tbl *nametable.Table) {
	fnId := s.FreshFn()
	s.BindFn(fn.Id, fnId)
	retTys := typelower.Lower(fn.RetTy, s)
	s.SetFnRetTys(fnId, retTys)
	tbl.Insert(fnId.Id, []string{bnd.ResolveRaw(bnd.FnName(fn.Id))}, !fn.Public)
}

func declareLet(x ir.LetItem, s *symtab.Scope, bnd ir.Bindings, tbl *nametable.Table) {
	tys := typelower.Lower(x.Ty, s).Slice()
	vars := make([]target.JVar, len(tys))
	basePath := []string(bnd.SymPath(x.Name))
	for i, ty := range tys {
		v := s.FreshVar(bnd.Public(x.Name))
		s.SetVarType(v, ty)
		vars[i] = v
		path := basePath
		if len(tys) > 1 {
			path = append(append([]string{}, basePath...), fmt.Sprintf("%d", i))
		}
		tbl.Insert(v.Id, path, !bnd.Public(x.Name))
	}
	s.BindVar(x.Name, target.List(vars))
}

// Codegen is the final phase: merge every module's name-table slice
// (stripping home-module self-reference prefixes), lower every item,
// and serialize the result as one source string (spec.md §2 step 3,
// §4.7).
func Codegen(mods []ir.Module, tables DeclareTables, s *symtab.Scope, bnd ir.Bindings, pkg, outputClass string) string {
	merged := nametable.Merge(tables)

	for _, mod := range mods {
		for _, it := range mod.Items {
			lower.Item(it, s, bnd)
		}
	}

	raw := func(r uint64) string { return bnd.ResolveRaw(ir.RawSym(r)) }
	return emit.Gen(pkg, outputClass, s.Items(), merged, raw)
}
