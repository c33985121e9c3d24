// Package lower implements the heart of the backend: the recursive
// function that maps IR terms, statements and items to the target AST
// (spec.md §4.3–§4.5). It is side-effectful — lowering a term may push
// statements onto the current block for spilled temporaries,
// control-flow results, or calls routed through return slots — so
// everything here takes the shared *symtab.Scope.
package lower

import (
	"fmt"

	"bytec/internal/bcerr"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
	"bytec/internal/typelower"
)

func binOp(op ir.BinOp) target.BinOpLike {
	switch op {
	case ir.OpAdd:
		return target.BAdd
	case ir.OpSub:
		return target.BSub
	case ir.OpMul:
		return target.BMul
	case ir.OpDiv:
		return target.BDiv
	case ir.OpMod:
		return target.BMod
	case ir.OpEq:
		return target.BEq
	case ir.OpNeq:
		return target.BNeq
	case ir.OpLt:
		return target.BLt
	case ir.OpLe:
		return target.BLe
	case ir.OpGt:
		return target.BGt
	case ir.OpGe:
		return target.BGe
	case ir.OpAnd:
		return target.BAnd
	case ir.OpOr:
		return target.BOr
	}
	panic("lower: unknown BinOp")
}

// Term lowers one IR term to its flattened target shape (spec.md §4.3).
func Term(t ir.Term, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	switch x := t.(type) {
	case ir.TermVar:
		vars := s.MustVar(x.Sym)
		return target.MapMaybeList(vars, func(v target.JVar) target.JTerm {
			return target.JTVar{Var: v, Typ: s.VarType(v)}
		})

	case ir.TermLit:
		return target.One(lowerLit(x))

	case ir.TermBreak:
		s.Emit(target.JSBreak{Label: s.BreakLabel()})
		return target.Empty[target.JTerm]()

	case ir.TermContinue:
		s.Emit(target.JSContinue{Label: s.ContinueLabel()})
		return target.Empty[target.JTerm]()

	case ir.TermReturn:
		var vals []target.JTerm
		if x.Value != nil {
			vals = Term(x.Value, s, bnd).Slice()
		}
		s.Emit(target.JSRet{Fn: s.CurrentFn(), Values: vals})
		return target.Empty[target.JTerm]()

	case ir.TermVariant:
		return lowerVariant(x, s, bnd)

	case ir.TermTuple:
		var out []target.JTerm
		for _, e := range x.Elems {
			out = append(out, Term(e, s, bnd).Slice()...)
		}
		return target.List(out)

	case ir.TermTupleIdx:
		parts := Term(x.Tuple, s, bnd).Slice()
		return target.One(parts[x.Index])

	case ir.TermCall:
		return lowerCall(x, s, bnd)

	case ir.TermBinOp:
		l := Term(x.L, s, bnd).One()
		r := Term(x.R, s, bnd).One()
		return target.One(target.JTBinOp{Op: binOp(x.Op), L: l, R: r})

	case ir.TermNot:
		return target.One(target.JTNot{X: Term(x.X, s, bnd).One()})

	case ir.TermBlock:
		s.Push()
		for _, st := range x.Stmts {
			Statement(st, s, bnd)
		}
		var r target.JTerms
		if x.Tail != nil {
			r = Term(x.Tail, s, bnd)
		} else {
			r = target.Empty[target.JTerm]()
		}
		s.Pop()
		return r

	case ir.TermIf:
		return lowerIf(x, s, bnd)

	case ir.TermMatch:
		return lowerMatch(x, s, bnd)

	case ir.TermMember:
		return lowerMember(x, s, bnd)

	case ir.TermArrayLit:
		return lowerArrayLit(x, s, bnd)

	case ir.TermIndex:
		return lowerIndex(x, s, bnd)

	case ir.TermArrayOp:
		return lowerArrayOp(x, s, bnd)

	case ir.TermNew:
		var args []target.JTerm
		for _, a := range x.Args {
			args = append(args, Term(a, s, bnd).Slice()...)
		}
		class := s.MustClass(x.Class)
		return target.One(target.JTNew{Class: class, Args: args, Typ: target.Class(class)})

	case ir.TermNull:
		return target.One(target.JTNull{Typ: typelower.LowerOne(x.Ty, s)})

	case ir.TermThis:
		return target.One(target.JTThis{Class: s.MustClass(x.Class)})

	case ir.TermInline:
		return target.One(target.JTInline{Raw: uint64(x.Raw), Typ: typelower.LowerOne(x.Ty, s)})
	}
	panic(fmt.Sprintf("lower: unhandled term %T", t))
}

func lowerLit(x ir.TermLit) target.JTerm {
	switch x.Lit.Kind {
	case ir.LitInt:
		switch x.Ty.Kind {
		case ir.TyI32:
			return target.JTLit{Lit: target.JLit{Kind: target.LInt, Int: int32(x.Lit.Int)}}
		case ir.TyI64:
			return target.JTLit{Lit: target.JLit{Kind: target.LLong, Long: x.Lit.Int}}
		default:
			bcerr.NonIntegerLiteralType()
		}
	case ir.LitStr:
		return target.JTLit{Lit: target.JLit{Kind: target.LStr, Str: uint64(x.Lit.Str)}}
	case ir.LitBool:
		return target.JTLit{Lit: target.JLit{Kind: target.LBool, Bool: x.Lit.Bool}}
	}
	panic("lower: unknown literal kind")
}

func lowerCall(x ir.TermCall, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	fnID := s.MustFn(x.Fn)
	var recv target.JTerm
	if x.Receiver != nil {
		recv = Term(x.Receiver, s, bnd).One()
	}
	var args []target.JTerm
	for _, a := range x.Args {
		args = append(args, Term(a, s, bnd).Slice()...)
	}
	rtys := s.FnRetTys(fnID)
	tys := rtys.Slice()

	var recvPtr target.JTerm
	if recv != nil {
		recvPtr = recv
	}

	if len(tys) == 1 {
		return target.One(target.JTCall{Receiver: recvPtr, Fn: fnID, Args: args, RetTy: tys[0]})
	}

	// A callee whose return lowers to exactly one backing array plus its
	// length slot returns a native Java array value — a single
	// Java-level return — so there's no static-slot routing: spill the
	// call result and synthesize the length from its `.length` property
	// (spec.md §4.3 Call, "single Array return").
	if len(tys) == 2 && tys[0].Kind == target.TArray && tys[1].Kind == target.TI32 {
		call := target.JTCall{Receiver: recvPtr, Fn: fnID, Args: args, RetTy: tys[0]}
		arr := spillOne(s, bnd, call)
		length := target.JTProp{Object: arr, RawProp: "length", Typ: target.I32}
		return target.List([]target.JTerm{arr, length})
	}

	// MultiCall: route through fresh out-slot locals (spec.md §4.3 Call,
	// §9 "Multi-value flow without multiple returns").
	outs := make([]target.MultiCallOut, len(tys))
	terms := make([]target.JTerm, len(tys))
	fnRaw := bnd.ResolveRaw(bnd.FnName(x.Fn))
	for i, ty := range tys {
		v := s.FreshVar(false)
		s.SetVarType(v, ty)
		raw := bnd.Raw(fmt.Sprintf("%s$_call_ret%d", fnRaw, i))
		outs[i] = target.MultiCallOut{Name: uint64(raw), Var: v, Ty: ty}
		terms[i] = target.JTVar{Var: v, Typ: ty}
	}
	s.Emit(target.JSMultiCall{Receiver: recvPtr, Fn: fnID, Args: args, Outs: outs})
	return target.List(terms)
}

func lowerMember(x ir.TermMember, s *symtab.Scope, bnd ir.Bindings) target.JTerms {
	obj := Term(x.Object, s, bnd).One()
	// A member's flattened shape is looked up the same way a Var's is:
	// through the symbol's bound Vars list, keyed by field symbol. The
	// caller (internal/lower/items.go ClassMember lowering) registers
	// each field symbol with its flattened target vars exactly like a
	// let-binding, so MustVar resolves it uniformly here.
	vars := s.MustVar(x.Field)
	slice := vars.Slice()
	if len(slice) > 1 && !isSimple(obj) {
		obj = spillOne(s, bnd, obj)
	}
	out := make([]target.JTerm, len(slice))
	for i, v := range slice {
		out[i] = target.JTProp{Object: obj, Prop: v, Typ: s.VarType(v)}
	}
	return target.List(out)
}
