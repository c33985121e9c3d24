package irjson

import (
	"encoding/json"
	"fmt"
	"io"

	"bytec/internal/ir"
)

// document is the wire format's top level: the module itself plus the
// symbol/fn/type tables a real interner would otherwise own.
type document struct {
	Module  moduleEnv    `json:"module"`
	Symbols []symEnv     `json:"symbols"`
	Fns     []fnEnv      `json:"fns"`
	Types   []typeNameEnv `json:"types"`
}

type symEnv struct {
	ID     uint64   `json:"id"`
	Path   []string `json:"path"`
	Public bool     `json:"public"`
}

type fnEnv struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type typeNameEnv struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type moduleEnv struct {
	Name  string            `json:"name"`
	Items []json.RawMessage `json:"items"`
}

// Decode reads one JSON document from r and returns the module it
// describes plus an ir.Bindings preloaded from its symbol tables.
func Decode(r io.Reader) (ir.Module, *Bindings, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return ir.Module{}, nil, fmt.Errorf("irjson: %w", err)
	}

	b := newBindings()
	for _, s := range doc.Symbols {
		b.loadSym(s.ID, s.Path, s.Public)
	}
	for _, f := range doc.Fns {
		b.loadFn(f.ID, f.Name)
	}
	for _, t := range doc.Types {
		b.loadType(t.ID, t.Name)
	}

	items := make([]ir.Item, 0, len(doc.Module.Items))
	for _, raw := range doc.Module.Items {
		it, err := decodeItem(raw, b)
		if err != nil {
			return ir.Module{}, nil, err
		}
		items = append(items, it)
	}

	return ir.Module{Name: doc.Module.Name, Items: items}, b, nil
}

// --- types ---

type typeEnv struct {
	Kind  string    `json:"kind"`
	Class uint64    `json:"class,omitempty"`
	Tuple []typeEnv `json:"tuple,omitempty"`
	Elem  *typeEnv  `json:"elem,omitempty"`
}

func decodeType(e *typeEnv) ir.Type {
	if e == nil {
		return ir.Unit
	}
	switch e.Kind {
	case "i32":
		return ir.I32
	case "i64":
		return ir.I64
	case "bool":
		return ir.Bool
	case "str":
		return ir.Str
	case "unit", "":
		return ir.Unit
	case "class":
		return ir.ClassType(ir.TypeId(e.Class))
	case "tuple":
		ts := make([]ir.Type, len(e.Tuple))
		for i := range e.Tuple {
			ts[i] = decodeType(&e.Tuple[i])
		}
		return ir.TupleOf(ts...)
	case "array":
		return ir.ArrayOf(decodeType(e.Elem))
	}
	panic(fmt.Sprintf("irjson: unknown type kind %q", e.Kind))
}

// --- literal ---

type literalEnv struct {
	Kind string `json:"kind"`
	Int  int64  `json:"int,omitempty"`
	Str  string `json:"str,omitempty"`
	Bool bool   `json:"bool,omitempty"`
}

func decodeLiteral(e literalEnv, b *Bindings) ir.Literal {
	switch e.Kind {
	case "int":
		return ir.Literal{Kind: ir.LitInt, Int: e.Int}
	case "str":
		return ir.Literal{Kind: ir.LitStr, Str: b.Raw(e.Str)}
	case "bool":
		return ir.Literal{Kind: ir.LitBool, Bool: e.Bool}
	}
	panic(fmt.Sprintf("irjson: unknown literal kind %q", e.Kind))
}

// --- binop ---

var binOps = map[string]ir.BinOp{
	"add": ir.OpAdd, "sub": ir.OpSub, "mul": ir.OpMul, "div": ir.OpDiv, "mod": ir.OpMod,
	"eq": ir.OpEq, "neq": ir.OpNeq, "lt": ir.OpLt, "le": ir.OpLe, "gt": ir.OpGt, "ge": ir.OpGe,
	"and": ir.OpAnd, "or": ir.OpOr,
}

func decodeBinOp(s string) ir.BinOp {
	op, ok := binOps[s]
	if !ok {
		panic(fmt.Sprintf("irjson: unknown binop %q", s))
	}
	return op
}

var arrayOps = map[string]ir.ArrayOpKind{
	"push": ir.ArrayPush, "pop": ir.ArrayPop, "clear": ir.ArrayClear, "len": ir.ArrayLen,
}

// --- terms ---

// termEnv is the union of every Term variant's fields; only the ones
// matching envelope.Kind are populated by the input.
type termEnv struct {
	Kind string `json:"kind"`

	Sym uint64 `json:"sym,omitempty"`

	Lit *literalEnv `json:"lit,omitempty"`
	Ty  *typeEnv    `json:"ty,omitempty"`

	Value json.RawMessage `json:"value,omitempty"`

	Enum    uint64          `json:"enum,omitempty"`
	Variant string          `json:"variant,omitempty"`
	Args    []json.RawMessage `json:"args,omitempty"`

	Elems []json.RawMessage `json:"elems,omitempty"`

	Tuple      json.RawMessage `json:"tuple,omitempty"`
	TupleIndex int             `json:"tupleIndex,omitempty"`

	Receiver json.RawMessage `json:"receiver,omitempty"`
	Fn       uint64          `json:"fn,omitempty"`

	Op string          `json:"op,omitempty"`
	L  json.RawMessage `json:"l,omitempty"`
	R  json.RawMessage `json:"r,omitempty"`
	X  json.RawMessage `json:"x,omitempty"`

	Stmts []json.RawMessage `json:"stmts,omitempty"`
	Tail  json.RawMessage   `json:"tail,omitempty"`

	Cond json.RawMessage `json:"cond,omitempty"`
	Then json.RawMessage `json:"then,omitempty"`
	Else json.RawMessage `json:"else,omitempty"`

	Scrutinee json.RawMessage `json:"scrutinee,omitempty"`
	Arms      []armEnv        `json:"arms,omitempty"`

	Object json.RawMessage `json:"object,omitempty"`
	Field  uint64          `json:"field,omitempty"`

	ElemTy *typeEnv        `json:"elemTy,omitempty"`
	Array  json.RawMessage `json:"array,omitempty"`
	Index  json.RawMessage `json:"index,omitempty"`
	Arg    json.RawMessage `json:"arg,omitempty"`

	Class uint64 `json:"class,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

type armEnv struct {
	Variant *string           `json:"variant,omitempty"`
	Binds   []uint64          `json:"binds,omitempty"`
	Body    json.RawMessage   `json:"body"`
}

func decodeTerm(raw json.RawMessage, b *Bindings) ir.Term {
	if raw == nil {
		return nil
	}
	var e termEnv
	if err := json.Unmarshal(raw, &e); err != nil {
		panic(fmt.Sprintf("irjson: term: %v", err))
	}

	switch e.Kind {
	case "var":
		return ir.TermVar{Sym: ir.Sym(e.Sym)}
	case "lit":
		return ir.TermLit{Lit: decodeLiteral(*e.Lit, b), Ty: decodeType(e.Ty)}
	case "break":
		return ir.TermBreak{}
	case "continue":
		return ir.TermContinue{}
	case "return":
		return ir.TermReturn{Value: decodeTerm(e.Value, b)}
	case "variant":
		return ir.TermVariant{Enum: ir.TypeId(e.Enum), Variant: b.Raw(e.Variant), Args: decodeTerms(e.Args, b)}
	case "tuple":
		return ir.TermTuple{Elems: decodeTerms(e.Elems, b)}
	case "tupleIdx":
		return ir.TermTupleIdx{Tuple: decodeTerm(e.Tuple, b), Index: e.TupleIndex}
	case "call":
		return ir.TermCall{Receiver: decodeTerm(e.Receiver, b), Fn: ir.FnId(e.Fn), Args: decodeTerms(e.Args, b)}
	case "binop":
		return ir.TermBinOp{Op: decodeBinOp(e.Op), L: decodeTerm(e.L, b), R: decodeTerm(e.R, b)}
	case "not":
		return ir.TermNot{X: decodeTerm(e.X, b)}
	case "block":
		return ir.TermBlock{Stmts: decodeStatements(e.Stmts, b), Tail: decodeTerm(e.Tail, b)}
	case "if":
		return ir.TermIf{Cond: decodeTerm(e.Cond, b), Then: decodeTerm(e.Then, b), Else: decodeTerm(e.Else, b)}
	case "match":
		arms := make([]ir.MatchArm, len(e.Arms))
		for i, a := range e.Arms {
			var variant *ir.RawSym
			if a.Variant != nil {
				r := b.Raw(*a.Variant)
				variant = &r
			}
			binds := make([]ir.Sym, len(a.Binds))
			for j, s := range a.Binds {
				binds[j] = ir.Sym(s)
			}
			arms[i] = ir.MatchArm{Variant: variant, Binds: binds, Body: decodeTerm(a.Body, b)}
		}
		return ir.TermMatch{Scrutinee: decodeTerm(e.Scrutinee, b), Arms: arms}
	case "member":
		return ir.TermMember{Object: decodeTerm(e.Object, b), Field: ir.Sym(e.Field)}
	case "arrayLit":
		return ir.TermArrayLit{Elems: decodeTerms(e.Elems, b), ElemTy: decodeType(e.ElemTy)}
	case "index":
		return ir.TermIndex{Array: decodeTerm(e.Array, b), Index: decodeTerm(e.Index, b)}
	case "arrayOp":
		kind, ok := arrayOps[e.Op]
		if !ok {
			panic(fmt.Sprintf("irjson: unknown array op %q", e.Op))
		}
		return ir.TermArrayOp{Kind: kind, Array: decodeTerm(e.Array, b), Arg: decodeTerm(e.Arg, b)}
	case "new":
		return ir.TermNew{Class: ir.TypeId(e.Class), Args: decodeTerms(e.Args, b)}
	case "null":
		return ir.TermNull{Ty: decodeType(e.Ty)}
	case "this":
		return ir.TermThis{Class: ir.TypeId(e.Class)}
	case "inline":
		return ir.TermInline{Raw: b.Raw(e.Raw), Ty: decodeType(e.Ty)}
	}
	panic(fmt.Sprintf("irjson: unknown term kind %q", e.Kind))
}

func decodeTerms(raws []json.RawMessage, b *Bindings) []ir.Term {
	out := make([]ir.Term, len(raws))
	for i, r := range raws {
		out[i] = decodeTerm(r, b)
	}
	return out
}

// --- statements ---

type stmtEnv struct {
	Kind string `json:"kind"`

	X json.RawMessage `json:"x,omitempty"`

	Name uint64   `json:"name,omitempty"`
	Ty   *typeEnv `json:"ty,omitempty"`
	Init json.RawMessage `json:"init,omitempty"`

	LValue     json.RawMessage `json:"lvalue,omitempty"`
	CompoundOp *string         `json:"compoundOp,omitempty"`
	RHS        json.RawMessage `json:"rhs,omitempty"`

	Cond json.RawMessage   `json:"cond,omitempty"`
	Body []json.RawMessage `json:"body,omitempty"`

	Array json.RawMessage `json:"array,omitempty"`

	Raw string `json:"raw,omitempty"`
}

func decodeStatement(raw json.RawMessage, b *Bindings) ir.Statement {
	var e stmtEnv
	if err := json.Unmarshal(raw, &e); err != nil {
		panic(fmt.Sprintf("irjson: statement: %v", err))
	}

	switch e.Kind {
	case "term":
		return ir.StmtTerm{X: decodeTerm(e.X, b)}
	case "let":
		return ir.StmtLet{Name: ir.Sym(e.Name), Ty: decodeType(e.Ty), Init: decodeTerm(e.Init, b)}
	case "assign":
		var op *ir.BinOp
		if e.CompoundOp != nil {
			o := decodeBinOp(*e.CompoundOp)
			op = &o
		}
		return ir.StmtAssign{LValue: decodeTerm(e.LValue, b), CompoundOp: op, RHS: decodeTerm(e.RHS, b)}
	case "while":
		return ir.StmtWhile{Cond: decodeTerm(e.Cond, b), Body: decodeStatements(e.Body, b)}
	case "forIn":
		return ir.StmtForIn{Name: ir.Sym(e.Name), Array: decodeTerm(e.Array, b), Body: decodeStatements(e.Body, b)}
	case "inline":
		return ir.StmtInline{Raw: b.Raw(e.Raw)}
	}
	panic(fmt.Sprintf("irjson: unknown statement kind %q", e.Kind))
}

func decodeStatements(raws []json.RawMessage, b *Bindings) []ir.Statement {
	out := make([]ir.Statement, len(raws))
	for i, r := range raws {
		out[i] = decodeStatement(r, b)
	}
	return out
}

// --- items ---

type fnArgEnv struct {
	Name uint64  `json:"name"`
	Ty   typeEnv `json:"ty"`
}

type fnEnvelope struct {
	ID     uint64          `json:"id"`
	Args   []fnArgEnv      `json:"args,omitempty"`
	RetTy  typeEnv         `json:"retTy"`
	Body   json.RawMessage `json:"body"`
	Public bool            `json:"public"`
	Throws []string        `json:"throws,omitempty"`
}

func decodeFn(e fnEnvelope, b *Bindings) ir.Fn {
	args := make([]ir.FnArg, len(e.Args))
	for i, a := range e.Args {
		args[i] = ir.FnArg{Name: ir.Sym(a.Name), Ty: decodeType(&a.Ty)}
	}
	throws := make([]ir.RawSym, len(e.Throws))
	for i, t := range e.Throws {
		throws[i] = b.Raw(t)
	}
	return ir.Fn{
		Id:     ir.FnId(e.ID),
		Args:   args,
		RetTy:  decodeType(&e.RetTy),
		Body:   decodeTerm(e.Body, b),
		Public: e.Public,
		Throws: throws,
	}
}

type classMemberEnv struct {
	Name uint64          `json:"name"`
	Ty   typeEnv         `json:"ty"`
	Init json.RawMessage `json:"init"`
}

type classGroupEnv struct {
	Members   []classMemberEnv  `json:"members"`
	InitBlock []json.RawMessage `json:"initBlock,omitempty"`
}

type itemEnv struct {
	Kind string `json:"kind"`

	Fn   *fnEnvelope `json:"fn,omitempty"`
	Name string      `json:"name,omitempty"`
	ID   uint64      `json:"id,omitempty"`

	Class uint64 `json:"class,omitempty"`

	Groups  []classGroupEnv `json:"groups,omitempty"`
	Methods []fnEnvelope    `json:"methods,omitempty"`

	Variants []struct {
		Name         string    `json:"name"`
		PayloadTypes []typeEnv `json:"payloadTypes,omitempty"`
	} `json:"variants,omitempty"`

	Ty   *typeEnv        `json:"ty,omitempty"`
	Init json.RawMessage `json:"init,omitempty"`

	Mapping string `json:"mapping,omitempty"`
	Raw     string `json:"raw,omitempty"`
}

func decodeItem(raw json.RawMessage, b *Bindings) (ir.Item, error) {
	var e itemEnv
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("irjson: item: %w", err)
	}

	switch e.Kind {
	case "fn":
		return ir.ItemFn{Fn: decodeFn(*e.Fn, b), Name: b.Raw(e.Name)}, nil

	case "externFn":
		return ir.ItemExternFn{Id: ir.FnId(e.ID), Mapping: b.Raw(e.Mapping), RetTy: decodeType(e.Ty)}, nil

	case "class":
		groups := make([]ir.ClassGroup, len(e.Groups))
		for i, g := range e.Groups {
			members := make([]ir.ClassMember, len(g.Members))
			for j, m := range g.Members {
				members[j] = ir.ClassMember{Name: ir.Sym(m.Name), Ty: decodeType(&m.Ty), Init: decodeTerm(m.Init, b)}
			}
			groups[i] = ir.ClassGroup{Members: members, InitBlock: decodeStatements(g.InitBlock, b)}
		}
		methods := make([]ir.Fn, len(e.Methods))
		for i, m := range e.Methods {
			methods[i] = decodeFn(m, b)
		}
		return ir.ItemClass{Class: ir.TypeId(e.Class), Groups: groups, Methods: methods}, nil

	case "externClass":
		return ir.ItemExternClass{Class: ir.TypeId(e.Class)}, nil

	case "enum":
		variants := make([]ir.EnumVariant, len(e.Variants))
		for i, v := range e.Variants {
			payload := make([]ir.Type, len(v.PayloadTypes))
			for j := range v.PayloadTypes {
				payload[j] = decodeType(&v.PayloadTypes[j])
			}
			variants[i] = ir.EnumVariant{Name: b.Raw(v.Name), PayloadTypes: payload}
		}
		return ir.ItemEnum{Class: ir.TypeId(e.Class), Variants: variants}, nil

	case "let":
		return ir.ItemLet{Name: ir.Sym(e.ID), Ty: decodeType(e.Ty), Init: decodeTerm(e.Init, b)}, nil

	case "inline":
		return ir.ItemInline{Raw: b.Raw(e.Raw)}, nil
	}
	return nil, fmt.Errorf("irjson: unknown item kind %q", e.Kind)
}
