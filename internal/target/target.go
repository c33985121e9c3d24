// Package target defines the target-language AST: the restricted,
// statement-oriented, single-value-return surface the emitter (internal
// /emit) turns into source text. Every IR construct (internal/ir) is
// lowered (internal/lower) into values of these types before anything is
// printed.
package target

// JVar, JFnId, JClass and JBlock are opaque target-side handles, each
// freshly minted from one monotone counter (internal/symtab). Equality
// is identity — never compare the embedded id for anything but map
// keys.
type JVar struct {
	Id     uint64
	Public bool // true: do not mangle
}

type JFnId struct{ Id uint64 }
type JClass struct{ Id uint64 }
type JBlock struct{ Id uint64 }

// JTyKind tags JTy's variant.
type JTyKind int

const (
	TI32 JTyKind = iota
	TI64
	TBool
	TString
	TClass
	TArray
	// TUnit marks a void call result; it never appears as a flattened
	// component and the emitter never renders it as a declared type.
	TUnit
)

// JTy is the target type language: three scalars, String, a nominal
// class, or an array of some other JTy.
type JTy struct {
	Kind  JTyKind
	Class JClass
	Elem  *JTy
}

func Array(t JTy) JTy { return JTy{Kind: TArray, Elem: &t} }
func Class(c JClass) JTy { return JTy{Kind: TClass, Class: c} }

var (
	I32    = JTy{Kind: TI32}
	I64    = JTy{Kind: TI64}
	Bool   = JTy{Kind: TBool}
	String = JTy{Kind: TString}
	Unit   = JTy{Kind: TUnit}
)

// Primitive is true for the three scalar variants (spec.md §3).
func (t JTy) Primitive() bool {
	switch t.Kind {
	case TI32, TI64, TBool:
		return true
	default:
		return false
	}
}

// Null renders this type's zero value, used to initialize an
// uninitialized Let (spec.md §4.6).
func (t JTy) Null() string {
	switch t.Kind {
	case TI32:
		return "0"
	case TI64:
		return "0L"
	case TBool:
		return "false"
	default:
		return "null"
	}
}

// JLitKind tags JLit's variant.
type JLitKind int

const (
	LInt JLitKind = iota
	LLong
	LStr
	LBool
)

type JLit struct {
	Kind JLitKind
	Int  int32
	Long int64
	Str  uint64 // RawSym, kept untyped here to avoid an ir import cycle
	Bool bool
}

// JTerm is any target expression.
type JTerm interface {
	isJTerm()
	Ty() JTy
}

type (
	JTVar struct {
		Var JVar
		Typ JTy
	}

	JTLit struct{ Lit JLit }

	// JTCall is a static or instance call; Receiver is nil for a static
	// call with no object.
	JTCall struct {
		Receiver JTerm
		Fn       JFnId
		Args     []JTerm
		RetTy    JTy
	}

	JTProp struct {
		Object JTerm
		// Prop is the resolved-via-name-table variable when RawProp is
		// empty, otherwise RawProp is spliced verbatim (used for the
		// synthetic `$type` / `_enum$...` wrapper fields, and `.length`).
		Prop    JVar
		RawProp string
		Typ     JTy
	}

	JTBinOp struct {
		Op   BinOpLike
		L, R JTerm
	}

	// JTVariant is a null-ary reference to an enum constant, e.g. `E.A`.
	JTVariant struct {
		Class   JClass
		Variant uint64 // RawSym
	}

	// JTArrayLit is either a populated initializer list (Elems != nil,
	// renders `new T[]{ ... }`) or a fresh allocation of a given length
	// (Elems == nil): a constant Len, or — when growing a dynamic
	// array's capacity — a runtime-computed DynLen expression. A
	// constant Len of 0 renders as `new T[8]` (spec.md §9, §8 property 8).
	JTArrayLit struct {
		Elems  []JTerm
		Len    int
		DynLen *JTerm
		ElemT  JTy
	}

	JTIndex struct {
		Array JTerm
		Index JTerm
		Typ   JTy
	}

	JTNot struct{ X JTerm }

	JTNew struct {
		Class JClass
		Args  []JTerm
		Typ   JTy
	}

	JTNull struct{ Typ JTy }

	JTThis struct{ Class JClass }

	JTInline struct {
		Raw uint64 // RawSym
		Typ JTy
	}
)

func (JTVar) isJTerm()      {}
func (JTLit) isJTerm()      {}
func (JTCall) isJTerm()     {}
func (JTProp) isJTerm()     {}
func (JTBinOp) isJTerm()    {}
func (JTVariant) isJTerm()  {}
func (JTArrayLit) isJTerm() {}
func (JTIndex) isJTerm()    {}
func (JTNot) isJTerm()      {}
func (JTNew) isJTerm()      {}
func (JTNull) isJTerm()     {}
func (JTThis) isJTerm()     {}
func (JTInline) isJTerm()   {}

func (t JTVar) Ty() JTy  { return t.Typ }
func (t JTLit) Ty() JTy {
	switch t.Lit.Kind {
	case LInt:
		return I32
	case LLong:
		return I64
	case LStr:
		return String
	default:
		return Bool
	}
}
func (t JTCall) Ty() JTy { return t.RetTy }
func (t JTProp) Ty() JTy { return t.Typ }
func (t JTBinOp) Ty() JTy {
	switch t.Op.Category() {
	case BCatArith:
		return t.L.Ty()
	default:
		return Bool
	}
}
func (t JTVariant) Ty() JTy   { return Class(t.Class) }
func (t JTArrayLit) Ty() JTy  { return Array(t.ElemT) }
func (t JTIndex) Ty() JTy     { return t.Typ }
func (t JTNot) Ty() JTy       { return Bool }
func (t JTNew) Ty() JTy       { return t.Typ }
func (t JTNull) Ty() JTy      { return t.Typ }
func (t JTThis) Ty() JTy      { return Class(t.Class) }
func (t JTInline) Ty() JTy    { return t.Typ }

// BinOpLike mirrors ir.BinOp without importing internal/ir (target stays
// a leaf package); internal/lower maps one to the other directly.
type BinOpLike int

const (
	BAdd BinOpLike = iota
	BSub
	BMul
	BDiv
	BMod
	BEq
	BNeq
	BLt
	BLe
	BGt
	BGe
	BAnd
	BOr
)

type BinOpCategory int

const (
	BCatArith BinOpCategory = iota
	BCatComp
	BCatLogic
)

func (op BinOpLike) Category() BinOpCategory {
	switch op {
	case BEq, BNeq, BLt, BLe, BGt, BGe:
		return BCatComp
	case BAnd, BOr:
		return BCatLogic
	default:
		return BCatArith
	}
}

func (op BinOpLike) Repr() string {
	switch op {
	case BAdd:
		return "+"
	case BSub:
		return "-"
	case BMul:
		return "*"
	case BDiv:
		return "/"
	case BMod:
		return "%"
	case BEq:
		return "=="
	case BNeq:
		return "!="
	case BLt:
		return "<"
	case BLe:
		return "<="
	case BGt:
		return ">"
	case BGe:
		return ">="
	case BAnd:
		return "&&"
	case BOr:
		return "||"
	}
	return "?"
}

// LValue is the subset of JTerm that can be assigned: a variable, an
// indexed slot, or a property.
type LValue interface {
	isLValue()
	AsJTerm() JTerm
}

func (t JTVar) isLValue()   {}
func (t JTIndex) isLValue() {}
func (t JTProp) isLValue()  {}

func (t JTVar) AsJTerm() JTerm   { return t }
func (t JTIndex) AsJTerm() JTerm { return t }
func (t JTProp) AsJTerm() JTerm  { return t }

// AsLValue converts a term to an l-value, or reports ok=false if the
// term can't be assigned to (spec.md §3 "L-values").
func AsLValue(t JTerm) (LValue, bool) {
	switch v := t.(type) {
	case JTVar:
		return v, true
	case JTIndex:
		return v, true
	case JTProp:
		return v, true
	default:
		return nil, false
	}
}

// JStmt is any target statement.
type JStmt interface{ isJStmt() }

type (
	// JSLet declares a variable; Init nil means zero-initialize (Null()).
	JSLet struct {
		Name uint64 // RawSym display name
		Ty   JTy
		Var  JVar
		Init JTerm
	}

	// JSSet assigns, optionally with a compound operator (+=, -=, ...).
	JSSet struct {
		LV         LValue
		CompoundOp *BinOpLike
		RHS        JTerm
	}

	JSExpr struct{ X JTerm }

	JSIf struct {
		Cond       JTerm
		Then, Else []JStmt
	}

	// JSSwitch carries the loop/switch label for break targeting, and
	// always renders a default arm (spec.md §4.6).
	JSSwitch struct {
		Label     JBlock
		Scrutinee JTerm
		Branches  []SwitchBranch
		Default   []JStmt
	}

	SwitchBranch struct {
		Variant uint64 // RawSym
		Body    []JStmt
	}

	JSWhile struct {
		Label JBlock
		Cond  JTerm
		Body  []JStmt
	}

	// JSRangeFor is `for (int v = Start; v < End; v++)`, labeled.
	JSRangeFor struct {
		Label    JBlock
		Name     uint64 // RawSym display name
		Var      JVar
		Start, End JTerm
		Body     []JStmt
	}

	JSContinue struct{ Label JBlock }
	JSBreak    struct{ Label JBlock }

	// JSRet returns from Fn, writing len(Values)>1 components to static
	// slots first (spec.md §3, §4.6, Scenario A).
	JSRet struct {
		Fn     JFnId
		Values []JTerm
	}

	// JSMultiCall calls Fn for effect, then reads each of its return
	// slots into a fresh local (spec.md §4.3 Call, §4.6 MultiCall).
	JSMultiCall struct {
		Receiver JTerm
		Fn       JFnId
		Args     []JTerm
		Outs     []MultiCallOut
	}

	MultiCallOut struct {
		Name uint64 // RawSym
		Var  JVar
		Ty   JTy
	}

	JSInline struct{ Raw uint64 } // RawSym
)

func (JSLet) isJStmt()      {}
func (JSSet) isJStmt()      {}
func (JSExpr) isJStmt()     {}
func (JSIf) isJStmt()       {}
func (JSSwitch) isJStmt()   {}
func (JSWhile) isJStmt()    {}
func (JSRangeFor) isJStmt() {}
func (JSContinue) isJStmt() {}
func (JSBreak) isJStmt()    {}
func (JSRet) isJStmt()      {}
func (JSMultiCall) isJStmt() {}
func (JSInline) isJStmt()   {}

// JFnArg is one flattened parameter: display name, fresh var, type.
type JFnArg struct {
	Name uint64 // RawSym
	Var  JVar
	Ty   JTy
}

// JFn is a lowered function/method: flattened return types and args,
// a statement body, and whether it's a public (unmangled) symbol.
type JFn struct {
	Name    uint64 // RawSym
	FnId    JFnId
	RetTys  []JTy
	Args    []JFnArg
	Body    []JStmt
	Public  bool
	Throws  []uint64 // RawSym
}

// JEnumVariant names one arm; the companion wrapper class (if any) is
// tracked separately on JEnum.
type JEnumVariant struct{ Name uint64 } // RawSym

// JEnum is an enum declaration plus, when any variant carries a payload,
// its companion wrapper class (spec.md §3 "Wrapper class").
type JEnum struct {
	Class    JClass
	Variants []JEnumVariant
	Wrapper  *JWrapper
}

// JWrapper is the generated carrier class for a payload-bearing enum: a
// `$type` tag field plus `_enum$<variant>$<i>` fields for every payload
// component across every variant (spec.md Scenario B).
type JWrapper struct {
	Class  JClass
	Enum   JClass
	Fields []WrapperField
}

type WrapperField struct {
	Variant uint64 // RawSym
	Index   int
	Ty      JTy
}

// JClassMember is one flattened field with its shared init expression.
type JClassMember struct {
	Name uint64 // RawSym
	Var  JVar
	Ty   JTy
	Init JTerm
}

type JClassGroup struct {
	Members   []JClassMember
	InitBlock []JStmt
}

type JClassItem struct {
	Class   JClass
	Groups  []JClassGroup
	Methods []JFn
}

type JLetItem struct {
	Name uint64 // RawSym
	Var  JVar
	Ty   JTy
	Init []JStmt // static initializer block, empty if none
}

// JItem is anything that actually appears in the emitted class body;
// externs contribute nothing here (spec.md §4.5).
type JItem interface{ isJItem() }

func (JFn) isJItem()        {}
func (JEnum) isJItem()      {}
func (JClassItem) isJItem() {}
func (JLetItem) isJItem()   {}
func (JSInline) isJItem()   {} // module-top inline passthrough, also valid at item position
