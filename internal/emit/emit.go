// Package emit turns a lowered target AST (internal/target) into Java-like
// source text: pure AST → text, with indentation, name-table-driven
// identifier resolution and mangling, and the per-construct rendering
// rules of spec.md §4.6. Grounded on the teacher's internal/formatter
// (strings.Builder + indent-counter + recursive switch-on-node-type
// printer), generalized from Sentra source formatting to Java-like
// statement/expression rendering.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"bytec/internal/nametable"
	"bytec/internal/target"
)

// maxIndent caps indentation growth; beyond it, nesting no longer adds
// whitespace (spec.md §4.6).
const maxIndent = 10

// Printer renders one codegen run's items into the final source string.
// It is not safe for concurrent use (spec.md §5).
type Printer struct {
	sb     strings.Builder
	indent int

	names *nametable.Table
	raw   func(uint64) string

	varNames      map[uint64]string
	varNamesStack []map[uint64]string
}

// New builds a Printer over the merged name table produced by module
// orchestration and a raw-symbol resolver (typically ir.Bindings.ResolveRaw
// cast through a uint64 RawSym, see internal/module).
func New(names *nametable.Table, raw func(uint64) string) *Printer {
	return &Printer{names: names, raw: raw, varNames: make(map[uint64]string)}
}

// --- name context save/restore (spec.md §4.6 "state machine") ---

func (p *Printer) pushNameContext() {
	snapshot := make(map[uint64]string, len(p.varNames))
	for k, v := range p.varNames {
		snapshot[k] = v
	}
	p.varNamesStack = append(p.varNamesStack, snapshot)
}

func (p *Printer) popNameContext() {
	n := len(p.varNamesStack)
	p.varNames = p.varNamesStack[n-1]
	p.varNamesStack = p.varNamesStack[:n-1]
}

// --- identifier resolution ---

func mangled(base string, id uint64, doMangle bool) string {
	if doMangle {
		return fmt.Sprintf("%s$%d", base, id)
	}
	return base
}

// declareVar records v's display name at its declaration site (Let, Fn
// arg, class member, multi-call out, range-for binding).
func (p *Printer) declareVar(v target.JVar, rawName uint64) string {
	name := mangled(p.raw(rawName), v.Id, !v.Public)
	p.varNames[v.Id] = name
	return name
}

func (p *Printer) varRef(v target.JVar) string {
	if name, ok := p.varNames[v.Id]; ok {
		return name
	}
	return mangled(fmt.Sprintf("v%d", v.Id), v.Id, true)
}

// resolveId looks up an opaque id's qualified path and mangle-flag in
// the shared name table.
func (p *Printer) resolveId(id uint64) (string, bool) {
	e, ok := p.names.Lookup(id)
	if !ok {
		return "", false
	}
	name := strings.Join(e.Path, ".")
	if e.Mangle {
		name = fmt.Sprintf("%s$%d", name, id)
	}
	return name, true
}

// fnName renders a function/method identifier. A receiver call uses
// only the unqualified (last-component) name, matching Java's
// `recv.method(...)` syntax; a free call uses the full qualified path
// (already stripped of the home-module prefix by nametable.Merge).
func (p *Printer) fnName(fn target.JFnId, hasReceiver bool) string {
	e, ok := p.names.Lookup(fn.Id)
	if !ok {
		return fmt.Sprintf("fn$%d", fn.Id)
	}
	path := e.Path
	if hasReceiver && len(path) > 0 {
		path = path[len(path)-1:]
	}
	name := strings.Join(path, ".")
	if e.Mangle {
		name = fmt.Sprintf("%s$%d", name, fn.Id)
	}
	return name
}

func (p *Printer) className(c target.JClass) string {
	if name, ok := p.resolveId(c.Id); ok {
		return name
	}
	return fmt.Sprintf("C$%d", c.Id)
}

// --- indentation ---

func (p *Printer) writeIndent() {
	n := p.indent
	if n > maxIndent {
		n = maxIndent
	}
	for i := 0; i < n; i++ {
		p.sb.WriteString("\t")
	}
}

func (p *Printer) line(s string) {
	p.writeIndent()
	p.sb.WriteString(s)
	p.sb.WriteString("\n")
}

// --- types ---

func (p *Printer) renderType(t target.JTy) string {
	switch t.Kind {
	case target.TI32:
		return "int"
	case target.TI64:
		return "long"
	case target.TBool:
		return "boolean"
	case target.TString:
		return "String"
	case target.TUnit:
		return "void"
	case target.TClass:
		return p.className(t.Class)
	case target.TArray:
		return p.renderType(*t.Elem) + "[]"
	}
	return "Object"
}

// --- terms ---

func (p *Printer) term(t target.JTerm) string {
	switch x := t.(type) {
	case target.JTVar:
		return p.varRef(x.Var)

	case target.JTLit:
		return p.literal(x.Lit)

	case target.JTCall:
		recv := ""
		if x.Receiver != nil {
			recv = p.term(x.Receiver) + "."
		}
		name := p.fnName(x.Fn, x.Receiver != nil)
		return fmt.Sprintf("%s%s(%s)", recv, name, p.argList(x.Args))

	case target.JTProp:
		obj := p.term(x.Object)
		if x.RawProp != "" {
			return obj + "." + x.RawProp
		}
		return obj + "." + p.varRef(x.Prop)

	case target.JTBinOp:
		return p.binOp(x)

	case target.JTVariant:
		return p.className(x.Class) + "." + p.raw(x.Variant)

	case target.JTArrayLit:
		return p.arrayLit(x)

	case target.JTIndex:
		return fmt.Sprintf("%s[%s]", p.term(x.Array), p.term(x.Index))

	case target.JTNot:
		return "!(" + p.term(x.X) + ")"

	case target.JTNew:
		return fmt.Sprintf("new %s(%s)", p.className(x.Class), p.argList(x.Args))

	case target.JTNull:
		return "null"

	case target.JTThis:
		return "this"

	case target.JTInline:
		return p.raw(x.Raw)
	}
	return "/* unknown term */"
}

func (p *Printer) argList(args []target.JTerm) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = p.term(a)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) literal(l target.JLit) string {
	switch l.Kind {
	case target.LInt:
		return strconv.FormatInt(int64(l.Int), 10)
	case target.LLong:
		return strconv.FormatInt(l.Long, 10) + "L"
	case target.LStr:
		return strconv.Quote(p.raw(l.Str))
	case target.LBool:
		if l.Bool {
			return "true"
		}
		return "false"
	}
	return "null"
}

// arrayLit renders the three forms a JTArrayLit can take: populated,
// runtime-sized (growth), or constant-sized, with the 0→8 minimum
// capacity rule (spec.md §4.6, §8 property 8).
func (p *Printer) arrayLit(x target.JTArrayLit) string {
	elemTy := p.renderType(x.ElemT)
	if x.Elems != nil {
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			parts[i] = p.term(e)
		}
		return fmt.Sprintf("new %s[]{%s}", elemTy, strings.Join(parts, ", "))
	}
	if x.DynLen != nil {
		return fmt.Sprintf("new %s[%s]", elemTy, p.term(*x.DynLen))
	}
	n := x.Len
	if n <= 0 {
		n = 8
	}
	return fmt.Sprintf("new %s[%d]", elemTy, n)
}

// binOp rewrites `==`/`!=` on non-primitive, non-null operands to
// `.equals()` (spec.md §4.3 "BinOp", §4.6).
func (p *Printer) binOp(x target.JTBinOp) string {
	isEq := x.Op == target.BEq || x.Op == target.BNeq
	if isEq && !isNullTerm(x.L) && !isNullTerm(x.R) && !x.L.Ty().Primitive() {
		call := fmt.Sprintf("(%s).equals(%s)", p.term(x.L), p.term(x.R))
		if x.Op == target.BNeq {
			return "!" + call
		}
		return call
	}
	return fmt.Sprintf("(%s %s %s)", p.term(x.L), x.Op.Repr(), p.term(x.R))
}

func isNullTerm(t target.JTerm) bool {
	_, ok := t.(target.JTNull)
	return ok
}

// --- l-values ---

func (p *Printer) lvalue(lv target.LValue) string {
	return p.term(lv.AsJTerm())
}

// --- statements ---

func (p *Printer) block(stmts []target.JStmt) {
	p.indent++
	for _, s := range stmts {
		p.stmt(s)
	}
	p.indent--
}

func (p *Printer) stmt(st target.JStmt) {
	switch x := st.(type) {
	case target.JSLet:
		name := p.declareVar(x.Var, x.Name)
		init := x.Ty.Null()
		if x.Init != nil {
			init = p.term(x.Init)
		}
		p.line(fmt.Sprintf("%s %s = %s;", p.renderType(x.Ty), name, init))

	case target.JSSet:
		op := "="
		if x.CompoundOp != nil {
			op = x.CompoundOp.Repr() + "="
		}
		p.line(fmt.Sprintf("%s %s %s;", p.lvalue(x.LV), op, p.term(x.RHS)))

	case target.JSExpr:
		p.line(p.term(x.X) + ";")

	case target.JSIf:
		p.writeIndent()
		p.sb.WriteString("if (" + p.term(x.Cond) + ") {\n")
		p.block(x.Then)
		if len(x.Else) > 0 {
			p.writeIndent()
			p.sb.WriteString("} else {\n")
			p.block(x.Else)
		}
		p.writeIndent()
		p.sb.WriteString("}\n")

	case target.JSSwitch:
		label := p.blockLabel(x.Label)
		p.writeIndent()
		p.sb.WriteString(label + ": switch (" + p.term(x.Scrutinee) + ") {\n")
		p.indent++
		for _, br := range x.Branches {
			p.line("case " + p.raw(br.Variant) + ":")
			p.block(br.Body)
			p.line("    break " + label + ";")
		}
		p.line("default:")
		p.block(x.Default)
		p.line("    break " + label + ";")
		p.indent--
		p.writeIndent()
		p.sb.WriteString("}\n")

	case target.JSWhile:
		label := p.blockLabel(x.Label)
		p.writeIndent()
		p.sb.WriteString(label + ": while (" + p.term(x.Cond) + ") {\n")
		p.block(x.Body)
		p.writeIndent()
		p.sb.WriteString("}\n")

	case target.JSRangeFor:
		label := p.blockLabel(x.Label)
		end := "$end_" + label
		name := p.declareVar(x.Var, x.Name)
		p.writeIndent()
		p.sb.WriteString(fmt.Sprintf("%s: for (int %s = %s, %s = %s; %s < %s; %s++) {\n",
			label, name, p.term(x.Start), end, p.term(x.End), name, end, name))
		p.block(x.Body)
		p.writeIndent()
		p.sb.WriteString("}\n")

	case target.JSContinue:
		p.line("continue " + p.blockLabel(x.Label) + ";")

	case target.JSBreak:
		p.line("break " + p.blockLabel(x.Label) + ";")

	case target.JSRet:
		p.ret(x)

	case target.JSMultiCall:
		p.multiCall(x)

	case target.JSInline:
		p.line(p.raw(x.Raw))

	default:
		p.line("/* unknown statement */")
	}
}

func (p *Printer) blockLabel(b target.JBlock) string {
	return fmt.Sprintf("b$%d", b.Id)
}

// ret writes a single-value return directly; a multi-value return
// writes every component to its static slot first, then `return;`
// (spec.md §3, §4.6, Scenario A).
func (p *Printer) ret(x target.JSRet) {
	if len(x.Values) == 0 {
		p.line("return;")
		return
	}
	if len(x.Values) == 1 {
		p.line("return " + p.term(x.Values[0]) + ";")
		return
	}
	base := p.fnName(x.Fn, true)
	for i, v := range x.Values {
		p.line(fmt.Sprintf("%s$_ret%d$S = %s;", base, i, p.term(v)))
	}
	p.line("return;")
}

// multiCall emits the call for effect, then one Let per out-binding
// reading the callee's return slots, qualified by the receiver's class
// when there is one (spec.md §4.6 "MultiCall").
func (p *Printer) multiCall(x target.JSMultiCall) {
	recv := ""
	if x.Receiver != nil {
		recv = p.term(x.Receiver) + "."
	}
	name := p.fnName(x.Fn, x.Receiver != nil)
	p.line(fmt.Sprintf("%s%s(%s);", recv, name, p.argList(x.Args)))

	slotOwner := ""
	if x.Receiver != nil {
		if cls, ok := classOfTerm(x.Receiver); ok {
			slotOwner = p.className(cls) + "."
		}
	}
	base := p.fnName(x.Fn, true)
	for i, out := range x.Outs {
		name := p.declareVar(out.Var, out.Name)
		p.line(fmt.Sprintf("%s %s = %s%s$_ret%d$S;", p.renderType(out.Ty), name, slotOwner, base, i))
	}
}

func classOfTerm(t target.JTerm) (target.JClass, bool) {
	ty := t.Ty()
	if ty.Kind == target.TClass {
		return ty.Class, true
	}
	return target.JClass{}, false
}

// --- items ---

// item renders one top-level-of-class declaration.
func (p *Printer) item(it target.JItem) {
	switch x := it.(type) {
	case target.JFn:
		p.fn(x)
	case target.JEnum:
		p.enum(x)
	case target.JClassItem:
		p.class(x)
	case target.JLetItem:
		p.letItem(x)
	case target.JSInline:
		p.line(p.raw(x.Raw))
	default:
		p.line("/* unknown item */")
	}
}

// fn renders a method: the multi-return static slot preamble (if any),
// then its signature and body.
func (p *Printer) fn(x target.JFn) {
	p.pushNameContext()
	defer p.popNameContext()

	vis := "private"
	if x.Public {
		vis = "public"
	}
	base := p.fnName(x.FnId, true)

	if len(x.RetTys) > 1 {
		for i, ty := range x.RetTys {
			p.line(fmt.Sprintf("public static %s %s$_ret%d$S;", p.renderType(ty), base, i))
		}
	}

	retTy := "void"
	if len(x.RetTys) == 1 {
		retTy = p.renderType(x.RetTys[0])
	}

	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i] = fmt.Sprintf("%s %s", p.renderType(a.Ty), p.declareVar(a.Var, a.Name))
	}

	throws := ""
	if len(x.Throws) > 0 {
		names := make([]string, len(x.Throws))
		for i, t := range x.Throws {
			names[i] = p.raw(t)
		}
		throws = " throws " + strings.Join(names, ", ")
	}

	p.writeIndent()
	p.sb.WriteString(fmt.Sprintf("%s static %s %s(%s)%s {\n", vis, retTy, base, strings.Join(args, ", "), throws))
	p.block(x.Body)
	p.writeIndent()
	p.sb.WriteString("}\n\n")
}

// enum renders the enum constant list plus its wrapper class, if any
// (spec.md Scenario B).
func (p *Printer) enum(x target.JEnum) {
	names := make([]string, len(x.Variants))
	for i, v := range x.Variants {
		names[i] = p.raw(v.Name)
	}
	p.line(fmt.Sprintf("public enum %s { %s; }", p.className(x.Class), strings.Join(names, ", ")+","))
	p.sb.WriteString("\n")

	if x.Wrapper != nil {
		p.wrapper(*x.Wrapper, x.Class)
	}
}

func (p *Printer) wrapper(w target.JWrapper, enum target.JClass) {
	p.line(fmt.Sprintf("public static class %s {", p.className(w.Class)))
	p.indent++
	p.line(fmt.Sprintf("public %s $type;", p.className(enum)))
	for _, f := range w.Fields {
		p.line(fmt.Sprintf("public %s _enum$%s$%d;", p.renderType(f.Ty), p.raw(f.Variant), f.Index))
	}
	p.indent--
	p.line("}")
	p.sb.WriteString("\n")
}

// class renders a nested class: fields from every group, a constructor
// that re-runs each group's init block then assigns its parallel
// members, and the lowered methods (spec.md §4.5).
func (p *Printer) class(x target.JClassItem) {
	p.pushNameContext()
	defer p.popNameContext()

	name := p.className(x.Class)
	p.line(fmt.Sprintf("public static class %s {", name))
	p.indent++

	for _, g := range x.Groups {
		for _, m := range g.Members {
			fname := p.declareVar(m.Var, m.Name)
			p.line(fmt.Sprintf("public %s %s;", p.renderType(m.Ty), fname))
		}
	}
	p.sb.WriteString("\n")

	p.writeIndent()
	p.sb.WriteString(fmt.Sprintf("public %s() {\n", name))
	p.indent++
	for _, g := range x.Groups {
		for _, st := range g.InitBlock {
			p.stmt(st)
		}
		for _, m := range g.Members {
			if m.Init == nil {
				continue
			}
			p.line(fmt.Sprintf("this.%s = %s;", p.varRef(m.Var), p.term(m.Init)))
		}
	}
	p.indent--
	p.line("}")
	p.sb.WriteString("\n")

	for _, fn := range x.Methods {
		p.fn(fn)
	}

	p.indent--
	p.line("}")
	p.sb.WriteString("\n")
}

func (p *Printer) letItem(x target.JLetItem) {
	name := p.declareVar(x.Var, x.Name)
	p.line(fmt.Sprintf("public static %s %s;", p.renderType(x.Ty), name))
	if len(x.Init) > 0 {
		p.writeIndent()
		p.sb.WriteString("static {\n")
		p.block(x.Init)
		p.writeIndent()
		p.sb.WriteString("}\n")
	}
}

// Gen serializes every item into one source string: a package
// declaration, module-top inline passthroughs pulled out ahead of the
// class, then `public class <outputClass> { ... }` (spec.md §4.7).
func Gen(pkg, outputClass string, items []target.JItem, names *nametable.Table, raw func(uint64) string) string {
	p := New(names, raw)

	var header []string
	var body []target.JItem
	for _, it := range items {
		if inl, ok := it.(target.JSInline); ok {
			header = append(header, raw(inl.Raw))
			continue
		}
		body = append(body, it)
	}

	if pkg != "" {
		p.sb.WriteString("package " + pkg + ";\n\n")
	}
	for _, h := range header {
		p.sb.WriteString(h + "\n")
	}
	if len(header) > 0 {
		p.sb.WriteString("\n")
	}

	p.sb.WriteString("public class " + outputClass + " {\n")
	p.indent++
	for _, it := range body {
		p.item(it)
	}
	p.indent--
	p.sb.WriteString("}\n")

	return p.sb.String()
}
