package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bytec/internal/demo"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

func TestStatementLetBindsOneVarPerScalar(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	nameSym := in.Create(ir.Path{"x"}, false)

	st := ir.StmtLet{Name: nameSym, Ty: ir.I32, Init: intLitIR(9)}

	s.PushBlock()
	Statement(st, s, in)
	stmts := s.PopBlock()

	require.Len(t, stmts, 1)
	let, ok := stmts[0].(target.JSLet)
	require.True(t, ok)
	require.Equal(t, target.I32, let.Ty)

	bound := s.MustVar(nameSym).Slice()
	require.Len(t, bound, 1)
	require.Equal(t, let.Var, bound[0])
}

// A let binding a tuple flattens into one JSLet per scalar component,
// one JVar bound per component in order (spec.md §4.6 tuple flattening).
func TestStatementLetFlattensTupleInit(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	nameSym := in.Create(ir.Path{"pair"}, false)

	st := ir.StmtLet{
		Name: nameSym,
		Ty:   ir.TupleOf(ir.I32, ir.Bool),
		Init: ir.TermTuple{Elems: []ir.Term{
			intLitIR(1),
			ir.TermLit{Lit: ir.Literal{Kind: ir.LitBool, Bool: true}, Ty: ir.Bool},
		}},
	}

	s.PushBlock()
	Statement(st, s, in)
	stmts := s.PopBlock()

	require.Len(t, stmts, 2)
	bound := s.MustVar(nameSym).Slice()
	require.Len(t, bound, 2)
	require.Equal(t, target.I32, s.VarType(bound[0]))
	require.Equal(t, target.Bool, s.VarType(bound[1]))
}

// Assigning through a variable l-value emits one Set per bound
// component (spec.md §4.3 Set).
func TestStatementAssignVarEmitsSetPerComponent(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	xSym := in.Create(ir.Path{"x"}, false)
	v := s.FreshVar(false)
	s.SetVarType(v, target.I32)
	s.BindVar(xSym, target.One(v))

	op := ir.OpAdd
	st := ir.StmtAssign{LValue: ir.TermVar{Sym: xSym}, CompoundOp: &op, RHS: intLitIR(1)}

	s.PushBlock()
	Statement(st, s, in)
	stmts := s.PopBlock()

	require.Len(t, stmts, 1)
	set, ok := stmts[0].(target.JSSet)
	require.True(t, ok)
	require.NotNil(t, set.CompoundOp)
}

// Assigning through a single-field member l-value works; assigning
// through a member bound to more than one component aborts rather than
// silently dropping components (spec.md §9 Open Questions).
func TestStatementAssignMemberMultiComponentAborts(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	objSym := in.Create(ir.Path{"obj"}, false)
	objVar := s.FreshVar(false)
	objClass := s.FreshClass()
	s.SetVarType(objVar, target.Class(objClass))
	s.BindVar(objSym, target.One(objVar))

	fieldSym := in.Create(ir.Path{"obj", "pair"}, false)
	v1 := s.FreshVar(false)
	v2 := s.FreshVar(false)
	s.SetVarType(v1, target.I32)
	s.SetVarType(v2, target.I32)
	s.BindVar(fieldSym, target.List([]target.JVar{v1, v2}))

	st := ir.StmtAssign{
		LValue: ir.TermMember{Object: ir.TermVar{Sym: objSym}, Field: fieldSym},
		RHS:    intLitIR(1),
	}
	require.Panics(t, func() {
		s.PushBlock()
		defer s.PopBlock()
		Statement(st, s, in)
	})
}

// forIn over a dynamic array binds the per-iteration element by
// indexing the backing array at the loop variable, then emits a labeled
// JSRangeFor over [0, length) (spec.md §8 property 10).
func TestStatementForInBindsElementAndRanges(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	arrVar := s.FreshVar(false)
	lenVar := s.FreshVar(false)
	s.SetVarType(arrVar, target.Array(target.I32))
	s.SetVarType(lenVar, target.I32)
	arrSym := in.Create(ir.Path{"xs"}, false)
	s.BindVar(arrSym, target.List([]target.JVar{arrVar, lenVar}))

	elemSym := in.Create(ir.Path{"x"}, false)
	st := ir.StmtForIn{Name: elemSym, Array: ir.TermVar{Sym: arrSym}, Body: nil}

	s.PushBlock()
	Statement(st, s, in)
	stmts := s.PopBlock()

	require.Len(t, stmts, 1)
	rf, ok := stmts[0].(target.JSRangeFor)
	require.True(t, ok)
	require.Len(t, rf.Body, 1, "the per-iteration element binding lives inside the loop body")

	elemLet, ok := rf.Body[0].(target.JSLet)
	require.True(t, ok)
	idx, ok := elemLet.Init.(target.JTIndex)
	require.True(t, ok)
	require.Equal(t, target.I32, idx.Typ)

	bound := s.MustVar(elemSym).Slice()
	require.Len(t, bound, 1)
	require.Equal(t, elemLet.Var, bound[0])
}
