package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bytec/internal/demo"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

func intLitIR(n int64) ir.Term {
	return ir.TermLit{Lit: ir.Literal{Kind: ir.LitInt, Int: n}, Ty: ir.I32}
}

// Scenario D (spec.md §8): `let x = if c then 1 else 2` lowers to a
// pushed block per branch assigning a fresh _then$0, an uninitialized
// declaration of that var, then the If itself — in exactly that order.
func TestLowerIfAsValueOrdering(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	condSym := in.Create(ir.Path{"c"}, false)
	condVar := s.FreshVar(false)
	s.SetVarType(condVar, target.Bool)
	s.BindVar(condSym, target.One(condVar))

	term := ir.TermIf{
		Cond: ir.TermVar{Sym: condSym},
		Then: intLitIR(1),
		Else: intLitIR(2),
	}

	s.PushBlock()
	result := Term(term, s, in)
	stmts := s.PopBlock()

	require.Equal(t, 1, result.Len())
	resultVar, ok := result.One().(target.JTVar)
	require.True(t, ok)

	require.Len(t, stmts, 2)

	let, ok := stmts[0].(target.JSLet)
	require.True(t, ok, "result var is declared before the If")
	require.Equal(t, resultVar.Var, let.Var)
	require.Nil(t, let.Init, "declared uninitialized — assignment happens inside the branches")

	ifStmt, ok := stmts[1].(target.JSIf)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	thenSet, ok := ifStmt.Then[0].(target.JSSet)
	require.True(t, ok)
	require.Equal(t, resultVar.Var, thenSet.LV.(target.JTVar).Var)
	thenLit, ok := thenSet.RHS.(target.JTLit)
	require.True(t, ok)
	require.Equal(t, int32(1), thenLit.Lit.Int)

	elseSet, ok := ifStmt.Else[0].(target.JSSet)
	require.True(t, ok)
	elseLit, ok := elseSet.RHS.(target.JTLit)
	require.True(t, ok)
	require.Equal(t, int32(2), elseLit.Lit.Int)
}

// Scenario B (spec.md §8), the match side: a payload-bearing arm binds
// its captured variable to the wrapper's `_enum$<Variant>$<i>` field
// before lowering the arm body.
func TestLowerMatchBindsPayloadBeforeBody(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	enumClass := s.FreshClass()
	wrapperClass := s.FreshClass()
	s.RegisterWrapper(enumClass, &target.JWrapper{
		Class: wrapperClass,
		Enum:  enumClass,
		Fields: []target.WrapperField{
			{Variant: uint64(in.Raw("Circle")), Index: 0, Ty: target.I32},
		},
	})

	scrutineeSym := in.Create(ir.Path{"shape"}, false)
	scrutineeVar := s.FreshVar(false)
	s.SetVarType(scrutineeVar, target.Class(wrapperClass))
	s.BindVar(scrutineeSym, target.One(scrutineeVar))

	radiusSym := in.Create(ir.Path{"radius"}, false)
	circleVariant := in.Raw("Circle")

	term := ir.TermMatch{
		Scrutinee: ir.TermVar{Sym: scrutineeSym},
		Arms: []ir.MatchArm{
			{Variant: &circleVariant, Binds: []ir.Sym{radiusSym}, Body: ir.TermVar{Sym: radiusSym}},
			{Body: intLitIR(0)},
		},
	}

	s.PushBlock()
	result := Term(term, s, in)
	stmts := s.PopBlock()
	require.Equal(t, 1, result.Len())

	var sw *target.JSSwitch
	for _, st := range stmts {
		if x, ok := st.(target.JSSwitch); ok {
			sw = &x
		}
	}
	require.NotNil(t, sw, "match must emit a JSSwitch")
	require.Len(t, sw.Branches, 1)

	branch := sw.Branches[0]
	require.Equal(t, uint64(circleVariant), branch.Variant)
	require.GreaterOrEqual(t, len(branch.Body), 2, "payload bind, then the result assignment")

	bindLet, ok := branch.Body[0].(target.JSLet)
	require.True(t, ok, "payload is bound before the arm body lowers")
	require.NotNil(t, bindLet.Init)
	prop, ok := bindLet.Init.(target.JTProp)
	require.True(t, ok)
	require.Equal(t, "_enum$Circle$0", prop.RawProp)
}
