package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bytec/internal/demo"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

func TestIsSimple(t *testing.T) {
	simple := []target.JTerm{
		target.JTVar{Var: target.JVar{Id: 1}, Typ: target.I32},
		target.JTLit{Lit: target.JLit{Kind: target.LInt, Int: 1}},
		target.JTVariant{Class: target.JClass{Id: 1}, Variant: 0},
		target.JTNull{Typ: target.I32},
		target.JTThis{Class: target.JClass{Id: 1}},
	}
	for _, tm := range simple {
		require.True(t, isSimple(tm), "%#v should be simple", tm)
	}

	notSimple := []target.JTerm{
		target.JTBinOp{Op: target.BAdd, L: intLitTerm(1), R: intLitTerm(2)},
		target.JTCall{Fn: target.JFnId{Id: 1}},
	}
	for _, tm := range notSimple {
		require.False(t, isSimple(tm), "%#v should not be simple", tm)
	}
}

func intLitTerm(n int32) target.JTerm {
	return target.JTLit{Lit: target.JLit{Kind: target.LInt, Int: n}}
}

// spillOne leaves a simple term untouched but binds a non-simple one to
// a fresh local, emitting exactly one JSLet (spec.md glossary "Simple
// term").
func TestSpillOneLeavesSimpleTermsAlone(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	v := target.JTVar{Var: target.JVar{Id: 1}, Typ: target.I32}
	s.PushBlock()
	got := spillOne(s, in, v)
	stmts := s.PopBlock()

	require.Empty(t, stmts)
	require.Equal(t, v, got)
}

func TestSpillOneBindsNonSimpleTerms(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	expr := target.JTBinOp{Op: target.BAdd, L: intLitTerm(1), R: intLitTerm(2)}
	s.PushBlock()
	got := spillOne(s, in, expr)
	stmts := s.PopBlock()

	require.Len(t, stmts, 1)
	let, ok := stmts[0].(target.JSLet)
	require.True(t, ok)
	require.Equal(t, expr, let.Init)

	ref, ok := got.(target.JTVar)
	require.True(t, ok)
	require.Equal(t, let.Var, ref.Var)
}

// spillComponents binds every component unconditionally, even simple
// ones — used by push's capacity-growth path where the old array must
// survive reassignment of the same variable (spec.md Scenario C).
func TestSpillComponentsBindsEveryComponentUnconditionally(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	arr := target.JTVar{Var: target.JVar{Id: 1}, Typ: target.Array(target.I32)}
	length := target.JTVar{Var: target.JVar{Id: 2}, Typ: target.I32}

	s.PushBlock()
	vars := spillComponents(s, in, []target.JTerm{arr, length})
	stmts := s.PopBlock()

	require.Len(t, stmts, 2, "every component gets its own JSLet, simple or not")
	require.Len(t, vars, 2)

	terms := varsToTerms(vars, s)
	require.Equal(t, target.Array(target.I32), terms[0].Ty())
	require.Equal(t, target.I32, terms[1].Ty())
}
