package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bytec/internal/demo"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

func bindCall(t *testing.T, s *symtab.Scope, in *demo.Interner, retTys target.JTys) (ir.FnId, target.JFnId) {
	t.Helper()
	src := in.NewFn("callee", true)
	id := s.FreshFn()
	s.BindFn(src, id)
	s.SetFnRetTys(id, retTys)
	return src, id
}

// A single-value callee lowers to a plain JTCall expression — no
// out-slot routing needed (spec.md §4.3 Call).
func TestLowerCallSingleValueIsPlainExpr(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	src, _ := bindCall(t, s, in, target.One(target.I32))

	term := ir.TermCall{Fn: src}
	got := Term(term, s, in)

	require.Equal(t, 1, got.Len())
	call, ok := got.One().(target.JTCall)
	require.True(t, ok)
	require.Equal(t, target.I32, call.RetTy)
}

// The special-cased "single Array return" shape (spec.md §9, §4.3 Call)
// returns a native Java array: the call itself is spilled, and the
// paired length comes from `.length`, not a static out-slot.
func TestLowerCallSingleArrayReturnUsesNativeArray(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	retTys := target.List([]target.JTy{target.Array(target.I32), target.I32})
	src, _ := bindCall(t, s, in, retTys)

	term := ir.TermCall{Fn: src}

	s.PushBlock()
	got := Term(term, s, in)
	stmts := s.PopBlock()

	require.Equal(t, 2, got.Len())
	parts := got.Slice()

	require.Len(t, stmts, 1, "the call result is spilled to one local")
	let, ok := stmts[0].(target.JSLet)
	require.True(t, ok)
	_, isCall := let.Init.(target.JTCall)
	require.True(t, isCall)

	arrRef, ok := parts[0].(target.JTVar)
	require.True(t, ok)
	require.Equal(t, let.Var, arrRef.Var)

	length, ok := parts[1].(target.JTProp)
	require.True(t, ok)
	require.Equal(t, "length", length.RawProp)
}

// Any other multi-value shape routes through MultiCall: fresh out-bound
// locals written by the callee, read back by the caller (spec.md §4.3
// Call, §9 "Multi-value flow without multiple returns").
func TestLowerCallMultiValueRoutesThroughMultiCall(t *testing.T) {
	s := symtab.New()
	in := demo.New()
	retTys := target.List([]target.JTy{target.I32, target.Bool})
	src, _ := bindCall(t, s, in, retTys)

	term := ir.TermCall{Fn: src}

	s.PushBlock()
	got := Term(term, s, in)
	stmts := s.PopBlock()

	require.Equal(t, 2, got.Len())
	require.Len(t, stmts, 1)
	mc, ok := stmts[0].(target.JSMultiCall)
	require.True(t, ok)
	require.Len(t, mc.Outs, 2)
	require.Equal(t, target.I32, mc.Outs[0].Ty)
	require.Equal(t, target.Bool, mc.Outs[1].Ty)

	for i, term := range got.Slice() {
		ref, ok := term.(target.JTVar)
		require.True(t, ok)
		require.Equal(t, mc.Outs[i].Var, ref.Var)
	}
}
