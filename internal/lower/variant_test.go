package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bytec/internal/demo"
	"bytec/internal/ir"
	"bytec/internal/symtab"
	"bytec/internal/target"
)

// Scenario B (spec.md §8): constructing E::A(7) spills a
// wrapper$_variant local, sets $type, then sets the one payload field.
func TestLowerVariantWithPayloadSpillsWrapper(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	enumSrc := ir.TypeId(1)
	enumClass := s.FreshClass()
	s.BindClass(enumSrc, enumClass)
	wrapperClass := s.FreshClass()
	s.RegisterWrapper(enumClass, &target.JWrapper{Class: wrapperClass, Enum: enumClass})

	variant := in.Raw("A")
	term := ir.TermVariant{Enum: enumSrc, Variant: variant, Args: []ir.Term{intLitIR(7)}}

	s.PushBlock()
	result := Term(term, s, in)
	stmts := s.PopBlock()

	require.Equal(t, 1, result.Len())
	ref, ok := result.One().(target.JTVar)
	require.True(t, ok)

	require.Len(t, stmts, 3)

	let, ok := stmts[0].(target.JSLet)
	require.True(t, ok)
	require.Equal(t, ref.Var, let.Var)
	newTerm, ok := let.Init.(target.JTNew)
	require.True(t, ok)
	require.Equal(t, wrapperClass, newTerm.Class)

	typeSet, ok := stmts[1].(target.JSSet)
	require.True(t, ok)
	typeProp, ok := typeSet.LV.(target.JTProp)
	require.True(t, ok)
	require.Equal(t, "$type", typeProp.RawProp)
	tagTerm, ok := typeSet.RHS.(target.JTVariant)
	require.True(t, ok)
	require.Equal(t, uint64(variant), tagTerm.Variant)

	payloadSet, ok := stmts[2].(target.JSSet)
	require.True(t, ok)
	payloadProp, ok := payloadSet.LV.(target.JTProp)
	require.True(t, ok)
	require.Equal(t, "_enum$A$0", payloadProp.RawProp)
	payloadLit, ok := payloadSet.RHS.(target.JTLit)
	require.True(t, ok)
	require.Equal(t, int32(7), payloadLit.Lit.Int)
}

// A payload-less variant on an enum with no wrapper lowers to the bare
// enum constant with no emitted statements.
func TestLowerVariantWithoutWrapperIsBare(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	enumSrc := ir.TypeId(2)
	enumClass := s.FreshClass()
	s.BindClass(enumSrc, enumClass)

	variant := in.Raw("Square")
	term := ir.TermVariant{Enum: enumSrc, Variant: variant}

	s.PushBlock()
	result := Term(term, s, in)
	stmts := s.PopBlock()

	require.Empty(t, stmts)
	v, ok := result.One().(target.JTVariant)
	require.True(t, ok)
	require.Equal(t, enumClass, v.Class)
	require.Equal(t, uint64(variant), v.Variant)
}

// Supplying payload args to an enum with no wrapper is a structural
// mismatch the frontend should never produce; it aborts rather than
// silently dropping the args.
func TestLowerVariantPayloadWithoutWrapperAborts(t *testing.T) {
	s := symtab.New()
	in := demo.New()

	enumSrc := ir.TypeId(3)
	enumClass := s.FreshClass()
	s.BindClass(enumSrc, enumClass)

	term := ir.TermVariant{Enum: enumSrc, Variant: in.Raw("A"), Args: []ir.Term{intLitIR(1)}}
	require.Panics(t, func() { Term(term, s, in) })
}
