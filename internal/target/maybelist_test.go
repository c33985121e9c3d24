package target

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaybeListOne(t *testing.T) {
	m := One(42)
	require.Equal(t, 1, m.Len())
	require.False(t, m.IsNone())
	require.Equal(t, 42, m.One())
	require.Equal(t, []int{42}, m.Slice())
}

func TestMaybeListTuple(t *testing.T) {
	m := List([]int{1, 2, 3})
	require.Equal(t, 3, m.Len())
	require.False(t, m.IsNone())
	require.Equal(t, []int{1, 2, 3}, m.Slice())
}

func TestMaybeListEmptyIsNone(t *testing.T) {
	m := Empty[int]()
	require.True(t, m.IsNone())
	require.Equal(t, 0, m.Len())
	require.Empty(t, m.Slice())
}

func TestMaybeListOneRequiresSingleton(t *testing.T) {
	m := List([]int{1, 2})
	require.Panics(t, func() { m.One() })
}

func TestMaybeListOneAcceptsSingletonTuple(t *testing.T) {
	m := List([]int{7})
	require.Equal(t, 7, m.One())
}

func TestMapMaybeListPreservesShape(t *testing.T) {
	one := MapMaybeList(One(2), func(v int) int { return v * 10 })
	require.Equal(t, 1, one.Len())
	require.Equal(t, 20, one.One())

	tuple := MapMaybeList(List([]int{1, 2, 3}), func(v int) int { return v * 10 })
	require.Equal(t, []int{10, 20, 30}, tuple.Slice())
}

func TestTermsTyPreservesShape(t *testing.T) {
	terms := List([]JTerm{
		JTLit{Lit: JLit{Kind: LInt, Int: 1}},
		JTLit{Lit: JLit{Kind: LBool, Bool: true}},
	})
	tys := TermsTy(terms)
	require.Equal(t, []JTy{I32, Bool}, tys.Slice())
}
