package irjson

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"bytec/internal/ir"
)

// TestDecodeFnItem exercises the common path: a single public fn item
// with scalar args, a tuple return, and a var-referencing tuple body.
// Scenario A's swap function (spec.md §8), decoded down to the ir.Module
// it must produce.
func TestDecodeFnItem(t *testing.T) {
	const doc = `{
  "module": {
    "name": "demo",
    "items": [
      {
        "kind": "fn",
        "name": "swap",
        "fn": {
          "id": 1,
          "args": [
            {"name": 10, "ty": {"kind": "i32"}},
            {"name": 11, "ty": {"kind": "i32"}}
          ],
          "retTy": {"kind": "tuple", "tuple": [{"kind": "i32"}, {"kind": "i32"}]},
          "public": true,
          "body": {
            "kind": "tuple",
            "elems": [
              {"kind": "var", "sym": 11},
              {"kind": "var", "sym": 10}
            ]
          }
        }
      }
    ]
  },
  "symbols": [
    {"id": 10, "path": ["swap", "a"], "public": true},
    {"id": 11, "path": ["swap", "b"], "public": true}
  ],
  "fns": [{"id": 1, "name": "swap"}],
  "types": []
}`

	mod, bnd, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	want := ir.Module{
		Name: "demo",
		Items: []ir.Item{
			ir.ItemFn{
				Name: bnd.Raw("swap"),
				Fn: ir.Fn{
					Id: ir.FnId(1),
					Args: []ir.FnArg{
						{Name: ir.Sym(10), Ty: ir.I32},
						{Name: ir.Sym(11), Ty: ir.I32},
					},
					RetTy:  ir.TupleOf(ir.I32, ir.I32),
					Public: true,
					Body: ir.TermTuple{Elems: []ir.Term{
						ir.TermVar{Sym: ir.Sym(11)},
						ir.TermVar{Sym: ir.Sym(10)},
					}},
				},
			},
		},
	}

	if diff := cmp.Diff(want, mod, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("decoded module mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, ir.Path{"swap", "a"}, bnd.SymPath(ir.Sym(10)))
	require.True(t, bnd.Public(ir.Sym(10)))
	require.Equal(t, "swap", bnd.ResolveRaw(bnd.FnName(ir.FnId(1))))
}

// TestDecodeEnumItem covers the "variant"/enum item path, including a
// payload-bearing variant (Scenario B, spec.md §8).
func TestDecodeEnumItem(t *testing.T) {
	const doc = `{
  "module": {
    "name": "demo",
    "items": [
      {
        "kind": "enum",
        "class": 5,
        "variants": [
          {"name": "A", "payloadTypes": [{"kind": "i32"}]},
          {"name": "B"}
        ]
      }
    ]
  },
  "symbols": [],
  "fns": [],
  "types": [{"id": 5, "name": "E"}]
}`
	mod, bnd, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, mod.Items, 1)

	enum, ok := mod.Items[0].(ir.ItemEnum)
	require.True(t, ok)
	require.Equal(t, ir.TypeId(5), enum.Class)
	require.Len(t, enum.Variants, 2)
	require.Equal(t, "A", bnd.ResolveRaw(enum.Variants[0].Name))
	require.Equal(t, []ir.Type{ir.I32}, enum.Variants[0].PayloadTypes)
	require.Equal(t, "B", bnd.ResolveRaw(enum.Variants[1].Name))
	require.Empty(t, enum.Variants[1].PayloadTypes)
	require.Equal(t, "E", bnd.ResolveRaw(bnd.TypeName(ir.TypeId(5))))
}

// TestDecodeMatchTerm covers the nested-RawMessage match/arm path
// (Scenario B's read side, spec.md §8), including a binds list.
func TestDecodeMatchTerm(t *testing.T) {
	const doc = `{
  "module": {
    "name": "demo",
    "items": [
      {
        "kind": "fn",
        "name": "area",
        "fn": {
          "id": 1,
          "retTy": {"kind": "i32"},
          "public": true,
          "body": {
            "kind": "match",
            "scrutinee": {"kind": "var", "sym": 1},
            "arms": [
              {"variant": "Circle", "binds": [2], "body": {"kind": "var", "sym": 2}},
              {"body": {"kind": "lit", "lit": {"kind": "int", "int": 0}, "ty": {"kind": "i32"}}}
            ]
          }
        }
      }
    ]
  },
  "symbols": [],
  "fns": [{"id": 1, "name": "area"}],
  "types": []
}`
	mod, _, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	fn := mod.Items[0].(ir.ItemFn).Fn
	match, ok := fn.Body.(ir.TermMatch)
	require.True(t, ok)
	require.Equal(t, ir.TermVar{Sym: ir.Sym(1)}, match.Scrutinee)
	require.Len(t, match.Arms, 2)
	require.NotNil(t, match.Arms[0].Variant)
	require.Equal(t, []ir.Sym{ir.Sym(2)}, match.Arms[0].Binds)
	require.Nil(t, match.Arms[1].Variant)
}

// TestDecodeArrayOpsAndStatements covers StmtForIn/StmtWhile/StmtAssign
// plus the arrayOp term, since no other golden fixture exercises the
// statement-level decode path.
func TestDecodeArrayOpsAndStatements(t *testing.T) {
	const doc = `{
  "module": {
    "name": "demo",
    "items": [
      {
        "kind": "fn",
        "name": "sumAll",
        "fn": {
          "id": 1,
          "args": [{"name": 1, "ty": {"kind": "array", "elem": {"kind": "i32"}}}],
          "retTy": {"kind": "unit"},
          "public": true,
          "body": {
            "kind": "block",
            "stmts": [
              {
                "kind": "forIn",
                "name": 2,
                "array": {"kind": "var", "sym": 1},
                "body": [
                  {
                    "kind": "assign",
                    "lvalue": {"kind": "var", "sym": 2},
                    "compoundOp": "add",
                    "rhs": {"kind": "lit", "lit": {"kind": "int", "int": 1}, "ty": {"kind": "i32"}}
                  }
                ]
              },
              {
                "kind": "term",
                "x": {"kind": "arrayOp", "op": "clear", "array": {"kind": "var", "sym": 1}}
              }
            ]
          }
        }
      }
    ]
  },
  "symbols": [],
  "fns": [{"id": 1, "name": "sumAll"}],
  "types": []
}`
	mod, _, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	fn := mod.Items[0].(ir.ItemFn).Fn
	block, ok := fn.Body.(ir.TermBlock)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)

	forIn, ok := block.Stmts[0].(ir.StmtForIn)
	require.True(t, ok)
	require.Equal(t, ir.Sym(2), forIn.Name)
	require.Len(t, forIn.Body, 1)

	assign, ok := forIn.Body[0].(ir.StmtAssign)
	require.True(t, ok)
	require.NotNil(t, assign.CompoundOp)
	require.Equal(t, ir.OpAdd, *assign.CompoundOp)

	termStmt, ok := block.Stmts[1].(ir.StmtTerm)
	require.True(t, ok)
	arrOp, ok := termStmt.X.(ir.TermArrayOp)
	require.True(t, ok)
	require.Equal(t, ir.ArrayClear, arrOp.Kind)
}

// TestBindingsCreateContinuesPastLoadedIds confirms Create (the only
// path a hand-rolled frontend shim needs, since the backend itself never
// mints symbols) never collides with an id reserved by the document.
func TestBindingsCreateContinuesPastLoadedIds(t *testing.T) {
	const doc = `{"module": {"name": "m", "items": []}, "symbols": [{"id": 100, "path": ["x"], "public": false}], "fns": [], "types": []}`
	_, bnd, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	fresh := bnd.Create(ir.Path{"y"}, true)
	require.NotEqual(t, ir.Sym(100), fresh)
	require.Equal(t, ir.Path{"y"}, bnd.SymPath(fresh))
	require.True(t, bnd.Public(fresh))
}
