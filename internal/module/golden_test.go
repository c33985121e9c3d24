package module

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"bytec/internal/ir"
	"bytec/internal/irjson"
	"bytec/internal/symtab"
)

// swapArchive is a golden fixture for Scenario A (spec.md §8), stored
// txtar-style with an input.json file and the fragments expected.java
// must contain. It is the only txtar fixture here; the other lettered
// scenarios are covered by unit tests in internal/lower and internal/emit.
const swapArchive = `
-- input.json --
{
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
  "fns": [
    {"id": 1, "name": "swap"}
  ],
  "types": []
}
-- expected.java --
public static int swap$_ret0$S;
public static int swap$_ret1$S;
public static void swap(int a, int b) {
swap$_ret0$S = b;
swap$_ret1$S = a;
return;
`

func TestGoldenSwapMultiReturn(t *testing.T) {
	arc := txtar.Parse([]byte(swapArchive))
	var input, expected []byte
	for _, f := range arc.Files {
		switch f.Name {
		case "input.json":
			input = f.Data
		case "expected.java":
			expected = f.Data
		}
	}
	require.NotNil(t, input)
	require.NotNil(t, expected)

	mod, bnd, err := irjson.Decode(strings.NewReader(string(input)))
	require.NoError(t, err)

	mods := []ir.Module{mod}
	s := symtab.New()
	DeclareTypes(mods, s, bnd)
	tables := DeclareNames(mods, s, bnd)
	out := Codegen(mods, tables, s, bnd, "generated", "Demo")

	for _, line := range strings.Split(strings.TrimSpace(string(expected)), "\n") {
		require.Contains(t, out, strings.TrimSpace(line))
	}
}
