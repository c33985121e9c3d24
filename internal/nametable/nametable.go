// Package nametable holds the one mapping from opaque backend id to
// (qualified source path, mangle-flag) that both module orchestration
// (writer) and the emitter (reader) share for one codegen run (spec.md
// §3 "Name table", §4.7).
package nametable

// Entry is what one opaque id resolves to: its qualified dotted path in
// source order (outermost first) and whether the emitted identifier
// must be mangled with `$<id>` to stay globally unique.
type Entry struct {
	Path   []string
	Mangle bool
}

// Table is populated once during Declare-P2 / module merging and is
// read-only from then on, including throughout emission.
type Table struct {
	entries map[uint64]Entry
}

func New() *Table {
	return &Table{entries: make(map[uint64]Entry)}
}

func (t *Table) Insert(id uint64, path []string, mangle bool) {
	t.entries[id] = Entry{Path: path, Mangle: mangle}
}

func (t *Table) Lookup(id uint64) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// Merge copies every entry of every table into one new table, stripping
// a leading path component equal to that table's map key (its home
// module) from any path of two or more components (an unqualified
// self-reference — spec.md §4.7, §8 property 11).
func Merge(tables map[string]*Table) *Table {
	out := New()
	for home, tbl := range tables {
		for id, e := range tbl.entries {
			path := e.Path
			if len(path) > 1 && path[0] == home {
				path = path[1:]
			}
			out.entries[id] = Entry{Path: path, Mangle: e.Mangle}
		}
	}
	return out
}
