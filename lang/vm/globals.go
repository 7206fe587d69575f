package vm

import (
	"github.com/dolthub/swiss"

	"github.com/mna/scarab/lang/value"
)

// Globals holds the VM's global bindings. Per spec.md §9 ("Globals keyed by
// value"), the only way to name a global is through an interned Str
// constant, so the table keys directly on value.Value rather than raw
// strings. It is backed by a swiss-table map for fast exact-equality
// lookups, the same structure the teacher's machine.Map uses for Scarab
// maps.
type Globals struct {
	m *swiss.Map[value.Value, value.Value]
}

// NewGlobals returns an empty globals table.
func NewGlobals() *Globals {
	return &Globals{m: swiss.NewMap[value.Value, value.Value](8)}
}

// Get returns the value bound to name and whether it was defined.
func (g *Globals) Get(name value.Value) (value.Value, bool) {
	return g.m.Get(name)
}

// Define binds name to v unconditionally, used by DEFINE_GLOBAL.
func (g *Globals) Define(name, v value.Value) {
	g.m.Put(name, v)
}

// Set rebinds an existing name to v, used by SET_GLOBAL. It reports
// whether name was already defined; callers must treat false as a runtime
// error, per spec.md's "SET_GLOBAL on an undefined name is a runtime
// error".
func (g *Globals) Set(name, v value.Value) bool {
	if _, ok := g.m.Get(name); !ok {
		return false
	}
	g.m.Put(name, v)
	return true
}
