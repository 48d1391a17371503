package compiler

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
)

// GlobalState is shared by every context of one callback compilation: the
// target mode, interned read-only memory, constant ids, and the temporary
// allocator.
type GlobalState struct {
	Mode     *ir.Mode
	Callback string
	Rom      *ReadOnlyMemory

	constIDs map[string]float64
	temps    map[string]int
}

func NewGlobalState(mode *ir.Mode, callback string) *GlobalState {
	return &GlobalState{
		Mode:     mode,
		Callback: callback,
		Rom:      NewReadOnlyMemory(mode.Rom()),
		constIDs: make(map[string]float64),
		temps:    make(map[string]int),
	}
}

// AllocTemp returns a fresh temporary block place. Counters are per seed
// name and per function, so each call yields a distinct block and place
// equality means same cell.
func (g *GlobalState) AllocTemp(name string, size int) ir.BlockPlace {
	g.temps[name]++
	block := ir.TempBlock{Name: fmt.Sprintf("%s%d", name, g.temps[name]), Size: size}
	return ir.Place(block, 0)
}

// ConstID interns key and returns its stable id. Ids are dense, starting
// at zero, in first-seen order.
func (g *GlobalState) ConstID(key string) float64 {
	id, ok := g.constIDs[key]
	if !ok {
		id = float64(len(g.constIDs))
		g.constIDs[key] = id
	}
	return id
}
