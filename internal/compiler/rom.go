package compiler

import (
	"fmt"
	"strings"

	"github.com/beatscript/beatscript/internal/ir"
)

// ReadOnlyMemory interns constant sequences into the mode's ROM block.
// Identical sequences share one region across the whole compilation unit.
type ReadOnlyMemory struct {
	block  *ir.DataBlock
	offset int
	intern map[string]int
	data   []float64
}

func NewReadOnlyMemory(block *ir.DataBlock) *ReadOnlyMemory {
	return &ReadOnlyMemory{block: block, intern: make(map[string]int)}
}

// Put interns values and returns the place of the first cell.
func (m *ReadOnlyMemory) Put(values []float64) ir.BlockPlace {
	key := romKey(values)
	off, ok := m.intern[key]
	if !ok {
		off = m.offset
		m.intern[key] = off
		m.offset += len(values)
		m.data = append(m.data, values...)
	}
	return ir.Place(m.block, off)
}

// Data returns the packed ROM image.
func (m *ReadOnlyMemory) Data() []float64 {
	return append([]float64(nil), m.data...)
}

func romKey(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "%x,", v)
	}
	return b.String()
}
