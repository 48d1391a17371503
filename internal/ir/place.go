package ir

import "fmt"

// Block identifies a memory region a place may address: either a fixed
// engine block (DataBlock) or a compiler-allocated temporary (TempBlock).
type Block interface {
	blockKind()
	String() string
}

// TempBlock is a temporary storage region allocated by the compiler for one
// function. Names are unique within a compiled callback; the backend later
// assigns temporaries real addresses.
type TempBlock struct {
	Name string
	Size int
}

func (TempBlock) blockKind() {}

func (t TempBlock) String() string {
	return t.Name
}

// Index addresses a cell within a block: either a fixed offset or a value
// read from another place at runtime (shifted access for arrays).
type Index interface {
	indexKind()
	String() string
}

// IntIndex is a fixed element index.
type IntIndex int

func (IntIndex) indexKind() {}

func (i IntIndex) String() string {
	return fmt.Sprintf("%d", int(i))
}

// PlaceIndex reads the element index from another place at runtime.
type PlaceIndex struct {
	Place BlockPlace
}

func (PlaceIndex) indexKind() {}

func (p PlaceIndex) String() string {
	return p.Place.String()
}

// BlockPlace addresses one cell: a block, an element index, and a constant
// offset added to the index. Multi-cell values occupy consecutive offsets.
type BlockPlace struct {
	Block  Block
	Index  Index
	Offset int
}

// Place returns a BlockPlace at a fixed index within block.
func Place(block Block, index int) BlockPlace {
	return BlockPlace{Block: block, Index: IntIndex(index)}
}

// AddOffset returns a copy shifted by offset cells.
func (p BlockPlace) AddOffset(offset int) BlockPlace {
	p.Offset += offset
	return p
}

// WithIndex returns a copy addressing the element read from index at runtime.
func (p BlockPlace) WithIndex(index BlockPlace) BlockPlace {
	p.Index = PlaceIndex{Place: index}
	return p
}

func (p BlockPlace) String() string {
	if t, ok := p.Block.(TempBlock); ok && t.Size == 1 && p.Index == IntIndex(0) && p.Offset == 0 {
		return t.Name
	}
	if i, ok := p.Index.(IntIndex); ok {
		return fmt.Sprintf("%s[%d]", p.Block, int(i)+p.Offset)
	}
	if p.Offset == 0 {
		return fmt.Sprintf("%s[%s]", p.Block, p.Index)
	}
	return fmt.Sprintf("%s[%s + %d]", p.Block, p.Index, p.Offset)
}
