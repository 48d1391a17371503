package ir

// DataBlock is a fixed engine memory region. Each block declares which
// callbacks may read and write it; the compiler rejects accesses outside
// those sets at compile time.
type DataBlock struct {
	ID       int
	Name     string
	Readable []string
	Writable []string
}

func (*DataBlock) blockKind() {}

func (b *DataBlock) String() string {
	return b.Name
}

// ReadableBy reports whether callback may read this block.
func (b *DataBlock) ReadableBy(callback string) bool {
	return contains(b.Readable, callback)
}

// WritableBy reports whether callback may write this block.
func (b *DataBlock) WritableBy(callback string) bool {
	return contains(b.Writable, callback)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
