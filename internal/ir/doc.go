// Package ir defines the engine-level intermediate representation produced
// by the compiler: statements and expressions over numeric storage cells,
// the operation vocabulary with its purity and side-effect metadata, and the
// storage model (memory blocks, temporaries, and places within them).
//
// IR values are immutable once constructed. The compiler front-end emits
// them into contexts; the CFG layer copies them into basic blocks; the
// engine interprets them. Nothing in this package allocates storage or
// tracks dataflow - that is the compiler's job.
package ir
