// Package engine executes compiled control-flow graphs directly, without
// serializing them to engine packages first. It exists as the reference
// oracle for the compiler: tests compile a script, run the graph here, and
// check the observable result against the source semantics.
package engine
