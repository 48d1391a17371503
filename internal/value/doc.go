// Package value implements the typed values the embedded language
// manipulates and the protocol the compiler drives them through.
//
// Every value is either constant-foldable (known at compile time) or backed
// by runtime storage cells. Value-semantics types (Num) support direct
// storage assignment and are eligible for materialization at control-flow
// joins; reference types (Record, Array) alias their storage and are merged
// conservatively. Operator and attribute access dispatch through closed
// capability interfaces implemented in this package - there is no open
// reflection-based protocol.
package value
