// Package lang defines the syntax tree of the embedded scripting language.
//
// The tree arrives already parsed and name-resolved; this package only
// models it. Node positions carry file and line for diagnostics. Constructs
// outside the compiled subset are represented explicitly (UnsupportedStmt,
// UnsupportedExpr, UnsupportedPattern) so the compiler can reject each one
// with a construct-specific message instead of a generic failure.
package lang
