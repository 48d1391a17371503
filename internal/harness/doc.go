// Package harness drives end-to-end compiler tests: compile a script,
// render or execute the resulting graph, and compare against golden files
// or the reference machine.
package harness
