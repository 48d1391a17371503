// Package testutil provides compact builders for script syntax trees, so
// tests read close to the source they stand for.
package testutil
