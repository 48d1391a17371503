package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/engine"
)

// Exec compiles the case and runs it on the reference machine with the
// compiled rom loaded. Returns the exit value and the machine for further
// inspection (debug log, memory).
func Exec(t *testing.T, c Case) (float64, *engine.Machine) {
	t.Helper()
	res := MustCompile(t, c)

	m := engine.NewMachine()
	m.Load(c.mode().Rom(), res.Rom)
	got, err := m.Run(res.CFG)
	require.NoError(t, err, "running %s", c.Fn.Name)
	return got, m
}

// RequireExit compiles and runs the case and asserts its exit value.
func RequireExit(t *testing.T, c Case, want float64) {
	t.Helper()
	got, _ := Exec(t, c)
	require.Equal(t, want, got, "exit value of %s", c.Fn.Name)
}
