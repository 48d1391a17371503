package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/compiler"
	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
	"github.com/beatscript/beatscript/internal/value"
)

// Case is one compilable script under test.
type Case struct {
	Name     string
	Fn       *lang.FuncDef
	Args     []value.Value
	Globals  map[string]value.Value
	Mode     *ir.Mode // defaults to PlayMode
	Callback string   // defaults to "updateSequential"
}

func (c Case) mode() *ir.Mode {
	if c.Mode != nil {
		return c.Mode
	}
	return ir.PlayMode
}

func (c Case) callback() string {
	if c.Callback != "" {
		return c.Callback
	}
	return "updateSequential"
}

// Compile compiles the case.
func Compile(c Case) (*compiler.Result, error) {
	return compiler.CompileCallback(c.mode(), c.callback(), c.Fn, c.Args, c.Globals)
}

// MustCompile compiles the case, failing the test on any compile error.
func MustCompile(t *testing.T, c Case) *compiler.Result {
	t.Helper()
	res, err := Compile(c)
	require.NoError(t, err, "compiling %s", c.Fn.Name)
	return res
}

// RequireCompileError asserts the case fails to compile with a user-facing
// error containing want.
func RequireCompileError(t *testing.T, c Case, want string) {
	t.Helper()
	_, err := Compile(c)
	require.Error(t, err, "expected %s to fail", c.Fn.Name)
	require.True(t, compiler.IsCompileError(err), "expected a compile error, got %v", err)
	require.ErrorContains(t, err, want)
}
