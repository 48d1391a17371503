package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/compiler"
	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	fn := &lang.FuncDef{Name: "setup"}
	require.NoError(t, r.Register(fn))

	got, ok := r.Lookup("setup")
	require.True(t, ok)
	assert.Same(t, fn, got)

	_, ok = r.Lookup("absent")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicatesAndAnonymous(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&lang.FuncDef{Name: "setup"}))

	err := r.Register(&lang.FuncDef{Name: "setup"})
	assert.ErrorContains(t, err, `script "setup" already registered`)

	err = r.Register(&lang.FuncDef{})
	assert.ErrorContains(t, err, "script has no name")
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(&lang.FuncDef{Name: name}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestDemoScriptsCompile(t *testing.T) {
	r := Demo()
	assert.Equal(t, []string{"always_spawn", "half_life", "sum_of_squares"}, r.Names())

	build := compiler.NewModeBuild(ir.PlayMode)
	for _, name := range r.Names() {
		fn, ok := r.Lookup(name)
		require.True(t, ok)
		_, err := build.Compile("updateSequential", fn, nil, nil)
		require.NoError(t, err, name)
	}
}
