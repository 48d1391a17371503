// Package compiler turns parsed script functions into control-flow graphs.
// It tracks per-branch dataflow state in Contexts, reconciles values at
// control-flow joins by materializing storage where branches disagree, and
// hands finished graphs to the cfg package.
package compiler

import (
	"errors"

	"github.com/beatscript/beatscript/internal/cfg"
	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
	"github.com/beatscript/beatscript/internal/value"
)

// Result is one compiled callback: its flow graph plus the read-only
// memory image the compilation interned.
type Result struct {
	Name string
	CFG  *cfg.Graph
	Rom  []float64
}

// CompileCallback compiles one callback function for the given mode.
// Arguments and globals must already be resolved to values; a numeric
// return value is lowered into the engine's exit-with-result protocol.
func CompileCallback(mode *ir.Mode, callback string, fn *lang.FuncDef, args []value.Value, globals map[string]value.Value) (*Result, error) {
	return compile(NewGlobalState(mode, callback), fn, args, globals)
}

// ModeBuild compiles several callbacks of one mode against shared read-only
// memory and a shared constant-id table, so every callback of the mode
// addresses one rom image.
type ModeBuild struct {
	mode     *ir.Mode
	rom      *ReadOnlyMemory
	constIDs map[string]float64
}

func NewModeBuild(mode *ir.Mode) *ModeBuild {
	return &ModeBuild{
		mode:     mode,
		rom:      NewReadOnlyMemory(mode.Rom()),
		constIDs: make(map[string]float64),
	}
}

// Compile compiles one callback into the build. The returned result's Rom
// is the image accumulated so far; Rom() after the last callback yields
// the final shared image.
func (b *ModeBuild) Compile(callback string, fn *lang.FuncDef, args []value.Value, globals map[string]value.Value) (*Result, error) {
	g := NewGlobalState(b.mode, callback)
	g.Rom = b.rom
	g.constIDs = b.constIDs
	return compile(g, fn, args, globals)
}

// Rom returns the shared read-only memory image.
func (b *ModeBuild) Rom() []float64 {
	return b.rom.Data()
}

func compile(g *GlobalState, fn *lang.FuncDef, args []value.Value, globals map[string]value.Value) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			res, err = nil, ie
		}
	}()

	root := NewContext(g)
	vis := NewVisitor(root, globals)
	ret, err := vis.Run(fn, args, nil)
	if err != nil {
		return nil, err
	}
	if n, ok := ret.(*value.Num); ok {
		vis.Current().Emit(ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, n.IR()}})
	}
	return &Result{
		Name: g.Callback,
		CFG:  Materialize(root),
		Rom:  g.Rom.Data(),
	}, nil
}

// IsCompileError reports whether err is a user-facing compile error, as
// opposed to an internal invariant violation.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// IsInternalError reports whether err represents a compiler bug.
func IsInternalError(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
