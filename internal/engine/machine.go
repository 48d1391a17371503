package engine

import (
	"math"

	"github.com/beatscript/beatscript/internal/cfg"
	"github.com/beatscript/beatscript/internal/ir"
)

// DefaultStepQuota bounds the number of basic block transitions one run
// may take before it is declared a runaway loop.
const DefaultStepQuota = 1_000_000

// Machine executes a compiled graph over block-addressed numeric memory.
// Temporary blocks spring into existence on first touch; data blocks must
// be installed up front with Load.
type Machine struct {
	mem   map[ir.Block][]float64
	quota int
	block int

	// Log collects DebugLog values in execution order.
	Log []float64
}

func NewMachine() *Machine {
	return &Machine{mem: make(map[ir.Block][]float64), quota: DefaultStepQuota, block: -1}
}

// WithQuota overrides the step quota.
func (m *Machine) WithQuota(n int) *Machine {
	m.quota = n
	return m
}

// Load installs the contents of a data block, growing it as needed.
func (m *Machine) Load(b *ir.DataBlock, values []float64) {
	m.mem[b] = append([]float64(nil), values...)
}

// Read returns the current value of one cell.
func (m *Machine) Read(p ir.BlockPlace) (float64, error) {
	idx, err := m.resolve(p)
	if err != nil {
		return 0, err
	}
	cells := m.mem[p.Block]
	if idx >= len(cells) {
		return 0, nil
	}
	return cells[idx], nil
}

func (m *Machine) write(p ir.BlockPlace, v float64) error {
	idx, err := m.resolve(p)
	if err != nil {
		return err
	}
	cells := m.mem[p.Block]
	for idx >= len(cells) {
		cells = append(cells, 0)
	}
	cells[idx] = v
	m.mem[p.Block] = cells
	return nil
}

func (m *Machine) resolve(p ir.BlockPlace) (int, error) {
	base := 0
	switch idx := p.Index.(type) {
	case ir.IntIndex:
		base = int(idx)
	case ir.PlaceIndex:
		v, err := m.Read(idx.Place)
		if err != nil {
			return 0, err
		}
		base = int(v)
	}
	n := base + p.Offset
	if n < 0 {
		return 0, runtimeErrf(ErrCodeBadAccess, m.block, "negative cell index %d in %s", n, p.Block)
	}
	return n, nil
}

// exitSignal carries the Break protocol through evaluation.
type exitSignal struct {
	value float64
}

// Run executes the graph from its entry block. The result is the value
// carried by the first exit-with-result instruction, or zero when
// execution falls off the graph without one.
func (m *Machine) Run(g *cfg.Graph) (float64, error) {
	cur := g.Entry
	steps := 0
	for cur != nil {
		if steps++; steps > m.quota {
			return 0, runtimeErrf(ErrCodeQuotaExceeded, m.block, "exceeded %d steps", m.quota)
		}
		m.block = cur.ID
		for _, s := range cur.Stmts {
			_, exit, err := m.eval(s)
			if err != nil {
				return 0, err
			}
			if exit != nil {
				return exit.value, nil
			}
		}
		if len(cur.Out) == 0 {
			return 0, nil
		}
		// Straight-line blocks carry no test; they select edges as the
		// constant zero would.
		test := 0.0
		if cur.Test != nil {
			v, exit, err := m.eval(cur.Test)
			if err != nil {
				return 0, err
			}
			if exit != nil {
				return exit.value, nil
			}
			test = v
		}
		next, ok := cur.SuccessorOn(test)
		if !ok {
			return 0, nil
		}
		cur = next
	}
	return 0, nil
}

func (m *Machine) eval(s ir.Stmt) (float64, *exitSignal, error) {
	switch s := s.(type) {
	case ir.Const:
		return s.Value, nil, nil
	case ir.Get:
		v, err := m.Read(s.Place)
		return v, nil, err
	case ir.Set:
		v, exit, err := m.eval(s.Value)
		if err != nil || exit != nil {
			return 0, exit, err
		}
		return v, nil, m.write(s.Place, v)
	case ir.PureInstr:
		args := make([]ir.Stmt, len(s.Args))
		for i, a := range s.Args {
			args[i] = a
		}
		return m.evalOp(s.Op, args)
	case ir.Instr:
		return m.evalOp(s.Op, s.Args)
	}
	return 0, nil, runtimeErrf(ErrCodeUnknownOp, m.block, "unknown statement kind")
}

func (m *Machine) evalArgs(args []ir.Stmt) ([]float64, *exitSignal, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, exit, err := m.eval(a)
		if err != nil || exit != nil {
			return nil, exit, err
		}
		out[i] = v
	}
	return out, nil, nil
}

func (m *Machine) evalOp(op ir.Op, args []ir.Stmt) (float64, *exitSignal, error) {
	switch op {
	case ir.OpExecute:
		var last float64
		for _, a := range args {
			v, exit, err := m.eval(a)
			if err != nil || exit != nil {
				return 0, exit, err
			}
			last = v
		}
		return last, nil, nil
	case ir.OpIf:
		test, exit, err := m.eval(args[0])
		if err != nil || exit != nil {
			return 0, exit, err
		}
		if test != 0 {
			return m.eval(args[1])
		}
		return m.eval(args[2])
	case ir.OpAnd:
		var last float64
		for _, a := range args {
			v, exit, err := m.eval(a)
			if err != nil || exit != nil {
				return 0, exit, err
			}
			last = v
			if v == 0 {
				break
			}
		}
		return last, nil, nil
	case ir.OpOr:
		var last float64
		for _, a := range args {
			v, exit, err := m.eval(a)
			if err != nil || exit != nil {
				return 0, exit, err
			}
			last = v
			if v != 0 {
				break
			}
		}
		return last, nil, nil
	case ir.OpBreak:
		vals, exit, err := m.evalArgs(args)
		if err != nil || exit != nil {
			return 0, exit, err
		}
		return 0, &exitSignal{value: vals[1]}, nil
	case ir.OpDebugLog:
		vals, exit, err := m.evalArgs(args)
		if err != nil || exit != nil {
			return 0, exit, err
		}
		m.Log = append(m.Log, vals[0])
		return 0, nil, nil
	case ir.OpDebugPause:
		return 0, nil, nil
	}

	vals, exit, err := m.evalArgs(args)
	if err != nil || exit != nil {
		return 0, exit, err
	}
	v, err := m.evalPure(op, vals)
	return v, nil, err
}

func (m *Machine) evalPure(op ir.Op, a []float64) (float64, error) {
	switch op {
	case ir.OpAdd:
		return reduce(a, func(x, y float64) float64 { return x + y }), nil
	case ir.OpSubtract:
		return reduce(a, func(x, y float64) float64 { return x - y }), nil
	case ir.OpMultiply:
		return reduce(a, func(x, y float64) float64 { return x * y }), nil
	case ir.OpDivide:
		for _, y := range a[1:] {
			if y == 0 {
				return 0, runtimeErrf(ErrCodeDivisionByZero, m.block, "division by zero")
			}
		}
		return reduce(a, func(x, y float64) float64 { return x / y }), nil
	case ir.OpMod:
		for _, y := range a[1:] {
			if y == 0 {
				return 0, runtimeErrf(ErrCodeDivisionByZero, m.block, "modulo by zero")
			}
		}
		return reduce(a, floorMod), nil
	case ir.OpRem:
		if a[1] == 0 {
			return 0, runtimeErrf(ErrCodeDivisionByZero, m.block, "remainder by zero")
		}
		return math.Mod(a[0], a[1]), nil
	case ir.OpPower:
		return math.Pow(a[0], a[1]), nil
	case ir.OpNegate:
		return -a[0], nil
	case ir.OpNot:
		return boolVal(a[0] == 0), nil
	case ir.OpAbs:
		return math.Abs(a[0]), nil
	case ir.OpSign:
		switch {
		case a[0] > 0:
			return 1, nil
		case a[0] < 0:
			return -1, nil
		}
		return 0, nil
	case ir.OpFloor:
		return math.Floor(a[0]), nil
	case ir.OpCeil:
		return math.Ceil(a[0]), nil
	case ir.OpRound:
		return math.RoundToEven(a[0]), nil
	case ir.OpTrunc:
		return math.Trunc(a[0]), nil
	case ir.OpFrac:
		f := floorMod(a[0], 1)
		return f, nil
	case ir.OpMin:
		return math.Min(a[0], a[1]), nil
	case ir.OpMax:
		return math.Max(a[0], a[1]), nil
	case ir.OpClamp:
		return math.Max(a[1], math.Min(a[2], a[0])), nil
	case ir.OpLerp:
		return a[0] + (a[1]-a[0])*a[2], nil
	case ir.OpUnlerp:
		if a[1] == a[0] {
			return 0, runtimeErrf(ErrCodeDivisionByZero, m.block, "unlerp over empty range")
		}
		return (a[2] - a[0]) / (a[1] - a[0]), nil
	case ir.OpRemap:
		if a[1] == a[0] {
			return 0, runtimeErrf(ErrCodeDivisionByZero, m.block, "remap over empty range")
		}
		return a[2] + (a[3]-a[2])*((a[4]-a[0])/(a[1]-a[0])), nil
	case ir.OpSin:
		return math.Sin(a[0]), nil
	case ir.OpCos:
		return math.Cos(a[0]), nil
	case ir.OpTan:
		return math.Tan(a[0]), nil
	case ir.OpArcsin:
		return math.Asin(a[0]), nil
	case ir.OpArccos:
		return math.Acos(a[0]), nil
	case ir.OpArctan:
		return math.Atan(a[0]), nil
	case ir.OpLog:
		return math.Log(a[0]), nil
	case ir.OpEqual:
		return boolVal(a[0] == a[1]), nil
	case ir.OpNotEqual:
		return boolVal(a[0] != a[1]), nil
	case ir.OpLess:
		return boolVal(a[0] < a[1]), nil
	case ir.OpLessOr:
		return boolVal(a[0] <= a[1]), nil
	case ir.OpGreater:
		return boolVal(a[0] > a[1]), nil
	case ir.OpGreaterOr:
		return boolVal(a[0] >= a[1]), nil
	}
	return 0, runtimeErrf(ErrCodeUnknownOp, m.block, "operation %s is not executable here", op)
}

func reduce(a []float64, f func(x, y float64) float64) float64 {
	if len(a) == 0 {
		return 0
	}
	acc := a[0]
	for _, v := range a[1:] {
		acc = f(acc, v)
	}
	return acc
}

// floorMod is the host language's modulo: the result carries the divisor's
// sign.
func floorMod(x, y float64) float64 {
	m := math.Mod(x, y)
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
