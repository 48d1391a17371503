package project

import (
	"fmt"
	"sort"

	"github.com/beatscript/beatscript/internal/lang"
)

// Registry resolves manifest script names to function bodies. Scripts are
// registered by the embedding application before a build runs.
type Registry struct {
	scripts map[string]*lang.FuncDef
}

func NewRegistry() *Registry {
	return &Registry{scripts: make(map[string]*lang.FuncDef)}
}

// Register adds a script under its function name.
func (r *Registry) Register(fn *lang.FuncDef) error {
	if fn.Name == "" {
		return fmt.Errorf("script has no name")
	}
	if _, ok := r.scripts[fn.Name]; ok {
		return fmt.Errorf("script %q already registered", fn.Name)
	}
	r.scripts[fn.Name] = fn
	return nil
}

// Lookup returns the script registered under name.
func (r *Registry) Lookup(name string) (*lang.FuncDef, bool) {
	fn, ok := r.scripts[name]
	return fn, ok
}

// Names lists registered scripts in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Demo returns a registry of small reference scripts. The CLI falls back to
// it when no application registry is wired in, so a fresh checkout can build
// and dump something real.
func Demo() *Registry {
	r := NewRegistry()
	for _, fn := range demoScripts() {
		if err := r.Register(fn); err != nil {
			panic(err)
		}
	}
	return r
}

func demoScripts() []*lang.FuncDef {
	name := func(id string) *lang.Name { return &lang.Name{ID: id} }
	num := func(v float64) *lang.NumLit { return &lang.NumLit{Value: v} }

	// def always_spawn(): return True
	alwaysSpawn := &lang.FuncDef{
		Name: "always_spawn",
		Body: []lang.Stmt{
			&lang.Return{Value: &lang.BoolLit{Value: true}},
		},
	}

	// def sum_of_squares():
	//     total = 0
	//     for i in range(5):
	//         total += i * i
	//     return total
	sumOfSquares := &lang.FuncDef{
		Name: "sum_of_squares",
		Body: []lang.Stmt{
			&lang.Assign{Targets: []lang.Expr{name("total")}, Value: num(0)},
			&lang.For{
				Target: name("i"),
				Iter:   &lang.Call{Func: name("range"), Args: []lang.Expr{num(5)}},
				Body: []lang.Stmt{
					&lang.AugAssign{
						Target: name("total"),
						Op:     lang.OpAdd,
						Value:  &lang.BinExpr{Left: name("i"), Op: lang.OpMult, Right: name("i")},
					},
				},
			},
			&lang.Return{Value: name("total")},
		},
	}

	// def half_life():
	//     x = 256
	//     steps = 0
	//     while x > 1:
	//         x = x / 2
	//         steps += 1
	//     return steps
	halfLife := &lang.FuncDef{
		Name: "half_life",
		Body: []lang.Stmt{
			&lang.Assign{Targets: []lang.Expr{name("x")}, Value: num(256)},
			&lang.Assign{Targets: []lang.Expr{name("steps")}, Value: num(0)},
			&lang.While{
				Test: &lang.Compare{
					Left:        name("x"),
					Ops:         []lang.CmpOp{lang.OpGt},
					Comparators: []lang.Expr{num(1)},
				},
				Body: []lang.Stmt{
					&lang.Assign{
						Targets: []lang.Expr{name("x")},
						Value:   &lang.BinExpr{Left: name("x"), Op: lang.OpDiv, Right: num(2)},
					},
					&lang.AugAssign{Target: name("steps"), Op: lang.OpAdd, Value: num(1)},
				},
			},
			&lang.Return{Value: name("steps")},
		},
	}

	return []*lang.FuncDef{alwaysSpawn, sumOfSquares, halfLife}
}
