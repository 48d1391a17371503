package compiler

import (
	"sort"

	"github.com/beatscript/beatscript/internal/value"
)

// Binding is the state of one name in a scope. A name is either bound to a
// value, poisoned by a merge conflict, or recorded as absent on some path.
type Binding interface {
	binding()
}

// ValueBinding binds a name to a live value.
type ValueBinding struct {
	Value value.Value
}

// ConflictBinding marks a name whose merged predecessors disagree in a way
// no runtime cell can reconcile. Reading it is a compile error; writing it
// rebinds the name and clears the poison.
type ConflictBinding struct{}

// EmptyBinding marks a name that was unbound on at least one merged
// predecessor. Like a conflict, it poisons reads until rebound.
type EmptyBinding struct{}

func (ValueBinding) binding()    {}
func (ConflictBinding) binding() {}
func (EmptyBinding) binding()    {}

// Scope maps names to bindings for one control-flow context.
type Scope struct {
	vars map[string]Binding
}

func NewScope() *Scope {
	return &Scope{vars: make(map[string]Binding)}
}

// Lookup returns the binding for name, if any.
func (s *Scope) Lookup(name string) (Binding, bool) {
	b, ok := s.vars[name]
	return b, ok
}

// Bind sets name to a value binding.
func (s *Scope) Bind(name string, v value.Value) {
	s.vars[name] = ValueBinding{Value: v}
}

// Put sets name to an arbitrary binding.
func (s *Scope) Put(name string, b Binding) {
	s.vars[name] = b
}

// Delete removes name.
func (s *Scope) Delete(name string) {
	delete(s.vars, name)
}

// Names returns all bound names in sorted order, for deterministic merges.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.vars))
	for n := range s.vars {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Copy returns an independent scope with the same bindings.
func (s *Scope) Copy() *Scope {
	vars := make(map[string]Binding, len(s.vars))
	for n, b := range s.vars {
		vars[n] = b
	}
	return &Scope{vars: vars}
}
