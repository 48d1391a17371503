package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/beatscript/beatscript/internal/ir"
)

// schema constrains manifest values before decoding. Unified with the user's
// files so malformed manifests fail with CUE's own position-bearing errors.
const schema = `
engine: {
	name!:    string & !=""
	version?: int & >=1
	mode!:    "play" | "tutorial"
}
callbacks: [Name=string]: {
	script!: string & !=""
	order?:  int
}
`

// Callback is one compiled entry point declared by the manifest.
type Callback struct {
	// Name is the engine callback slot, e.g. "preprocess" or "touch".
	Name string
	// Script names the registered script compiled into this slot.
	Script string
	// Order sorts callbacks sharing read-only memory; lower builds first.
	Order int
}

// Manifest is a loaded and validated engine project.
type Manifest struct {
	Name      string
	Version   int
	Mode      *ir.Mode
	Callbacks []Callback
}

// LoadError carries a manifest problem with its origin.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErrf(path string, err error, format string, args ...any) *LoadError {
	return &LoadError{Path: path, Message: fmt.Sprintf(format, args...), Err: err}
}

// Load reads the manifest from a directory of CUE files (or a single .cue
// file) and validates it against the known modes and their callback slots.
func Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, loadErrf(path, nil, "manifest not found")
	}
	if err != nil {
		return nil, loadErrf(path, err, "accessing manifest")
	}

	cfg := &load.Config{}
	args := []string{"."}
	if info.IsDir() {
		cfg.Dir = path
	} else {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, loadErrf(path, nil, "no CUE instances loaded")
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, loadErrf(path, inst.Err, "loading CUE files")
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, loadErrf(path, err, "building CUE value")
	}

	value = value.Unify(ctx.CompileString(schema))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, loadErrf(path, err, "invalid manifest")
	}

	return decode(path, value)
}

func decode(path string, value cue.Value) (*Manifest, error) {
	var raw struct {
		Engine struct {
			Name    string `json:"name"`
			Version int    `json:"version"`
			Mode    string `json:"mode"`
		} `json:"engine"`
		Callbacks map[string]struct {
			Script string `json:"script"`
			Order  int    `json:"order"`
		} `json:"callbacks"`
	}
	if err := value.Decode(&raw); err != nil {
		return nil, loadErrf(path, err, "decoding manifest")
	}

	mode, ok := ir.ModeByName(raw.Engine.Mode)
	if !ok {
		return nil, loadErrf(path, nil, "unknown mode %q", raw.Engine.Mode)
	}

	m := &Manifest{
		Name:    raw.Engine.Name,
		Version: raw.Engine.Version,
		Mode:    mode,
	}
	if m.Version == 0 {
		m.Version = 1
	}

	slots := map[string]bool{}
	for _, cb := range mode.Callbacks() {
		slots[cb] = true
	}
	for name, decl := range raw.Callbacks {
		if !slots[name] {
			return nil, loadErrf(path, nil, "mode %s has no callback slot %q", mode.Name, name)
		}
		m.Callbacks = append(m.Callbacks, Callback{
			Name:   name,
			Script: decl.Script,
			Order:  decl.Order,
		})
	}
	if len(m.Callbacks) == 0 {
		return nil, loadErrf(path, nil, "manifest declares no callbacks")
	}

	// Build order: declared order, then slot name for stability.
	sort.Slice(m.Callbacks, func(i, j int) bool {
		a, b := m.Callbacks[i], m.Callbacks[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})

	return m, nil
}
