package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beatscript/beatscript/internal/compiler"
	"github.com/beatscript/beatscript/internal/project"
)

// Compiled pairs a manifest callback with its compilation result.
type Compiled struct {
	Callback project.Callback
	Result   *compiler.Result
}

// compileManifest loads the manifest at path and compiles its callbacks in
// build order against one shared rom. When only is non-empty, just that
// callback slot is compiled (the others are skipped, not failed).
func compileManifest(opts *RootOptions, path, only string) (*project.Manifest, []Compiled, []float64, error) {
	manifest, err := project.Load(path)
	if err != nil {
		return nil, nil, nil, &ExitError{Code: ExitCommandError, Message: ErrCodeManifest, Err: err}
	}
	opts.Log.Debug().
		Str("engine", manifest.Name).
		Str("mode", manifest.Mode.Name).
		Int("callbacks", len(manifest.Callbacks)).
		Msg("manifest loaded")

	build := compiler.NewModeBuild(manifest.Mode)
	var compiled []Compiled
	for _, cb := range manifest.Callbacks {
		if only != "" && cb.Name != only {
			continue
		}
		fn, ok := opts.Registry.Lookup(cb.Script)
		if !ok {
			return nil, nil, nil, &ExitError{
				Code: ExitCommandError,
				Message: fmt.Sprintf("%s: script %q is not registered (have: %s)",
					ErrCodeUnknownScript, cb.Script, strings.Join(opts.Registry.Names(), ", ")),
			}
		}
		res, err := build.Compile(cb.Name, fn, nil, nil)
		if err != nil {
			return nil, nil, nil, &ExitError{
				Code:    ExitFailure,
				Message: fmt.Sprintf("%s: compiling %s (%s)", ErrCodeCompile, cb.Name, cb.Script),
				Err:     err,
			}
		}
		opts.Log.Debug().
			Str("callback", cb.Name).
			Str("script", cb.Script).
			Int("blocks", len(res.CFG.Blocks)).
			Msg("callback compiled")
		compiled = append(compiled, Compiled{Callback: cb, Result: res})
	}
	if only != "" && len(compiled) == 0 {
		return nil, nil, nil, &ExitError{
			Code:    ExitCommandError,
			Message: fmt.Sprintf("%s: manifest declares no callback %q", ErrCodeNotFound, only),
		}
	}
	return manifest, compiled, build.Rom(), nil
}

// reportExitError renders an already-classified error through the formatter.
func reportExitError(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return f.Error(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	code := ErrCodeGeneric
	message := exitErr.Message
	if len(message) >= 4 && message[0] == 'E' && message[1] >= '0' && message[1] <= '9' {
		code = message[:4]
		message = strings.TrimPrefix(message[4:], ": ")
	}
	if message == "" && exitErr.Err != nil {
		message = exitErr.Err.Error()
	}
	var details any
	if exitErr.Err != nil && message != exitErr.Err.Error() {
		details = exitErr.Err.Error()
	}
	return f.Error(exitErr.Code, code, message, details)
}
