package compiler

import (
	"errors"
	"fmt"

	"github.com/beatscript/beatscript/internal/lang"
)

// CompileError represents a diagnostic caused by the script author.
//
// Compile errors include:
//   - Type errors: operand types with no applicable operator
//   - Binding errors: reading a name with conflicting or missing values
//   - Permission errors: a callback touching storage it may not access
//   - Structure errors: language constructs the compiler rejects
//
// Position information points at the innermost statement or expression
// being compiled when the error surfaced.
type CompileError struct {
	// Message is a human-readable description.
	Message string

	// Pos locates the offending source node, when known.
	Pos lang.Pos

	// Err is the underlying cause, when the error wraps one.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}

func (e *CompileError) Unwrap() error { return e.Err }

// errAt wraps err with the position of the node being compiled. Existing
// CompileErrors keep their original, more precise position.
func errAt(pos lang.Pos, err error) error {
	if err == nil {
		return nil
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return err
	}
	return &CompileError{Pos: pos, Err: err}
}

func errAtf(pos lang.Pos, format string, args ...any) error {
	return &CompileError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// InternalError represents a violated compiler invariant: sealed contexts
// being extended, merges over mismatched scopes, malformed flow graphs.
// These are bugs in the compiler, not in the script, and are raised as
// panics so no error-path plumbing can swallow them. The compilation
// entry point recovers them into ordinary errors.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal compiler error: " + e.Message
}

// internalf panics with an InternalError.
func internalf(format string, args ...any) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...)})
}
