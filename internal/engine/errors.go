package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a failure while executing a compiled graph.
//
// Runtime errors include:
//   - Quota exceeded: execution ran past the step limit (runaway loop)
//   - Division by zero: Divide/Mod with a zero right operand
//   - Unknown operation: the graph references an op the machine lacks
//   - Bad access: a place resolved outside any known block
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Block identifies the basic block being executed, when known.
	Block int
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeQuotaExceeded indicates execution exceeded the step limit.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeDivisionByZero indicates a zero divisor at runtime.
	ErrCodeDivisionByZero RuntimeErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeUnknownOp indicates an operation the machine cannot evaluate.
	ErrCodeUnknownOp RuntimeErrorCode = "UNKNOWN_OP"

	// ErrCodeBadAccess indicates an out-of-block storage access.
	ErrCodeBadAccess RuntimeErrorCode = "BAD_ACCESS"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Block >= 0 {
		return fmt.Sprintf("%s: %s (block=%d)", e.Code, e.Message, e.Block)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsQuotaError reports whether err is a step-quota violation. Uses
// errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == ErrCodeQuotaExceeded
}

func runtimeErrf(code RuntimeErrorCode, block int, format string, args ...any) error {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Block: block}
}
