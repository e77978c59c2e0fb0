package lisp

import (
	"errors"
	"fmt"
)

// Error kinds raised by the evaluator and the primitives. Every evaluation
// error wraps exactly one of these; test with errors.Is.
var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrUnboundVariable = errors.New("unbound variable")
	ErrWrongArity      = errors.New("wrong number of arguments")
	ErrZeroDivision    = errors.New("zero division")
)

// SyntaxError is returned by the reader for malformed input.
type SyntaxError struct {
	Message string
	Token   int // index of the offending token, -1 at end of input
}

func (e *SyntaxError) Error() string {
	if e.Token >= 0 {
		return fmt.Sprintf("syntax error at token %d: %s", e.Token, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

func mismatch(want string, got Value) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, want, got.KindName())
}

func unbound(name string) error {
	return fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

func arity(name string, want, got int) error {
	return fmt.Errorf("%w in '%s': expected %d, got %d", ErrWrongArity, name, want, got)
}

// ErrExit is returned when the exit primitive's hook returns instead of
// terminating the process.
var ErrExit = errors.New("exit requested")
