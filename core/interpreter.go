package lisp

import (
	"io"
	"log"
	"os"
)

// Interpreter owns the global environment and the evaluation settings. It is
// not safe for concurrent use; hosts that share one serialize access.
type Interpreter struct {
	global      *Env
	strictArity bool
	exit        func(code int)
	logger      *log.Logger
}

type Option func(*Interpreter)

// WithStrictArity makes closure application fail with ErrWrongArity when the
// argument count differs from the parameter count.
func WithStrictArity(strict bool) Option {
	return func(in *Interpreter) { in.strictArity = strict }
}

// WithExit replaces the hook called by the exit primitive.
func WithExit(fn func(code int)) Option {
	return func(in *Interpreter) { in.exit = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// New creates an interpreter with a freshly seeded global environment.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		exit:   os.Exit,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.global = in.newGlobal()
	return in
}

func (in *Interpreter) newGlobal() *Env {
	env := NewEnv(nil)
	in.seedGlobals(env)
	return env
}

// Global returns the root frame shared by all top-level evaluations.
func (in *Interpreter) Global() *Env {
	return in.global
}

// Reset discards every user binding by replacing the global frame.
func (in *Interpreter) Reset() {
	in.global = in.newGlobal()
	in.logger.Printf("global environment reset")
}

// EvalString reads every top-level form in src and evaluates each against the
// global environment, returning the last value. Evaluation stops at the first
// error; effects of earlier forms persist.
func (in *Interpreter) EvalString(src string) (Value, error) {
	forms, err := ReadString(src)
	if err != nil {
		return Value{}, err
	}
	result := VoidVal()
	for _, form := range forms {
		result, err = in.Eval(form, in.global)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}
