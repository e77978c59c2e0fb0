package lisp

// Env is one frame of the lexical environment chain.
type Env struct {
	vars  map[string]Value
	outer *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{vars: make(map[string]Value), outer: outer}
}

// NewCallEnv binds params to args by position. Extra names or extra
// arguments are ignored; arity is the caller's concern.
func NewCallEnv(params []string, args []Value, outer *Env) *Env {
	env := &Env{vars: make(map[string]Value, len(params)), outer: outer}
	for i := 0; i < len(params) && i < len(args); i++ {
		env.vars[params[i]] = args[i]
	}
	return env
}

func (e *Env) Outer() *Env { return e.outer }

// FindEnv returns the innermost frame binding name, or nil.
func (e *Env) FindEnv(name string) *Env {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.vars[name]; ok {
			return f
		}
	}
	return nil
}

// FindSymbol resolves name through the chain.
func (e *Env) FindSymbol(name string) (Value, error) {
	f := e.FindEnv(name)
	if f == nil {
		return Value{}, unbound(name)
	}
	return f.vars[name], nil
}

// Set overwrites the nearest existing binding of name. It never creates one.
func (e *Env) Set(name string, val Value) error {
	f := e.FindEnv(name)
	if f == nil {
		return unbound(name)
	}
	f.vars[name] = val
	return nil
}

// Define binds name in this frame, shadowing any outer binding.
func (e *Env) Define(name string, val Value) {
	e.vars[name] = val
}

// Names lists the names bound directly in this frame.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	return names
}
