package lisp

import "fmt"

// Eval evaluates expr in env. Symbols are looked up, lists are special forms
// or applications, everything else evaluates to itself.
func (in *Interpreter) Eval(expr Value, env *Env) (Value, error) {
	switch expr.Kind {
	case ValSymbol:
		return env.FindSymbol(expr.Str)
	case ValList:
		return in.evalList(expr.List, env)
	default:
		return expr, nil
	}
}

func (in *Interpreter) evalList(forms []*Value, env *Env) (Value, error) {
	if len(forms) == 0 {
		return Value{}, fmt.Errorf("%w: cannot evaluate empty list", ErrTypeMismatch)
	}

	head := forms[0]
	if head.Kind == ValSymbol {
		switch head.Str {
		case "if":
			return in.evalIf(forms, env)
		case "define":
			return in.evalDefine(forms, env)
		case "lambda":
			return in.evalLambda(forms, env)
		case "set!":
			return in.evalSet(forms, env)
		case "begin":
			return in.evalBegin(forms, env)
		}
	}
	return in.evalApply(forms, env)
}

// checkForm validates the operand count of a special form.
func checkForm(forms []*Value, want int) error {
	if got := len(forms) - 1; got != want {
		return arity(forms[0].Str, want, got)
	}
	return nil
}

// evalIf: (if test then else). Both branches are required.
func (in *Interpreter) evalIf(forms []*Value, env *Env) (Value, error) {
	if err := checkForm(forms, 3); err != nil {
		return Value{}, err
	}
	test, err := in.Eval(*forms[1], env)
	if err != nil {
		return Value{}, err
	}
	if test.GetBool() {
		return in.Eval(*forms[2], env)
	}
	return in.Eval(*forms[3], env)
}

// evalDefine: (define name expr) binds in the innermost frame.
func (in *Interpreter) evalDefine(forms []*Value, env *Env) (Value, error) {
	if err := checkForm(forms, 2); err != nil {
		return Value{}, err
	}
	name, err := forms[1].GetSymbol()
	if err != nil {
		return Value{}, fmt.Errorf("define: %w", err)
	}
	val, err := in.Eval(*forms[2], env)
	if err != nil {
		return Value{}, err
	}
	env.Define(name, val)
	return VoidVal(), nil
}

// evalSet: (set! name expr) rebinds the nearest existing binding.
func (in *Interpreter) evalSet(forms []*Value, env *Env) (Value, error) {
	if err := checkForm(forms, 2); err != nil {
		return Value{}, err
	}
	name, err := forms[1].GetSymbol()
	if err != nil {
		return Value{}, fmt.Errorf("set!: %w", err)
	}
	if env.FindEnv(name) == nil {
		return Value{}, unbound(name)
	}
	val, err := in.Eval(*forms[2], env)
	if err != nil {
		return Value{}, err
	}
	if err := env.Set(name, val); err != nil {
		return Value{}, err
	}
	return VoidVal(), nil
}

// evalLambda: (lambda (params...) body) captures env by reference.
func (in *Interpreter) evalLambda(forms []*Value, env *Env) (Value, error) {
	if err := checkForm(forms, 2); err != nil {
		return Value{}, err
	}
	paramForms, err := forms[1].GetList()
	if err != nil {
		return Value{}, fmt.Errorf("lambda: params: %w", err)
	}
	params := make([]string, len(paramForms))
	for i, p := range paramForms {
		name, err := p.GetSymbol()
		if err != nil {
			return Value{}, fmt.Errorf("lambda: param %d: %w", i, err)
		}
		params[i] = name
	}
	return ProcVal(&Procedure{
		Params: params,
		Body:   *forms[2],
		Env:    env,
	}), nil
}

// evalBegin: (begin expr...) returns the last value, Void when empty.
func (in *Interpreter) evalBegin(forms []*Value, env *Env) (Value, error) {
	result := VoidVal()
	for _, form := range forms[1:] {
		var err error
		result, err = in.Eval(*form, env)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

// evalApply evaluates operator and operands left to right, then applies.
func (in *Interpreter) evalApply(forms []*Value, env *Env) (Value, error) {
	vals := make([]Value, len(forms))
	for i, form := range forms {
		val, err := in.Eval(*form, env)
		if err != nil {
			return Value{}, err
		}
		vals[i] = val
	}
	proc, err := vals[0].GetProcedure()
	if err != nil {
		if forms[0].Kind == ValSymbol {
			return Value{}, fmt.Errorf("cannot call %s: %w", forms[0].Str, err)
		}
		return Value{}, err
	}
	return in.Apply(proc, vals[1:])
}

// Apply calls proc with already evaluated arguments. A closure body is
// evaluated once in a fresh frame whose parent is the defining environment.
func (in *Interpreter) Apply(proc *Procedure, args []Value) (Value, error) {
	if proc.IsNative() {
		return proc.Native(args)
	}
	if in.strictArity && len(args) != len(proc.Params) {
		return Value{}, arity("lambda", len(proc.Params), len(args))
	}
	return in.Eval(proc.Body, NewCallEnv(proc.Params, args, proc.Env))
}
