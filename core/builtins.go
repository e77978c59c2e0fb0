package lisp

import (
	"fmt"
	"math"
)

// seedGlobals installs the primitive procedures and nil into the root frame.
func (in *Interpreter) seedGlobals(env *Env) {
	for name, fn := range map[string]Builtin{
		"+":     builtinAdd,
		"*":     builtinMul,
		"-":     builtinSub,
		"/":     builtinDiv,
		"=":     builtinNumEq,
		"cons":  builtinCons,
		"car":   builtinCar,
		"cdr":   builtinCdr,
		"null?": builtinNullQ,
		"exit":  in.builtinExit,
	} {
		env.Define(name, NativeVal(name, fn))
	}
	env.Define("nil", ListVal())
}

// --- Arithmetic ---

// fold applies op left to right starting from init. The running result stays
// Integer only while every operand seen so far is Integer.
func fold(args []Value, init Value, iop func(a, b int64) int64, fop func(a, b float64) float64) (Value, error) {
	acc := init
	for _, b := range args {
		if acc.Kind == ValInt && b.Kind == ValInt {
			acc = IntVal(iop(acc.Int, b.Int))
			continue
		}
		fa, err := acc.GetFloat()
		if err != nil {
			return Value{}, err
		}
		fb, err := b.GetFloat()
		if err != nil {
			return Value{}, err
		}
		acc = FloatVal(fop(fa, fb))
	}
	return acc, nil
}

func builtinAdd(args []Value) (Value, error) {
	return fold(args, IntVal(0),
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

func builtinMul(args []Value) (Value, error) {
	return fold(args, IntVal(1),
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

// binaryArgs validates a two-operand call.
func binaryArgs(name string, args []Value) (Value, Value, error) {
	if len(args) != 2 {
		return Value{}, Value{}, arity(name, 2, len(args))
	}
	return args[0], args[1], nil
}

func builtinSub(args []Value) (Value, error) {
	a, b, err := binaryArgs("-", args)
	if err != nil {
		return Value{}, err
	}
	return fold([]Value{b}, a,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func builtinDiv(args []Value) (Value, error) {
	a, b, err := binaryArgs("/", args)
	if err != nil {
		return Value{}, err
	}
	fb, err := b.GetFloat()
	if err != nil {
		return Value{}, err
	}
	if math.Abs(fb) <= floatEpsilon {
		return Value{}, fmt.Errorf("%w: divisor %s", ErrZeroDivision, b.String())
	}
	return fold([]Value{b}, a,
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b })
}

// builtinNumEq compares by float value only.
func builtinNumEq(args []Value) (Value, error) {
	a, b, err := binaryArgs("=", args)
	if err != nil {
		return Value{}, err
	}
	fa, err := a.GetFloat()
	if err != nil {
		return Value{}, err
	}
	fb, err := b.GetFloat()
	if err != nil {
		return Value{}, err
	}
	return BoolVal(fa == fb), nil
}

// --- Pairs ---

// builtinCons: (cons a b) → the two-element list (a b).
func builtinCons(args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, arity("cons", 2, len(args))
	}
	return ListVal(args...), nil
}

func builtinCar(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arity("car", 1, len(args))
	}
	lst, err := args[0].GetList()
	if err != nil {
		return Value{}, fmt.Errorf("car: %w", err)
	}
	if len(lst) == 0 {
		return Value{}, fmt.Errorf("%w: car of empty list", ErrTypeMismatch)
	}
	return *lst[0], nil
}

func builtinCdr(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arity("cdr", 1, len(args))
	}
	lst, err := args[0].GetList()
	if err != nil {
		return Value{}, fmt.Errorf("cdr: %w", err)
	}
	if len(lst) != 2 {
		return Value{}, fmt.Errorf("%w: cdr expects a pair, got a list of %d", ErrTypeMismatch, len(lst))
	}
	return *lst[1], nil
}

func builtinNullQ(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arity("null?", 1, len(args))
	}
	lst, err := args[0].GetList()
	if err != nil {
		return Value{}, fmt.Errorf("null?: %w", err)
	}
	return BoolVal(len(lst) == 0), nil
}

// --- Control ---

// builtinExit hands control to the interpreter's exit hook. The default hook
// terminates the process; hosts that must survive install their own.
func (in *Interpreter) builtinExit(args []Value) (Value, error) {
	code := 0
	if len(args) == 1 && args[0].Kind == ValInt {
		code = int(args[0].Int)
	}
	in.logger.Printf("exit requested (code %d)", code)
	in.exit(code)
	return VoidVal(), ErrExit
}
