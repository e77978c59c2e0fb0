package lisp

import (
	"errors"
	"testing"
)

func TestBuiltinAdd(t *testing.T) {
	testEval(t, "(+ 1 2)", IntVal(3))
	testEval(t, "(+ 1 2.0)", FloatVal(3.0))
	testEval(t, "(+)", IntVal(0))
	testEval(t, "(+ 1 2 3 4)", IntVal(10))
	testEval(t, "(+ 1.5 1 1)", FloatVal(3.5))
	testEval(t, "(+ 1 1 0.5)", FloatVal(2.5))
	testEvalError(t, "(+ 1 car)", ErrTypeMismatch)
	testEvalError(t, "(+ 1 nil)", ErrTypeMismatch)
}

func TestBuiltinMul(t *testing.T) {
	testEval(t, "(*)", IntVal(1))
	testEval(t, "(* 2 3 4)", IntVal(24))
	testEval(t, "(* 2 0.5)", FloatVal(1.0))
}

func TestBuiltinSub(t *testing.T) {
	testEval(t, "(- 10 3)", IntVal(7))
	testEval(t, "(- 10 0.5)", FloatVal(9.5))
	testEval(t, "(- 3 10)", IntVal(-7))
	testEvalError(t, "(- 1)", ErrWrongArity)
	testEvalError(t, "(- 1 2 3)", ErrWrongArity)
}

func TestBuiltinDiv(t *testing.T) {
	testEval(t, "(/ 7 2)", IntVal(3))
	testEval(t, "(/ 7 2.0)", FloatVal(3.5))
	testEval(t, "(/ 1.0 4)", FloatVal(0.25))
	testEvalError(t, "(/ 1 0)", ErrZeroDivision)
	testEvalError(t, "(/ 1 0.0)", ErrZeroDivision)
	testEvalError(t, "(/ 1 0.0000000000000001)", ErrZeroDivision)
	testEvalError(t, "(/ 1 0.000000000000001)", ErrZeroDivision) // exactly 1e-15
	testEval(t, "(/ 1 0.5)", FloatVal(2))

	in := testInterp()
	val, err := in.EvalString("(/ 1.0 3)")
	if err != nil {
		t.Fatal(err)
	}
	if val.String() != "0.333333" {
		t.Fatalf("(/ 1.0 3) rendered %q, want 0.333333", val.String())
	}
	testEvalError(t, "(/ 1)", ErrWrongArity)
	testEvalError(t, "(/ 1 nil)", ErrTypeMismatch)
}

func TestBuiltinNumEq(t *testing.T) {
	testEval(t, "(= 1 1)", IntVal(1))
	testEval(t, "(= 1 2)", IntVal(0))
	testEval(t, "(= 1 1.0)", IntVal(1))
	testEvalError(t, "(= 1)", ErrWrongArity)
	testEvalError(t, "(= nil nil)", ErrTypeMismatch)
	testEvalError(t, "(= car car)", ErrTypeMismatch)
}

func TestBuiltinCons(t *testing.T) {
	testEval(t, "(cons 1 2)", ListVal(IntVal(1), IntVal(2)))
	testEval(t, "(cons 1 nil)", ListVal(IntVal(1), ListVal()))
	testEvalError(t, "(cons 1)", ErrWrongArity)
}

func TestBuiltinCar(t *testing.T) {
	testEval(t, "(car (cons 1 2))", IntVal(1))
	testEvalError(t, "(car 1)", ErrTypeMismatch)
	testEvalError(t, "(car nil)", ErrTypeMismatch)
	testEvalError(t, "(car (cons 1 2) 3)", ErrWrongArity)
}

func TestBuiltinCdr(t *testing.T) {
	testEval(t, "(cdr (cons 1 2))", IntVal(2))
	testEval(t, "(car (cdr (cons 1 (cons 2 3))))", IntVal(2))
	testEvalError(t, "(cdr nil)", ErrTypeMismatch)
	testEvalError(t, "(cdr 5)", ErrTypeMismatch)
	testEvalError(t, "(cdr)", ErrWrongArity)
}

func TestBuiltinNullQ(t *testing.T) {
	testEval(t, "(null? nil)", IntVal(1))
	testEval(t, "(null? (cons 1 2))", IntVal(0))
	testEval(t, "(if (null? nil) 1 2)", IntVal(1))
	testEvalError(t, "(null? 0)", ErrTypeMismatch)
	testEvalError(t, "(null?)", ErrWrongArity)
}

func TestBuiltinExit(t *testing.T) {
	var code = -1
	in := New(WithExit(func(c int) { code = c }))
	_, err := in.EvalString("(begin (define before 1) (exit 3) (define after 1))")
	if !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if _, err := in.EvalString("after"); !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("evaluation should stop at exit, got %v", err)
	}

	code = -1
	in.EvalString("(exit)")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestListProcessing(t *testing.T) {
	src := `
(define sum
  (lambda (lst)
    (if (null? lst) 0 (+ (car lst) (sum (cdr lst))))))
(sum (cons 1 (cons 2 (cons 3 nil))))`
	testEval(t, src, IntVal(6))
}
