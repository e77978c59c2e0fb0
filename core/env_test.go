package lisp

import (
	"errors"
	"testing"
)

func TestEnvLookupChain(t *testing.T) {
	root := NewEnv(nil)
	root.Define("a", IntVal(1))
	child := NewEnv(root)
	child.Define("b", IntVal(2))

	if child.FindEnv("a") != root {
		t.Fatal("a should resolve to root frame")
	}
	if child.FindEnv("b") != child {
		t.Fatal("b should resolve to child frame")
	}
	if child.FindEnv("c") != nil {
		t.Fatal("c should not resolve")
	}
	if root.FindEnv("b") != nil {
		t.Fatal("lookup must not search inner frames")
	}

	v, err := child.FindSymbol("a")
	if err != nil {
		t.Fatal(err)
	}
	if !ValuesEqual(v, IntVal(1)) {
		t.Fatalf("expected 1, got %s", v.String())
	}
	if _, err := child.FindSymbol("c"); !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected ErrUnboundVariable, got %v", err)
	}
}

func TestEnvSetMutatesOwningFrame(t *testing.T) {
	root := NewEnv(nil)
	root.Define("a", IntVal(1))
	child := NewEnv(root)

	if err := child.Set("a", IntVal(5)); err != nil {
		t.Fatal(err)
	}
	if child.FindEnv("a") != root {
		t.Fatal("set must not create a local binding")
	}
	v, _ := root.FindSymbol("a")
	if !ValuesEqual(v, IntVal(5)) {
		t.Fatalf("expected 5, got %s", v.String())
	}
	if err := child.Set("missing", IntVal(1)); !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected ErrUnboundVariable, got %v", err)
	}
}

func TestEnvDefineShadows(t *testing.T) {
	root := NewEnv(nil)
	root.Define("a", IntVal(1))
	child := NewEnv(root)
	child.Define("a", IntVal(2))

	v, _ := child.FindSymbol("a")
	if !ValuesEqual(v, IntVal(2)) {
		t.Fatalf("expected 2, got %s", v.String())
	}
	v, _ = root.FindSymbol("a")
	if !ValuesEqual(v, IntVal(1)) {
		t.Fatalf("outer binding changed: %s", v.String())
	}
}

func TestNewCallEnvTruncates(t *testing.T) {
	env := NewCallEnv([]string{"a", "b", "c"}, []Value{IntVal(1), IntVal(2)}, nil)
	if len(env.Names()) != 2 {
		t.Fatalf("expected 2 bindings, got %v", env.Names())
	}
	if env.FindEnv("c") != nil {
		t.Fatal("c should be unbound")
	}

	env = NewCallEnv([]string{"a"}, []Value{IntVal(1), IntVal(2)}, nil)
	if len(env.Names()) != 1 {
		t.Fatalf("expected 1 binding, got %v", env.Names())
	}
}

func TestGlobalSeeding(t *testing.T) {
	in := testInterp()
	for _, name := range []string{"+", "-", "*", "/", "=", "cons", "car", "cdr", "null?", "exit"} {
		v, err := in.Global().FindSymbol(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if v.Kind != ValProc || !v.Proc.IsNative() {
			t.Fatalf("%s: expected native procedure, got %s", name, v.KindName())
		}
	}
	nilVal, err := in.Global().FindSymbol("nil")
	if err != nil {
		t.Fatal(err)
	}
	if !ValuesEqual(nilVal, ListVal()) {
		t.Fatalf("nil should be the empty list, got %s", nilVal.String())
	}
	if in.Global().Outer() != nil {
		t.Fatal("global frame must be the chain root")
	}
}
