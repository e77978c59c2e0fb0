package lisp

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		input  string
		tokens []string
		depth  int
	}{
		{"(+ 1 2)", []string{"(", "+", "1", "2", ")"}, 0},
		{"  abc\tdef\r\n", []string{"abc", "def"}, 0},
		{"(define f (lambda", []string{"(", "define", "f", "(", "lambda"}, 2},
		{"x))", []string{"x", ")", ")"}, -2},
		{"(a(b)c)", []string{"(", "a", "(", "b", ")", "c", ")"}, 0},
		{"", nil, 0},
	}
	for _, tc := range cases {
		tokens, depth := Tokenize(tc.input)
		if !reflect.DeepEqual(tokens, tc.tokens) || depth != tc.depth {
			t.Fatalf("Tokenize(%q) = %q, %d; want %q, %d", tc.input, tokens, depth, tc.tokens, tc.depth)
		}
	}
}

func TestReadAtoms(t *testing.T) {
	forms, err := ReadString("42 3.5 foo")
	if err != nil {
		t.Fatal(err)
	}
	want := []Value{IntVal(42), FloatVal(3.5), SymbolVal("foo")}
	if len(forms) != len(want) {
		t.Fatalf("expected %d forms, got %d", len(want), len(forms))
	}
	for i := range want {
		if !ValuesEqual(forms[i], want[i]) {
			t.Fatalf("form %d: expected %s, got %s", i, want[i].String(), forms[i].String())
		}
	}
}

func TestReadNested(t *testing.T) {
	forms, err := ReadString("(if (= 1 1) (+ 1 2) ())")
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(forms))
	}
	want := ListVal(
		SymbolVal("if"),
		ListVal(SymbolVal("="), IntVal(1), IntVal(1)),
		ListVal(SymbolVal("+"), IntVal(1), IntVal(2)),
		ListVal(),
	)
	if !ValuesEqual(forms[0], want) {
		t.Fatalf("expected %s, got %s", want.String(), forms[0].String())
	}
}

func TestReadMultiline(t *testing.T) {
	forms, err := ReadString("(define x\n  5)\n(+ x\n 1)")
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
}

func TestReadErrors(t *testing.T) {
	cases := []string{
		"(unclosed",
		")",
		"(a))",
		"123456789012345678901234567890",
	}
	for _, input := range cases {
		_, err := ReadString(input)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("expected SyntaxError for %q, got %v", input, err)
		}
	}
}

func TestSyntaxErrorFormat(t *testing.T) {
	se := &SyntaxError{Message: "unexpected ')'", Token: 3}
	if se.Error() != "syntax error at token 3: unexpected ')'" {
		t.Fatalf("unexpected message %q", se.Error())
	}
	se = &SyntaxError{Message: "unexpected end of input", Token: -1}
	if se.Error() != "syntax error: unexpected end of input" {
		t.Fatalf("unexpected message %q", se.Error())
	}
}

func TestEvalStringSyntaxError(t *testing.T) {
	in := testInterp()
	_, err := in.EvalString("(+ 1")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestReadForms(t *testing.T) {
	forms, err := ReadForms("1 ( define  x\n (+ 1 2)) foo")
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, f := range forms {
		texts = append(texts, f.Text)
	}
	want := []string{"1", "(define x (+ 1 2))", "foo"}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("texts = %q, want %q", texts, want)
	}
	if !ValuesEqual(forms[0].Value, IntVal(1)) {
		t.Fatalf("unexpected first form %s", forms[0].Value.String())
	}

	// Text reads back to the same form.
	again, err := ReadString(forms[1].Text)
	if err != nil || len(again) != 1 || !ValuesEqual(again[0], forms[1].Value) {
		t.Fatalf("text %q did not read back: %v", forms[1].Text, err)
	}

	if _, err := ReadForms("(+ 1"); !errors.As(err, new(*SyntaxError)) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}
