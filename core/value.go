package lisp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValVoid ValueKind = iota
	ValInt
	ValFloat
	ValSymbol
	ValList
	ValProc
)

// floatEpsilon is the magnitude at or below which a Float counts as zero,
// both for truthiness and for the divisor check in "/".
const floatEpsilon = 1e-15

// Builtin is a primitive procedure implemented in Go, called with eagerly evaluated arguments.
type Builtin func(args []Value) (Value, error)

// Procedure is either a closure (Params, Body, Env) or a primitive (Native).
type Procedure struct {
	Name   string
	Native Builtin
	Params []string
	Body   Value
	Env    *Env
}

func (p *Procedure) IsNative() bool { return p.Native != nil }

// Value is the tagged runtime datum. Only the field matching Kind is meaningful.
// List elements are shared between copies; the slice itself is never grown in place
// by a copy, so appending to one copy is invisible to the others.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
	List  []*Value
	Proc  *Procedure
}

func VoidVal() Value             { return Value{Kind: ValVoid} }
func IntVal(n int64) Value       { return Value{Kind: ValInt, Int: n} }
func FloatVal(f float64) Value   { return Value{Kind: ValFloat, Float: f} }
func SymbolVal(s string) Value   { return Value{Kind: ValSymbol, Str: s} }
func ProcVal(p *Procedure) Value { return Value{Kind: ValProc, Proc: p} }
func NativeVal(name string, fn Builtin) Value {
	return ProcVal(&Procedure{Name: name, Native: fn})
}

// ListVal builds a List holding copies of elems.
func ListVal(elems ...Value) Value {
	ptrs := make([]*Value, len(elems))
	for i := range elems {
		e := elems[i]
		ptrs[i] = &e
	}
	return Value{Kind: ValList, List: ptrs}
}

// BoolVal encodes a predicate result the way the primitives do: Integer 1 or 0.
func BoolVal(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}

// Atom classifies literal text: all digits is an Integer, digits around a single
// '.' is a Float, anything else is a Symbol. Signs and exponents are not
// recognised, so "-5" is a Symbol.
func Atom(text string) (Value, error) {
	switch classify(text) {
	case ValInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("integer literal %q out of range", text)
		}
		return IntVal(n), nil
	case ValFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("float literal %q out of range", text)
		}
		return FloatVal(f), nil
	default:
		return SymbolVal(text), nil
	}
}

func classify(text string) ValueKind {
	if text == "" {
		return ValSymbol
	}
	digits, dots := 0, 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return ValSymbol
		}
	}
	switch {
	case dots == 0:
		return ValInt
	case dots == 1 && digits > 0:
		return ValFloat
	default:
		return ValSymbol
	}
}

func (v Value) GetInt() (int64, error) {
	if v.Kind != ValInt {
		return 0, mismatch("Integer", v)
	}
	return v.Int, nil
}

// GetFloat widens Integer transparently.
func (v Value) GetFloat() (float64, error) {
	switch v.Kind {
	case ValInt:
		return float64(v.Int), nil
	case ValFloat:
		return v.Float, nil
	default:
		return 0, mismatch("Float", v)
	}
}

func (v Value) GetSymbol() (string, error) {
	if v.Kind != ValSymbol {
		return "", mismatch("Symbol", v)
	}
	return v.Str, nil
}

func (v Value) GetList() ([]*Value, error) {
	if v.Kind != ValList {
		return nil, mismatch("List", v)
	}
	return v.List, nil
}

func (v Value) GetProcedure() (*Procedure, error) {
	if v.Kind != ValProc {
		return nil, mismatch("Procedure", v)
	}
	return v.Proc, nil
}

// GetBool is the truthiness rule used by "if". A List is true only when it
// is empty.
func (v Value) GetBool() bool {
	switch v.Kind {
	case ValVoid:
		return false
	case ValInt:
		return v.Int != 0
	case ValFloat:
		return math.Abs(v.Float) > floatEpsilon
	case ValList:
		return len(v.List) == 0
	default:
		return true
	}
}

// Append adds elem to a List in place.
func (v *Value) Append(elem Value) error {
	if v.Kind != ValList {
		return mismatch("List", *v)
	}
	n := len(v.List)
	v.List = append(v.List[:n:n], &elem)
	return nil
}

func (v Value) String() string {
	switch v.Kind {
	case ValVoid:
		return ""
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'g', 6, 64)
	case ValSymbol:
		return v.Str
	case ValProc:
		return "<procedure>"
	case ValList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

func (v Value) KindName() string {
	switch v.Kind {
	case ValVoid:
		return "Void"
	case ValInt:
		return "Integer"
	case ValFloat:
		return "Float"
	case ValSymbol:
		return "Symbol"
	case ValList:
		return "List"
	case ValProc:
		return "Procedure"
	default:
		return "Unknown"
	}
}

// ValuesEqual compares two Values structurally. Procedures compare by identity.
func ValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValVoid:
		return true
	case ValInt:
		return a.Int == b.Int
	case ValFloat:
		return a.Float == b.Float
	case ValSymbol:
		return a.Str == b.Str
	case ValProc:
		return a.Proc == b.Proc
	case ValList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !ValuesEqual(*a.List[i], *b.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}
