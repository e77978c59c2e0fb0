package lisp

import "strings"

// Tokenize splits one line of input into tokens. Parentheses are tokens on
// their own; space, tab, CR and LF separate tokens. depth is the net change in
// parenthesis nesting over the line.
func Tokenize(line string) (tokens []string, depth int) {
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, line[start:end])
			start = -1
		}
	}
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(':
			flush(i)
			tokens = append(tokens, "(")
			depth++
		case ')':
			flush(i)
			tokens = append(tokens, ")")
			depth--
		case ' ', '\t', '\n', '\r':
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(line))
	return tokens, depth
}

type reader struct {
	tokens []string
	pos    int
}

// Read builds every top-level form in tokens.
func Read(tokens []string) ([]Value, error) {
	r := &reader{tokens: tokens}
	var forms []Value
	for r.pos < len(r.tokens) {
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// ReadString tokenizes and reads src.
func ReadString(src string) ([]Value, error) {
	tokens, _ := Tokenize(src)
	return Read(tokens)
}

// Form is one top-level form together with source text that reads back to it.
type Form struct {
	Value Value
	Text  string
}

// ReadForms reads every top-level form in src, keeping each form's tokens as text.
func ReadForms(src string) ([]Form, error) {
	tokens, _ := Tokenize(src)
	r := &reader{tokens: tokens}
	var forms []Form
	for r.pos < len(r.tokens) {
		start := r.pos
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, Form{Value: v, Text: joinTokens(tokens[start:r.pos])})
	}
	return forms, nil
}

func joinTokens(tokens []string) string {
	var buf strings.Builder
	for i, tok := range tokens {
		if i > 0 && tok != ")" && tokens[i-1] != "(" {
			buf.WriteByte(' ')
		}
		buf.WriteString(tok)
	}
	return buf.String()
}

func (r *reader) readForm() (Value, error) {
	if r.pos >= len(r.tokens) {
		return Value{}, &SyntaxError{Message: "unexpected end of input", Token: -1}
	}
	tok := r.tokens[r.pos]
	r.pos++
	switch tok {
	case "(":
		return r.readList()
	case ")":
		return Value{}, &SyntaxError{Message: "unexpected ')'", Token: r.pos - 1}
	default:
		v, err := Atom(tok)
		if err != nil {
			return Value{}, &SyntaxError{Message: err.Error(), Token: r.pos - 1}
		}
		return v, nil
	}
}

func (r *reader) readList() (Value, error) {
	lst := ListVal()
	for {
		if r.pos >= len(r.tokens) {
			return Value{}, &SyntaxError{Message: "unexpected end of input", Token: -1}
		}
		if r.tokens[r.pos] == ")" {
			r.pos++
			return lst, nil
		}
		elem, err := r.readForm()
		if err != nil {
			return Value{}, err
		}
		if err := lst.Append(elem); err != nil {
			return Value{}, err
		}
	}
}
