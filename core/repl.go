package lisp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

const (
	Prompt         = "> "
	ContinuePrompt = "... "
)

// LineReader supplies one line of input per call. io.EOF ends the session;
// ErrInterrupted discards the partially entered form.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

var ErrInterrupted = errors.New("interrupted")

// REPL reads balanced forms, evaluates them and prints non-Void results.
// Errors are printed and the session continues with the same environment.
type REPL struct {
	Interp     *Interpreter
	In         LineReader
	Out        io.Writer
	Transcript Transcript // optional
}

// Run loops until the reader reports io.EOF.
func (r *REPL) Run() error {
	for {
		src, err := r.readForm()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, ErrInterrupted) {
			continue
		}
		if err != nil {
			var se *SyntaxError
			if errors.As(err, &se) {
				fmt.Fprintln(r.Out, err)
				continue
			}
			return err
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		r.evalPrint(src)
	}
}

// readForm accumulates lines until parentheses balance.
func (r *REPL) readForm() (string, error) {
	var buf strings.Builder
	depth := 0
	prompt := Prompt
	for {
		line, err := r.In.ReadLine(prompt)
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				return "", &SyntaxError{Message: "unexpected end of input", Token: -1}
			}
			return "", err
		}
		_, d := Tokenize(line)
		depth += d
		if depth < 0 {
			return "", &SyntaxError{Message: "unexpected ')'", Token: -1}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		if depth == 0 {
			return buf.String(), nil
		}
		prompt = ContinuePrompt
	}
}

// evalPrint evaluates every form in src in order, printing each non-Void
// result. The first error is printed and the remaining forms are skipped.
func (r *REPL) evalPrint(src string) {
	traces, err := r.Interp.EvalTraced(src)
	for _, trace := range traces {
		if r.Transcript != nil {
			if perr := r.Transcript.Append(trace.Entry, trace.Rendered(), trace.Error, trace.Timestamp); perr != nil {
				log.Printf("persist trace: %v", perr)
			}
		}
		if trace.Error == "" && trace.Result.Kind != ValVoid {
			fmt.Fprintln(r.Out, trace.Result.String())
		}
	}
	if err != nil {
		fmt.Fprintln(r.Out, err)
	}
}

// ScannerLines reads lines from a plain io.Reader without prompting.
type ScannerLines struct {
	sc *bufio.Scanner
}

func NewScannerLines(rd io.Reader) *ScannerLines {
	return &ScannerLines{sc: bufio.NewScanner(rd)}
}

func (s *ScannerLines) ReadLine(string) (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}
