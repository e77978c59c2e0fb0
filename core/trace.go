package lisp

import (
	"fmt"
	"log"
	"time"
)

// Trace captures one top-level evaluation: the source text, the rendered
// result and any error.
type Trace struct {
	Entry     string // source text as submitted
	Result    Value  // final result value
	Error     string // non-empty on error
	Timestamp time.Time
}

// Rendered returns the printed form of the result, empty for Void.
func (t *Trace) Rendered() string {
	if t.Error != "" {
		return ""
	}
	return t.Result.String()
}

// ToMap converts a Trace to a JSON-friendly map.
func (t *Trace) ToMap() map[string]any {
	m := map[string]any{
		"entry":     t.Entry,
		"timestamp": t.Timestamp.UTC().Format(time.RFC3339),
		"result":    t.Rendered(),
	}
	if t.Error != "" {
		m["error"] = t.Error
	} else {
		m["error"] = nil
	}
	return m
}

// Transcript persists traces and supplies every recorded source, in order,
// for replay.
type Transcript interface {
	Append(source, result, errMsg string, at time.Time) error
	Replayable() ([]string, error)
	Clear() error
}

// EvalTraced evaluates each top-level form in src against the global
// environment and returns one Trace per form attempted. Evaluation stops at
// the first error, whose Trace is last; earlier effects persist. A read error
// yields a single Trace for the whole of src.
func (in *Interpreter) EvalTraced(src string) ([]*Trace, error) {
	forms, err := ReadForms(src)
	if err != nil {
		return []*Trace{{Entry: src, Error: err.Error(), Timestamp: time.Now()}}, err
	}
	traces := make([]*Trace, 0, len(forms))
	for _, form := range forms {
		trace := &Trace{Entry: form.Text, Timestamp: time.Now()}
		traces = append(traces, trace)
		val, err := in.Eval(form.Value, in.global)
		if err != nil {
			trace.Error = err.Error()
			return traces, err
		}
		trace.Result = val
	}
	return traces, nil
}

// Replay re-evaluates recorded forms in order against the global environment.
// Forms that failed when recorded are replayed too, since whatever they did
// before failing was committed. The exit hook is disabled for the duration.
// Failures are logged and skipped. It returns how many forms succeeded.
func (in *Interpreter) Replay(tr Transcript, logger *log.Logger) (int, error) {
	sources, err := tr.Replayable()
	if err != nil {
		return 0, fmt.Errorf("load transcript: %w", err)
	}
	exit := in.exit
	in.exit = func(int) {}
	defer func() { in.exit = exit }()

	ok := 0
	for i, src := range sources {
		if _, err := in.EvalString(src); err != nil {
			logger.Printf("replay %d/%d: %v", i+1, len(sources), err)
			continue
		}
		ok++
	}
	return ok, nil
}
