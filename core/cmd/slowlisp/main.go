package main

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	lisp "github.com/xHellerx/TheSlowestLisp/core"
	"github.com/xHellerx/TheSlowestLisp/store"
)

// linerLines adapts liner to lisp.LineReader.
type linerLines struct {
	*liner.State
}

func (l linerLines) ReadLine(prompt string) (string, error) {
	line, err := l.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", lisp.ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		l.AppendHistory(line)
	}
	return line, nil
}

func historyPath() string {
	if p := os.Getenv("SLOWLISP_HISTORY"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slowlisp_history")
}

func main() {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	hist := historyPath()
	haveHistory := false
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			line.ReadHistory(f)
			f.Close()
			haveHistory = true
		}
	}

	var st *store.Store
	if dbPath := os.Getenv("SLOWLISP_DB"); dbPath != "" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			line.Close()
			log.Fatalf("open transcript: %v", err)
		}
		if !haveHistory {
			// seed line history from the transcript on first run
			entries, err := st.Recent(200)
			if err != nil {
				log.Printf("load recent: %v", err)
			}
			for _, e := range entries {
				line.AppendHistory(strings.Join(strings.Fields(e.Source), " "))
			}
		}
	}

	cleanup := func() {
		if hist != "" {
			if f, err := os.Create(hist); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}
		line.Close()
		if st != nil {
			st.Close()
		}
	}

	interp := lisp.New(
		lisp.WithStrictArity(os.Getenv("SLOWLISP_STRICT_ARITY") == "1"),
		lisp.WithExit(func(code int) {
			cleanup()
			os.Exit(code)
		}),
	)

	line.SetCompleter(func(prefix string) []string {
		// complete the trailing symbol only
		i := strings.LastIndexAny(prefix, "( \t")
		head, word := prefix[:i+1], prefix[i+1:]
		var out []string
		for _, name := range interp.Global().Names() {
			if strings.HasPrefix(name, word) {
				out = append(out, head+name)
			}
		}
		sort.Strings(out)
		return out
	})

	repl := &lisp.REPL{
		Interp: interp,
		In:     linerLines{line},
		Out:    os.Stdout,
	}
	if st != nil {
		repl.Transcript = st
		if os.Getenv("SLOWLISP_REPLAY") == "1" {
			n, err := interp.Replay(st, log.Default())
			if err != nil {
				log.Printf("replay: %v", err)
			} else {
				log.Printf("replayed %d forms", n)
			}
		}
	}

	err := repl.Run()
	cleanup()
	if err != nil {
		log.Fatalf("repl: %v", err)
	}
}
