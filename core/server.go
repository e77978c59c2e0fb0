package lisp

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

// Server exposes one Interpreter over a unix socket. Every request is handled
// by a single actor goroutine, so the interpreter never runs concurrently.
type Server struct {
	interp     *Interpreter
	transcript Transcript // optional
	requests   chan serverRequest
	done       chan struct{}
	stopOnce   sync.Once
	listener   net.Listener
	traces     []Trace
	maxTraces  int
}

type serverRequest struct {
	msg      map[string]any
	response chan map[string]any
}

// NewServer listens on sockPath. The interpreter should be built with an exit
// hook that returns, since the exit primitive must not stop the server.
// transcript may be nil.
func NewServer(interp *Interpreter, sockPath string, transcript Transcript) (*Server, error) {
	// Clean up stale socket
	os.Remove(sockPath)

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return newServer(interp, listener, transcript), nil
}

func newServer(interp *Interpreter, listener net.Listener, transcript Transcript) *Server {
	return &Server{
		interp:     interp,
		transcript: transcript,
		requests:   make(chan serverRequest, 64),
		done:       make(chan struct{}),
		listener:   listener,
		maxTraces:  1000,
	}
}

// Run starts the actor goroutine and accepts connections. Blocks until shutdown.
func (s *Server) Run() {
	go s.actorLoop()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(conn)
	}
}

// Shutdown stops accepting clients and ends the actor loop. Connections
// still open are closed on their next request. Safe to call more than once.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		s.listener.Close()
		close(s.done)
	})
}

// actorLoop is the single goroutine that owns the interpreter.
func (s *Server) actorLoop() {
	for {
		select {
		case req := <-s.requests:
			req.response <- s.handleRequest(req.msg)
		case <-s.done:
			return
		}
	}
}

// sendToActor hands msg to the actor and waits for its reply. It reports
// false once the server has shut down.
func (s *Server) sendToActor(msg map[string]any) (map[string]any, bool) {
	select {
	case <-s.done:
		return nil, false
	default:
	}
	resp := make(chan map[string]any, 1)
	select {
	case s.requests <- serverRequest{msg: msg, response: resp}:
	case <-s.done:
		return nil, false
	}
	select {
	case r := <-resp:
		return r, true
	case <-s.done:
		return nil, false
	}
}

func (s *Server) handleRequest(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)

	op, _ := msg["op"].(string)
	switch op {
	case "":
		return s.manual(id)
	case "eval":
		return s.handleEval(id, msg)
	case "reset":
		return s.handleReset(id)
	case "traces":
		return s.handleTraces(id, msg)
	default:
		return errorResponse(id, fmt.Sprintf("unknown op: %s", op))
	}
}

func (s *Server) manual(id string) map[string]any {
	return map[string]any{
		"id": id,
		"ok": true,
		"value": map[string]any{
			"name":    "slowlisp",
			"version": "1.0.0",
			"ops": map[string]any{
				"eval":   "Evaluate every form in expr against the global environment. Params: expr (string)",
				"reset":  "Discard all user bindings and traces.",
				"traces": "Return recent evaluations. Params: n (int, optional)",
			},
			"builtins": []any{"+", "-", "*", "/", "=", "cons", "car", "cdr", "null?", "exit", "nil"},
			"forms":    []any{"if", "define", "lambda", "set!", "begin"},
		},
	}
}

func (s *Server) handleEval(id string, msg map[string]any) map[string]any {
	expr, ok := msg["expr"].(string)
	if !ok {
		return errorResponse(id, "eval: missing 'expr' string")
	}

	traces, err := s.interp.EvalTraced(expr)
	for _, t := range traces {
		s.appendTrace(t)
	}
	if err != nil {
		return errorResponse(id, err.Error())
	}
	value := ""
	if len(traces) > 0 {
		value = traces[len(traces)-1].Rendered()
	}
	return map[string]any{"id": id, "ok": true, "value": value}
}

func (s *Server) handleReset(id string) map[string]any {
	s.interp.Reset()
	s.traces = nil
	if s.transcript != nil {
		if err := s.transcript.Clear(); err != nil {
			return errorResponse(id, fmt.Sprintf("reset: clear transcript: %s", err))
		}
	}
	return map[string]any{"id": id, "ok": true, "value": "reset"}
}

func (s *Server) handleTraces(id string, msg map[string]any) map[string]any {
	n := len(s.traces)
	if raw, ok := msg["n"]; ok {
		f, isNum := raw.(float64)
		if !isNum || f < 0 {
			return errorResponse(id, "traces: 'n' must be a non-negative number")
		}
		if int(f) < n {
			n = int(f)
		}
	}
	start := len(s.traces) - n
	result := make([]any, n)
	for i := 0; i < n; i++ {
		result[i] = s.traces[start+i].ToMap()
	}
	return map[string]any{"id": id, "ok": true, "value": result}
}

// appendTrace records t, enforces the maxTraces cap and persists it.
func (s *Server) appendTrace(t *Trace) {
	s.traces = append(s.traces, *t)
	if len(s.traces) > s.maxTraces {
		excess := len(s.traces) - s.maxTraces
		s.traces = s.traces[excess:]
	}
	if s.transcript != nil {
		if err := s.transcript.Append(t.Entry, t.Rendered(), t.Error, t.Timestamp); err != nil {
			log.Printf("persist trace: %v", err)
		}
	}
}

func errorResponse(id, errMsg string) map[string]any {
	return map[string]any{"id": id, "ok": false, "error": errMsg}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	for {
		msg, err := ReadMsg(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("read client message: %v", err)
			}
			return
		}

		resp, ok := s.sendToActor(msg)
		if !ok {
			return
		}
		if err := WriteMsg(conn, resp); err != nil {
			log.Printf("write client response: %v", err)
			return
		}
	}
}
