package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"

	lisp "github.com/xHellerx/TheSlowestLisp/core"
)

func main() {
	sockPath := os.Getenv("SLOWLISP_SOCK")
	if sockPath == "" {
		sockPath = "/tmp/slowlisp.sock"
	}

	// Read a JSON request, or bare source text to evaluate, from stdin
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(1)
	}

	msg, err := requestFrom(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse JSON: %v\n", err)
		os.Exit(1)
	}

	// Add id if missing
	if _, ok := msg["id"]; !ok {
		msg["id"] = lisp.NextID()
	}

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := lisp.WriteMsg(conn, msg); err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		os.Exit(1)
	}

	resp, err := lisp.ReadMsg(conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "receive: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// requestFrom treats input starting with '{' as a JSON request and anything
// else as source for an eval op.
func requestFrom(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return map[string]any{"op": "eval", "expr": string(trimmed)}, nil
	}
	var msg map[string]any
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}
