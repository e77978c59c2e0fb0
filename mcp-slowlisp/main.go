package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	lisp "github.com/xHellerx/TheSlowestLisp/core"
)

var (
	conn   net.Conn
	connMu sync.Mutex
)

// send sends a request to the slowlisp server and returns the response.
func send(req map[string]any) (map[string]any, error) {
	req["id"] = lisp.NextID()
	connMu.Lock()
	defer connMu.Unlock()
	if err := lisp.WriteMsg(conn, req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	resp, err := lisp.ReadMsg(conn)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return resp, nil
}

// formatResult turns a server response into an MCP tool result.
func formatResult(resp map[string]any) (*mcp.CallToolResult, error) {
	ok, _ := resp["ok"].(bool)
	if !ok {
		errMsg, _ := resp["error"].(string)
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return mcp.NewToolResultError(errMsg), nil
	}
	if s, isStr := resp["value"].(string); isStr {
		return mcp.NewToolResultText(s), nil
	}
	out, err := json.MarshalIndent(resp["value"], "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := send(map[string]any{"op": "eval", "expr": expr})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := send(map[string]any{"op": "reset"})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := map[string]any{"op": "traces"}
	if n := request.GetInt("n", -1); n >= 0 {
		req["n"] = n
	}
	resp, err := send(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func main() {
	sockPath := os.Getenv("SLOWLISP_SOCK")
	if sockPath == "" {
		sockPath = "/tmp/slowlisp.sock"
	}

	var err error
	conn, err = net.Dial("unix", sockPath)
	if err != nil {
		log.Fatalf("connect to %s: %v", sockPath, err)
	}
	defer conn.Close()
	log.Printf("connected to slowlisp server: %s", sockPath)

	s := server.NewMCPServer(
		"slowlisp",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("slowlisp_eval",
			mcp.WithDescription("Evaluate one or more Lisp forms against the persistent global environment. Returns the printed value of the last form."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Source to evaluate, e.g. (define sq (lambda (x) (* x x))) (sq 7)"),
			),
		),
		handleEval,
	)

	s.AddTool(
		mcp.NewTool("slowlisp_reset",
			mcp.WithDescription("Discard every user definition, the trace buffer and the stored transcript."),
		),
		handleReset,
	)

	s.AddTool(
		mcp.NewTool("slowlisp_traces",
			mcp.WithDescription("List recent evaluations with their results or errors."),
			mcp.WithNumber("n",
				mcp.Description("How many of the most recent evaluations to return"),
			),
		),
		handleTraces,
	)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
