package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	lisp "github.com/xHellerx/TheSlowestLisp/core"
	"github.com/xHellerx/TheSlowestLisp/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	sockPath := envOr("SLOWLISP_SOCK", "/tmp/slowlisp.sock")
	dbPath := os.Getenv("SLOWLISP_DB")

	interp := lisp.New(
		lisp.WithStrictArity(os.Getenv("SLOWLISP_STRICT_ARITY") == "1"),
		lisp.WithExit(func(int) {}),
		lisp.WithLogger(log.Default()),
	)

	var transcript lisp.Transcript
	var st *store.Store
	if dbPath != "" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			log.Fatalf("open transcript: %v", err)
		}
		transcript = st
		if os.Getenv("SLOWLISP_REPLAY") == "1" {
			n, err := interp.Replay(st, log.Default())
			if err != nil {
				log.Fatalf("replay: %v", err)
			}
			log.Printf("replayed %d forms", n)
		}
	}

	srv, err := lisp.NewServer(interp, sockPath, transcript)
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	// Handle shutdown signals
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("shutting down...")
		srv.Shutdown()
		if st != nil {
			st.Close()
		}
		os.Exit(0)
	}()

	log.Printf("slowlisp listening on %s (transcript: %q)", sockPath, dbPath)
	srv.Run()
}
