package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestShutdownOnDoneDrainsServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	server := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	drained := make(chan struct{}, 1)
	server.RegisterOnShutdown(func() {
		drained <- struct{}{}
	})

	served := make(chan error, 1)
	go func() {
		served <- server.Serve(ln)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		shutdownOnDone(ctx, server, time.Second, zaptest.NewLogger(t))
		close(done)
	}()

	select {
	case <-drained:
		t.Fatalf("server must keep running until the context is cancelled")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("shutdownOnDone did not return after cancellation")
	}
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatalf("expected server shutdown callback to execute")
	}
	if err := <-served; err != http.ErrServerClosed {
		t.Fatalf("expected ErrServerClosed from Serve, got %v", err)
	}
}
