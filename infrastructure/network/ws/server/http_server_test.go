package server

import (
	"errors"
	"net"
	"net/http"
	"testing"
	"time"
)

type okHandler struct{}

func (okHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func listenLoopback(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return ln
}

func TestNewHttpServer_Validation(t *testing.T) {
	ln := listenLoopback(t)
	defer func() { _ = ln.Close() }()

	cases := []struct {
		name     string
		listener net.Listener
		handler  Handler
		path     string
		timeout  time.Duration
	}{
		{"nil listener", nil, okHandler{}, "/ws", time.Second},
		{"nil handler", ln, nil, "/ws", time.Second},
		{"empty path", ln, okHandler{}, "", time.Second},
		{"relative path", ln, okHandler{}, "ws", time.Second},
		{"zero timeout", ln, okHandler{}, "/ws", 0},
	}
	for _, tc := range cases {
		if _, err := NewHttpServer(tc.listener, tc.handler, tc.path, time.Second, tc.timeout); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestHttpServer_ServeAndShutdown(t *testing.T) {
	ln := listenLoopback(t)
	s, err := NewHttpServer(ln, okHandler{}, "/ws", time.Second, time.Second)
	if err != nil {
		t.Fatalf("NewHttpServer: %v", err)
	}

	served := make(chan error, 1)
	go func() { served <- s.Serve() }()

	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = http.Get("http://" + ln.Addr().String() + "/ws")
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("Serve returned %v after clean shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	<-s.Done()

	if err := s.Serve(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestHttpServer_ShutdownBeforeServeClosesListener(t *testing.T) {
	ln := listenLoopback(t)
	s, err := NewHttpServer(ln, okHandler{}, "/ws", time.Second, time.Second)
	if err != nil {
		t.Fatalf("NewHttpServer: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := ln.Accept(); err == nil {
		t.Fatal("listener must be closed")
	}
}
