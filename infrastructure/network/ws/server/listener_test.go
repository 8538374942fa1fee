package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type mockServer struct {
	serveCalled    atomic.Int64
	shutdownCalled atomic.Int64
	doneCh         chan struct{}
	once           sync.Once

	mu  sync.Mutex
	err error
}

func newMockServer() *mockServer {
	return &mockServer{doneCh: make(chan struct{})}
}

func (m *mockServer) Serve() error {
	m.serveCalled.Add(1)
	<-m.doneCh
	return m.Err()
}

func (m *mockServer) Shutdown() error {
	m.shutdownCalled.Add(1)
	m.once.Do(func() { close(m.doneCh) })
	return nil
}

func (m *mockServer) Done() <-chan struct{} { return m.doneCh }

func (m *mockServer) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func TestNewListener_Validation(t *testing.T) {
	if _, err := NewListener(nil, nil, make(chan net.Conn)); err == nil {
		t.Fatal("expected error for nil server")
	}
	if _, err := NewListener(newMockServer(), nil, nil); err == nil {
		t.Fatal("expected error for nil queue")
	}
}

func TestListener_Start_IsIdempotent(t *testing.T) {
	ms := newMockServer()
	l, err := NewListener(ms, nil, make(chan net.Conn, 1))
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	l.Start()
	l.Start()

	deadline := time.Now().Add(time.Second)
	for ms.serveCalled.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if got := ms.serveCalled.Load(); got != 1 {
		t.Fatalf("Serve called %d times", got)
	}
	_ = l.Close()
}

func TestListener_Accept_ReturnsQueuedConn(t *testing.T) {
	q := make(chan net.Conn, 1)
	l, _ := NewListener(newMockServer(), &net.TCPAddr{Port: 80}, q)
	c1, c2 := net.Pipe()
	defer func() { _ = c2.Close() }()
	q <- c1

	got, err := l.Accept()
	if err != nil || got != c1 {
		t.Fatalf("Accept = %v, %v", got, err)
	}
	if l.Addr().String() != ":80" {
		t.Fatalf("unexpected Addr %v", l.Addr())
	}
	_ = l.Close()
}

func TestListener_Close_UnblocksAcceptAndDrainsQueue(t *testing.T) {
	ms := newMockServer()
	q := make(chan net.Conn, 1)
	l, _ := NewListener(ms, nil, q)

	errCh := make(chan error, 1)
	go func() {
		_, err := l.Accept()
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)

	_ = l.Close()
	_ = l.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, net.ErrClosed) {
			t.Fatalf("expected net.ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Accept not unblocked by Close")
	}
	if ms.shutdownCalled.Load() != 1 {
		t.Fatalf("Shutdown called %d times", ms.shutdownCalled.Load())
	}

	c1, c2 := net.Pipe()
	q <- c1
	_ = l.Close()
	if _, err := l.Accept(); !errors.Is(err, net.ErrClosed) {
		t.Fatalf("expected net.ErrClosed after close, got %v", err)
	}
	_ = c2.Close()
}

func TestListener_Accept_ServerError(t *testing.T) {
	ms := newMockServer()
	boom := errors.New("serve failed")
	ms.mu.Lock()
	ms.err = boom
	ms.mu.Unlock()
	_ = ms.Shutdown()

	l, _ := NewListener(ms, nil, make(chan net.Conn))
	if _, err := l.Accept(); !errors.Is(err, boom) {
		t.Fatalf("expected server error, got %v", err)
	}
}
