package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("http server is already running")
)

// Handler serves incoming upgrade requests.
type Handler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

type HttpServer struct {
	listener                                        net.Listener
	server                                          *http.Server
	readHeaderTimeout, idleTimeout, shutdownTimeout time.Duration
	handler                                         Handler
	path                                            string
	startOnce, closeOnce                            sync.Once
	mu                                              sync.Mutex
	closed                                          chan struct{}
	err                                             error
}

func NewHttpServer(
	listener net.Listener,
	handler Handler,
	path string,
	readHeaderTimeout, shutdownTimeout time.Duration,
) (*HttpServer, error) {
	if listener == nil {
		return nil, fmt.Errorf("NewHttpServer: nil net.Listener")
	}
	if handler == nil {
		return nil, fmt.Errorf("NewHttpServer: nil Handler")
	}
	if path == "" || path[0] != '/' {
		return nil, fmt.Errorf("NewHttpServer: invalid path %q", path)
	}
	if shutdownTimeout <= 0 {
		return nil, fmt.Errorf("NewHttpServer: shutdownTimeout must be > 0")
	}
	return &HttpServer{
		listener:          listener,
		readHeaderTimeout: readHeaderTimeout,
		shutdownTimeout:   shutdownTimeout,
		handler:           handler,
		path:              path,
		closed:            make(chan struct{}),
	}, nil
}

// Serve blocks until Shutdown. A clean shutdown returns nil.
func (s *HttpServer) Serve() error {
	started := false
	s.startOnce.Do(func() {
		started = true
		mux := http.NewServeMux()
		mux.HandleFunc(s.path, s.handler.Handle)
		s.mu.Lock()
		s.server = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: s.readHeaderTimeout,
		}
		s.mu.Unlock()

		var err error
		if sErr := s.server.Serve(s.listener); sErr != nil && !errors.Is(sErr, http.ErrServerClosed) {
			err = sErr
		}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.closed)
	})
	if !started {
		return ErrAlreadyRunning
	}
	return s.Err()
}

// Shutdown stops accepting upgrades with a bounded timeout. Upgraded
// connections are hijacked and stay open.
func (s *HttpServer) Shutdown() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		srv := s.server
		s.mu.Unlock()
		if srv == nil {
			err = s.listener.Close()
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	})
	return err
}

func (s *HttpServer) Done() <-chan struct{} { return s.closed }

func (s *HttpServer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
