package serve

import (
	"context"
	"testing"
	"time"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
	infralogging "transit/infrastructure/logging"
	"transit/infrastructure/settings"
	"transit/infrastructure/socket"
)

func testFile(listeners ...settings.ListenerSettings) settings.File {
	s := settings.Default()
	s.Host = "127.0.0.1"
	return settings.File{Settings: s, Listeners: listeners}
}

func TestRunner_NoListeners(t *testing.T) {
	r := NewRunner(testFile(), infralogging.NopLogger{}, 0)
	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error without listeners")
	}
}

func TestRunner_EchoesEveryTransport(t *testing.T) {
	file := testFile(
		settings.ListenerSettings{Transport: transport.Stream},
		settings.ListenerSettings{Transport: transport.Datagram},
		settings.ListenerSettings{Transport: transport.Message},
	)
	r := NewRunner(file, infralogging.NopLogger{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	var listeners []*socket.Listener
	select {
	case listeners = <-r.Bound():
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("listeners not bound")
	}

	for _, l := range listeners {
		t.Run(l.Transport().String(), func(t *testing.T) {
			waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer waitCancel()
			c, err := socket.Dial(waitCtx, endpoint.New("127.0.0.1", l.Port()), l.Transport(),
				socket.WithLogger(infralogging.NopLogger{}))
			if err != nil {
				t.Fatalf("Dial: %v", err)
			}
			defer func() { _ = c.Close() }()
			if err = c.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}
			if err = c.SendContext(waitCtx, []byte("echo")); err != nil {
				t.Fatalf("send: %v", err)
			}
			got, err := c.ReceiveContext(waitCtx, 4, 64)
			if err != nil || string(got) != "echo" {
				t.Fatalf("got (%q, %v)", got, err)
			}
		})
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMaxChunk(t *testing.T) {
	s := settings.Default()
	if got := maxChunk(s, fakeConn{transport.Datagram}); got != s.MaxDatagramSize {
		t.Fatalf("datagram chunk %d", got)
	}
	if got := maxChunk(s, fakeConn{transport.Message}); got != s.MaxMessageSize {
		t.Fatalf("message chunk %d", got)
	}
	if got := maxChunk(s, fakeConn{transport.Stream}); got != 64<<10 {
		t.Fatalf("stream chunk %d", got)
	}
}
