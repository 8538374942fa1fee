package trafficstats

import (
	"context"
	"testing"
	"time"
)

func TestCollector_UpdateRates(t *testing.T) {
	c := NewCollector(time.Second, 0)
	c.AddRXBytes(2048)
	c.AddTXBytes(1024)

	c.updateRates(time.Second)
	s := c.Snapshot()
	if s.RXRate != 2048 || s.TXRate != 1024 {
		t.Fatalf("unexpected rates %+v", s)
	}
}

func TestCollector_UpdateRates_WithEMA(t *testing.T) {
	c := NewCollector(time.Second, 0.5)
	c.AddRXBytes(1000)
	c.AddTXBytes(1000)
	c.updateRates(time.Second)
	c.AddRXBytes(3000)
	c.AddTXBytes(3000)
	c.updateRates(time.Second)

	s := c.Snapshot()
	if s.RXRate < 1900 || s.RXRate > 2100 || s.TXRate < 1900 || s.TXRate > 2100 {
		t.Fatalf("expected smoothed rates around 2000, got %+v", s)
	}
}

func TestNewCollector_NormalizesInputs(t *testing.T) {
	c := NewCollector(0, -1)
	if c.sampleInterval != time.Second || c.emaAlpha != 0 {
		t.Fatalf("unexpected defaults interval=%v alpha=%v", c.sampleInterval, c.emaAlpha)
	}
	if NewCollector(time.Second, 2).emaAlpha != 1 {
		t.Fatal("expected alpha clamped to 1")
	}
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(time.Second, 0)
	c.AddRXBytes(0)
	c.ConnectionOpened()
	c.ConnectionOpened()
	c.PacketDropped()
	s := c.Snapshot()
	if s.RXBytesTotal != 0 || s.Connections != 2 || s.Dropped != 1 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestCollector_UpdateRates_ZeroIntervalDoesNothing(t *testing.T) {
	c := NewCollector(time.Second, 0)
	c.AddRXBytes(512)
	c.updateRates(0)
	if s := c.Snapshot(); s.RXRate != 0 {
		t.Fatalf("expected rates to remain zero, got %+v", s)
	}
}

func TestCollector_Start_StopsOnCancel(t *testing.T) {
	c := NewCollector(10*time.Millisecond, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	c.AddRXBytes(4096)
	deadline := time.Now().Add(time.Second)
	for c.Snapshot().RXRate == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Snapshot().RXRate == 0 {
		t.Fatal("expected the sampler to publish a rate")
	}

	c.Start(ctx)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after context cancellation")
	}
}
