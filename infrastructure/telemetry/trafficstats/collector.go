package trafficstats

import (
	"context"
	"sync/atomic"
	"time"
)

// Snapshot is a point-in-time view of process-wide connection traffic.
type Snapshot struct {
	RXBytesTotal uint64
	TXBytesTotal uint64
	RXRate       uint64 // bytes/sec
	TXRate       uint64 // bytes/sec
	Connections  uint64
	Dropped      uint64
}

// FlushThresholdBytes bounds how much a Recorder batches before touching shared counters.
const FlushThresholdBytes uint64 = 64 * 1024

type Collector struct {
	rxBytesTotal atomic.Uint64
	txBytesTotal atomic.Uint64
	rxRate       atomic.Uint64
	txRate       atomic.Uint64
	connections  atomic.Uint64
	dropped      atomic.Uint64

	sampleInterval time.Duration
	emaAlpha       float64

	// owned by the sampler goroutine in Start
	lastRX  uint64
	lastTX  uint64
	rxEMA   float64
	txEMA   float64
	started atomic.Bool
}

func NewCollector(sampleInterval time.Duration, emaAlpha float64) *Collector {
	if sampleInterval <= 0 {
		sampleInterval = time.Second
	}
	return &Collector{
		sampleInterval: sampleInterval,
		emaAlpha:       min(max(emaAlpha, 0), 1),
	}
}

// Start samples rates every interval until ctx is done. Only the first call runs.
func (c *Collector) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}

	ticker := time.NewTicker(c.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.updateRates(c.sampleInterval)
		}
	}
}

func (c *Collector) AddRXBytes(bytes uint64) {
	if bytes != 0 {
		c.rxBytesTotal.Add(bytes)
	}
}

func (c *Collector) AddTXBytes(bytes uint64) {
	if bytes != 0 {
		c.txBytesTotal.Add(bytes)
	}
}

func (c *Collector) ConnectionOpened() {
	c.connections.Add(1)
}

func (c *Collector) PacketDropped() {
	c.dropped.Add(1)
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		RXBytesTotal: c.rxBytesTotal.Load(),
		TXBytesTotal: c.txBytesTotal.Load(),
		RXRate:       c.rxRate.Load(),
		TXRate:       c.txRate.Load(),
		Connections:  c.connections.Load(),
		Dropped:      c.dropped.Load(),
	}
}

func (c *Collector) updateRates(interval time.Duration) {
	seconds := interval.Seconds()
	if seconds <= 0 {
		return
	}

	rxNow := c.rxBytesTotal.Load()
	txNow := c.txBytesTotal.Load()
	rxPerSec := float64(rxNow-c.lastRX) / seconds
	txPerSec := float64(txNow-c.lastTX) / seconds
	c.lastRX, c.lastTX = rxNow, txNow

	if c.emaAlpha > 0 {
		c.rxEMA = smooth(c.rxEMA, rxPerSec, c.emaAlpha)
		c.txEMA = smooth(c.txEMA, txPerSec, c.emaAlpha)
		rxPerSec, txPerSec = c.rxEMA, c.txEMA
	}

	c.rxRate.Store(uint64(rxPerSec))
	c.txRate.Store(uint64(txPerSec))
}

func smooth(prev, sample, alpha float64) float64 {
	if prev == 0 {
		return sample
	}
	return alpha*sample + (1-alpha)*prev
}
