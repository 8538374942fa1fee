package trafficstats

// Recorder batches one connection's byte counts and flushes them to a
// Collector once FlushThresholdBytes accumulate.
//
// A Recorder is not safe for concurrent use; a connection keeps one for its
// read loop and one for its writer. Flush drains what is left.
type Recorder struct {
	collector *Collector
	pendingRX uint64
	pendingTX uint64
}

// NewRecorder binds to collector, or to Global() when collector is nil.
// With no collector at all, every call is a no-op.
func NewRecorder(collector *Collector) *Recorder {
	if collector == nil {
		collector = Global()
	}
	return &Recorder{collector: collector}
}

func (r *Recorder) RecordRX(bytes int) {
	if r.collector == nil || bytes <= 0 {
		return
	}
	r.pendingRX += uint64(bytes)
	if r.pendingRX >= FlushThresholdBytes {
		r.collector.AddRXBytes(r.pendingRX)
		r.pendingRX = 0
	}
}

func (r *Recorder) RecordTX(bytes int) {
	if r.collector == nil || bytes <= 0 {
		return
	}
	r.pendingTX += uint64(bytes)
	if r.pendingTX >= FlushThresholdBytes {
		r.collector.AddTXBytes(r.pendingTX)
		r.pendingTX = 0
	}
}

func (r *Recorder) Flush() {
	if r.collector == nil {
		return
	}
	r.collector.AddRXBytes(r.pendingRX)
	r.collector.AddTXBytes(r.pendingTX)
	r.pendingRX, r.pendingTX = 0, 0
}
