package trafficstats

import "sync/atomic"

var globalCollector atomic.Pointer[Collector]

// SetGlobal installs the collector that connections without an explicit one report to.
func SetGlobal(collector *Collector) {
	globalCollector.Store(collector)
}

func Global() *Collector {
	return globalCollector.Load()
}

func SnapshotGlobal() Snapshot {
	if collector := globalCollector.Load(); collector != nil {
		return collector.Snapshot()
	}
	return Snapshot{}
}
