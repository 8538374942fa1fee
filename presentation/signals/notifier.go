package signals

import "os"

type Notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// Provider lists the signals that end the process on the current platform.
type Provider interface {
	ShutdownSignals() []os.Signal
}

type Handler interface {
	Handle()
}
