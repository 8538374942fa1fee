package shutdown

import (
	"os"
	"os/signal"
)

// OSNotifier routes process signals through os/signal.
type OSNotifier struct{}

func NewOSNotifier() OSNotifier { return OSNotifier{} }

func (OSNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }

func (OSNotifier) Stop(c chan<- os.Signal) { signal.Stop(c) }
