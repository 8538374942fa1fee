package shutdown

import (
	"context"
	"os"
	"sync"
	"transit/application/logging"
	"transit/presentation/signals"
)

// Handler cancels the application context on the first shutdown signal.
type Handler struct {
	appCtx       context.Context
	appCtxCancel context.CancelFunc
	// 1-sized: os/signal sends without blocking and drops on a full channel.
	signalChan     chan os.Signal
	once           sync.Once
	signalProvider signals.Provider
	notifier       signals.Notifier
	logger         logging.Logger
}

func NewHandler(
	appCtx context.Context,
	appCtxCancel context.CancelFunc,
	signalProvider signals.Provider,
	notifier signals.Notifier,
	logger logging.Logger,
) signals.Handler {
	return &Handler{
		appCtx:         appCtx,
		appCtxCancel:   appCtxCancel,
		signalChan:     make(chan os.Signal, 1),
		signalProvider: signalProvider,
		notifier:       notifier,
		logger:         logger,
	}
}

func (h *Handler) Handle() {
	h.once.Do(func() {
		h.notifier.Notify(h.signalChan, h.signalProvider.ShutdownSignals()...)
		go h.wait()
	})
}

func (h *Handler) wait() {
	defer h.notifier.Stop(h.signalChan)
	select {
	case sig := <-h.signalChan:
		h.logger.Printf("%v received, shutting down", sig)
		h.appCtxCancel()
	case <-h.appCtx.Done():
	}
}
