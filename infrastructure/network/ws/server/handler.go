package server

import (
	"net"
	"net/http"
	"net/netip"
	"transit/application/logging"
	infralogging "transit/infrastructure/logging"
	"transit/infrastructure/network/ws/adapter"
	"transit/infrastructure/network/ws/contracts"

	"github.com/coder/websocket"
)

// CloseCodeQueueFull is sent to a client whose upgrade could not be queued for Accept.
const CloseCodeQueueFull websocket.StatusCode = 4000

// DefaultHandler upgrades HTTP connections to WebSocket and enqueues them as message adapters.
type DefaultHandler struct {
	upgrader contracts.Upgrader
	queue    chan net.Conn
	logger   logging.Logger
}

func NewDefaultHandler(
	upgrader contracts.Upgrader,
	queue chan net.Conn,
	logger logging.Logger,
) *DefaultHandler {
	if logger == nil {
		logger = infralogging.NopLogger{}
	}
	return &DefaultHandler{
		upgrader: upgrader,
		queue:    queue,
		logger:   logger,
	}
}

func (h *DefaultHandler) Handle(w http.ResponseWriter, r *http.Request) {
	remote, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		h.logger.Printf("ws: bad remote addr %q: %v", r.RemoteAddr, err)
		http.Error(w, "bad remote addr", http.StatusBadRequest)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r)
	if err != nil {
		h.logger.Printf("ws: upgrade from %s failed: %v", remote, err)
		return
	}

	local := net.Addr(&net.TCPAddr{})
	if la, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok && la != nil {
		local = la
	}

	select {
	case h.queue <- adapter.NewAdapter(wsConn, local, net.TCPAddrFromAddrPort(remote)):
	default:
		h.logger.Printf("ws: accept queue full, rejecting %s", remote)
		_ = wsConn.Close(CloseCodeQueueFull, "could not accept new connection")
	}
}
