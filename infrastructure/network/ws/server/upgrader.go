package server

import (
	"net/http"
	"transit/infrastructure/network/ws/contracts"

	"github.com/coder/websocket"
)

var _ contracts.Upgrader = (*DefaultUpgrader)(nil)

type DefaultUpgrader struct {
	readLimit int64
}

// NewDefaultUpgrader accepts WebSocket upgrades whose messages are at most readLimit bytes.
func NewDefaultUpgrader(readLimit int64) *DefaultUpgrader {
	return &DefaultUpgrader{readLimit: readLimit}
}

func (a *DefaultUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (contracts.Conn, error) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return nil, err
	}
	if a.readLimit > 0 {
		wsConn.SetReadLimit(a.readLimit)
	}
	return wsConn, nil
}
