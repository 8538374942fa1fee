package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultUpgrader_RejectsPlainRequest(t *testing.T) {
	u := NewDefaultUpgrader(1024)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://example/ws", nil)

	if _, err := u.Upgrade(rr, req); err == nil {
		t.Fatal("expected error for a request without upgrade headers")
	}
	if rr.Code == http.StatusSwitchingProtocols {
		t.Fatal("plain request must not switch protocols")
	}
}
