package trafficstats

import (
	"strings"
	"testing"
)

func TestFormatRate(t *testing.T) {
	if got := FormatRate(1200); got != "1.2 KiB/s" {
		t.Fatalf("unexpected rate format: %q", got)
	}
	if got := FormatRate(100); got != "100 B/s" {
		t.Fatalf("expected base unit for small rate, got %q", got)
	}
}

func TestFormatTotal(t *testing.T) {
	if got := FormatTotal(3 * 1024 * 1024); got != "3.0 MiB" {
		t.Fatalf("unexpected total format: %q", got)
	}
	if got := FormatTotalWithSystem(1500, UnitSystemBytes); got != "1.5 KB" {
		t.Fatalf("unexpected SI total format: %q", got)
	}
}

func TestFormatSnapshot(t *testing.T) {
	got := FormatSnapshot(Snapshot{RXBytesTotal: 2048, TXBytesTotal: 10, Connections: 3, Dropped: 1})
	for _, want := range []string{"rx 2.0 KiB", "tx 10 B", "connections 3", "dropped 1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("%q does not contain %q", got, want)
		}
	}
}
