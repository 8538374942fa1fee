package endpoint

import (
	"errors"
	"net"
	"net/netip"
	"testing"
)

func TestNew_CanonicalizesMappedIPv4(t *testing.T) {
	a := New("::ffff:127.0.0.1", 5555)
	b := New("127.0.0.1", 5555)
	if a != b {
		t.Fatalf("expected %v == %v", a, b)
	}
	if a.Host() != "127.0.0.1" {
		t.Fatalf("unexpected host %q", a.Host())
	}
}

func TestEndpoint_Equality(t *testing.T) {
	peers := map[Endpoint]int{}
	peers[New("localhost", 1)]++
	peers[New("localhost", 1)]++
	peers[New("localhost", 2)]++
	if len(peers) != 2 {
		t.Fatalf("expected 2 distinct endpoints, got %d", len(peers))
	}
	if peers[New("localhost", 1)] != 2 {
		t.Fatalf("expected same key to be hit twice")
	}
}

func TestFromAddrPort_Unmaps(t *testing.T) {
	ap := netip.MustParseAddrPort("[::ffff:10.0.0.1]:9000")
	e := FromAddrPort(ap)
	if e.String() != "10.0.0.1:9000" {
		t.Fatalf("got %s", e)
	}
	got, ok := e.AddrPort()
	if !ok || got != netip.MustParseAddrPort("10.0.0.1:9000") {
		t.Fatalf("AddrPort() = %v, %v", got, ok)
	}
}

func TestFromNetAddr(t *testing.T) {
	udp := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4000}
	e, err := FromNetAddr(udp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != New("127.0.0.1", 4000) {
		t.Fatalf("got %v", e)
	}
	if _, err := FromNetAddr(nil); !errors.Is(err, ErrInvalidEndpoint) {
		t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Endpoint
		wantErr bool
	}{
		{"localhost:5555", New("localhost", 5555), false},
		{"[::1]:80", New("::1", 80), false},
		{"no-port", Endpoint{}, true},
		{":80", Endpoint{}, true},
		{"host:70000", Endpoint{}, true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Parse(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEndpoint_AddrPort_Domain(t *testing.T) {
	if _, ok := New("example.org", 1).AddrPort(); ok {
		t.Fatal("domain endpoint must not convert to AddrPort")
	}
}

func TestEndpoint_IsZero(t *testing.T) {
	if !(Endpoint{}).IsZero() {
		t.Fatal("zero value must be zero")
	}
	if New("a", 0).IsZero() {
		t.Fatal("endpoint with host is not zero")
	}
}
