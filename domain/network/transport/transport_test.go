package transport

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTransport_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		value   Transport
		want    string
		wantErr bool
	}{
		{"UNKNOWN", Unknown, `"UNKNOWN"`, false},
		{"TCP", Stream, `"TCP"`, false},
		{"UDP", Datagram, `"UDP"`, false},
		{"WS", Message, `"WS"`, false},
		{"invalid enum", Transport(42), ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.value.MarshalJSON()
			if (err != nil) != tt.wantErr {
				t.Fatalf("MarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}
}

func TestTransport_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    Transport
		wantErr bool
	}{
		{"tcp lowercase", `"tcp"`, Stream, false},
		{"stream alias", `"Stream"`, Stream, false},
		{"Udp mixed", `"uDp"`, Datagram, false},
		{"datagram alias", `"datagram"`, Datagram, false},
		{"ws lowercase", `"ws"`, Message, false},
		{"invalid value", `"SCTP"`, Unknown, true},
		{"non-string", `123`, Unknown, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Transport
			err := json.Unmarshal([]byte(tc.input), &got)
			if (err != nil) != tc.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTransport_YAML(t *testing.T) {
	var doc struct {
		Transport Transport `yaml:"transport"`
	}
	if err := yaml.Unmarshal([]byte("transport: udp\n"), &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Transport != Datagram {
		t.Fatalf("got %v, want UDP", doc.Transport)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "transport: UDP\n" {
		t.Fatalf("unexpected yaml %q", out)
	}

	if err := yaml.Unmarshal([]byte("transport: sctp\n"), &doc); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestTransport_PacketGranular(t *testing.T) {
	if Stream.PacketGranular() {
		t.Error("stream must not be packet granular")
	}
	if !Datagram.PacketGranular() || !Message.PacketGranular() {
		t.Error("datagram and message must be packet granular")
	}
}

func TestTransport_Network(t *testing.T) {
	if Stream.Network() != "tcp" || Message.Network() != "tcp" || Datagram.Network() != "udp" {
		t.Fatal("unexpected network names")
	}
	if Unknown.Network() != "" {
		t.Fatal("unknown transport has no network")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" udp ")
	if err != nil || got != Datagram {
		t.Fatalf("Parse = %v, %v", got, err)
	}
	if _, err := Parse("x"); err == nil {
		t.Fatal("expected error")
	}
}
