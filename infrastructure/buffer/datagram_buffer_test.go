package buffer

import "testing"

func TestDatagramBuffer_DropsWhenFull(t *testing.T) {
	d := NewDatagramBuffer(2, RemainderCarry)
	if !d.Push([]byte("a")) || !d.Push([]byte("bb")) {
		t.Fatal("expected first two packets to be queued")
	}
	if d.Push([]byte("ccc")) {
		t.Fatal("expected overflow packet to be dropped")
	}
	if d.Packets() != 2 || d.Len() != 3 {
		t.Fatalf("Packets()=%d Len()=%d", d.Packets(), d.Len())
	}

	got, ok := d.Take(1, 10)
	if !ok || string(got) != "a" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if !d.Push([]byte("dddd")) {
		t.Fatal("slot must be reusable after a take")
	}
}

func TestDatagramBuffer_DropsEmptyPacket(t *testing.T) {
	d := NewDatagramBuffer(4, RemainderCarry)
	if d.Push(nil) || d.Push([]byte{}) {
		t.Fatal("empty packets must be dropped")
	}
	if _, ok := d.Take(1, 1); ok {
		t.Fatal("nothing should be queued")
	}
}

func TestDatagramBuffer_CopiesInput(t *testing.T) {
	d := NewDatagramBuffer(4, RemainderCarry)
	in := []byte("abc")
	d.Push(in)
	in[0] = 'z'
	got, _ := d.Take(1, 3)
	if string(got) != "abc" {
		t.Fatalf("buffer aliased caller memory: %q", got)
	}
}

func TestDatagramBuffer_CarryAccounting(t *testing.T) {
	d := NewDatagramBuffer(4, RemainderCarry)
	d.Push([]byte("hello"))
	d.Push([]byte("world"))

	got, _ := d.Take(1, 2)
	if string(got) != "he" || d.Len() != 8 || d.Packets() != 2 {
		t.Fatalf("got %q Len=%d Packets=%d", got, d.Len(), d.Packets())
	}
	got, _ = d.Take(1, 100)
	if string(got) != "llo" || d.Packets() != 1 {
		t.Fatalf("got %q Packets=%d", got, d.Packets())
	}
	if got := d.Drain(100); string(got) != "world" {
		t.Fatalf("Drain = %q", got)
	}
	if d.Drain(1) != nil {
		t.Fatal("Drain on empty buffer must be nil")
	}
}

func TestDatagramBuffer_Reset(t *testing.T) {
	d := NewDatagramBuffer(3, RemainderDiscard)
	d.Push([]byte("a"))
	d.Push([]byte("b"))
	d.Take(1, 1)
	d.Reset()
	if d.Len() != 0 || d.Packets() != 0 {
		t.Fatal("reset must empty the ring")
	}
	for i := 0; i < 3; i++ {
		if !d.Push([]byte{byte(i)}) {
			t.Fatalf("push %d after reset failed", i)
		}
	}
}

func TestNewDatagramBuffer_NormalizesCapacity(t *testing.T) {
	d := NewDatagramBuffer(0, RemainderCarry)
	if !d.Push([]byte("x")) || d.Push([]byte("y")) {
		t.Fatal("capacity must be normalized to one packet")
	}
}

func TestRemainder_String(t *testing.T) {
	if RemainderCarry.String() != "carry" || RemainderDiscard.String() != "discard" || Remainder(9).String() != "unknown" {
		t.Fatal("unexpected names")
	}
}
