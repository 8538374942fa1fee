package buffer

import (
	"bytes"
	"testing"
)

func TestStreamBuffer_TakeRespectsWindow(t *testing.T) {
	s := NewStreamBuffer(4)
	s.Push([]byte("abc"))
	if _, ok := s.Take(4, 8); ok {
		t.Fatal("must not satisfy minLength 4 with 3 bytes")
	}
	s.Push([]byte("defgh"))
	got, ok := s.Take(4, 6)
	if !ok || string(got) != "abcdef" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestStreamBuffer_CompactsWithoutLosingBytes(t *testing.T) {
	s := NewStreamBuffer(8)
	var want bytes.Buffer
	var got bytes.Buffer
	for i := 0; i < 1000; i++ {
		chunk := []byte{byte(i), byte(i >> 8), byte(i * 3)}
		want.Write(chunk)
		s.Push(chunk)
		if i%3 == 0 {
			out, _ := s.Take(1, 5)
			got.Write(out)
		}
	}
	got.Write(s.Drain(s.Len()))
	if !bytes.Equal(want.Bytes(), got.Bytes()) {
		t.Fatal("bytes lost or reordered across compaction")
	}
}

func TestStreamBuffer_ReturnedSliceIsStable(t *testing.T) {
	s := NewStreamBuffer(0)
	s.Push([]byte("first"))
	out, _ := s.Take(1, 5)
	s.Push([]byte("second"))
	if string(out) != "first" {
		t.Fatalf("returned slice was overwritten: %q", out)
	}
}

func TestStreamBuffer_EmptyPushIgnored(t *testing.T) {
	s := NewStreamBuffer(-1)
	if s.Push(nil) {
		t.Fatal("empty push must report false")
	}
	if s.Drain(10) != nil {
		t.Fatal("nothing to drain")
	}
}
