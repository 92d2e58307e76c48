package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestToS16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16384},
		{-1, -32768},
		{1, 32767},
		{-2, -32768},
		{3.5, 32767},
		{math.Inf(1), 32767},
		{math.Inf(-1), -32768},
		{math.NaN(), 0},
		{1.0 / 32768, 1},
	}

	for _, tt := range tests {
		if got := ToS16(tt.in); got != tt.want {
			t.Fatalf("ToS16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecodeS16LE(t *testing.T) {
	src := make([]byte, 7) // odd trailing byte
	for i, v := range []int16{0, -32768, 16384} {
		binary.LittleEndian.PutUint16(src[2*i:], uint16(v))
	}

	got := DecodeS16LE(nil, src)
	want := []float64{0, -1, 0.5}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if len(DecodeS16LE(got, nil)) != 0 {
		t.Fatal("empty input must decode to an empty block")
	}
}

func TestS16RoundTrip(t *testing.T) {
	src := make([]byte, 2*256)
	for i := range 256 {
		binary.LittleEndian.PutUint16(src[2*i:], uint16(int16(i*251-32768)))
	}

	block := DecodeS16LE(make([]float64, 0, 256), src)

	dst := make([]byte, len(src))
	if n := EncodeS16LE(dst, block); n != 256 {
		t.Fatalf("encoded %d samples", n)
	}

	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("byte %d differs", i)
		}
	}
}

func TestEncodeS16LEShortDst(t *testing.T) {
	dst := make([]byte, 3)
	if n := EncodeS16LE(dst, []float64{0.1, 0.2, 0.3}); n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
}
