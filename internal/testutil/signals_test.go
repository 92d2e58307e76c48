package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}

	// 12 samples per quarter period
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1", s[12])
	}
}

func TestNoiseReproducible(t *testing.T) {
	a := Noise(42, 0.5, 64)
	b := Noise(42, 0.5, 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("not deterministic at index %d", i)
		}

		if a[i] < -0.5 || a[i] >= 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}

	c := Noise(43, 0.5, 64)
	if d, _ := MaxAbsDiff(a, c); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	x := Impulse(8, 3)
	for i, v := range x {
		want := 0.0
		if i == 3 {
			want = 1
		}

		if v != want {
			t.Fatalf("x[%d] = %v, want %v", i, v, want)
		}
	}

	if PeakAbs(Impulse(4, 9)) != 0 {
		t.Fatal("out-of-range position should give silence")
	}
}

func TestBlocksConcat(t *testing.T) {
	x := Noise(1, 1, 10)
	blocks := Blocks(x, 3, 0, 7)

	if len(blocks) != 3 || len(blocks[1]) != 0 {
		t.Fatalf("unexpected block shapes: %d blocks", len(blocks))
	}

	blocks[0][0] = 99
	if x[0] == 99 {
		t.Fatal("Blocks must copy")
	}

	blocks[0][0] = x[0]
	RequireSliceNearlyEqual(t, Concat(blocks...), x, 0)
}
