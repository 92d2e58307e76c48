package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func TestPeakLinearGain_Golden(t *testing.T) {
	c := PeakLinearGain(1000, 6, 1, 44100)

	got := [5]float64{round5(c.B0), round5(c.B1), round5(c.B2), round5(c.A1), round5(c.A2)}
	want := [5]float64{1.10243, -1.91171, 0.82885, -1.91171, 0.93128}
	if got != want {
		t.Fatalf("coefficients = %v, want %v", got, want)
	}
}

func TestPeakLinearGain_ZeroGainIsExactIdentity(t *testing.T) {
	for _, fs := range []float64{8000, 22050, 44100, 48000, 96000} {
		for _, q := range []float64{0.1, 0.5, 0.707, 1, 2.5, 10} {
			for _, f := range []float64{20, 100, 1000, 3999, 0.45 * fs} {
				c := PeakLinearGain(f, 0, q, fs)
				if c.B0 != 1 || c.B1 != c.A1 || c.B2 != c.A2 {
					t.Fatalf("fs=%v q=%v f=%v: b=(%v,%v,%v) a=(1,%v,%v)",
						fs, q, f, c.B0, c.B1, c.B2, c.A1, c.A2)
				}
			}
		}
	}
}

func TestPeakLinearGain_Pure(t *testing.T) {
	a := PeakLinearGain(2500, -4.5, 1.4, 48000)
	b := PeakLinearGain(2500, -4.5, 1.4, 48000)
	if a != b {
		t.Fatalf("repeated call differs: %v vs %v", a, b)
	}
}

func TestPeakLinearGain_SampleRateMatters(t *testing.T) {
	a := PeakLinearGain(1000, 6, 1, 44100)
	b := PeakLinearGain(1000, 6, 1, 48000)
	if a == b {
		t.Fatal("coefficients should depend on the sample rate")
	}
}

func TestPeakLinearGain_CenterGainIsDoubled(t *testing.T) {
	for _, g := range []float64{-12, -6, -1, 1, 3, 6, 12} {
		c := PeakLinearGain(1000, g, 1, 44100)
		if got := c.MagnitudeDB(1000, 44100); math.Abs(got-2*g) > 1e-6 {
			t.Fatalf("gain %v dB: |H(f0)| = %v dB, want %v", g, got, 2*g)
		}
	}
}

func TestPeakLinearGain_CutIsInverseOfBoost(t *testing.T) {
	boost := PeakLinearGain(500, 6, 2, 44100)
	cut := PeakLinearGain(500, -6, 2, 44100)

	for _, f := range []float64{50, 200, 500, 1200, 8000} {
		h := boost.Response(f, 44100) * cut.Response(f, 44100)
		if math.Abs(real(h)-1) > 1e-9 || math.Abs(imag(h)) > 1e-9 {
			t.Fatalf("f=%v: boost*cut = %v, want 1", f, h)
		}
	}
}

func TestPeakLinearGain_InvalidInputsPropagate(t *testing.T) {
	tests := []struct {
		name          string
		freq, q, rate float64
	}{
		{name: "zero Q", freq: 1000, q: 0, rate: 44100},
		{name: "NaN frequency", freq: math.NaN(), q: 1, rate: 44100},
		{name: "zero sample rate", freq: 1000, q: 1, rate: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := PeakLinearGain(tt.freq, 6, tt.q, tt.rate)
			if c.IsFinite() {
				t.Fatalf("expected non-finite coefficients, got %+v", c)
			}
		})
	}
}

func TestPeakLinearGain_Stable(t *testing.T) {
	for _, g := range []float64{-20, -6, 0, 6, 20} {
		for _, f := range []float64{31.25, 250, 1000, 8000, 16000} {
			c := PeakLinearGain(f, g, 1, 44100)
			if !isStable(c) {
				t.Fatalf("f=%v g=%v: unstable %+v", f, g, c)
			}
		}
	}
}

// isStable checks the biquad stability triangle.
func isStable(c biquad.Coefficients) bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}
