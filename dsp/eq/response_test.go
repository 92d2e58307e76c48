package eq

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-eq/internal/testutil"
)

func TestDefaultGrid(t *testing.T) {
	grid := DefaultGrid(fs)
	if len(grid) != DefaultGridPoints {
		t.Fatalf("len = %d, want %d", len(grid), DefaultGridPoints)
	}

	testutil.RequireNearlyEqual(t, "first", grid[0], 10, 1e-9)
	testutil.RequireNearlyEqual(t, "last", grid[len(grid)-1], fs/2, 1e-6)

	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			t.Fatalf("grid not ascending at %d", i)
		}
	}
}

func TestEmptyChainResponseIsFlat(t *testing.T) {
	r := NewChain(fs).Response(nil)
	if r.Len() != DefaultGridPoints {
		t.Fatalf("len = %d", r.Len())
	}

	for i := range r.Frequencies {
		if r.MagnitudeDB[i] != 0 || r.Phase[i] != 0 {
			t.Fatalf("point %d: %v dB, %v rad", i, r.MagnitudeDB[i], r.Phase[i])
		}
	}
}

func TestResponseCustomGrid(t *testing.T) {
	freqs := []float64{100, 1000, 10000}
	r := NewChain(fs, NewBand(1000, 6, 1)).Response(freqs)

	testutil.RequireSliceNearlyEqual(t, r.Frequencies, freqs, 0)
	testutil.RequireNearlyEqual(t, "1 kHz", r.MagnitudeDB[1], 12, 1e-9)

	if r.MagnitudeDB[0] >= r.MagnitudeDB[1] || r.MagnitudeDB[2] >= r.MagnitudeDB[1] {
		t.Fatalf("peak not at center: %v", r.MagnitudeDB)
	}

	// phase crosses zero at the center frequency
	testutil.RequireNearlyEqual(t, "phase", r.Phase[1], 0, 1e-9)
}

func TestResponseBoostAndCut(t *testing.T) {
	boost := NewChain(fs, NewBand(1000, 3, 1))
	cut := NewChain(fs, NewBand(1000, -3, 1))

	hb := boost.Response([]float64{1000}).MagnitudeDB[0]
	hc := cut.Response([]float64{1000}).MagnitudeDB[0]

	if hb <= 3 {
		t.Fatalf("boost at 1 kHz = %v dB, want > 3", hb)
	}

	testutil.RequireNearlyEqual(t, "boost+cut", hb+hc, 0, 1e-9)
}

func TestResponseCascadeAdds(t *testing.T) {
	a := NewBand(200, 4, 1)
	b := NewBand(3000, -2, 2)
	freqs := []float64{50, 200, 800, 3000, 12000}

	ra := Evaluate([]Band{a}, fs, freqs)
	rb := Evaluate([]Band{b}, fs, freqs)
	rab := NewChain(fs, a, b).Response(freqs)

	for i := range freqs {
		testutil.RequireNearlyEqual(t, "sum", rab.MagnitudeDB[i], ra.MagnitudeDB[i]+rb.MagnitudeDB[i], 1e-9)
	}
}

func TestSingleBandMatchesSection(t *testing.T) {
	b := NewBand(1000, 6, 1)
	freqs := []float64{50, 1000, 3000, 15000}

	r := NewChain(fs, b).Response(freqs)
	coeffs := b.Coefficients(fs)

	for i, f := range freqs {
		testutil.RequireNearlyEqual(t, "magnitude", r.MagnitudeDB[i], coeffs.MagnitudeDB(f, fs), 1e-9)
	}
}

func TestMeasureResponseMatchesAnalytic(t *testing.T) {
	c := NewChain(fs, NewBand(1000, 6, 1), NewBand(5000, -4, 2))

	measured, err := c.MeasureResponse(8192)
	if err != nil {
		t.Fatal(err)
	}

	if measured.Len() != 4096 {
		t.Fatalf("len = %d, want 4096", measured.Len())
	}

	analytic := c.Response(measured.Frequencies)
	if dev := MaxDeviationDB(measured, analytic); dev > 1e-3 {
		t.Fatalf("max deviation %v dB", dev)
	}

	for i := range c.NumBands() {
		if st, _ := c.State(i); st.Kind != Uninitialized {
			t.Fatal("measurement must not touch chain state")
		}
	}
}

func TestMeasureResponseSize(t *testing.T) {
	c := NewChain(fs)
	for _, n := range []int{0, 1, 1000} {
		if _, err := c.MeasureResponse(n); !errors.Is(err, ErrMeasureSize) {
			t.Fatalf("n=%d: err = %v", n, err)
		}
	}
}

func TestImpulseResponseEmptyChain(t *testing.T) {
	ir := NewChain(fs).ImpulseResponse(16)
	testutil.RequireSliceNearlyEqual(t, ir, testutil.Impulse(16, 0), 0)

	if len(NewChain(fs).ImpulseResponse(0)) != 0 {
		t.Fatal("zero-length impulse response")
	}
}
