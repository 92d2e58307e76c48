package eq

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// ErrMeasureSize is returned for a non power-of-two measurement length.
var ErrMeasureSize = errors.New("eq: measurement size must be a power of two >= 2")

// ImpulseResponse runs a unit impulse of length n through a copy of the
// chain's bands with zeroed delay lines. The chain's own states are untouched.
func (c *Chain) ImpulseResponse(n int) []float64 {
	ir := make([]float64, n)
	if n == 0 {
		return ir
	}

	ir[0] = 1

	scratch := &Chain{sampleRate: c.sampleRate}
	for _, b := range c.bands {
		scratch.bands = append(scratch.bands, b)
		// Active with zero memory: a seeded start would not be an impulse test.
		scratch.states = append(scratch.states, State{Kind: Active})
	}

	scratch.ProcessBlock(ir)

	return ir
}

// MeasureResponse estimates the chain's response by FFT of an n-point impulse
// response. The result covers bins 1..n/2 so it can be compared point by
// point with Chain.Response on the same frequencies.
func (c *Chain) MeasureResponse(n int) (Response, error) {
	if n < 2 || n&(n-1) != 0 {
		return Response{}, fmt.Errorf("%w: %d", ErrMeasureSize, n)
	}

	ir := c.ImpulseResponse(n)

	in := make([]complex128, n)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Response{}, fmt.Errorf("eq: fft plan: %w", err)
	}

	spectrum := make([]complex128, n)
	if err := plan.Forward(spectrum, in); err != nil {
		return Response{}, fmt.Errorf("eq: fft forward: %w", err)
	}

	half := n / 2
	resp := Response{
		Frequencies: make([]float64, half),
		MagnitudeDB: make([]float64, half),
		Phase:       make([]float64, half),
	}

	binHz := c.sampleRate / float64(n)
	for k := 1; k <= half; k++ {
		h := spectrum[k]
		resp.Frequencies[k-1] = float64(k) * binHz
		resp.MagnitudeDB[k-1] = core.LinearToDB(cmplx.Abs(h))
		resp.Phase[k-1] = cmplx.Phase(h)
	}

	return resp, nil
}

// MaxDeviationDB returns the largest absolute magnitude difference between two
// responses over their common length.
func MaxDeviationDB(a, b Response) float64 {
	n := min(len(a.MagnitudeDB), len(b.MagnitudeDB))

	maxDev := 0.0
	for i := range n {
		maxDev = max(maxDev, math.Abs(a.MagnitudeDB[i]-b.MagnitudeDB[i]))
	}

	return maxDev
}
