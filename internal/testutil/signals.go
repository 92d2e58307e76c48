// Package testutil holds signal generators and tolerance checks shared by the
// equalizer tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns length samples of amplitude*sin(2*pi*freqHz*n/sampleRate).
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude) from a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Ones is DC(1, n).
func Ones(n int) []float64 { return DC(1, n) }

// Blocks splits x into consecutive slices of the given sizes. The sizes must
// sum to len(x). The returned slices are copies.
func Blocks(x []float64, sizes ...int) [][]float64 {
	out := make([][]float64, 0, len(sizes))

	pos := 0
	for _, n := range sizes {
		out = append(out, append([]float64(nil), x[pos:pos+n]...))
		pos += n
	}

	return out
}

// Concat joins blocks back into one signal.
func Concat(blocks ...[]float64) []float64 {
	var out []float64
	for _, b := range blocks {
		out = append(out, b...)
	}

	return out
}
