package core

import "math"

// Linspace returns n evenly spaced values from start to stop inclusive.
// A single point yields [start]; n <= 0 yields an empty slice.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}

	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop

	return out
}

// LogSpace returns n points spaced evenly on a log10 scale between lo and hi
// (both in linear units, e.g. Hz). Both endpoints are included.
func LogSpace(lo, hi float64, n int) []float64 {
	exps := Linspace(math.Log10(lo), math.Log10(hi), n)
	for i, e := range exps {
		exps[i] = math.Pow(10, e)
	}
	return exps
}
