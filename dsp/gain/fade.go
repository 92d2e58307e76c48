package gain

import (
	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// FadeEnvelope returns the gain curve ApplyFade applies to a block of length n.
// The first and last min(fadeSamples, n) entries are linear ramps 0..1 and
// 1..0 (endpoints included). When the ramps overlap their factors multiply.
func FadeEnvelope(n, fadeSamples int) []float64 {
	env := make([]float64, n)
	for i := range env {
		env[i] = 1
	}

	m := min(max(fadeSamples, 0), n)
	if m == 0 {
		return env
	}

	in := core.Linspace(0, 1, m)
	vecmath.MulBlockInPlace(env[:m], in)

	out := core.Linspace(1, 0, m)
	vecmath.MulBlockInPlace(env[n-m:], out)

	return env
}

// ApplyFade returns a copy of block with a linear fade-in over the first
// fadeSamples samples and a fade-out over the last fadeSamples. Blocks
// shorter than 2*fadeSamples get overlapping ramps whose factors multiply.
func ApplyFade(block []float64, fadeSamples int) []float64 {
	out := make([]float64, len(block))
	if len(block) == 0 {
		return out
	}

	vecmath.MulBlock(out, block, FadeEnvelope(len(block), fadeSamples))

	return out
}
