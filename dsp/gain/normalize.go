package gain

import (
	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultTargetDB is the peak level Normalize aims for when callers have no
// preference.
const DefaultTargetDB = -3.0

// Peak returns max |x[i]|, or 0 for an empty block.
func Peak(block []float64) float64 {
	return vecmath.MaxAbs(block)
}

// NormalizeGain returns the scalar that brings block's peak to targetDB, or 1
// when the block is silent.
func NormalizeGain(block []float64, targetDB float64) float64 {
	peak := Peak(block)
	if peak == 0 {
		return 1
	}

	return core.DBToLinear(targetDB) / peak
}

// Normalize scales block uniformly so its peak magnitude equals
// 10^(targetDB/20). A block whose peak is zero is returned as is (same slice).
// Otherwise the result is a new slice.
func Normalize(block []float64, targetDB float64) []float64 {
	peak := Peak(block)
	if peak == 0 {
		return block
	}

	out := make([]float64, len(block))
	vecmath.ScaleBlock(out, block, core.DBToLinear(targetDB)/peak)

	return out
}

// NormalizeInPlace is Normalize writing into buf.
func NormalizeInPlace(buf []float64, targetDB float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.ScaleBlockInPlace(buf, NormalizeGain(buf, targetDB))
}
