package gain_test

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/gain"
)

func ExampleNormalize() {
	out := gain.Normalize([]float64{0.1, -0.2, 0.05}, -6)
	fmt.Printf("%.4f\n", gain.Peak(out))
	// Output:
	// 0.5012
}

func ExampleApplyFade() {
	out := gain.ApplyFade([]float64{1, 1, 1, 1, 1, 1, 1, 1}, 3)
	fmt.Printf("%.2f\n", out)
	// Output:
	// [0.00 0.50 1.00 1.00 1.00 1.00 0.50 0.00]
}
