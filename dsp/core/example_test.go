package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=48000 blockSize=256
}

func ExampleLogSpace() {
	for _, f := range core.LogSpace(10, 10000, 4) {
		fmt.Printf("%.0f ", f)
	}
	fmt.Println()

	// Output:
	// 10 100 1000 10000
}
