// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. The delay line can be
// saved, restored or seeded with the steady-state response to a constant
// input ([SteadyState]) so that a section engaged mid-stream does not click.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
