// Package eq implements a streaming parametric equalizer built from a
// cascade of peaking biquads.
//
// A [Chain] holds an ordered list of [Band] values and one [State] per band.
// Each call to [Chain.ProcessBlock] recomputes every band's coefficients from
// its current parameters, so gains can be changed between blocks. A band's
// delay line starts Uninitialized and is seeded, on the first block it sees,
// with the steady-state response to that block's first sample; afterwards it
// carries over from block to block.
//
// The chain does no locking. Callers sharing a chain between a control
// goroutine and the audio goroutine must serialize access themselves, for
// example with one mutex held for the duration of a block.
package eq
