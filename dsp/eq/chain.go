package eq

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

var (
	// ErrBandIndex is returned for a band index outside the chain.
	ErrBandIndex = errors.New("eq: band index out of range")
	// ErrGainCount is returned when a gain list does not match the band count.
	ErrGainCount = errors.New("eq: gain count does not match band count")
)

// Chain is an ordered cascade of peaking bands with per-band filter memory.
// bands and states always have the same length.
type Chain struct {
	sampleRate float64
	bands      []Band
	states     []State
}

// NewChain returns a chain running at sampleRate with the given bands, all
// Uninitialized.
func NewChain(sampleRate float64, bands ...Band) *Chain {
	c := &Chain{sampleRate: sampleRate}
	for _, b := range bands {
		c.AddBand(b)
	}
	return c
}

// SampleRate returns the rate the coefficients are derived for.
func (c *Chain) SampleRate() float64 { return c.sampleRate }

// NumBands returns the number of bands.
func (c *Chain) NumBands() int { return len(c.bands) }

// Bands returns a copy of the band list.
func (c *Chain) Bands() []Band {
	out := make([]Band, len(c.bands))
	copy(out, c.bands)
	return out
}

// Band returns the i-th band.
func (c *Chain) Band(i int) (Band, error) {
	if i < 0 || i >= len(c.bands) {
		return Band{}, fmt.Errorf("%w: %d (have %d)", ErrBandIndex, i, len(c.bands))
	}
	return c.bands[i], nil
}

// State returns the i-th band's filter memory.
func (c *Chain) State(i int) (State, error) {
	if i < 0 || i >= len(c.states) {
		return State{}, fmt.Errorf("%w: %d (have %d)", ErrBandIndex, i, len(c.states))
	}
	return c.states[i], nil
}

// AddBand appends b with an Uninitialized state and returns its index.
func (c *Chain) AddBand(b Band) int {
	c.bands = append(c.bands, b)
	c.states = append(c.states, State{Kind: Uninitialized})
	return len(c.bands) - 1
}

// RemoveBand deletes the i-th band and its state.
func (c *Chain) RemoveBand(i int) error {
	if i < 0 || i >= len(c.bands) {
		return fmt.Errorf("%w: %d (have %d)", ErrBandIndex, i, len(c.bands))
	}

	c.bands = append(c.bands[:i], c.bands[i+1:]...)
	c.states = append(c.states[:i], c.states[i+1:]...)
	return nil
}

// Clear removes every band and state.
func (c *Chain) Clear() {
	c.bands = c.bands[:0]
	c.states = c.states[:0]
}

// ResetStates marks every state Uninitialized; bands are kept.
func (c *Chain) ResetStates() {
	for i := range c.states {
		c.states[i] = State{Kind: Uninitialized}
	}
}

// SetGain changes the gain of the i-th band. The filter memory is kept, so
// the change takes effect on the next block without a restart.
func (c *Chain) SetGain(i int, gainDB float64) error {
	if i < 0 || i >= len(c.bands) {
		return fmt.Errorf("%w: %d (have %d)", ErrBandIndex, i, len(c.bands))
	}

	c.bands[i].GainDB = gainDB
	return nil
}

// SetGains replaces all gains at once. On a length mismatch nothing changes.
func (c *Chain) SetGains(gains []float64) error {
	if len(gains) != len(c.bands) {
		return fmt.Errorf("%w: got %d gains for %d bands", ErrGainCount, len(gains), len(c.bands))
	}

	for i, g := range gains {
		c.bands[i].GainDB = g
	}
	return nil
}

// Process filters block through the cascade and returns the result.
//
// With no bands the input slice itself is returned. Otherwise the result is a
// new slice of the same length and block is left untouched.
func (c *Chain) Process(block []float64) []float64 {
	if len(c.bands) == 0 {
		return block
	}

	out := make([]float64, len(block))
	copy(out, block)
	c.ProcessBlock(out)
	return out
}

// ProcessBlock filters buf in place through every band in order, carrying
// each band's delay line across calls. An empty buf leaves all states as
// they are. Zero-alloc.
func (c *Chain) ProcessBlock(buf []float64) {
	if len(buf) == 0 {
		return
	}

	for i := range c.bands {
		coeffs := c.bands[i].Coefficients(c.sampleRate)
		sec := biquad.Section{Coefficients: coeffs}

		switch st := c.states[i]; st.Kind {
		case Uninitialized:
			// buf[0] is already the previous band's output here
			sec.SetState(coeffs.SteadyState(buf[0]))
		case Active:
			sec.SetState(st.Delay)
		}

		sec.ProcessBlock(buf)
		c.states[i] = State{Kind: Active, Delay: sec.State()}
	}
}
