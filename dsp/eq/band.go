package eq

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

// DefaultQ is the quality factor used when a band does not specify one.
const DefaultQ = 1.0

// ErrInvalidBand is returned by Band.Validate.
var ErrInvalidBand = errors.New("eq: invalid band")

// Band is one peaking filter of the equalizer. GainDB may change while the
// chain is running; Frequency and Q are fixed when the band is added.
type Band struct {
	Frequency float64 // center frequency in Hz
	GainDB    float64
	Q         float64
}

// NewBand returns a band with the given parameters.
func NewBand(frequency, gainDB, q float64) Band {
	return Band{Frequency: frequency, GainDB: gainDB, Q: q}
}

// Coefficients derives the band's biquad coefficients at sampleRate.
// Parameters are used as-is; see design.PeakLinearGain.
func (b Band) Coefficients(sampleRate float64) biquad.Coefficients {
	return design.PeakLinearGain(b.Frequency, b.GainDB, b.Q, sampleRate)
}

// Validate reports whether the band yields finite, stable coefficients at
// sampleRate: 0 < Frequency < sampleRate/2, Q > 0 and a finite gain.
// The processing path never calls it; it is meant for configuration
// boundaries.
func (b Band) Validate(sampleRate float64) error {
	switch {
	case !finite(sampleRate) || sampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v must be positive", ErrInvalidBand, sampleRate)
	case !finite(b.Frequency) || b.Frequency <= 0 || b.Frequency >= sampleRate/2:
		return fmt.Errorf("%w: frequency %v Hz outside (0, %v)", ErrInvalidBand, b.Frequency, sampleRate/2)
	case !finite(b.Q) || b.Q <= 0:
		return fmt.Errorf("%w: Q %v must be positive", ErrInvalidBand, b.Q)
	case !finite(b.GainDB):
		return fmt.Errorf("%w: gain %v dB is not finite", ErrInvalidBand, b.GainDB)
	case !b.Coefficients(sampleRate).IsFinite():
		return fmt.Errorf("%w: %v Hz, Q %v gives non-finite coefficients", ErrInvalidBand, b.Frequency, b.Q)
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
