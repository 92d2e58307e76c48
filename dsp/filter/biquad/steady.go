package biquad

// SteadyState returns the delay-line state a section reaches after an
// infinitely long constant input of value x. Starting a block from this state
// makes a constant signal pass without an onset transient.
//
// The result matches scipy.signal.lfilter_zi(b, a) * x for a biquad. When the
// denominator has a pole at DC (1 + A1 + A2 == 0) the DC gain is undefined and
// the state is non-finite.
func (c Coefficients) SteadyState(x float64) [2]float64 {
	dcGain := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)

	return [2]float64{
		x * ((c.B1 + c.B2) - (c.A1+c.A2)*dcGain),
		x * (c.B2 - c.A2*dcGain),
	}
}
