// Package equalizer is the thread-safe front of the peaking EQ: it owns the
// filter chain, applies presets and gain changes from control goroutines and
// processes audio blocks from the device callback.
//
// A single mutex guards the chain. Every control operation and every block
// takes it, so parameter changes land on block boundaries.
package equalizer

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/gain"
	"github.com/cwbudde/algo-eq/internal/audio"
	"github.com/cwbudde/algo-eq/internal/config"
)

// Equalizer wraps an eq.Chain built from a configuration.
type Equalizer struct {
	mu sync.Mutex

	cfg    *config.Config
	proc   core.ProcessorConfig
	chain  *eq.Chain
	bypass bool
	preset string

	scratch []float64
}

// New builds an equalizer from cfg. Options override the configured sample
// rate and block size, e.g. to follow the rate of an input file.
func New(cfg *config.Config, opts ...core.ProcessorOption) *Equalizer {
	proc := core.ApplyProcessorOptions(append(cfg.ProcessorOptions(), opts...)...)

	e := &Equalizer{
		cfg:     cfg,
		proc:    proc,
		chain:   eq.NewChain(proc.SampleRate, cfg.EqBands()...),
		scratch: make([]float64, 0, proc.BlockSize),
	}

	log.Debugf("equalizer: %d bands at %.0f Hz, block %d", e.chain.NumBands(), proc.SampleRate, proc.BlockSize)

	return e
}

// Config returns the configuration the equalizer was built from.
func (e *Equalizer) Config() *config.Config { return e.cfg }

// SampleRate returns the processing rate in Hz.
func (e *Equalizer) SampleRate() float64 { return e.proc.SampleRate }

// BlockSize returns the nominal block length in samples.
func (e *Equalizer) BlockSize() int { return e.proc.BlockSize }

// Bands returns a snapshot of the current bands.
func (e *Equalizer) Bands() []eq.Band {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.chain.Bands()
}

// CurrentPreset returns the name of the last applied preset, or "" when the
// gains were changed individually since.
func (e *Equalizer) CurrentPreset() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.preset
}

// ApplyPreset replaces every gain with the named preset's gains. The chain is
// rebuilt from the configured bands, so all filter states restart. A preset
// whose gain count differs from the band count is rejected and nothing
// changes.
func (e *Equalizer) ApplyPreset(name string) error {
	p, err := e.cfg.Preset(name)
	if err != nil {
		return err
	}

	return e.applyGains(name, p)
}

// ApplyCustomPreset is ApplyPreset for a preset loaded from a file.
func (e *Equalizer) ApplyCustomPreset(p config.Preset) error {
	return e.applyGains("custom", p)
}

func (e *Equalizer) applyGains(name string, p config.Preset) error {
	if len(p.Gains) != len(e.cfg.Bands) {
		return fmt.Errorf("equalizer: preset %q: %w: has %d gains but %d bands are configured",
			name, eq.ErrGainCount, len(p.Gains), len(e.cfg.Bands))
	}

	chain := eq.NewChain(e.proc.SampleRate)
	for i, bc := range e.cfg.Bands {
		b := bc.Band()
		b.GainDB = p.Gains[i]
		chain.AddBand(b)
	}

	e.mu.Lock()
	e.chain = chain
	e.preset = name
	e.mu.Unlock()

	log.Infof("applied preset %s: %s", name, p.Description)

	return nil
}

// SetGain sets the gain of band i (zero-based). Filter memory is kept.
func (e *Equalizer) SetGain(i int, gainDB float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.chain.SetGain(i, gainDB); err != nil {
		return fmt.Errorf("equalizer: %w", err)
	}

	e.preset = ""

	return nil
}

// AdjustGain adds delta dB to band i and returns the new gain. With limitDB > 0
// the result is clamped to ±limitDB. The read and the write happen under one
// lock, so a concurrent preset change is never overwritten with stale gains.
func (e *Equalizer) AdjustGain(i int, delta, limitDB float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.chain.Band(i)
	if err != nil {
		return 0, fmt.Errorf("equalizer: %w", err)
	}

	g := b.GainDB + delta
	if limitDB > 0 {
		g = core.Clamp(g, -limitDB, limitDB)
	}

	_ = e.chain.SetGain(i, g)
	e.preset = ""

	return g, nil
}

// Flat sets every gain to 0 dB, making the chain an exact identity.
func (e *Equalizer) Flat() {
	e.mu.Lock()
	defer e.mu.Unlock()

	_ = e.chain.SetGains(make([]float64, e.chain.NumBands()))
	e.preset = ""
}

// SetBypass enables or disables bypass. Leaving bypass resets the filter
// states so the next block seeds them afresh.
func (e *Equalizer) SetBypass(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass && !on {
		e.chain.ResetStates()
	}

	e.bypass = on
	log.Debugf("equalizer bypass=%v", on)
}

// Bypassed reports whether blocks currently skip the chain.
func (e *Equalizer) Bypassed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.bypass
}

// ResetStates returns every band to the uninitialized state.
func (e *Equalizer) ResetStates() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chain.ResetStates()
}

// Process runs one block through the chain and returns the result. The input
// is not modified. In bypass, or with no bands, block itself is returned.
func (e *Equalizer) Process(block []float64) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return block
	}

	return e.chain.Process(block)
}

// ProcessBlock filters buf in place.
func (e *Equalizer) ProcessBlock(buf []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.bypass {
		e.chain.ProcessBlock(buf)
	}
}

// ProcessPCM is the device callback glue: S16LE mono in, S16LE mono out, the
// same number of samples. The block is filtered, normalized to the
// configured ceiling when enabled, then clipped back to 16 bits. Bytes of out
// beyond the processed samples are zeroed.
func (e *Equalizer) ProcessPCM(out, in []byte) {
	// scratch is only touched from the audio callback
	e.scratch = audio.DecodeS16LE(e.scratch, in)

	e.ProcessBlock(e.scratch)

	if e.cfg.Normalize {
		gain.NormalizeInPlace(e.scratch, e.cfg.NormalizeDB)
	}

	n := audio.EncodeS16LE(out, e.scratch)
	clear(out[n*audio.BytesPerSample:])
}

// Response evaluates the current bands over freqs (nil for the default grid).
func (e *Equalizer) Response(freqs []float64) eq.Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.chain.Response(freqs)
}

// MeasureResponse returns the FFT-measured response of the current bands.
func (e *Equalizer) MeasureResponse(n int) (eq.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.chain.MeasureResponse(n)
}
