package equalizer

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/audio"
	"github.com/cwbudde/algo-eq/internal/config"
	"github.com/cwbudde/algo-eq/internal/testutil"
)

const threeBands = `
sample_rate: 44100
buffer_size: 256
normalize: false
bands:
  - {frequency: 100, gain_db: 2}
  - {frequency: 1000, gain_db: -1, q_factor: 1.4}
  - {frequency: 8000, gain_db: 0}
presets:
  flat: {description: flat, gains: [0, 0, 0]}
  smile: {description: smile, gains: [4, -2, 4]}
  broken: {description: wrong size, gains: [1, 2]}
`

func newTestEqualizer(t *testing.T) *Equalizer {
	t.Helper()

	cfg, err := config.Parse([]byte(threeBands))
	if err != nil {
		t.Fatal(err)
	}

	return New(cfg)
}

func gains(bands []eq.Band) []float64 {
	out := make([]float64, len(bands))
	for i, b := range bands {
		out[i] = b.GainDB
	}

	return out
}

func TestNewUsesConfig(t *testing.T) {
	e := New(config.Default())

	if e.SampleRate() != 44100 || e.BlockSize() != 1024 {
		t.Fatalf("rate/block = %v/%d", e.SampleRate(), e.BlockSize())
	}

	if len(e.Bands()) != 10 {
		t.Fatalf("bands = %d", len(e.Bands()))
	}

	e = New(config.Default(), core.WithSampleRate(48000))
	if e.SampleRate() != 48000 {
		t.Fatalf("option ignored: %v", e.SampleRate())
	}
}

func TestApplyPreset(t *testing.T) {
	e := newTestEqualizer(t)

	if err := e.ApplyPreset("smile"); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, gains(e.Bands()), []float64{4, -2, 4}, 0)

	if e.CurrentPreset() != "smile" {
		t.Fatalf("CurrentPreset = %q", e.CurrentPreset())
	}

	// frequency and Q come from the configuration
	if b := e.Bands()[1]; b.Frequency != 1000 || b.Q != 1.4 {
		t.Fatalf("band 1 = %+v", b)
	}
}

func TestApplyPresetCountMismatch(t *testing.T) {
	e := newTestEqualizer(t)
	_ = e.ApplyPreset("smile")

	x := testutil.Noise(1, 0.5, 64)
	e.Process(x)

	err := e.ApplyPreset("broken")
	if !errors.Is(err, eq.ErrGainCount) {
		t.Fatalf("err = %v, want ErrGainCount", err)
	}

	testutil.RequireSliceNearlyEqual(t, gains(e.Bands()), []float64{4, -2, 4}, 0)

	if e.CurrentPreset() != "smile" {
		t.Fatal("rejected preset must not change the current preset")
	}

	if err := e.ApplyCustomPreset(config.Preset{Gains: []float64{1}}); !errors.Is(err, eq.ErrGainCount) {
		t.Fatalf("custom preset err = %v", err)
	}
}

func TestApplyPresetUnknown(t *testing.T) {
	e := newTestEqualizer(t)
	if err := e.ApplyPreset("nope"); !errors.Is(err, config.ErrPresetNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyPresetRestartsState(t *testing.T) {
	e := newTestEqualizer(t)
	_ = e.ApplyPreset("smile")
	e.Process(testutil.Noise(4, 1, 300))

	_ = e.ApplyPreset("smile")

	x := testutil.Noise(5, 1, 128)
	fresh := newTestEqualizer(t)
	_ = fresh.ApplyPreset("smile")

	testutil.RequireSliceNearlyEqual(t, e.Process(x), fresh.Process(x), 0)
}

func TestSetAndAdjustGain(t *testing.T) {
	e := newTestEqualizer(t)
	_ = e.ApplyPreset("flat")

	if err := e.SetGain(0, 3); err != nil {
		t.Fatal(err)
	}

	g, err := e.AdjustGain(0, 1.5, 0)
	if err != nil || g != 4.5 {
		t.Fatalf("AdjustGain = %v, %v", g, err)
	}

	if e.CurrentPreset() != "" {
		t.Fatal("manual gain change must clear the preset name")
	}

	if err := e.SetGain(3, 1); !errors.Is(err, eq.ErrBandIndex) {
		t.Fatalf("SetGain err = %v", err)
	}

	if _, err := e.AdjustGain(-1, 1, 0); !errors.Is(err, eq.ErrBandIndex) {
		t.Fatalf("AdjustGain err = %v", err)
	}
}

func TestAdjustGainClamps(t *testing.T) {
	e := newTestEqualizer(t)
	_ = e.ApplyPreset("flat")

	for range 5 {
		if _, err := e.AdjustGain(1, 4, 12); err != nil {
			t.Fatal(err)
		}
	}

	if g := e.Bands()[1].GainDB; g != 12 {
		t.Fatalf("gain = %v, want 12", g)
	}

	g, _ := e.AdjustGain(1, -30, 12)
	if g != -12 {
		t.Fatalf("gain = %v, want -12", g)
	}
}

func TestAdjustGainAfterPreset(t *testing.T) {
	e := newTestEqualizer(t)
	_ = e.ApplyPreset("flat")
	_ = e.ApplyPreset("smile")

	g, err := e.AdjustGain(0, 1, 0)
	if err != nil || g != 5 {
		t.Fatalf("AdjustGain = %v, %v, want 5", g, err)
	}
}

func TestFlatIsIdentity(t *testing.T) {
	e := newTestEqualizer(t)
	e.Flat()

	x := testutil.Noise(9, 0.8, 512)
	testutil.RequireSliceNearlyEqual(t, e.Process(x), x, 1e-12)
}

func TestBypass(t *testing.T) {
	e := newTestEqualizer(t)
	x := testutil.Noise(2, 1, 100)

	e.SetBypass(true)
	if !e.Bypassed() {
		t.Fatal("Bypassed = false")
	}

	y := e.Process(x)
	if &y[0] != &x[0] {
		t.Fatal("bypass must return the input block")
	}

	e.SetBypass(false)
	testutil.RequireSliceNearlyEqual(t, e.Process(x), newTestEqualizer(t).Process(x), 0)
}

func TestProcessPCMFlatPassThrough(t *testing.T) {
	e := newTestEqualizer(t)
	e.Flat()

	in := make([]byte, 2*64)
	for i := range 64 {
		binary.LittleEndian.PutUint16(in[2*i:], uint16(int16((i-32)*1000)))
	}

	out := make([]byte, len(in))
	e.ProcessPCM(out, in)

	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("byte %d: got %d, want %d", i, out[i], in[i])
		}
	}
}

func TestProcessPCMNormalizes(t *testing.T) {
	cfg, _ := config.Parse([]byte(threeBands))
	cfg.Normalize = true
	cfg.NormalizeDB = -1

	e := New(cfg)
	e.Flat()

	in := make([]byte, 2*441)
	audio.EncodeS16LE(in, testutil.Sine(1000, 44100, 0.25, 441))

	out := make([]byte, len(in))
	e.ProcessPCM(out, in)

	peak := 0
	for i := range 441 {
		v := int(int16(binary.LittleEndian.Uint16(out[2*i:])))
		peak = max(peak, v, -v)
	}

	want := math.Pow(10, -1.0/20) * 32768
	if math.Abs(float64(peak)-want) > 1 {
		t.Fatalf("peak = %d, want %.0f", peak, want)
	}
}

func TestResponse(t *testing.T) {
	e := newTestEqualizer(t)
	_ = e.ApplyPreset("smile")

	r := e.Response([]float64{100})
	if r.MagnitudeDB[0] < 4 {
		t.Fatalf("100 Hz = %v dB, want a boost", r.MagnitudeDB[0])
	}

	m, err := e.MeasureResponse(4096)
	if err != nil {
		t.Fatal(err)
	}

	if m.Len() != 2048 {
		t.Fatalf("measured len = %d", m.Len())
	}
}

func TestConcurrentControl(t *testing.T) {
	e := newTestEqualizer(t)
	block := testutil.Noise(3, 0.5, 256)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := range 200 {
			_ = e.SetGain(i%3, float64(i%12-6))
			if i%50 == 0 {
				_ = e.ApplyPreset("smile")
			}
		}
	}()

	go func() {
		defer wg.Done()

		for range 200 {
			for _, v := range e.Process(block) {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Error("non-finite output")
					return
				}
			}
		}
	}()

	wg.Wait()
}
