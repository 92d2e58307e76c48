package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/config"
)

func TestPrintBands(t *testing.T) {
	cfg := config.Default()

	var buf bytes.Buffer
	bands := cfg.EqBands()
	bands[5].GainDB = 3

	PrintBands(&buf, bands, cfg, 44100)

	out := buf.String()
	for _, want := range []string{"1000.0", "Presence", "+0.0 dB", "10 ", "Peak", "+3.0 dB", "+6.0 dB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintBands(&buf, nil, nil, 44100)

	if !strings.Contains(buf.String(), "No equalizer bands") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrintPresets(t *testing.T) {
	var buf bytes.Buffer
	PrintPresets(&buf, config.Default())

	out := buf.String()
	if strings.Index(out, "bass_boost") > strings.Index(out, "vocal") {
		t.Fatal("presets must be listed in name order")
	}

	buf.Reset()
	PrintPresets(&buf, &config.Config{})

	if !strings.Contains(buf.String(), "No presets") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrintResponseCSV(t *testing.T) {
	r := eq.NewChain(44100).Response([]float64{100, 1000})

	var buf bytes.Buffer
	PrintResponse(&buf, r, true)

	want := "frequency_hz,magnitude_db,phase_rad\n100,0,0\n1000,0,0\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrintResponseTable(t *testing.T) {
	r := eq.NewChain(44100, eq.NewBand(1000, 6, 1)).Response([]float64{1000})

	var buf bytes.Buffer
	PrintResponse(&buf, r, false)

	if !strings.Contains(buf.String(), "+12.00") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestGainStyle(t *testing.T) {
	if GainStyle(1).GetForeground() != BoostStyle.GetForeground() {
		t.Fatal("boost style")
	}

	if GainStyle(-1).GetForeground() != CutStyle.GetForeground() {
		t.Fatal("cut style")
	}
}
