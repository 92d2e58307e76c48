package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/config"
)

// PrintBands prints the live bands next to their configured descriptions.
// The Peak column is each band's own magnitude at its center frequency,
// which is twice its gain for the linear-gain peaking design.
func PrintBands(w io.Writer, bands []eq.Band, cfg *config.Config, sampleRate float64) {
	if len(bands) == 0 {
		fmt.Fprintln(w, KeyStyle.Render("No equalizer bands configured."))
		return
	}

	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("%-4s %-12s %9s  %9s  %-6s  %s", "#", "Freq (Hz)", "Gain", "Peak", "Q", "Description")))

	for i, b := range bands {
		desc := ""
		if cfg != nil && i < len(cfg.Bands) {
			desc = cfg.Bands[i].Description
		}

		coeffs := b.Coefficients(sampleRate)
		peakDB := coeffs.MagnitudeDB(b.Frequency, sampleRate)

		gain := GainStyle(b.GainDB).Render(fmt.Sprintf("%+6.1f dB", b.GainDB))
		peak := GainStyle(peakDB).Render(fmt.Sprintf("%+6.1f dB", peakDB))
		fmt.Fprintf(w, "%-4d %-12.1f %s  %s  %-6.2f  %s\n", i+1, b.Frequency, gain, peak, b.Q, desc)
	}
}

// PrintPresets lists the configured presets in name order.
func PrintPresets(w io.Writer, cfg *config.Config) {
	names := cfg.PresetNames()
	if len(names) == 0 {
		fmt.Fprintln(w, KeyStyle.Render("No presets available."))
		return
	}

	fmt.Fprintln(w, HeaderStyle.Render("Available presets"))

	for _, name := range names {
		p := cfg.Presets[name]
		fmt.Fprintf(w, "  %s  %s\n", ValueStyle.Render(fmt.Sprintf("%-14s", name)), p.Description)
	}
}

// PrintResponse prints a frequency response as an aligned table, or as CSV
// with a header row when csv is set.
func PrintResponse(w io.Writer, r eq.Response, csv bool) {
	if csv {
		fmt.Fprintln(w, "frequency_hz,magnitude_db,phase_rad")

		for i := range r.Frequencies {
			fmt.Fprintf(w, "%g,%g,%g\n", r.Frequencies[i], r.MagnitudeDB[i], r.Phase[i])
		}

		return
	}

	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("%12s %10s %10s", "Freq (Hz)", "Mag (dB)", "Phase (°)")))

	for i := range r.Frequencies {
		mag := GainStyle(roundTenth(r.MagnitudeDB[i])).Render(fmt.Sprintf("%+10.2f", r.MagnitudeDB[i]))
		fmt.Fprintf(w, "%12.1f %s %10.1f\n", r.Frequencies[i], mag, r.Phase[i]*180/math.Pi)
	}
}

// PrintKeyFrequencies prints the response at a few named frequencies.
func PrintKeyFrequencies(w io.Writer, r eq.Response) {
	for i, f := range r.Frequencies {
		fmt.Fprintf(w, "  %6.0f Hz: %s\n", f, GainStyle(roundTenth(r.MagnitudeDB[i])).Render(fmt.Sprintf("%+6.2f dB", r.MagnitudeDB[i])))
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
