package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/internal/audio"
	"github.com/cwbudde/algo-eq/internal/cli"
	"github.com/cwbudde/algo-eq/internal/config"
	"github.com/cwbudde/algo-eq/internal/equalizer"
	"github.com/cwbudde/algo-eq/internal/ui"
)

// keyFrequencies are the spot checks printed by the test command.
var keyFrequencies = []float64{60, 170, 310, 1000, 5000, 10000}

const measureSize = 1 << 15

func newEqualizer(cfg *config.Config, preset string, opts ...core.ProcessorOption) (*equalizer.Equalizer, error) {
	e := equalizer.New(cfg, opts...)

	if preset != "" {
		if err := e.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// RunCmd streams the default (or named) devices through the equalizer.
type RunCmd struct {
	Preset   string `short:"p" help:"Preset to apply before starting."`
	TUI      bool   `name:"tui" help:"Show the interactive control panel."`
	Capture  string `help:"Capture device name (substring match)."`
	Playback string `help:"Playback device name (substring match)."`
	NoMMap   bool   `name:"no-mmap" help:"Disable ALSA mmap mode."`
}

func (r *RunCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	e, err := newEqualizer(cfg, r.Preset)
	if err != nil {
		return err
	}

	stream, err := audio.OpenDuplex(audio.DuplexConfig{
		SampleRate:   cfg.SampleRate,
		BufferFrames: cfg.BufferSize,
		CaptureName:  r.Capture,
		PlaybackName: r.Playback,
		AlsaNoMMap:   r.NoMMap,
	}, e)
	if err != nil {
		return err
	}
	defer stream.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !r.TUI {
		cli.PrintKeyValue(os.Stdout, "Sample rate", fmt.Sprintf("%d Hz", cfg.SampleRate))
		cli.PrintKeyValue(os.Stdout, "Buffer size", fmt.Sprintf("%d samples", cfg.BufferSize))
		cli.PrintBands(os.Stdout, e.Bands(), cfg, e.SampleRate())
		fmt.Println("\nEqualizer is running. Press Ctrl+C to stop.")

		return stream.Run(ctx)
	}

	descs := make([]string, len(cfg.Bands))
	for i, b := range cfg.Bands {
		descs[i] = b.Description
	}

	p := tea.NewProgram(ui.NewModel(e, cfg.PresetNames(), descs), tea.WithAltScreen())

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := stream.Run(runCtx); err != nil {
			p.Send(ui.StreamErrMsg{Err: err})
			return
		}

		p.Quit()
	}()

	m, err := p.Run()

	cancel()
	<-done

	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	if final, ok := m.(ui.Model); ok && final.Err != nil {
		return final.Err
	}

	return nil
}

// TestCmd prints the configuration, the response at key frequencies and an
// FFT cross-check of the analytic response.
type TestCmd struct {
	Preset string `short:"p" help:"Preset to apply first."`
}

func (t *TestCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	e, err := newEqualizer(cfg, t.Preset)
	if err != nil {
		return err
	}

	out := os.Stdout

	fmt.Fprintln(out, cli.TitleStyle.Render("Equalizer test mode"))
	cli.PrintKeyValue(out, "Config", cfg.Source())
	cli.PrintKeyValue(out, "Sample rate", fmt.Sprintf("%d Hz", cfg.SampleRate))
	cli.PrintKeyValue(out, "Buffer size", fmt.Sprintf("%d samples", cfg.BufferSize))
	cli.PrintKeyValue(out, "Kernel", biquad.KernelName())
	fmt.Fprintln(out)

	cli.PrintBands(out, e.Bands(), cfg, e.SampleRate())
	fmt.Fprintln(out)
	cli.PrintPresets(out, cfg)
	fmt.Fprintln(out)

	r := e.Response(nil)
	cli.PrintKeyValue(out, "Response points", r.Len())
	cli.PrintKeyValue(out, "Frequency range", fmt.Sprintf("%.1f - %.1f Hz", r.Frequencies[0], r.Frequencies[r.Len()-1]))

	fmt.Fprintln(out, "\nResponse at key frequencies:")
	cli.PrintKeyFrequencies(out, e.Response(keyFrequencies))

	measured, err := e.MeasureResponse(measureSize)
	if err != nil {
		return err
	}

	dev := eq.MaxDeviationDB(measured, e.Response(measured.Frequencies))
	fmt.Fprintln(out)
	cli.PrintKeyValue(out, "FFT max deviation", fmt.Sprintf("%.2e dB", dev))

	return nil
}

// ResponseCmd prints (frequency, magnitude, phase) rows.
type ResponseCmd struct {
	Preset string `short:"p" help:"Preset to apply first."`
	Points int    `short:"n" default:"1000" help:"Number of log-spaced points from 10 Hz to Nyquist."`
	CSV    bool   `name:"csv" help:"Print CSV instead of a table."`
}

func (r *ResponseCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	e, err := newEqualizer(cfg, r.Preset)
	if err != nil {
		return err
	}

	if r.Points < 2 {
		return fmt.Errorf("points must be at least 2, got %d", r.Points)
	}

	grid := core.LogSpace(eq.DefaultGridMinHz, e.SampleRate()/2, r.Points)
	cli.PrintResponse(os.Stdout, e.Response(grid), r.CSV)

	return nil
}

// ProcessCmd equalizes a WAV file offline.
type ProcessCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Input WAV file."`
	Output string `arg:"" type:"path" help:"Output WAV file (16-bit mono)."`
	Preset string `short:"p" help:"Preset to apply first."`
	Fade   int    `default:"-1" help:"Fade length in samples (default from config)."`
}

func (p *ProcessCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	// validate the preset before touching any file
	if p.Preset != "" {
		if _, err := newEqualizer(cfg, p.Preset); err != nil {
			return err
		}
	}

	in, err := os.Open(p.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(p.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	fade := cfg.FadeSamples
	if p.Fade >= 0 {
		fade = p.Fade
	}

	opts := audio.FileOptions{
		BlockSize:   cfg.BufferSize,
		Normalize:   cfg.Normalize,
		NormalizeDB: cfg.NormalizeDB,
		FadeSamples: fade,
	}

	stats, err := audio.ProcessWAV(in, out, opts, func(sampleRate float64) (audio.Processor, error) {
		if int(sampleRate) != cfg.SampleRate {
			log.Infof("input is %.0f Hz, configured %d Hz: designing filters for the input rate", sampleRate, cfg.SampleRate)
		}

		e, err := newEqualizer(cfg, p.Preset, core.WithSampleRate(sampleRate))
		if err != nil {
			return nil, err
		}

		for i, b := range e.Bands() {
			if err := b.Validate(sampleRate); err != nil {
				log.Warnf("band %d: %v", i+1, err)
			}
		}

		return e, nil
	})
	if err != nil {
		return err
	}

	cli.PrintKeyValue(os.Stdout, "Written", p.Output)
	cli.PrintKeyValue(os.Stdout, "Samples", fmt.Sprintf("%d @ %d Hz", stats.Samples, stats.SampleRate))
	cli.PrintKeyValue(os.Stdout, "Peak", fmt.Sprintf("%.3f -> %.3f", stats.InputPeak, stats.OutputPeak))

	return nil
}

// PresetsCmd lists presets.
type PresetsCmd struct{}

func (PresetsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	cli.PrintPresets(os.Stdout, cfg)

	return nil
}

// BandsCmd lists bands, optionally with a preset applied.
type BandsCmd struct {
	Preset string `short:"p" help:"Preset to apply first."`
}

func (b *BandsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	e, err := newEqualizer(cfg, b.Preset)
	if err != nil {
		return err
	}

	cli.PrintBands(os.Stdout, e.Bands(), cfg, e.SampleRate())

	return nil
}

// PresetCmd groups the custom preset file commands.
type PresetCmd struct {
	Save PresetSaveCmd `cmd:"" help:"Write a configured preset to a file."`
	Load PresetLoadCmd `cmd:"" help:"Check a preset file against the configured bands."`
}

// PresetSaveCmd writes one configured preset as a standalone file.
type PresetSaveCmd struct {
	File        string `arg:"" type:"path" help:"Destination file."`
	From        string `default:"flat" help:"Configured preset to save."`
	Description string `help:"Description to store instead of the configured one."`
}

func (s *PresetSaveCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	p, err := cfg.Preset(s.From)
	if err != nil {
		return err
	}

	if s.Description != "" {
		p.Description = s.Description
	}

	return config.SavePreset(s.File, p)
}

// PresetLoadCmd applies a preset file to the configured bands and prints the
// result.
type PresetLoadCmd struct {
	File string `arg:"" type:"existingfile" help:"Preset file (YAML or JSON)."`
}

func (l *PresetLoadCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	p, err := config.LoadPreset(l.File)
	if err != nil {
		return err
	}

	e := equalizer.New(cfg)
	if err := e.ApplyCustomPreset(p); err != nil {
		return err
	}

	cli.PrintKeyValue(os.Stdout, "Preset", p.Description)
	cli.PrintBands(os.Stdout, e.Bands(), cfg, e.SampleRate())
	fmt.Println()
	cli.PrintKeyFrequencies(os.Stdout, e.Response(keyFrequencies))

	return nil
}

// DevicesCmd lists audio devices.
type DevicesCmd struct{}

func (DevicesCmd) Run() error {
	capture, playback, err := audio.DeviceNames()
	if err != nil {
		return err
	}

	fmt.Println(cli.HeaderStyle.Render("Capture"))
	for _, name := range capture {
		fmt.Println("  " + name)
	}

	fmt.Println(cli.HeaderStyle.Render("Playback"))
	for _, name := range playback {
		fmt.Println("  " + name)
	}

	return nil
}
