package main

import (
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-eq/internal/cli"
	"github.com/cwbudde/algo-eq/internal/config"
)

var version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config  string           `short:"c" type:"path" help:"Configuration file (YAML or JSON)."`
	Verbose bool             `short:"v" help:"Enable debug logging."`
	Version kong.VersionFlag `help:"Show version information."`
}

func (g *Globals) load() (*config.Config, error) {
	return config.Load(g.Config)
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Run      RunCmd      `cmd:"" default:"withargs" help:"Run the real-time equalizer on the audio device."`
	Test     TestCmd     `cmd:"" help:"Print configuration and response checks without audio."`
	Response ResponseCmd `cmd:"" help:"Print the frequency response."`
	Process  ProcessCmd  `cmd:"" help:"Equalize a WAV file."`
	Presets  PresetsCmd  `cmd:"" help:"List presets."`
	Bands    BandsCmd    `cmd:"" help:"List bands."`
	Preset   PresetCmd   `cmd:"" help:"Save or load custom preset files."`
	Devices  DevicesCmd  `cmd:"" help:"List audio devices."`
}

func main() {
	var c CLI

	ctx := kong.Parse(&c,
		kong.Name("peq"),
		kong.Description("Real-time parametric equalizer"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	if c.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if err := ctx.Run(&c.Globals); err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
