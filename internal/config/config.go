// Package config loads the equalizer configuration: stream settings, the
// band layout and named gain presets.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
)

//go:embed peq.yml
var defaultConfig []byte

const (
	// EnvConfigFile names the environment variable holding a config path.
	EnvConfigFile = "PEQ_CONFIG"
	// LocalConfigFile is looked up in the working directory.
	LocalConfigFile = "peq.yml"
	// HomeConfigFile is looked up in the user's home directory.
	HomeConfigFile = ".peq.yml"

	// EmbeddedSource is reported by Source for the built-in configuration.
	EmbeddedSource = "<embedded>"

	defaultNormalizeDB = -1.0
	defaultFadeSamples = 1000
)

var (
	// ErrPresetNotFound is returned for an unknown preset name.
	ErrPresetNotFound = errors.New("config: preset not found")
	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("config: invalid configuration")
)

// BandConfig describes one equalizer band.
type BandConfig struct {
	Frequency   float64 `yaml:"frequency"`
	GainDB      float64 `yaml:"gain_db"`
	QFactor     float64 `yaml:"q_factor,omitempty"`
	Description string  `yaml:"description,omitempty"`
}

// Preset is a named gain vector with one entry per configured band.
type Preset struct {
	Description string    `yaml:"description"`
	Gains       []float64 `yaml:"gains"`
}

// Config is the on-disk configuration. YAML and JSON documents both parse.
type Config struct {
	SampleRate  int               `yaml:"sample_rate"`
	BufferSize  int               `yaml:"buffer_size"`
	Normalize   bool              `yaml:"normalize"`
	NormalizeDB float64           `yaml:"normalize_db"`
	FadeSamples int               `yaml:"fade_samples"`
	Bands       []BandConfig      `yaml:"bands"`
	Presets     map[string]Preset `yaml:"presets,omitempty"`

	source string
}

func scalarDefaults() *Config {
	p := core.DefaultProcessorConfig()

	return &Config{
		SampleRate:  int(p.SampleRate),
		BufferSize:  p.BlockSize,
		Normalize:   true,
		NormalizeDB: defaultNormalizeDB,
		FadeSamples: defaultFadeSamples,
	}
}

// Parse decodes a configuration document. Absent scalar fields keep their
// defaults and bands without a q_factor get eq.DefaultQ.
func Parse(data []byte) (*Config, error) {
	cfg := scalarDefaults()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	for i := range cfg.Bands {
		if cfg.Bands[i].QFactor == 0 {
			cfg.Bands[i].QFactor = eq.DefaultQ
		}
	}

	return cfg, nil
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		log.Panicf("embedded config: %v", err)
	}

	cfg.source = EmbeddedSource
	return cfg
}

// Load reads the configuration from the first readable location among:
// filename, $PEQ_CONFIG, ./peq.yml, $HOME/.peq.yml. When none can be read it
// falls back on the embedded default. Unreadable files are skipped with a
// warning; a readable but malformed or invalid file is an error.
func Load(filename string) (*Config, error) {
	for _, candidate := range candidates(filename) {
		log.Debugf("trying config file %s", candidate)

		data, err := os.ReadFile(candidate)
		if err != nil {
			if filename != "" && candidate == filename {
				log.Warnf("cannot read config file %s: %v", candidate, err)
			} else {
				log.Debugf("cannot read config file %s: %v", candidate, err)
			}
			continue
		}

		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", candidate, err)
		}

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", candidate, err)
		}

		cfg.source = candidate
		log.Infof("loaded config %s (%d bands, %d presets)", candidate, len(cfg.Bands), len(cfg.Presets))

		return cfg, nil
	}

	log.Info("using embedded default config")

	return Default(), nil
}

func candidates(filename string) []string {
	var out []string

	if filename != "" {
		out = append(out, filename)
	}

	if env := os.Getenv(EnvConfigFile); env != "" {
		out = append(out, env)
	}

	out = append(out, LocalConfigFile)

	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, HomeConfigFile))
	}

	return out
}

// Source returns the path the configuration was read from, or
// EmbeddedSource.
func (c *Config) Source() string {
	if c.source == "" {
		return EmbeddedSource
	}

	return c.source
}

// Validate checks stream settings and every band at the configured sample
// rate. Preset gain counts are checked when a preset is applied.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrInvalid, c.SampleRate)
	}

	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer_size %d", ErrInvalid, c.BufferSize)
	}

	if c.FadeSamples < 0 {
		return fmt.Errorf("%w: fade_samples %d", ErrInvalid, c.FadeSamples)
	}

	fs := float64(c.SampleRate)
	for i, b := range c.Bands {
		if err := b.Band().Validate(fs); err != nil {
			return fmt.Errorf("%w: band %d: %w", ErrInvalid, i+1, err)
		}
	}

	for _, name := range c.PresetNames() {
		if n := len(c.Presets[name].Gains); n != len(c.Bands) {
			log.Warnf("preset %q has %d gains for %d bands", name, n, len(c.Bands))
		}
	}

	return nil
}

// ProcessorOptions returns the stream settings as processor options.
func (c *Config) ProcessorOptions() []core.ProcessorOption {
	return []core.ProcessorOption{
		core.WithSampleRate(float64(c.SampleRate)),
		core.WithBlockSize(c.BufferSize),
	}
}

// Band converts the record to an eq.Band.
func (b BandConfig) Band() eq.Band {
	q := b.QFactor
	if q == 0 {
		q = eq.DefaultQ
	}

	return eq.NewBand(b.Frequency, b.GainDB, q)
}

// EqBands returns the configured bands with their configured gains.
func (c *Config) EqBands() []eq.Band {
	out := make([]eq.Band, len(c.Bands))
	for i, b := range c.Bands {
		out[i] = b.Band()
	}

	return out
}

// Preset looks up a preset by name.
func (c *Config) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}

	return p, nil
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}

	return data, nil
}
