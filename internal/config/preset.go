package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SavePreset writes p as a standalone YAML document.
func SavePreset(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: encode preset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write preset: %w", err)
	}

	log.Infof("saved preset to %s (%d gains)", path, len(p.Gains))

	return nil
}

// LoadPreset reads a standalone preset file (YAML or JSON). The gain count is
// not checked here; the equalizer rejects a mismatch when applying it.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("config: read preset: %w", err)
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("config: invalid preset %s: %w", path, err)
	}

	log.Debugf("loaded preset %s (%d gains)", path, len(p.Gains))

	return p, nil
}
