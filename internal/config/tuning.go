package config

import (
	"fmt"
	"log"
	"os"

	"github.com/playpool/cuetouch/internal/touch"
	"gopkg.in/yaml.v3"
)

// InputTuning is the optional YAML overlay for the touch mapper. Fields left out of the
// file keep their environment values.
type InputTuning struct {
	AimMode               *string  `yaml:"aim_mode"`
	AimRestart            *string  `yaml:"aim_restart"`
	DistanceToPowerFactor *float64 `yaml:"distance_to_power_factor"`
	MinPower              *float64 `yaml:"min_power"`
	MaxPower              *float64 `yaml:"max_power"`
}

// LoadInputTuning reads a tuning file and applies it on top of cfg.
func (c *Config) LoadInputTuning(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input tuning: %w", err)
	}

	var t InputTuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parse input tuning %s: %w", path, err)
	}

	if t.AimMode != nil {
		c.AimMode = *t.AimMode
	}
	if t.AimRestart != nil {
		c.AimRestart = *t.AimRestart
	}
	if t.DistanceToPowerFactor != nil {
		c.DistanceToPowerFactor = *t.DistanceToPowerFactor
	}
	if t.MinPower != nil {
		c.MinPower = *t.MinPower
	}
	if t.MaxPower != nil {
		c.MaxPower = *t.MaxPower
	}

	log.Printf("[CONFIG] Input tuning loaded from %s", path)
	return nil
}

// TouchConfig builds the mapper configuration. Unknown mode names fall back to the
// defaults with a log line rather than failing startup.
func (c *Config) TouchConfig() touch.Config {
	tc := touch.DefaultConfig()

	switch touch.AimMode(c.AimMode) {
	case touch.AimDrag, touch.AimCueBall:
		tc.Mode = touch.AimMode(c.AimMode)
	default:
		log.Printf("[CONFIG] Unknown AIM_MODE %q, using %q", c.AimMode, tc.Mode)
	}

	switch touch.RestartPolicy(c.AimRestart) {
	case touch.RestartIgnore, touch.RestartRestart:
		tc.Restart = touch.RestartPolicy(c.AimRestart)
	default:
		log.Printf("[CONFIG] Unknown AIM_RESTART %q, using %q", c.AimRestart, tc.Restart)
	}

	if c.DistanceToPowerFactor > 0 {
		tc.DistanceToPowerFactor = c.DistanceToPowerFactor
	}
	if c.MaxPower > 0 && c.MinPower >= 0 && c.MinPower <= c.MaxPower {
		tc.MinPower = c.MinPower
		tc.MaxPower = c.MaxPower
	}
	return tc
}
