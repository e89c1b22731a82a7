package config

import (
	"errors"
	"fmt"
	"strings"

	"rrlfit/internal/calibration"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCorrection(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Export.Enabled && c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set when export is enabled")
	}
	return nil
}

func (c *Config) validateCorrection() error {
	if _, err := calibration.ParsePolicy(c.Correction.BandPolicy); err != nil {
		return fmt.Errorf("correction.band_policy: %w (expected \"dataset\" or \"any\")", err)
	}
	if len(c.Correction.Elements) == 0 {
		return errors.New("correction.elements must list at least one element symbol")
	}
	for _, elem := range c.Correction.Elements {
		if elem == "" {
			return errors.New("correction.elements must not contain blank symbols")
		}
		if strings.ContainsAny(elem, " \t,") {
			return fmt.Errorf("correction.elements: invalid symbol %q", elem)
		}
	}
	for _, source := range c.Correction.Sources {
		if source == "" {
			return errors.New("correction.sources must not contain blank names")
		}
	}
	if c.Correction.Workers < 0 {
		return errors.New("correction.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
