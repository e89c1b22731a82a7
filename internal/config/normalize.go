package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCorrection()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" || c.Paths.DataDir == defaultDataDir {
		if value, ok := os.LookupEnv(envDataDir); ok && strings.TrimSpace(value) != "" {
			c.Paths.DataDir = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv(envOutputDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCorrection() {
	c.Correction.Sources = dedupe(c.Correction.Sources)
	if c.Correction.Elements == nil {
		c.Correction.Elements = append([]string(nil), defaultElements...)
	} else {
		c.Correction.Elements = dedupe(c.Correction.Elements)
	}
	c.Correction.BandPolicy = strings.ToLower(strings.TrimSpace(c.Correction.BandPolicy))
	if c.Correction.BandPolicy == "" {
		c.Correction.BandPolicy = defaultBandPolicy
	}
	if c.Correction.Workers == 0 {
		c.Correction.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// dedupe trims entries, keeps case (element symbols are case-sensitive), and
// drops repeats while preserving order. Blank entries are kept so Validate
// can reject them.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, ok := seen[v]; ok && v != "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
