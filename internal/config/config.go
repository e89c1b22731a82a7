package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rrlfit/internal/calibration"
	"rrlfit/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds the {source}_rrls_fit.csv catalogs.
	DataDir string `toml:"data_dir"`
	// OutputDir receives the per-element corrected tables.
	OutputDir string `toml:"output_dir"`
	// StateDir holds the run history database, the lock file, and the run log.
	StateDir string `toml:"state_dir"`
}

// Correction contains temperature correction and classification settings.
type Correction struct {
	Sources  []string `toml:"sources"`
	Elements []string `toml:"elements"`
	// BandPolicy is "dataset" (infer from the maximum frequency, validate
	// each row) or "any" (first branch any row satisfies, unchecked).
	BandPolicy string `toml:"band_policy"`
	// FluxDensity converts corrected peaks to mJy after the Tmb rescale.
	FluxDensity bool `toml:"flux_density"`
	Workers     int  `toml:"workers"`
}

// Export contains settings for writing corrected tables.
type Export struct {
	Enabled   bool `toml:"enabled"`
	Overwrite bool `toml:"overwrite"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File mirrors every record as JSON into {state_dir}/rrlfit.log.
	File bool `toml:"file"`
}

// Config encapsulates all configuration values for rrlfit.
//
// Configuration sections by subsystem:
//   - Paths: catalog input, corrected output, and state directories
//   - Correction: sources, element symbols, band policy, flux conversion
//   - Export: CSV output of the corrected subsets
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Correction Correction `toml:"correction"`
	Export     Export     `toml:"export"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and output directories. The data
// directory is input only and is left alone.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Policy returns the parsed band policy. Load has already validated it.
func (c *Config) Policy() calibration.Policy {
	policy, _ := calibration.ParsePolicy(c.Correction.BandPolicy)
	return policy
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to path. An existing file
// is kept and fileutil.ErrExists returned unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	err := fileutil.WriteAtomic(path, 0o644, overwrite, func(w io.Writer) error {
		_, err := io.WriteString(w, sampleConfig)
		return err
	})
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
