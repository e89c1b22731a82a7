package config

const (
	defaultDataDir     = "."
	defaultOutputDir   = "~/.local/share/rrlfit/corrected"
	defaultStateDir    = "~/.local/share/rrlfit/state"
	defaultBandPolicy  = "dataset"
	defaultWorkers     = 1
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultConfigPath  = "~/.config/rrlfit/config.toml"
	projectConfigName  = "rrlfit.toml"
	envDataDir         = "RRLFIT_DATA_DIR"
	envOutputDir       = "RRLFIT_OUTPUT_DIR"
	defaultFluxDensity = false
)

var defaultElements = []string{"H", "He", "C"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
		},
		Correction: Correction{
			Elements:    append([]string(nil), defaultElements...),
			BandPolicy:  defaultBandPolicy,
			FluxDensity: defaultFluxDensity,
			Workers:     defaultWorkers,
		},
		Export: Export{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			File:   true,
		},
	}
}
