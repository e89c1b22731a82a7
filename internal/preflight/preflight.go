package preflight

import (
	"rrlfit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Check names used by RunAll.
const (
	NameDataDir   = "Data directory"
	NameOutputDir = "Output directory"
	NameStateDir  = "State directory"
	NameCatalogs  = "Source catalogs"
)

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory(NameDataDir, cfg.Paths.DataDir),
		CheckDirectoryAccess(NameStateDir, cfg.Paths.StateDir),
	}
	if cfg.Export.Enabled {
		results = append(results, CheckDirectoryAccess(NameOutputDir, cfg.Paths.OutputDir))
	}
	results = append(results, CheckCatalogs(cfg.Correction.Sources, cfg.Paths.DataDir))
	return results
}

// Blocking returns the failed results that prevent a correction run.
// A missing catalog only skips its source, so NameCatalogs never blocks.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Passed || r.Name == NameCatalogs || r.Name == NameOutputDir {
			continue
		}
		out = append(out, r)
	}
	return out
}
