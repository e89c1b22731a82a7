package store

import "time"

// Run is one persisted correction of a single source.
type Run struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	Band             string    `json:"band"`
	Policy           string    `json:"policy"`
	Rows             int       `json:"rows"`
	Subsets          int       `json:"subsets"`
	SeriesMismatches int       `json:"series_mismatches"`
	Fault            string    `json:"fault,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Faulted reports whether the run was abandoned on a division fault.
func (r Run) Faulted() bool {
	return r.Fault != ""
}

// Line is one corrected catalog row stored under an element subset.
type Line struct {
	RunID   string  `json:"run_id"`
	Element string  `json:"element"`
	Index   int     `json:"index"`
	Species string  `json:"species"`
	Upper   int     `json:"upper"`
	Lower   int     `json:"lower"`
	DeltaN  int     `json:"delta_n"`
	FreqMHz float64 `json:"freq_mhz"`
	Tpeak   float64 `json:"tpeak"`
}

// DatabaseHealth describes the database for diagnostics.
type DatabaseHealth struct {
	DBPath         string `json:"db_path"`
	DatabaseExists bool   `json:"database_exists"`
	SchemaVersion  int    `json:"schema_version"`
	Runs           int    `json:"runs"`
	Lines          int    `json:"lines"`
}
