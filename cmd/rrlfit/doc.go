// Package main hosts the rrlfit CLI entrypoint and command graph.
//
// The Cobra command tree wraps the internal packages: "correct" drives a
// batch run, "factor" and "band" expose the calibration model directly,
// "runs" browses the SQLite run history, "doctor" renders preflight checks,
// and "config" scaffolds and validates the TOML file. Configuration is
// resolved once per invocation by commandContext.
package main
