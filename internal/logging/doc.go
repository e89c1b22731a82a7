// Package logging assembles the structured slog loggers used across rrlfit.
//
// It owns the console and JSON handlers, level parsing, and the fan-out that
// mirrors terminal output into the run log under the state directory. Helpers
// such as WarnWithContext keep non-fatal conditions (missing catalogs,
// division faults) shaped the same way everywhere: what happened, what it
// cost, and what to check next.
package logging
