// Package failure classifies errors surfaced by the CLI.
//
// Commands wrap lower-level errors with Wrap and a marker sentinel; ExitCode
// maps markers and the domain sentinels of the calibration, fittable, batch,
// and store packages onto process exit codes.
package failure
