// Package batch drives a complete correction run over the configured sources.
//
// A run holds an exclusive lock file in the state directory, loads every
// catalog, corrects the sources in parallel, records each result in the run
// history, and exports one CSV per (source, element) subset into the output
// directory. Per-source failures are reported in the Summary and do not stop
// the remaining sources.
package batch
