// Package preflight provides readiness checks for the filesystem paths and
// catalogs a correction run depends on.
//
// The CLI "rrlfit doctor" command renders RunAll's results; "rrlfit correct"
// runs the same checks and refuses to start when the data or state directory
// is unusable. The output directory is only checked when export is enabled.
package preflight
