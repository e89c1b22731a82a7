// Package store persists correction runs in SQLite.
//
// Every call to SaveResult records one run row (source, inferred band, policy,
// fault) and the corrected lines of each element subset, so earlier runs can
// be listed and inspected from the CLI without re-reading the catalogs. The
// schema is embedded and versioned; a mismatching database must be cleared.
package store
