// Package correction rescales fit catalogs onto the main-beam temperature
// scale and partitions the result by element.
//
// Apply runs the whole pipeline on one source: telescope inference from the
// maximum frequency, per-row conversion factors from the inferred band,
// an in-place Tpeak rescale, and the species partition. Inference and range
// failures abort the call before anything is modified. A zero or non-finite
// factor is a division fault: it is logged, recorded on the Result, and the
// call returns an empty Set instead of an error.
//
// The rescale is destructive. Applying it twice to the same table divides
// twice; callers must not re-run a corrected table.
package correction
