// Package species classifies RRL fits by emitting element.
//
// An element query matches a species label that contains the symbol anywhere
// not immediately followed by "I". That keeps ionized labels such as HeII out
// of a bare He query, but the rule is a plain substring test: an H query also
// matches every He label, so partitions may overlap.
package species
