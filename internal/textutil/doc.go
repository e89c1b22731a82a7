// Package textutil turns source identifiers and element symbols into safe
// file name stems for exported tables.
package textutil
