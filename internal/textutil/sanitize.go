package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a source identifier usable as a file name stem.
// Separators and wildcards become dashes, quoting characters are dropped,
// and runs of whitespace collapse to a single underscore. Names that reduce
// to nothing or to dot segments return "unnamed".
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	name = strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "_")
	switch name {
	case "", ".", "..":
		return "unnamed"
	}
	return name
}

// ExportStem joins a source and an element into the {source}_{element} stem
// of an exported table.
func ExportStem(source, element string) string {
	return SanitizeFileName(source) + "_" + SanitizeFileName(element)
}
