package species

import (
	"strings"

	"rrlfit/internal/fittable"
)

// Pattern selects labels containing Element not followed by "I".
type Pattern struct {
	Element string
}

// Match reports whether any occurrence of the element in label is not
// immediately followed by 'I'. Go's regexp has no lookahead, so the
// occurrences are scanned directly.
func (p Pattern) Match(label string) bool {
	if p.Element == "" {
		return true
	}
	for offset := 0; offset <= len(label)-len(p.Element); {
		i := strings.Index(label[offset:], p.Element)
		if i < 0 {
			return false
		}
		end := offset + i + len(p.Element)
		if end == len(label) || label[end] != 'I' {
			return true
		}
		offset += i + 1
	}
	return false
}

// Select returns the rows of t whose species matches, re-indexed from zero.
func (p Pattern) Select(t *fittable.Table) *fittable.Table {
	return t.Filter(func(row fittable.Row) bool {
		return p.Match(row.Species)
	})
}

// Partition builds one sub-table per element. Every requested element gets an
// entry, empty when nothing matches.
func Partition(t *fittable.Table, elements []string) map[string]*fittable.Table {
	out := make(map[string]*fittable.Table, len(elements))
	for _, elem := range elements {
		out[elem] = Pattern{Element: elem}.Select(t)
	}
	return out
}
