package correction

import (
	"sort"

	"rrlfit/internal/fittable"
)

// Key identifies one corrected subset.
type Key struct {
	Source  string
	Element string
}

// String renders the {source}_{element} name used for exported files.
func (k Key) String() string {
	return k.Source + "_" + k.Element
}

// Set maps each (source, element) pair to its corrected rows.
type Set map[Key]*fittable.Table

// Keys returns the keys ordered by source then element.
func (s Set) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		return keys[i].Element < keys[j].Element
	})
	return keys
}

// Merge copies every entry of other into s.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v
	}
}
