package species

import (
	"fmt"
	"strconv"
	"unicode"
)

// Label is a parsed species label such as H41a or HeII42a.
type Label struct {
	Element    string
	Ionization string
	N          int
	Series     string
}

var seriesDelta = map[rune]int{
	'a': 1, // alpha
	'b': 2, // beta
	'g': 3, // gamma
	'd': 4, // delta
	'e': 5, // epsilon
	'z': 6, // zeta
}

// ParseLabel splits a label into element, ionization stage, principal
// quantum number, and series letter.
func ParseLabel(label string) (Label, error) {
	runes := []rune(label)
	i := 0
	if i >= len(runes) || !unicode.IsUpper(runes[i]) {
		return Label{}, fmt.Errorf("species label %q: expected element symbol", label)
	}
	i++
	for i < len(runes) && unicode.IsLower(runes[i]) {
		i++
	}
	out := Label{Element: string(runes[:i])}

	start := i
	for i < len(runes) && (runes[i] == 'I' || runes[i] == 'V' || runes[i] == 'X') {
		i++
	}
	out.Ionization = string(runes[start:i])

	start = i
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}
	if start == i {
		return Label{}, fmt.Errorf("species label %q: missing principal quantum number", label)
	}
	n, err := strconv.Atoi(string(runes[start:i]))
	if err != nil {
		return Label{}, fmt.Errorf("species label %q: %w", label, err)
	}
	out.N = n
	out.Series = string(runes[i:])
	return out, nil
}

// DeltaN returns the quantum-number step implied by the series letter, or
// false when the letter is unknown.
func (l Label) DeltaN() (int, bool) {
	runes := []rune(l.Series)
	if len(runes) != 1 {
		return 0, false
	}
	d, ok := seriesDelta[runes[0]]
	return d, ok
}
