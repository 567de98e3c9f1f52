package scan

import "strings"

// Candidate is a record that an extracted name may refer to.
type Candidate struct {
	ID    string
	Label string
}

// MatchName reports whether name and any candidate label contain one another,
// ignoring case and surrounding whitespace.
func MatchName(name string, candidates []string) bool {
	n := normalize(name)
	if n == "" {
		return false
	}
	for _, c := range candidates {
		if matches(n, normalize(c)) {
			return true
		}
	}
	return false
}

// FirstMatch returns the first candidate whose label matches name.
// A candidate with an empty label never matches, so a record with a blank name
// cannot capture every lookup; such candidates are skipped in order.
func FirstMatch(name string, candidates []Candidate) (Candidate, bool) {
	n := normalize(name)
	if n == "" {
		return Candidate{}, false
	}
	for _, c := range candidates {
		if matches(n, normalize(c.Label)) {
			return c, true
		}
	}
	return Candidate{}, false
}

func matches(name, label string) bool {
	if label == "" {
		return false
	}
	return strings.Contains(label, name) || strings.Contains(name, label)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
