package match

import "strings"

// Result is the outcome of classifying one inventory item.
type Result int

const (
	NoMatch Result = iota
	// Direct means the item itself is a watch-listed component.
	Direct
	// TransitiveOnly means the watched name only appears inside the bracketed
	// provenance annotation, e.g. "commons-lang [found in: elasticsearch]".
	TransitiveOnly
)

func (r Result) String() string {
	switch r {
	case Direct:
		return "direct"
	case TransitiveOnly:
		return "transitive-only"
	default:
		return "no match"
	}
}

// Matcher classifies inventory display names against a fixed watch-list.
type Matcher struct {
	terms []string
}

// NewMatcher lower-cases terms once. Empty terms are dropped since they
// would match every name.
func NewMatcher(terms []string) *Matcher {
	m := &Matcher{}
	for _, term := range terms {
		if term = strings.ToLower(term); term != "" {
			m.terms = append(m.terms, term)
		}
	}
	return m
}

func (m *Matcher) Terms() []string {
	return append([]string(nil), m.terms...)
}

func (m *Matcher) Classify(displayName string) Result {
	_, r := m.Match(displayName)
	return r
}

// Match returns the deciding term together with the result.
//
// Terms are checked in watch-list order and the first term present in the
// name decides: it is Direct when the name has no '[' or the term's first
// occurrence precedes it, TransitiveOnly otherwise. A later term that occurs
// earlier in the name does not override that decision.
func (m *Matcher) Match(displayName string) (string, Result) {
	name := strings.ToLower(displayName)
	bracket := strings.Index(name, "[")

	for _, term := range m.terms {
		idx := strings.Index(name, term)
		if idx < 0 {
			continue
		}
		if bracket < 0 || idx < bracket {
			return term, Direct
		}
		return term, TransitiveOnly
	}
	return "", NoMatch
}

// Classify is a convenience wrapper for one-off checks.
func Classify(displayName string, terms []string) Result {
	return NewMatcher(terms).Classify(displayName)
}
