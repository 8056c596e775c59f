package facet

import "encoding/json"

// Selection is the set of values checked in one facet. An empty selection
// constrains nothing. Selections are treated as values: the mutating
// helpers return a new set.
type Selection map[string]struct{}

func NewSelection(values ...string) Selection {
	s := make(Selection, len(values))
	for _, v := range values {
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

func (s Selection) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Selection) Len() int {
	return len(s)
}

// Values returns the members sorted.
func (s Selection) Values() []string {
	return sortedKeys(s)
}

func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Toggled returns a copy with v added if absent or removed if present.
func (s Selection) Toggled(v string) Selection {
	out := s.Clone()
	if out.Has(v) {
		delete(out, v)
	} else {
		out[v] = struct{}{}
	}
	return out
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Selection) UnmarshalJSON(b []byte) error {
	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	*s = NewSelection(values...)
	return nil
}

// MatchesFacet reports whether value passes the selection. Every facet
// filter and count goes through here so that "nothing selected" means
// "match all" everywhere.
func MatchesFacet(selected Selection, value string) bool {
	if len(selected) == 0 {
		return true
	}
	return selected.Has(value)
}

// MatchesAny is MatchesFacet for multi-valued attributes: one hit is enough.
func MatchesAny(selected Selection, values []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, v := range values {
		if selected.Has(v) {
			return true
		}
	}
	return false
}
