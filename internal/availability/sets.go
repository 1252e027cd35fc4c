package availability

import (
	"encoding/json"
	"slices"
)

// DefaultCupToken is used when a contract carries no cup token of its own.
const DefaultCupToken = "default"

// CupTokens is an ordered, duplicate-free list of cup tokens.
type CupTokens []string

// DefaultCupTokens returns a fresh single-entry list holding DefaultCupToken.
func DefaultCupTokens() CupTokens {
	return CupTokens{DefaultCupToken}
}

// Contains reports whether token is present.
func (c CupTokens) Contains(token string) bool {
	return slices.Contains(c, token)
}

// Merge returns a new list holding the union of c and token. When lead is
// true token goes first and the existing tokens follow; otherwise token is
// appended after the existing ones.
func (c CupTokens) Merge(token string, lead bool) CupTokens {
	out := make(CupTokens, 0, len(c)+1)
	if lead {
		out = append(out, token)
		for _, t := range c {
			if t != token {
				out = append(out, t)
			}
		}
		return out
	}
	out = append(out, c...)
	if !out.Contains(token) {
		out = append(out, token)
	}
	return out
}

// Union appends the tokens of other not already present, keeping order.
func (c CupTokens) Union(other CupTokens) CupTokens {
	out := slices.Clone(c)
	for _, t := range other {
		if !out.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns an independent copy.
func (c CupTokens) Clone() CupTokens {
	if c == nil {
		return nil
	}
	return slices.Clone(c)
}

// StringSet is an unordered set of strings. It marshals as a sorted list.
type StringSet map[string]struct{}

// NewStringSet builds a set from values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v.
func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

// Has reports whether v is present.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s StringSet) Union(other StringSet) StringSet {
	out := make(StringSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Clone returns an independent copy; nil stays nil.
func (s StringSet) Clone() StringSet {
	if s == nil {
		return nil
	}
	return s.Union(nil)
}

// Sorted returns the members in ascending order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON renders the set as a sorted JSON array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads a JSON array into the set.
func (s *StringSet) UnmarshalJSON(b []byte) error {
	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}
