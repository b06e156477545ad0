// Package filter narrows already-loaded lists. Apply is pure: it never
// mutates its input and the same inputs always produce the same output.
package filter

import (
	"strings"
	"time"
)

// Set is the active filter state for one list view. A key is "active" when
// its value is non-empty; active predicates combine with AND. Dates are
// YYYY-MM-DD and bound the item's creation time inclusively (from midnight
// through end of day).
type Set struct {
	Values   map[string]string   `yaml:"values,omitempty" json:"values,omitempty"`
	Multi    map[string][]string `yaml:"multi,omitempty" json:"multi,omitempty"`
	Search   string              `yaml:"search,omitempty" json:"search,omitempty"`
	DateFrom string              `yaml:"dateFrom,omitempty" json:"dateFrom,omitempty"`
	DateTo   string              `yaml:"dateTo,omitempty" json:"dateTo,omitempty"`
}

// ActiveCount is the number of active predicates, for filter badges.
func (s Set) ActiveCount() int {
	n := 0
	for _, v := range s.Values {
		if v != "" {
			n++
		}
	}
	for _, vs := range s.Multi {
		if len(vs) > 0 {
			n++
		}
	}
	if s.Search != "" {
		n++
	}
	if s.DateFrom != "" || s.DateTo != "" {
		n++
	}
	return n
}

func (s Set) IsEmpty() bool { return s.ActiveCount() == 0 }

// Clone deep-copies the set so callers can mutate it without aliasing the
// original's maps.
func (s Set) Clone() Set {
	out := s
	if s.Values != nil {
		out.Values = make(map[string]string, len(s.Values))
		for k, v := range s.Values {
			out.Values[k] = v
		}
	}
	if s.Multi != nil {
		out.Multi = make(map[string][]string, len(s.Multi))
		for k, vs := range s.Multi {
			out.Multi[k] = append([]string(nil), vs...)
		}
	}
	return out
}

// Fields tells Apply how to read one item type. Value resolves single- and
// multi-select keys; Search lists the free-text haystacks (title,
// descriptions, identifier); Created is the timestamp the date range binds.
type Fields[T any] struct {
	Value   func(item T, key string) string
	Search  func(item T) []string
	Created func(item T) time.Time
}

// Apply returns the items satisfying every active predicate in s. An empty
// set returns items unchanged (same slice, same order).
func Apply[T any](items []T, s Set, f Fields[T]) []T {
	if s.IsEmpty() {
		return items
	}

	var (
		query    = strings.ToLower(s.Search)
		from, to time.Time
		hasFrom  = false
		hasTo    = false
	)
	if s.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", s.DateFrom); err == nil {
			from, hasFrom = t, true
		}
	}
	if s.DateTo != "" {
		if t, err := time.Parse("2006-01-02", s.DateTo); err == nil {
			// Inclusive through 23:59:59(.999...) of the end date.
			to, hasTo = t.Add(24*time.Hour), true
		}
	}

	out := make([]T, 0, len(items))
Items:
	for _, it := range items {
		for key, want := range s.Values {
			if want == "" {
				continue
			}
			if f.Value == nil || f.Value(it, key) != want {
				continue Items
			}
		}
		for key, allowed := range s.Multi {
			if len(allowed) == 0 {
				continue
			}
			if f.Value == nil || !contains(allowed, f.Value(it, key)) {
				continue Items
			}
		}
		if query != "" {
			if f.Search == nil || !matchesQuery(f.Search(it), query) {
				continue Items
			}
		}
		if hasFrom || hasTo {
			if f.Created == nil {
				continue Items
			}
			t := f.Created(it)
			if hasFrom && t.Before(from) {
				continue Items
			}
			if hasTo && !t.Before(to) {
				continue Items
			}
		}
		out = append(out, it)
	}
	return out
}

func matchesQuery(haystacks []string, query string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), query) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
