// Package tagset holds the ordered, deduplicating tag collection shared by
// every tag source.
package tagset

import "strings"

// Set keeps the first-seen order of its members.
type Set struct {
	items []string
	seen  map[string]struct{}
}

func New(tags ...string) *Set {
	s := &Set{seen: make(map[string]struct{}, len(tags))}
	s.Add(tags...)
	return s
}

// Add appends every tag not already present. Empty strings are ignored.
func (s *Set) Add(tags ...string) {
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.items = append(s.items, t)
	}
}

func (s *Set) Has(tag string) bool {
	_, ok := s.seen[tag]
	return ok
}

func (s *Set) Len() int { return len(s.items) }

// Slice returns a copy of the members in insertion order.
func (s *Set) Slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Head returns at most n members in insertion order.
func (s *Set) Head(n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(s.items) {
		n = len(s.items)
	}
	out := make([]string, n)
	copy(out, s.items[:n])
	return out
}

// Normalize prepares a user-entered tag: surrounding space is trimmed and a
// missing '#' prefix is added. Case is preserved.
func Normalize(tag string) string {
	t := strings.TrimSpace(tag)
	if t == "" || t == "#" {
		return ""
	}
	if !strings.HasPrefix(t, "#") {
		t = "#" + t
	}
	return t
}

// NormalizeAll normalizes and deduplicates tags, keeping their order.
func NormalizeAll(tags []string) []string {
	s := New()
	for _, t := range tags {
		s.Add(Normalize(t))
	}
	return s.Slice()
}
