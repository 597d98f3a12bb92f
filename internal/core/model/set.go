package model

import (
	"slices"
)

// InteractionSet is a deduplicating collection of PPIs keyed by canonical form.
// Set algebra returns new sets and never modifies its operands.
type InteractionSet struct {
	items map[string]PPI
}

func NewInteractionSet(ppis ...PPI) *InteractionSet {
	s := &InteractionSet{items: make(map[string]PPI, len(ppis))}
	for _, p := range ppis {
		s.Add(p)
	}
	return s
}

// Add inserts p and reports whether it was not already present.
func (s *InteractionSet) Add(p PPI) bool {
	if s.items == nil {
		s.items = make(map[string]PPI)
	}
	k := p.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = p
	return true
}

func (s *InteractionSet) Contains(p PPI) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[p.Key()]
	return ok
}

func (s *InteractionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Sorted returns the members in canonical order.
func (s *InteractionSet) Sorted() []PPI {
	if s == nil {
		return nil
	}
	out := make([]PPI, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	slices.SortFunc(out, PPI.Compare)
	return out
}

func (s *InteractionSet) Clone() *InteractionSet {
	c := &InteractionSet{items: make(map[string]PPI, s.Len())}
	if s == nil {
		return c
	}
	for k, p := range s.items {
		c.items[k] = p
	}
	return c
}

// Intersect returns the PPIs present in both s and o.
func (s *InteractionSet) Intersect(o *InteractionSet) *InteractionSet {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	out := NewInteractionSet()
	if small == nil {
		return out
	}
	for k, p := range small.items {
		if large.containsKey(k) {
			out.items[k] = p
		}
	}
	return out
}

// Difference returns the PPIs in s that are not in o.
func (s *InteractionSet) Difference(o *InteractionSet) *InteractionSet {
	out := NewInteractionSet()
	if s == nil {
		return out
	}
	for k, p := range s.items {
		if !o.containsKey(k) {
			out.items[k] = p
		}
	}
	return out
}

// Union returns the PPIs present in either s or o.
func (s *InteractionSet) Union(o *InteractionSet) *InteractionSet {
	out := s.Clone()
	if o == nil {
		return out
	}
	for k, p := range o.items {
		out.items[k] = p
	}
	return out
}

// Equal reports whether s and o hold the same canonical PPIs.
func (s *InteractionSet) Equal(o *InteractionSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for k := range s.items {
		if !o.containsKey(k) {
			return false
		}
	}
	return true
}

func (s *InteractionSet) containsKey(k string) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[k]
	return ok
}
