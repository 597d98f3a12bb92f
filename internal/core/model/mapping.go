package model

import (
	"slices"
)

// MappingTable is a many-to-many relation from identifiers in one namespace
// to identifiers in another. A key is present only when it maps to at least
// one value.
type MappingTable struct {
	From IdentifierType `json:"from"`
	To   IdentifierType `json:"to"`

	entries map[string]map[string]struct{}
}

func NewMappingTable(from, to IdentifierType) *MappingTable {
	return &MappingTable{
		From:    from,
		To:      to,
		entries: make(map[string]map[string]struct{}),
	}
}

// Add records key -> value, accumulating with earlier values for key.
// Empty keys or values are ignored.
func (m *MappingTable) Add(key, value string) {
	if key == "" || value == "" {
		return
	}
	if m.entries == nil {
		m.entries = make(map[string]map[string]struct{})
	}
	values, ok := m.entries[key]
	if !ok {
		values = make(map[string]struct{})
		m.entries[key] = values
	}
	values[value] = struct{}{}
}

// Lookup returns the sorted values for key. ok is false when key has no mapping.
func (m *MappingTable) Lookup(key string) (values []string, ok bool) {
	if m == nil {
		return nil, false
	}
	set, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	values = make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	slices.Sort(values)
	return values, true
}

func (m *MappingTable) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[key]
	return ok
}

// Len is the number of distinct keys.
func (m *MappingTable) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Pairs is the total number of key -> value associations.
func (m *MappingTable) Pairs() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, values := range m.entries {
		n += len(values)
	}
	return n
}

func (m *MappingTable) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MappingFailure records an identifier that had no entry in a required
// mapping table.
type MappingFailure struct {
	Identifier string         `json:"identifier" yaml:"identifier"`
	From       IdentifierType `json:"from" yaml:"from"`
	Target     IdentifierType `json:"target" yaml:"target"`
}
