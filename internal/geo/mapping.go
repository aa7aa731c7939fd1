// Package geo maps raw dimension values to region codes and orders
// geographic layers for map rendering.
package geo

import (
	"slices"
	"sync"
)

// Resolution is the outcome of mapping one raw value.
type Resolution struct {
	Raw       string
	Code      string
	Resolved  bool
	Ambiguous bool
}

// MappingTable maps raw values to region codes. A raw value that has been
// mapped to more than one code is kept as a duplicate entry listing every
// candidate in authoring order, so tooling can flag it.
type MappingTable struct {
	mu         sync.RWMutex
	codes      map[string]string
	order      []string
	duplicates map[string][]string
}

func NewMappingTable() *MappingTable {
	return &MappingTable{
		codes:      make(map[string]string),
		duplicates: make(map[string][]string),
	}
}

// Add maps raw to code. Remapping to a different code records a duplicate;
// lookups then return the most recent code.
func (m *MappingTable) Add(raw, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, exists := m.codes[raw]
	if !exists {
		m.codes[raw] = code
		m.order = append(m.order, raw)
		return
	}
	if prev == code {
		return
	}
	cands := m.duplicates[raw]
	if len(cands) == 0 {
		cands = append(cands, prev)
	}
	if !slices.Contains(cands, code) {
		cands = append(cands, code)
	}
	m.duplicates[raw] = cands
	m.codes[raw] = code
}

// Lookup returns the code for raw.
func (m *MappingTable) Lookup(raw string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.codes[raw]
	return code, ok
}

// Resolve maps each raw value. Unmapped values pass through unresolved.
func (m *MappingTable) Resolve(raws ...string) []Resolution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Resolution, len(raws))
	for i, raw := range raws {
		code, ok := m.codes[raw]
		if !ok {
			code = raw
		}
		out[i] = Resolution{
			Raw:       raw,
			Code:      code,
			Resolved:  ok,
			Ambiguous: len(m.duplicates[raw]) > 1,
		}
	}
	return out
}

// IsAmbiguous reports whether raw has more than one candidate code.
func (m *MappingTable) IsAmbiguous(raw string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.duplicates[raw]) > 1
}

// Duplicates returns a copy of every duplicate entry.
func (m *MappingTable) Duplicates() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]string, len(m.duplicates))
	for k, v := range m.duplicates {
		out[k] = slices.Clone(v)
	}
	return out
}

// Remove drops raw and its duplicate entry.
func (m *MappingTable) Remove(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[raw]; !ok {
		return
	}
	delete(m.codes, raw)
	delete(m.duplicates, raw)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == raw })
}

// Raws returns mapped raw values in insertion order.
func (m *MappingTable) Raws() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

func (m *MappingTable) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.codes)
}

// Clone returns an independent copy.
func (m *MappingTable) Clone() *MappingTable {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := NewMappingTable()
	for k, v := range m.codes {
		out.codes[k] = v
	}
	out.order = slices.Clone(m.order)
	for k, v := range m.duplicates {
		out.duplicates[k] = slices.Clone(v)
	}
	return out
}
