package binding

import (
	"sort"
	"sync"
)

// AxisDescriptor is the mutable axis state shared between a declarative
// ref and its runtime copies.
type AxisDescriptor struct {
	Min           *float64
	Max           *float64
	Increment     float64
	Logarithmic   bool
	Reversed      bool
	ShowLine      bool
	ShowLabels    bool
	LabelRotation float64
	LabelAliases  map[string]string
}

// NewAxisDescriptor returns a descriptor with visible line and labels.
func NewAxisDescriptor() *AxisDescriptor {
	return &AxisDescriptor{ShowLine: true, ShowLabels: true}
}

// AxisArena holds one descriptor per resolved full name for a declarative
// ref that fans out. Entries survive across rebinds.
type AxisArena struct {
	mu   sync.Mutex
	axes map[string]*AxisDescriptor
}

func NewAxisArena() *AxisArena {
	return &AxisArena{axes: make(map[string]*AxisDescriptor)}
}

// FindOrInsert returns the descriptor for name, cloning proto on first use.
// A failed clone inserts nothing and returns nil.
func (a *AxisArena) FindOrInsert(name string, proto *AxisDescriptor) *AxisDescriptor {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.axes[name]; ok {
		return d
	}
	d := CloneAxis(proto)
	if d == nil {
		return nil
	}
	a.axes[name] = d
	return d
}

// Insert stores d under name unless an entry exists, and returns the
// entry now held.
func (a *AxisArena) Insert(name string, d *AxisDescriptor) *AxisDescriptor {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cur, ok := a.axes[name]; ok {
		return cur
	}
	if d != nil {
		a.axes[name] = d
	}
	return d
}

// Get returns the descriptor for name.
func (a *AxisArena) Get(name string) (*AxisDescriptor, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.axes[name]
	return d, ok
}

// Remove drops the entry for name only.
func (a *AxisArena) Remove(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.axes, name)
}

// Names returns the resolved names with an entry, sorted.
func (a *AxisArena) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.axes))
	for k := range a.axes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a *AxisArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.axes)
}

func (a *AxisArena) clone() *AxisArena {
	out := NewAxisArena()
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, v := range a.axes {
		if d := CloneAxis(v); d != nil {
			out.axes[k] = d
		}
	}
	return out
}
