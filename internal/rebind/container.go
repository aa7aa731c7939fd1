// Package rebind resolves a chart's declarative fields against the current
// column universe and swaps the result in as the chart's runtime snapshot.
package rebind

import (
	"fmt"
	"strings"
	"sync"

	"github.com/agentic-research/chartbind/internal/binding"
)

// Kind is the chart variant of a container.
type Kind uint8

const (
	KindNone Kind = iota
	KindMerged
	KindRadar
	KindGantt
	KindMap
	KindRelation
)

var kindNames = [...]string{"none", "merged", "radar", "gantt", "map", "relation"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a persisted kind name; empty is KindNone.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindNone, nil
	}
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("unknown chart kind %q", s)
}

// Slot is a named list of fields carried by a chart variant.
type Slot struct {
	Name string
	Refs []binding.Ref
}

// Extension carries the fields and rules specific to one chart variant.
type Extension interface {
	Kind() Kind
	// Slots returns the variant's extra declarative fields.
	Slots() []Slot
	// MultiStyles reports whether each measure keeps its own chart type.
	MultiStyles() bool
}

// GeoExtension is implemented by variants that carry geographic fields.
type GeoExtension interface {
	GeoFields() []*binding.GeoRef
}

// Merged charts draw each measure in its own style.
type Merged struct{}

func (Merged) Kind() Kind        { return KindMerged }
func (Merged) Slots() []Slot     { return nil }
func (Merged) MultiStyles() bool { return true }

type Radar struct{}

func (Radar) Kind() Kind        { return KindRadar }
func (Radar) Slots() []Slot     { return nil }
func (Radar) MultiStyles() bool { return false }

// Gantt charts bind start, end and milestone measures.
type Gantt struct {
	Start     *binding.AggregateRef
	End       *binding.AggregateRef
	Milestone *binding.AggregateRef
}

func (g *Gantt) Kind() Kind        { return KindGantt }
func (g *Gantt) MultiStyles() bool { return false }

func (g *Gantt) Slots() []Slot {
	var out []Slot
	for _, s := range []struct {
		name string
		ref  *binding.AggregateRef
	}{{"start", g.Start}, {"end", g.End}, {"milestone", g.Milestone}} {
		if s.ref != nil {
			out = append(out, Slot{Name: s.name, Refs: []binding.Ref{s.ref}})
		}
	}
	return out
}

// Relation charts link a source dimension to a target dimension.
type Relation struct {
	Source *binding.DimensionRef
	Target *binding.DimensionRef
}

func (r *Relation) Kind() Kind        { return KindRelation }
func (r *Relation) MultiStyles() bool { return false }

func (r *Relation) Slots() []Slot {
	var out []Slot
	if r.Source != nil {
		out = append(out, Slot{Name: "source", Refs: []binding.Ref{r.Source}})
	}
	if r.Target != nil {
		out = append(out, Slot{Name: "target", Refs: []binding.Ref{r.Target}})
	}
	return out
}

// Map charts carry geographic fields.
type Map struct {
	Geo []*binding.GeoRef
}

func (m *Map) Kind() Kind                   { return KindMap }
func (m *Map) Slots() []Slot                { return nil }
func (m *Map) MultiStyles() bool            { return false }
func (m *Map) GeoFields() []*binding.GeoRef { return m.Geo }

// Container is one chart's binding state. Declarative fields are edited
// through Edit; Rebind replaces the runtime snapshot. Both take the
// container's write lock.
type Container struct {
	mu sync.RWMutex

	Name       string
	X          []binding.Ref
	Y          []binding.Ref
	Aesthetics map[binding.Channel]*binding.AestheticRef
	ChartType  binding.ChartType
	Hyperlink  *binding.Hyperlink
	Highlights []binding.Highlight
	Ext        Extension

	rt *Runtime
}

// NewContainer returns an empty container. A nil ext is a plain chart.
func NewContainer(name string, ext Extension) *Container {
	return &Container{
		Name:       name,
		Aesthetics: make(map[binding.Channel]*binding.AestheticRef),
		Ext:        ext,
	}
}

func (c *Container) Kind() Kind {
	if c.Ext == nil {
		return KindNone
	}
	return c.Ext.Kind()
}

// MultiStyles reports whether measures keep their own chart types.
func (c *Container) MultiStyles() bool {
	return c.Ext != nil && c.Ext.MultiStyles()
}

// Runtime returns the last rebind result, or nil before the first rebind.
// The pointer stays valid after later rebinds, but its measures are shared
// with EditRuntime; use ViewRuntime to read them while edits may run.
func (c *Container) Runtime() *Runtime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rt
}

// Edit runs fn with the write lock held.
func (c *Container) Edit(fn func(c *Container)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// View runs fn with the read lock held.
func (c *Container) View(fn func(c *Container)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c)
}

// ViewRuntime runs fn on the current snapshot with the read lock held. It
// reports false, without calling fn, before the first rebind.
func (c *Container) ViewRuntime(fn func(rt *Runtime)) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rt == nil {
		return false
	}
	fn(c.rt)
	return true
}

// EditRuntime is ViewRuntime under the write lock, for in-place edits of
// runtime measures.
func (c *Container) EditRuntime(fn func(rt *Runtime)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return false
	}
	fn(c.rt)
	return true
}
