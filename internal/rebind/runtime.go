package rebind

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/chartbind/internal/binding"
)

// Runtime is the result of one rebind. Rebind replaces it wholesale and never
// edits a published one, but runtime measures may be edited in place through
// Container.EditRuntime; read them through Container.ViewRuntime when such
// edits can race. Positions in the bitmaps
// count declarative fields in visit order: X, Y, container aesthetics by
// channel, extension slots, then geographic fields.
type Runtime struct {
	X          []binding.Ref
	Y          []binding.Ref
	Aesthetics map[binding.Channel]*binding.AestheticRef
	Slots      []Slot
	// Geo is sorted by layer, widest first; equal layers keep resolution
	// order. Unresolved fields follow in declaration order.
	Geo []*binding.GeoRef

	// DefaultMeasure is the first resolved measure on Y, else on X.
	DefaultMeasure *binding.AggregateRef

	Resolved   *roaring.Bitmap
	Unresolved *roaring.Bitmap // retained variable-driven fields
	Dropped    *roaring.Bitmap
	Declared   int
}

func newRuntime() *Runtime {
	return &Runtime{
		Aesthetics: make(map[binding.Channel]*binding.AestheticRef),
		Resolved:   roaring.New(),
		Unresolved: roaring.New(),
		Dropped:    roaring.New(),
	}
}

// Fields returns every runtime field in visit order, geo fields last.
func (r *Runtime) Fields() []binding.Ref {
	var out []binding.Ref
	out = append(out, r.X...)
	out = append(out, r.Y...)
	for _, ch := range binding.AestheticChannels {
		if a := r.Aesthetics[ch]; a != nil && a.Field != nil {
			out = append(out, a.Field)
		}
	}
	for _, s := range r.Slots {
		out = append(out, s.Refs...)
	}
	for _, g := range r.Geo {
		out = append(out, g)
	}
	return out
}

// Aggregates returns the resolved measures on X, Y and the extension slots.
func (r *Runtime) Aggregates() []*binding.AggregateRef {
	var out []*binding.AggregateRef
	collect := func(refs []binding.Ref) {
		for _, ref := range refs {
			if a, ok := ref.(*binding.AggregateRef); ok && a.Resolved() {
				out = append(out, a)
			}
		}
	}
	collect(r.X)
	collect(r.Y)
	for _, s := range r.Slots {
		collect(s.Refs)
	}
	return out
}

// Slot returns the runtime refs of the named extension slot.
func (r *Runtime) Slot(name string) []binding.Ref {
	for _, s := range r.Slots {
		if s.Name == name {
			return s.Refs
		}
	}
	return nil
}
