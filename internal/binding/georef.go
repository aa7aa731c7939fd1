package binding

import (
	"github.com/agentic-research/chartbind/internal/dynamic"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/geo"
)

// GeoRef is a dimension whose values name map regions.
type GeoRef struct {
	DimensionRef

	Mapping *geo.MappingTable
	// Layer selects the map layer; it may be a literal, a variable or an
	// expression.
	Layer dynamic.Value
	// RTLayer is the layer assigned by rebind.
	RTLayer    geo.Layer
	Hyperlink  *Hyperlink
	Highlights []Highlight
}

func NewGeo(d DataRef, layer dynamic.Value, f *format.CompositeTextFormat) *GeoRef {
	r := &GeoRef{
		DimensionRef: DimensionRef{base: newBase(d, f)},
		Mapping:      geo.NewMappingTable(),
		Layer:        layer,
	}
	if !layer.IsDynamic() {
		r.RTLayer = geo.ParseLayer(layer.Literal)
	}
	return r
}

func (r *GeoRef) Kind() RefKind { return KindGeo }

// Regions maps raw dimension values to region codes.
func (r *GeoRef) Regions(raws ...string) []geo.Resolution {
	if r.Mapping == nil {
		return geo.NewMappingTable().Resolve(raws...)
	}
	return r.Mapping.Resolve(raws...)
}

// The mapping table is shared with runtime copies; it is authoring data,
// not runtime state.
func (r *GeoRef) Instantiate(col Column) Ref {
	out := r.copyParts()
	out.base = r.runtimeCopy(&col)
	return out
}

func (r *GeoRef) MarkUnresolved() Ref {
	out := r.copyParts()
	out.base = r.runtimeCopy(nil)
	return out
}

// Clone deep-copies a declarative geo ref, mapping table included.
func (r *GeoRef) Clone() *GeoRef {
	if r == nil {
		return nil
	}
	out := r.copyParts()
	out.base = r.declarativeCopy()
	if r.Mapping != nil {
		out.Mapping = r.Mapping.Clone()
	}
	return out
}

func (r *GeoRef) clone() *GeoRef {
	out := r.copyParts()
	out.base = r.cloneBase()
	if r.Mapping != nil {
		out.Mapping = r.Mapping.Clone()
	}
	return out
}

func (r *GeoRef) copyParts() *GeoRef {
	out := *r
	out.Hyperlink = CloneHyperlink(r.Hyperlink)
	out.Highlights = CloneHighlights(r.Highlights)
	return &out
}
