package binding

import (
	"strings"

	"github.com/agentic-research/chartbind/internal/format"
)

// Formulas that always produce numbers, whatever the column type.
var numericFormulas = map[string]bool{
	"sum": true, "avg": true, "count": true, "distinct-count": true,
	"median": true, "stddev": true, "variance": true, "product": true,
}

// Calculator derives values from the aggregated series.
type Calculator struct {
	Kind   string // percent, change, running-total, moving
	Column string
	Period int
}

// AggregateRef is a measure.
type AggregateRef struct {
	base

	Formula     string
	Calculator  *Calculator
	ChartType   ChartType
	RTChartType ChartType
	SecondaryY  bool
	BreakBy     *DimensionRef
	Hyperlink   *Hyperlink
	Highlights  []Highlight

	// InferredType is the type of the column the measure last resolved to.
	// It only counts while no type is declared and is never persisted.
	InferredType string

	frames     [len(channelNames)]FrameSlot
	aesthetics [len(channelNames)]*AestheticRef
}

// NewAggregate returns a measure with default frames derived from its type.
func NewAggregate(d DataRef, formula string, f *format.CompositeTextFormat) *AggregateRef {
	r := &AggregateRef{base: newBase(d, f), Formula: formula}
	r.DeriveDefaultFrames()
	return r
}

func (r *AggregateRef) Kind() RefKind { return KindAggregate }

// FullName is Formula(Name) when a formula is set.
func (r *AggregateRef) FullName() string {
	if r.Formula == "" || strings.EqualFold(r.Formula, "none") {
		return r.Field.Name
	}
	return r.Formula + "(" + r.Field.Name + ")"
}

// DataType is the declared type, else the inferred one.
func (r *AggregateRef) DataType() string {
	if r.Field.DataType != "" {
		return r.Field.DataType
	}
	return r.InferredType
}

// IsNumeric reports whether the aggregated values are numbers.
func (r *AggregateRef) IsNumeric() bool {
	return numericFormulas[strings.ToLower(r.Formula)] || IsNumericType(r.DataType())
}

// InferType records the type of the column the measure resolved to and
// re-derives the default frames. A declared type wins.
func (r *AggregateRef) InferType(dataType string) {
	if r.Field.DataType != "" {
		return
	}
	r.InferredType = dataType
	r.DeriveDefaultFrames()
}

// DeriveDefaultFrames resets every default frame from the current type.
// Explicit overrides are kept.
func (r *AggregateRef) DeriveDefaultFrames() {
	numeric := r.IsNumeric()
	for _, ch := range FrameChannels {
		r.frames[ch].Default = DefaultFrame(ch, numeric)
	}
}

// Frame returns the slot for ch.
func (r *AggregateRef) Frame(ch Channel) FrameSlot {
	if int(ch) >= len(r.frames) {
		return FrameSlot{}
	}
	return r.frames[ch]
}

// SetFrame sets the explicit override for f's channel; nil clears it.
func (r *AggregateRef) SetFrame(ch Channel, f VisualFrame) {
	if int(ch) < len(r.frames) {
		r.frames[ch].Explicit = f
	}
}

func (r *AggregateRef) Aesthetic(ch Channel) *AestheticRef {
	if int(ch) >= len(r.aesthetics) {
		return nil
	}
	return r.aesthetics[ch]
}

func (r *AggregateRef) SetAesthetic(ch Channel, a *AestheticRef) {
	if int(ch) < len(r.aesthetics) {
		r.aesthetics[ch] = a
	}
}

// Aesthetics returns the bound aesthetic refs in channel order.
func (r *AggregateRef) Aesthetics() map[Channel]*AestheticRef {
	out := make(map[Channel]*AestheticRef)
	for _, ch := range AestheticChannels {
		if a := r.aesthetics[ch]; a != nil {
			out[ch] = a
		}
	}
	return out
}

func (r *AggregateRef) Instantiate(col Column) Ref {
	out := r.copyParts()
	out.base = r.runtimeCopy(&col)
	if r.Field.DataType == "" {
		out.InferredType = col.DataType
		out.DeriveDefaultFrames()
	}
	return out
}

func (r *AggregateRef) MarkUnresolved() Ref {
	out := r.copyParts()
	out.base = r.runtimeCopy(nil)
	return out
}

// Clone deep-copies a declarative measure.
func (r *AggregateRef) Clone() *AggregateRef {
	if r == nil {
		return nil
	}
	out := r.copyParts()
	out.base = r.declarativeCopy()
	return out
}

func (r *AggregateRef) copyParts() *AggregateRef {
	out := *r
	out.Calculator = CloneCalculator(r.Calculator)
	out.BreakBy = r.BreakBy.Clone()
	out.Hyperlink = CloneHyperlink(r.Hyperlink)
	out.Highlights = CloneHighlights(r.Highlights)
	for i := range r.frames {
		out.frames[i] = r.frames[i].clone()
	}
	for i, a := range r.aesthetics {
		out.aesthetics[i] = a.Clone()
	}
	return &out
}
