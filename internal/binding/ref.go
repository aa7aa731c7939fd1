package binding

import "github.com/agentic-research/chartbind/internal/format"

// Ref is a bound chart field. Declarative refs are authored; runtime refs
// come from Instantiate or MarkUnresolved and never share a format with
// their origin.
type Ref interface {
	Kind() RefKind
	Data() *DataRef
	FullName() string

	Axis() *AxisDescriptor
	SetAxis(a *AxisDescriptor)
	Format() *format.CompositeTextFormat
	// Arena is the side table of axis descriptors per resolved name. It is
	// nil on runtime refs.
	Arena() *AxisArena

	IsRuntime() bool
	Resolved() bool

	// Instantiate returns a runtime copy bound to col. The copy has no axis
	// until the rebinder attaches one.
	Instantiate(col Column) Ref
	// MarkUnresolved returns a runtime copy that keeps the declared binding
	// and reports Resolved() == false.
	MarkUnresolved() Ref
}

type base struct {
	Field DataRef

	axis     *AxisDescriptor
	format   *format.CompositeTextFormat
	arena    *AxisArena
	runtime  bool
	resolved bool
}

func newBase(d DataRef, f *format.CompositeTextFormat) base {
	if f == nil {
		f = format.NewComposite(format.DefaultVisuals(), format.Selector{}, nil)
	}
	return base{
		Field:    d,
		axis:     NewAxisDescriptor(),
		format:   f,
		arena:    NewAxisArena(),
		resolved: true,
	}
}

func (b *base) Data() *DataRef                      { return &b.Field }
func (b *base) Axis() *AxisDescriptor               { return b.axis }
func (b *base) SetAxis(a *AxisDescriptor)           { b.axis = a }
func (b *base) Format() *format.CompositeTextFormat { return b.format }
func (b *base) Arena() *AxisArena                   { return b.arena }
func (b *base) IsRuntime() bool                     { return b.runtime }
func (b *base) Resolved() bool                      { return b.resolved }

// SetFormat replaces the composite format.
func (b *base) SetFormat(f *format.CompositeTextFormat) { b.format = f }

// runtimeCopy binds a copy to col, or to the declared field when col is nil.
// A column without a type keeps the declared type.
func (b *base) runtimeCopy(col *Column) base {
	out := base{
		Field:    b.Field,
		format:   b.format.Clone(),
		runtime:  true,
		resolved: col != nil,
	}
	if col != nil {
		out.Field.Name = col.Name
		if col.Entity != "" {
			out.Field.Entity = col.Entity
		}
		if col.DataType != "" {
			out.Field.DataType = col.DataType
		}
	}
	return out
}

// declarativeCopy deep-copies the declared state, including the arena.
func (b *base) declarativeCopy() base {
	out := *b
	out.axis = CloneAxis(b.axis)
	out.format = b.format.Clone()
	if b.arena != nil {
		out.arena = b.arena.clone()
	}
	return out
}
