package binding

// AestheticRef binds a field to a visual channel. Two aesthetic refs are
// the same binding only when their resolved full names match.
type AestheticRef struct {
	Field Ref
	Frame VisualFrame

	rtName string
}

// NewAesthetic binds field to frame. A nil frame is derived from the
// field's data when first read.
func NewAesthetic(field Ref, frame VisualFrame) *AestheticRef {
	return &AestheticRef{Field: field, Frame: frame}
}

// FullName is the resolved full name once resolved, else the declared one.
func (a *AestheticRef) FullName() string {
	if a == nil {
		return ""
	}
	if a.rtName != "" {
		return a.rtName
	}
	if a.Field == nil {
		return ""
	}
	return a.Field.FullName()
}

// Resolved reports whether the field has been bound to a column.
func (a *AestheticRef) Resolved() bool {
	return a != nil && a.Field != nil && a.Field.IsRuntime() && a.Field.Resolved()
}

// SameBinding compares resolved full names only.
func (a *AestheticRef) SameBinding(o *AestheticRef) bool {
	if a == nil || o == nil {
		return a == nil && o == nil
	}
	return a.FullName() == o.FullName()
}

// EffectiveFrame returns the explicit frame or one derived from the field.
func (a *AestheticRef) EffectiveFrame(ch Channel) VisualFrame {
	if a.Frame != nil {
		return a.Frame
	}
	return DefaultFrame(ch, fieldIsNumeric(a.Field))
}

// Bind returns a runtime aesthetic bound to col.
func (a *AestheticRef) Bind(col Column) *AestheticRef {
	f := a.Field.Instantiate(col)
	return &AestheticRef{Field: f, Frame: CloneFrame(a.Frame), rtName: f.FullName()}
}

// Unbound returns a runtime aesthetic that keeps the declared field.
func (a *AestheticRef) Unbound() *AestheticRef {
	return &AestheticRef{Field: a.Field.MarkUnresolved(), Frame: CloneFrame(a.Frame)}
}

// Clone copies the ref, its field and its frame.
func (a *AestheticRef) Clone() *AestheticRef {
	if a == nil {
		return nil
	}
	out := &AestheticRef{Frame: CloneFrame(a.Frame), rtName: a.rtName}
	out.Field = CloneRef(a.Field)
	return out
}

func fieldIsNumeric(r Ref) bool {
	switch f := r.(type) {
	case *AggregateRef:
		return f.IsNumeric()
	case nil:
		return false
	default:
		if d := r.Data(); d != nil {
			return IsNumericType(d.DataType)
		}
		return false
	}
}

// CloneRef deep-copies any ref, keeping its runtime state.
func CloneRef(r Ref) Ref {
	switch f := r.(type) {
	case *AggregateRef:
		out := f.copyParts()
		out.base = f.cloneBase()
		return out
	case *GeoRef:
		return f.clone()
	case *DimensionRef:
		out := *f
		out.base = f.cloneBase()
		return &out
	}
	return nil
}

// cloneBase keeps runtime refs pointing at their shared axis and copies
// declarative state.
func (b *base) cloneBase() base {
	if b.runtime {
		out := *b
		out.format = b.format.Clone()
		return out
	}
	return b.declarativeCopy()
}
