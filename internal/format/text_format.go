package format

// TextFormat holds the values of one tier. A value only takes part in
// resolution when its attribute is marked in Defined.
type TextFormat struct {
	Color        Color
	Background   Color
	Alpha        int
	Font         Font
	Alignment    Alignment
	Rotation     float64
	NumberFormat NumberFormat
	Defined      AttrSet
}

func (f *TextFormat) IsDefined(a Attribute) bool { return f.Defined.Has(a) }

// Clear marks an attribute undefined. The stored value is zeroed.
func (f *TextFormat) Clear(a Attribute) {
	switch a {
	case AttrColor:
		f.Color = 0
	case AttrBackground:
		f.Background = 0
	case AttrAlpha:
		f.Alpha = 0
	case AttrFont:
		f.Font = Font{}
	case AttrAlignment:
		f.Alignment = 0
	case AttrRotation:
		f.Rotation = 0
	case AttrNumberFormat:
		f.NumberFormat = NumberFormat{}
	}
	f.Defined = f.Defined.Without(a)
}

func (f *TextFormat) SetColor(c Color) {
	f.Color = c
	f.Defined = f.Defined.With(AttrColor)
}

func (f *TextFormat) SetBackground(c Color) {
	f.Background = c
	f.Defined = f.Defined.With(AttrBackground)
}

// SetAlpha stores alpha clamped to 0..100.
func (f *TextFormat) SetAlpha(alpha int) {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 100 {
		alpha = 100
	}
	f.Alpha = alpha
	f.Defined = f.Defined.With(AttrAlpha)
}

func (f *TextFormat) SetFont(font Font) {
	f.Font = font
	f.Defined = f.Defined.With(AttrFont)
}

func (f *TextFormat) SetAlignment(a Alignment) {
	f.Alignment = a
	f.Defined = f.Defined.With(AttrAlignment)
}

func (f *TextFormat) SetRotation(degrees float64) {
	f.Rotation = degrees
	f.Defined = f.Defined.With(AttrRotation)
}

func (f *TextFormat) SetNumberFormat(n NumberFormat) {
	f.NumberFormat = n
	f.Defined = f.Defined.With(AttrNumberFormat)
}

// Value returns the stored value for a, regardless of its defined flag.
func (f *TextFormat) Value(a Attribute) any {
	switch a {
	case AttrColor:
		return f.Color
	case AttrBackground:
		return f.Background
	case AttrAlpha:
		return f.Alpha
	case AttrFont:
		return f.Font
	case AttrAlignment:
		return f.Alignment
	case AttrRotation:
		return f.Rotation
	case AttrNumberFormat:
		return f.NumberFormat
	}
	return nil
}

// Set stores v for a and marks it defined. v must have the attribute's type.
func (f *TextFormat) Set(a Attribute, v any) bool {
	switch a {
	case AttrColor:
		c, ok := v.(Color)
		if ok {
			f.SetColor(c)
		}
		return ok
	case AttrBackground:
		c, ok := v.(Color)
		if ok {
			f.SetBackground(c)
		}
		return ok
	case AttrAlpha:
		n, ok := v.(int)
		if ok {
			f.SetAlpha(n)
		}
		return ok
	case AttrFont:
		font, ok := v.(Font)
		if ok {
			f.SetFont(font)
		}
		return ok
	case AttrAlignment:
		al, ok := v.(Alignment)
		if ok {
			f.SetAlignment(al)
		}
		return ok
	case AttrRotation:
		r, ok := v.(float64)
		if ok {
			f.SetRotation(r)
		}
		return ok
	case AttrNumberFormat:
		n, ok := v.(NumberFormat)
		if ok {
			f.SetNumberFormat(n)
		}
		return ok
	}
	return false
}
