package format

import "maps"

// Defaults are the global visual defaults that seed every default tier.
type Defaults struct {
	Color        Color
	Background   Color
	Alpha        int
	Font         Font
	Alignment    Alignment
	Rotation     float64
	NumberFormat NumberFormat
}

// DefaultVisuals returns the built-in visual defaults.
func DefaultVisuals() Defaults {
	return Defaults{
		Color:      0x000000,
		Background: 0xffffff,
		Alpha:      100,
		Font:       Font{Name: "Roboto", Size: 10},
		Alignment:  AlignLeft | AlignMiddle,
	}
}

// TextFormat returns a tier with every attribute defined.
func (d Defaults) TextFormat() TextFormat {
	var f TextFormat
	f.SetColor(d.Color)
	f.SetBackground(d.Background)
	f.SetAlpha(d.Alpha)
	f.SetFont(d.Font)
	f.SetAlignment(d.Alignment)
	f.SetRotation(d.Rotation)
	f.SetNumberFormat(d.NumberFormat)
	return f
}

// Selector is the stylesheet query key for one formatted object.
type Selector struct {
	Type       string
	ID         string
	Class      string
	Attributes map[string]string
}

// StyleSource supplies the stylesheet tier. A false result means the
// stylesheet has nothing for the selector or is unavailable.
type StyleSource interface {
	Lookup(sel Selector) (TextFormat, bool)
}

// CompositeTextFormat stacks the default, stylesheet and user tiers of one
// formatted object. The stylesheet tier is not stored: it is fetched from
// Styles on every resolution.
type CompositeTextFormat struct {
	Default  TextFormat
	User     TextFormat
	Selector Selector
	Styles   StyleSource
}

// NewComposite returns a composite whose default tier is fully defined from d.
func NewComposite(d Defaults, sel Selector, styles StyleSource) *CompositeTextFormat {
	return &CompositeTextFormat{
		Default:  d.TextFormat(),
		Selector: sel,
		Styles:   styles,
	}
}

// Stylesheet fetches the stylesheet tier.
func (c *CompositeTextFormat) Stylesheet() (TextFormat, bool) {
	if c == nil || c.Styles == nil {
		return TextFormat{}, false
	}
	return c.Styles.Lookup(c.Selector)
}

// SetDefault overwrites a default tier value. The default tier stays fully
// defined, so a value of the wrong type is rejected.
func (c *CompositeTextFormat) SetDefault(a Attribute, v any) bool {
	return c.Default.Set(a, v)
}

// Clone copies both stored tiers and the selector. The style source is
// process-wide and stays shared.
func (c *CompositeTextFormat) Clone() *CompositeTextFormat {
	if c == nil {
		return nil
	}
	out := *c
	out.Selector.Attributes = maps.Clone(c.Selector.Attributes)
	return &out
}

// Equal compares the stored tiers and the selector.
func (c *CompositeTextFormat) Equal(o *CompositeTextFormat) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Default == o.Default &&
		c.User == o.User &&
		c.Selector.Type == o.Selector.Type &&
		c.Selector.ID == o.Selector.ID &&
		c.Selector.Class == o.Selector.Class &&
		maps.Equal(c.Selector.Attributes, o.Selector.Attributes)
}
