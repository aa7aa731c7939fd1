package format

// Resolver picks the effective value of an attribute from the three tiers:
// the user tier when defined, then the stylesheet tier when defined and not
// suppressed, then the default tier.
//
// Resolution has no side effects and is never cached; the stylesheet can
// change under a long-lived composite.
type Resolver struct {
	SuppressStylesheet bool
}

// Resolve returns the effective value of a, or nil for an unknown attribute.
func (r Resolver) Resolve(c *CompositeTextFormat, a Attribute) any {
	if a >= attrCount || c == nil {
		return nil
	}
	tier, fromStyles := r.pick(c, a)
	if a == AttrAlignment && fromStyles && c.Default.Rotation == 90 {
		return tier.Alignment.Rotated()
	}
	return tier.Value(a)
}

// pick returns the tier supplying a and whether it is the stylesheet tier.
// A nil composite resolves to an empty default tier.
func (r Resolver) pick(c *CompositeTextFormat, a Attribute) (*TextFormat, bool) {
	if c == nil {
		return &TextFormat{}, false
	}
	if c.User.IsDefined(a) {
		return &c.User, false
	}
	if !r.SuppressStylesheet {
		if css, ok := c.Stylesheet(); ok && css.IsDefined(a) {
			return &css, true
		}
	}
	return &c.Default, false
}

// Tier reports which tier supplies a.
func (r Resolver) Tier(c *CompositeTextFormat, a Attribute) Tier {
	if c == nil {
		return TierDefault
	}
	if c.User.IsDefined(a) {
		return TierUser
	}
	if _, fromStyles := r.pick(c, a); fromStyles {
		return TierStylesheet
	}
	return TierDefault
}

func (r Resolver) Color(c *CompositeTextFormat) Color {
	t, _ := r.pick(c, AttrColor)
	return t.Color
}

func (r Resolver) Background(c *CompositeTextFormat) Color {
	t, _ := r.pick(c, AttrBackground)
	return t.Background
}

func (r Resolver) Alpha(c *CompositeTextFormat) int {
	t, _ := r.pick(c, AttrAlpha)
	return t.Alpha
}

func (r Resolver) Font(c *CompositeTextFormat) Font {
	t, _ := r.pick(c, AttrFont)
	return t.Font
}

func (r Resolver) Alignment(c *CompositeTextFormat) Alignment {
	a, _ := r.Resolve(c, AttrAlignment).(Alignment)
	return a
}

func (r Resolver) Rotation(c *CompositeTextFormat) float64 {
	t, _ := r.pick(c, AttrRotation)
	return t.Rotation
}

func (r Resolver) NumberFormat(c *CompositeTextFormat) NumberFormat {
	t, _ := r.pick(c, AttrNumberFormat)
	return t.NumberFormat
}

// Tier names one layer of the override stack.
type Tier uint8

const (
	TierDefault Tier = iota
	TierStylesheet
	TierUser
)

func (t Tier) String() string {
	switch t {
	case TierStylesheet:
		return "stylesheet"
	case TierUser:
		return "user"
	default:
		return "default"
	}
}
