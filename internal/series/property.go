package series

import (
	"fmt"
	"strings"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/format"
)

// Property names one editable measure property.
type Property uint8

const (
	ChartType Property = iota
	Formula
	SecondaryY
	Calculator
	TextFormat
	ColorFrame
	ShapeFrame
	SizeFrame
	LineFrame
	TextureFrame
	ColorField
	ShapeField
	SizeField
	TextField
	BreakBy
	Hyperlink

	propertyCount
)

// accessor is the typed get/set/compare triple for one property. set
// receives a value that has already passed check and clones it itself.
type accessor struct {
	name  string
	get   func(a *binding.AggregateRef) any
	check func(v any) error
	set   func(a *binding.AggregateRef, v any)
	equal func(x, y any) bool
}

var properties = [propertyCount]accessor{
	ChartType: {
		name: "chart-type",
		get:  func(a *binding.AggregateRef) any { return a.RTChartType },
		check: func(v any) error {
			_, ok := v.(binding.ChartType)
			return expect(ok, "binding.ChartType", v)
		},
		set: func(a *binding.AggregateRef, v any) {
			a.ChartType = v.(binding.ChartType)
			a.RTChartType = a.ChartType
		},
		equal: func(x, y any) bool {
			return x.(binding.ChartType).Unstacked() == y.(binding.ChartType).Unstacked()
		},
	},
	Formula: {
		name: "formula",
		get:  func(a *binding.AggregateRef) any { return a.Formula },
		check: func(v any) error {
			_, ok := v.(string)
			return expect(ok, "string", v)
		},
		set:   func(a *binding.AggregateRef, v any) { a.Formula = v.(string) },
		equal: plainEqual,
	},
	SecondaryY: {
		name: "secondary-y",
		get:  func(a *binding.AggregateRef) any { return a.SecondaryY },
		check: func(v any) error {
			_, ok := v.(bool)
			return expect(ok, "bool", v)
		},
		set:   func(a *binding.AggregateRef, v any) { a.SecondaryY = v.(bool) },
		equal: plainEqual,
	},
	Calculator: {
		name:  "calculator",
		get:   func(a *binding.AggregateRef) any { return a.Calculator },
		check: nilable[*binding.Calculator]("*binding.Calculator"),
		set: func(a *binding.AggregateRef, v any) {
			c, _ := v.(*binding.Calculator)
			a.Calculator = binding.CloneCalculator(c)
		},
		equal: func(x, y any) bool {
			a, b := x.(*binding.Calculator), y.(*binding.Calculator)
			if a == nil || b == nil {
				return a == b
			}
			return *a == *b
		},
	},
	TextFormat: {
		name:  "text-format",
		get:   func(a *binding.AggregateRef) any { return a.Format() },
		check: func(v any) error {
			f, ok := v.(*format.CompositeTextFormat)
			return expect(ok && f != nil, "non-nil *format.CompositeTextFormat", v)
		},
		set: func(a *binding.AggregateRef, v any) {
			if f := v.(*format.CompositeTextFormat).Clone(); f != nil {
				a.SetFormat(f)
			}
		},
		equal: func(x, y any) bool {
			return x.(*format.CompositeTextFormat).Equal(y.(*format.CompositeTextFormat))
		},
	},
	ColorFrame:   frameAccessor("color-frame", binding.ChannelColor),
	ShapeFrame:   frameAccessor("shape-frame", binding.ChannelShape),
	SizeFrame:    frameAccessor("size-frame", binding.ChannelSize),
	LineFrame:    frameAccessor("line-frame", binding.ChannelLine),
	TextureFrame: frameAccessor("texture-frame", binding.ChannelTexture),
	ColorField:   fieldAccessor("color-field", binding.ChannelColor),
	ShapeField:   fieldAccessor("shape-field", binding.ChannelShape),
	SizeField:    fieldAccessor("size-field", binding.ChannelSize),
	TextField:    fieldAccessor("text-field", binding.ChannelText),
	BreakBy: {
		name:  "break-by",
		get:   func(a *binding.AggregateRef) any { return a.BreakBy },
		check: nilable[*binding.DimensionRef]("*binding.DimensionRef"),
		set: func(a *binding.AggregateRef, v any) {
			d, _ := v.(*binding.DimensionRef)
			a.BreakBy = cloneDimension(d)
		},
		equal: func(x, y any) bool {
			return SameDimension(x.(*binding.DimensionRef), y.(*binding.DimensionRef))
		},
	},
	Hyperlink: {
		name:  "hyperlink",
		get:   func(a *binding.AggregateRef) any { return a.Hyperlink },
		check: nilable[*binding.Hyperlink]("*binding.Hyperlink"),
		set: func(a *binding.AggregateRef, v any) {
			h, _ := v.(*binding.Hyperlink)
			a.Hyperlink = binding.CloneHyperlink(h)
		},
		equal: func(x, y any) bool {
			return x.(*binding.Hyperlink).Equal(y.(*binding.Hyperlink))
		},
	},
}

// frameAccessor compares frames by their own Equal; size frames must also
// agree on their smallest and largest sizes.
func frameAccessor(name string, ch binding.Channel) accessor {
	return accessor{
		name: name,
		get: func(a *binding.AggregateRef) any {
			return a.Frame(ch).Effective()
		},
		check: func(v any) error {
			if v == nil {
				return nil
			}
			f, ok := v.(binding.VisualFrame)
			if ok && f.Channel() != ch {
				return fmt.Errorf("%w: %s frame for %s", ErrInvalidValue, f.Channel(), name)
			}
			return expect(ok, "binding.VisualFrame", v)
		},
		set: func(a *binding.AggregateRef, v any) {
			f, _ := v.(binding.VisualFrame)
			a.SetFrame(ch, binding.CloneFrame(f))
		},
		equal: func(x, y any) bool {
			fx, _ := x.(binding.VisualFrame)
			fy, _ := y.(binding.VisualFrame)
			if !binding.FramesEqual(fx, fy) {
				return false
			}
			sx, ok := fx.(*binding.SizeFrame)
			if !ok {
				return true
			}
			sy, _ := fy.(*binding.SizeFrame)
			return sx.EqualBounds(sy)
		},
	}
}

// fieldAccessor compares aesthetic bindings by resolved full name only.
func fieldAccessor(name string, ch binding.Channel) accessor {
	return accessor{
		name:  name,
		get:   func(a *binding.AggregateRef) any { return a.Aesthetic(ch) },
		check: nilable[*binding.AestheticRef]("*binding.AestheticRef"),
		set: func(a *binding.AggregateRef, v any) {
			r, _ := v.(*binding.AestheticRef)
			a.SetAesthetic(ch, r.Clone())
		},
		equal: func(x, y any) bool {
			return x.(*binding.AestheticRef).SameBinding(y.(*binding.AestheticRef))
		},
	}
}

func plainEqual(x, y any) bool { return x == y }

func nilable[T any](want string) func(v any) error {
	return func(v any) error {
		if v == nil {
			return nil
		}
		_, ok := v.(T)
		return expect(ok, want, v)
	}
}

func expect(ok bool, want string, v any) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: want %s, got %T", ErrInvalidValue, want, v)
}

func cloneDimension(d *binding.DimensionRef) *binding.DimensionRef {
	if d == nil {
		return nil
	}
	c, _ := binding.CloneRef(d).(*binding.DimensionRef)
	return c
}

func (p Property) String() string {
	if p < propertyCount {
		return properties[p].name
	}
	return fmt.Sprintf("property(%d)", int(p))
}

// Properties lists every property in table order.
func Properties() []Property {
	out := make([]Property, propertyCount)
	for i := range out {
		out[i] = Property(i)
	}
	return out
}

// ParseProperty maps a property name such as "color-frame" to a Property.
func ParseProperty(name string) (Property, error) {
	for i, a := range properties {
		if strings.EqualFold(a.name, name) {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}
