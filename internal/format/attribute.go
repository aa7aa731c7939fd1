package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute identifies one visual attribute of a text format.
type Attribute uint8

const (
	AttrColor Attribute = iota
	AttrBackground
	AttrAlpha
	AttrFont
	AttrAlignment
	AttrRotation
	AttrNumberFormat

	attrCount
)

var attributeNames = [...]string{
	AttrColor:        "color",
	AttrBackground:   "background",
	AttrAlpha:        "alpha",
	AttrFont:         "font",
	AttrAlignment:    "alignment",
	AttrRotation:     "rotation",
	AttrNumberFormat: "number-format",
}

// Attributes returns every attribute kind in declaration order.
func Attributes() []Attribute {
	out := make([]Attribute, 0, attrCount)
	for a := Attribute(0); a < attrCount; a++ {
		out = append(out, a)
	}
	return out
}

func (a Attribute) String() string {
	if a < attrCount {
		return attributeNames[a]
	}
	return "unknown"
}

// ParseAttribute maps a name such as "color" or "number-format" to its Attribute.
func ParseAttribute(name string) (Attribute, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for a := Attribute(0); a < attrCount; a++ {
		if attributeNames[a] == n {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", name)
}

// AttrSet is a bit set of attributes, used as the per-tier "defined" flags.
type AttrSet uint16

// AllAttributes has every attribute bit set.
const AllAttributes = AttrSet(1<<attrCount - 1)

func (s AttrSet) Has(a Attribute) bool { return s&(1<<a) != 0 }

func (s AttrSet) With(a Attribute) AttrSet { return s | 1<<a }

func (s AttrSet) Without(a Attribute) AttrSet { return s &^ (1 << a) }

// Color is a 24-bit RGB value.
type Color uint32

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// ParseColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.ToLower(v), "0x")
	if len(v) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(n), nil
}

// FontStyle is a set of font style flags.
type FontStyle uint8

const (
	FontBold FontStyle = 1 << iota
	FontItalic
	FontUnderline
)

// Font describes a typeface.
type Font struct {
	Name  string
	Size  float64
	Style FontStyle
}

func (f Font) String() string {
	var parts []string
	if f.Style&FontBold != 0 {
		parts = append(parts, "bold")
	}
	if f.Style&FontItalic != 0 {
		parts = append(parts, "italic")
	}
	if f.Style&FontUnderline != 0 {
		parts = append(parts, "underline")
	}
	parts = append(parts, strconv.FormatFloat(f.Size, 'g', -1, 64), f.Name)
	return strings.Join(parts, " ")
}

// Alignment is a flag set holding at most one horizontal and one vertical flag.
type Alignment uint8

const (
	AlignLeft Alignment = 1 << iota
	AlignCenter
	AlignRight
	AlignTop
	AlignMiddle
	AlignBottom

	hMask = AlignLeft | AlignCenter | AlignRight
	vMask = AlignTop | AlignMiddle | AlignBottom
)

// Horizontal returns the horizontal flag, if any.
func (a Alignment) Horizontal() Alignment { return a & hMask }

// Vertical returns the vertical flag, if any.
func (a Alignment) Vertical() Alignment { return a & vMask }

// Rotated re-expresses an alignment given in un-rotated terms for text
// rotated 90 degrees counter-clockwise: the vertical and horizontal axes
// trade places.
func (a Alignment) Rotated() Alignment {
	var out Alignment
	switch a.Vertical() {
	case AlignTop:
		out |= AlignLeft
	case AlignMiddle:
		out |= AlignCenter
	case AlignBottom:
		out |= AlignRight
	}
	switch a.Horizontal() {
	case AlignLeft:
		out |= AlignBottom
	case AlignCenter:
		out |= AlignMiddle
	case AlignRight:
		out |= AlignTop
	}
	return out
}

var alignmentNames = []struct {
	flag Alignment
	name string
}{
	{AlignTop, "top"},
	{AlignMiddle, "middle"},
	{AlignBottom, "bottom"},
	{AlignLeft, "left"},
	{AlignCenter, "center"},
	{AlignRight, "right"},
}

func (a Alignment) String() string {
	var parts []string
	for _, n := range alignmentNames {
		if a&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseAlignment parses flag names such as "top", "left" or "top|left".
func ParseAlignment(names ...string) (Alignment, error) {
	var out Alignment
	for _, raw := range names {
		for _, name := range strings.Split(raw, "|") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			found := false
			for _, n := range alignmentNames {
				if n.name == name {
					out |= n.flag
					found = true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("unknown alignment %q", name)
			}
		}
	}
	return out, nil
}

// NumberFormat describes how numeric values are rendered.
type NumberFormat struct {
	Kind    string // decimal, percent, currency, date, or empty for none
	Pattern string
}

func (n NumberFormat) String() string {
	if n.Kind == "" {
		return "none"
	}
	if n.Pattern == "" {
		return n.Kind
	}
	return n.Kind + ":" + n.Pattern
}
