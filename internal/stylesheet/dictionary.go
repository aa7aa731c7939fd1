// Package stylesheet provides the stylesheet tier for text formats: a small
// selector dictionary loaded from YAML and a versioned store that re-checks
// its source's last-modified time before handing out a dictionary.
package stylesheet

import (
	"fmt"
	"sort"

	"github.com/agentic-research/chartbind/internal/format"
	"gopkg.in/yaml.v3"
)

// File is the YAML shape of a stylesheet.
//
//	rules:
//	  - type: ChartAxis
//	    class: dark
//	    attributes: {axis: x}
//	    color: "#333333"
//	    alignment: [top, right]
//	    font: {name: Roboto, size: 11, bold: true}
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Rule matches selectors and supplies attribute values.
type Rule struct {
	Type       string            `yaml:"type,omitempty"`
	ID         string            `yaml:"id,omitempty"`
	Class      string            `yaml:"class,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`

	Color        string            `yaml:"color,omitempty"`
	Background   string            `yaml:"background,omitempty"`
	Alpha        *int              `yaml:"alpha,omitempty"`
	Font         *FontRule         `yaml:"font,omitempty"`
	Alignment    []string          `yaml:"alignment,omitempty"`
	Rotation     *float64          `yaml:"rotation,omitempty"`
	NumberFormat *NumberFormatRule `yaml:"number-format,omitempty"`
}

type FontRule struct {
	Name      string  `yaml:"name"`
	Size      float64 `yaml:"size"`
	Bold      bool    `yaml:"bold,omitempty"`
	Italic    bool    `yaml:"italic,omitempty"`
	Underline bool    `yaml:"underline,omitempty"`
}

type NumberFormatRule struct {
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern,omitempty"`
}

// Dictionary answers stylesheet queries. It is immutable once built.
type Dictionary struct {
	rules []compiledRule
}

type compiledRule struct {
	Rule
	tier        format.TextFormat
	specificity int
	order       int
}

// Parse decodes and compiles a YAML stylesheet.
func Parse(data []byte) (*Dictionary, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stylesheet YAML: %w", err)
	}
	return Compile(f.Rules)
}

// Compile validates rules and orders them by specificity.
func Compile(rules []Rule) (*Dictionary, error) {
	d := &Dictionary{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		tier, err := r.textFormat()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		d.rules = append(d.rules, compiledRule{
			Rule:        r,
			tier:        tier,
			specificity: r.specificity(),
			order:       i,
		})
	}
	// Lower specificity first so that later overlays win.
	sort.SliceStable(d.rules, func(i, j int) bool {
		return d.rules[i].specificity < d.rules[j].specificity
	})
	return d, nil
}

// Len returns the number of rules.
func (d *Dictionary) Len() int { return len(d.rules) }

// Lookup overlays every matching rule, least specific first. The result
// defines only the attributes some matching rule supplies.
func (d *Dictionary) Lookup(sel format.Selector) (format.TextFormat, bool) {
	var out format.TextFormat
	matched := false
	for i := range d.rules {
		r := &d.rules[i]
		if !r.matches(sel) {
			continue
		}
		matched = true
		for _, a := range format.Attributes() {
			if r.tier.IsDefined(a) {
				out.Set(a, r.tier.Value(a))
			}
		}
	}
	return out, matched && out.Defined != 0
}

func (r *Rule) matches(sel format.Selector) bool {
	if r.Type != "" && r.Type != sel.Type {
		return false
	}
	if r.ID != "" && r.ID != sel.ID {
		return false
	}
	if r.Class != "" && r.Class != sel.Class {
		return false
	}
	for k, v := range r.Attributes {
		if sel.Attributes[k] != v {
			return false
		}
	}
	return true
}

func (r *Rule) specificity() int {
	n := len(r.Attributes)
	if r.Type != "" {
		n++
	}
	if r.Class != "" {
		n += 10
	}
	if r.ID != "" {
		n += 100
	}
	return n
}

func (r *Rule) textFormat() (format.TextFormat, error) {
	var f format.TextFormat
	if r.Color != "" {
		c, err := format.ParseColor(r.Color)
		if err != nil {
			return f, err
		}
		f.SetColor(c)
	}
	if r.Background != "" {
		c, err := format.ParseColor(r.Background)
		if err != nil {
			return f, err
		}
		f.SetBackground(c)
	}
	if r.Alpha != nil {
		f.SetAlpha(*r.Alpha)
	}
	if r.Font != nil {
		font := format.Font{Name: r.Font.Name, Size: r.Font.Size}
		if r.Font.Bold {
			font.Style |= format.FontBold
		}
		if r.Font.Italic {
			font.Style |= format.FontItalic
		}
		if r.Font.Underline {
			font.Style |= format.FontUnderline
		}
		f.SetFont(font)
	}
	if len(r.Alignment) > 0 {
		a, err := format.ParseAlignment(r.Alignment...)
		if err != nil {
			return f, err
		}
		f.SetAlignment(a)
	}
	if r.Rotation != nil {
		f.SetRotation(*r.Rotation)
	}
	if r.NumberFormat != nil {
		f.SetNumberFormat(format.NumberFormat{Kind: r.NumberFormat.Kind, Pattern: r.NumberFormat.Pattern})
	}
	return f, nil
}
