package document

import (
	"github.com/agentic-research/chartbind/api"
	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/rebind"
)

// SchemaVersion is written into every encoded document.
const SchemaVersion = "1"

// Encode writes the declarative state of containers. Formats contribute
// their user tier only; runtime state is never written.
func Encode(cs ...*rebind.Container) *api.Document {
	doc := &api.Document{Version: SchemaVersion}
	for _, c := range cs {
		doc.Charts = append(doc.Charts, EncodeChart(c))
	}
	return doc
}

// EncodeChart encodes one container under its read lock.
func EncodeChart(c *rebind.Container) api.Chart {
	var out api.Chart
	c.View(func(c *rebind.Container) {
		out = api.Chart{
			Name:       c.Name,
			X:          encodeFields(c.X),
			Y:          encodeFields(c.Y),
			Hyperlink:  encodeHyperlink(c.Hyperlink),
			Highlights: encodeHighlights(c.Highlights),
		}
		if k := c.Kind(); k != rebind.KindNone {
			out.Kind = k.String()
		}
		if !c.ChartType.IsAuto() || c.ChartType.IsStacked() {
			out.ChartType = c.ChartType.String()
		}
		out.Aesthetics = encodeAesthetics(c.Aesthetics)
		switch ext := c.Ext.(type) {
		case *rebind.Gantt:
			out.Start = encodeOptional(ext.Start)
			out.End = encodeOptional(ext.End)
			out.Milestone = encodeOptional(ext.Milestone)
		case *rebind.Relation:
			out.Source = encodeOptional(ext.Source)
			out.Target = encodeOptional(ext.Target)
		case *rebind.Map:
			for _, g := range ext.Geo {
				out.Geo = append(out.Geo, EncodeField(g))
			}
		}
	})
	return out
}

func encodeOptional[T interface {
	binding.Ref
	comparable
}](r T) *api.Field {
	var zero T
	if r == zero {
		return nil
	}
	f := EncodeField(r)
	return &f
}

func encodeFields(refs []binding.Ref) []api.Field {
	if len(refs) == 0 {
		return nil
	}
	out := make([]api.Field, 0, len(refs))
	for _, r := range refs {
		out = append(out, EncodeField(r))
	}
	return out
}

func encodeAesthetics(m map[binding.Channel]*binding.AestheticRef) map[string]api.Field {
	var out map[string]api.Field
	for ch, a := range m {
		if a == nil || a.Field == nil {
			continue
		}
		if out == nil {
			out = make(map[string]api.Field)
		}
		out[ch.String()] = EncodeField(a.Field)
	}
	return out
}

// EncodeField encodes one declarative ref.
func EncodeField(r binding.Ref) api.Field {
	d := r.Data()
	f := api.Field{
		Kind:     r.Kind().String(),
		Name:     d.Name,
		Entity:   d.Entity,
		DataType: d.DataType,
		Format:   encodeUser(r.Format()),
		Axis:     encodeAxis(r.Axis()),
	}
	switch x := r.(type) {
	case *binding.DimensionRef:
		f.Kind = ""
		encodeDimension(&f, x)
	case *binding.GeoRef:
		encodeDimension(&f, &x.DimensionRef)
		f.Layer = x.Layer.String()
		f.Mapping = encodeMapping(x)
		f.Hyperlink = encodeHyperlink(x.Hyperlink)
		f.Highlights = encodeHighlights(x.Highlights)
	case *binding.AggregateRef:
		f.Formula = x.Formula
		if !x.ChartType.IsAuto() || x.ChartType.IsStacked() {
			f.ChartType = x.ChartType.String()
		}
		f.SecondaryY = x.SecondaryY
		if x.Calculator != nil {
			f.Calculator = &api.Calculator{Kind: x.Calculator.Kind, Column: x.Calculator.Column, Period: x.Calculator.Period}
		}
		f.Aesthetics = encodeAesthetics(x.Aesthetics())
		if x.BreakBy != nil {
			b := EncodeField(x.BreakBy)
			f.BreakBy = &b
		}
		f.Hyperlink = encodeHyperlink(x.Hyperlink)
		f.Highlights = encodeHighlights(x.Highlights)
	}
	return f
}

var rankingNames = map[binding.RankingOption]string{
	binding.RankTopN:    "top",
	binding.RankBottomN: "bottom",
}

func encodeDimension(f *api.Field, d *binding.DimensionRef) {
	f.DateLevel = d.DateLevel.String()
	f.NamedGroup = d.NamedGroup
	if d.Ranking.Option != binding.RankNone {
		f.Ranking = &api.Ranking{
			Option:      rankingNames[d.Ranking.Option],
			N:           d.Ranking.N,
			Column:      d.Ranking.Column,
			GroupOthers: d.Ranking.GroupOthers,
		}
	}
	if d.Order.Kind != binding.SortNone {
		f.Sort = &api.Sort{Order: d.Order.Kind.String(), ByColumn: d.Order.ByColumn}
	}
}

// encodeMapping writes entries so that replaying them rebuilds both the
// current codes and the duplicate history.
func encodeMapping(g *binding.GeoRef) []api.MapEntry {
	if g.Mapping == nil {
		return nil
	}
	dups := g.Mapping.Duplicates()
	var out []api.MapEntry
	for _, raw := range g.Mapping.Raws() {
		code, _ := g.Mapping.Lookup(raw)
		cands := dups[raw]
		for _, c := range cands {
			out = append(out, api.MapEntry{Raw: raw, Code: c})
		}
		if len(cands) == 0 || cands[len(cands)-1] != code {
			out = append(out, api.MapEntry{Raw: raw, Code: code})
		}
	}
	return out
}

func encodeUser(c *format.CompositeTextFormat) *api.Format {
	if c == nil || c.User.Defined == 0 {
		return nil
	}
	u := &c.User
	out := &api.Format{}
	if u.IsDefined(format.AttrColor) {
		out.Color = u.Color.String()
	}
	if u.IsDefined(format.AttrBackground) {
		out.Background = u.Background.String()
	}
	if u.IsDefined(format.AttrAlpha) {
		a := u.Alpha
		out.Alpha = &a
	}
	if u.IsDefined(format.AttrFont) {
		out.Font = &api.Font{
			Name:      u.Font.Name,
			Size:      u.Font.Size,
			Bold:      u.Font.Style&format.FontBold != 0,
			Italic:    u.Font.Style&format.FontItalic != 0,
			Underline: u.Font.Style&format.FontUnderline != 0,
		}
	}
	if u.IsDefined(format.AttrAlignment) {
		out.Alignment = []string{u.Alignment.String()}
	}
	if u.IsDefined(format.AttrRotation) {
		r := u.Rotation
		out.Rotation = &r
	}
	if u.IsDefined(format.AttrNumberFormat) {
		out.NumberFormat = &api.NumberFormat{Kind: u.NumberFormat.Kind, Pattern: u.NumberFormat.Pattern}
	}
	return out
}

func encodeAxis(a *binding.AxisDescriptor) *api.Axis {
	if a == nil {
		return nil
	}
	out := &api.Axis{
		Min:           a.Min,
		Max:           a.Max,
		Increment:     a.Increment,
		Logarithmic:   a.Logarithmic,
		Reversed:      a.Reversed,
		HideLine:      !a.ShowLine,
		HideLabels:    !a.ShowLabels,
		LabelRotation: a.LabelRotation,
		LabelAliases:  a.LabelAliases,
	}
	if out.Min == nil && out.Max == nil && out.Increment == 0 && !out.Logarithmic &&
		!out.Reversed && !out.HideLine && !out.HideLabels && out.LabelRotation == 0 &&
		len(out.LabelAliases) == 0 {
		return nil
	}
	return out
}

func encodeHyperlink(h *binding.Hyperlink) *api.Hyperlink {
	if h == nil {
		return nil
	}
	return &api.Hyperlink{Link: h.Link, Target: h.Target, Params: h.Params, SendSelection: h.SendSelection}
}

func encodeHighlights(hs []binding.Highlight) []api.Highlight {
	if len(hs) == 0 {
		return nil
	}
	out := make([]api.Highlight, 0, len(hs))
	for _, h := range hs {
		out = append(out, api.Highlight{Name: h.Name, Condition: h.Condition, Color: h.Color.String()})
	}
	return out
}
