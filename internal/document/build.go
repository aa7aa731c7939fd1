// Package document turns persisted chart documents into binding containers
// and back.
package document

import (
	"fmt"
	"strings"

	"github.com/agentic-research/chartbind/api"
	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/dynamic"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/rebind"
)

// Builder creates containers whose formats share one style source.
type Builder struct {
	Defaults format.Defaults
	Styles   format.StyleSource
}

// Build creates one container per chart, in document order.
func Build(doc *api.Document, d format.Defaults, styles format.StyleSource) ([]*rebind.Container, error) {
	b := &Builder{Defaults: d, Styles: styles}
	out := make([]*rebind.Container, 0, len(doc.Charts))
	for i := range doc.Charts {
		c, err := b.Chart(&doc.Charts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Chart builds the container for one chart.
func (b *Builder) Chart(ch *api.Chart) (*rebind.Container, error) {
	kind, err := rebind.ParseKind(ch.Kind)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	ext, err := b.extension(kind, ch)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	c := rebind.NewContainer(ch.Name, ext)
	if c.ChartType, err = binding.ParseChartType(ch.ChartType); err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	if c.X, err = b.fields(ch.Name, ch.X); err != nil {
		return nil, err
	}
	if c.Y, err = b.fields(ch.Name, ch.Y); err != nil {
		return nil, err
	}
	for name, f := range ch.Aesthetics {
		chn, a, err := b.aesthetic(ch.Name, name, f)
		if err != nil {
			return nil, err
		}
		c.Aesthetics[chn] = a
	}
	c.Hyperlink = hyperlink(ch.Hyperlink)
	if c.Highlights, err = highlights(ch.Highlights); err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	return c, nil
}

func (b *Builder) extension(kind rebind.Kind, ch *api.Chart) (rebind.Extension, error) {
	switch kind {
	case rebind.KindMerged:
		return rebind.Merged{}, nil
	case rebind.KindRadar:
		return rebind.Radar{}, nil
	case rebind.KindGantt:
		g := &rebind.Gantt{}
		for _, s := range []struct {
			f   *api.Field
			dst **binding.AggregateRef
		}{{ch.Start, &g.Start}, {ch.End, &g.End}, {ch.Milestone, &g.Milestone}} {
			if s.f == nil {
				continue
			}
			agg, err := b.aggregate(ch.Name, s.f)
			if err != nil {
				return nil, err
			}
			*s.dst = agg
		}
		return g, nil
	case rebind.KindRelation:
		r := &rebind.Relation{}
		var err error
		if ch.Source != nil {
			if r.Source, err = b.dimension(ch.Name, ch.Source); err != nil {
				return nil, err
			}
		}
		if ch.Target != nil {
			if r.Target, err = b.dimension(ch.Name, ch.Target); err != nil {
				return nil, err
			}
		}
		return r, nil
	case rebind.KindMap:
		m := &rebind.Map{}
		for i := range ch.Geo {
			g, err := b.geo(ch.Name, &ch.Geo[i])
			if err != nil {
				return nil, err
			}
			m.Geo = append(m.Geo, g)
		}
		return m, nil
	}
	return nil, nil
}

func (b *Builder) fields(chart string, fs []api.Field) ([]binding.Ref, error) {
	out := make([]binding.Ref, 0, len(fs))
	for i := range fs {
		r, err := b.Field(chart, &fs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Field builds one declarative ref.
func (b *Builder) Field(chart string, f *api.Field) (binding.Ref, error) {
	switch strings.ToLower(f.Kind) {
	case "", "dimension":
		return b.dimension(chart, f)
	case "aggregate", "measure":
		return b.aggregate(chart, f)
	case "geo":
		return b.geo(chart, f)
	}
	return nil, fmt.Errorf("chart %s: field %s: unknown kind %q", chart, f.Name, f.Kind)
}

func (b *Builder) composite(chart string, kind binding.RefKind, f *api.Field) (*format.CompositeTextFormat, error) {
	sel := format.Selector{Type: kind.String(), ID: f.Name, Class: chart}
	c := format.NewComposite(b.Defaults, sel, b.Styles)
	if f.Format == nil {
		return c, nil
	}
	user, err := userTier(f.Format)
	if err != nil {
		return nil, fmt.Errorf("chart %s: field %s: %w", chart, f.Name, err)
	}
	c.User = user
	return c, nil
}

func dataRef(f *api.Field) binding.DataRef {
	return binding.DataRef{Name: f.Name, Entity: f.Entity, DataType: f.DataType}
}

func (b *Builder) dimension(chart string, f *api.Field) (*binding.DimensionRef, error) {
	fm, err := b.composite(chart, binding.KindDimension, f)
	if err != nil {
		return nil, err
	}
	d := binding.NewDimension(dataRef(f), fm)
	if err := dimensionSettings(&d.Ranking, &d.Order, &d.DateLevel, f); err != nil {
		return nil, fmt.Errorf("chart %s: field %s: %w", chart, f.Name, err)
	}
	d.NamedGroup = f.NamedGroup
	applyAxis(d.Axis(), f.Axis)
	return d, nil
}

var rankingOptions = map[string]binding.RankingOption{
	"":       binding.RankNone,
	"none":   binding.RankNone,
	"top":    binding.RankTopN,
	"bottom": binding.RankBottomN,
}

func dimensionSettings(rk *binding.Ranking, so *binding.SortOrder, lvl *binding.DateLevel, f *api.Field) error {
	var err error
	if *lvl, err = binding.ParseDateLevel(f.DateLevel); err != nil {
		return err
	}
	if f.Ranking != nil {
		opt, ok := rankingOptions[strings.ToLower(f.Ranking.Option)]
		if !ok {
			return fmt.Errorf("unknown ranking option %q", f.Ranking.Option)
		}
		*rk = binding.Ranking{Option: opt, N: f.Ranking.N, Column: f.Ranking.Column, GroupOthers: f.Ranking.GroupOthers}
	}
	if f.Sort != nil {
		k, err := binding.ParseSortKind(f.Sort.Order)
		if err != nil {
			return err
		}
		*so = binding.SortOrder{Kind: k, ByColumn: f.Sort.ByColumn}
	}
	return nil
}

func (b *Builder) aggregate(chart string, f *api.Field) (*binding.AggregateRef, error) {
	fm, err := b.composite(chart, binding.KindAggregate, f)
	if err != nil {
		return nil, err
	}
	a := binding.NewAggregate(dataRef(f), f.Formula, fm)
	if a.ChartType, err = binding.ParseChartType(f.ChartType); err != nil {
		return nil, fmt.Errorf("chart %s: field %s: %w", chart, f.Name, err)
	}
	a.SecondaryY = f.SecondaryY
	if f.Calculator != nil {
		a.Calculator = &binding.Calculator{Kind: f.Calculator.Kind, Column: f.Calculator.Column, Period: f.Calculator.Period}
	}
	for name, af := range f.Aesthetics {
		ch, ar, err := b.aesthetic(chart, name, af)
		if err != nil {
			return nil, err
		}
		a.SetAesthetic(ch, ar)
	}
	if f.BreakBy != nil {
		if a.BreakBy, err = b.dimension(chart, f.BreakBy); err != nil {
			return nil, err
		}
	}
	a.Hyperlink = hyperlink(f.Hyperlink)
	if a.Highlights, err = highlights(f.Highlights); err != nil {
		return nil, fmt.Errorf("chart %s: field %s: %w", chart, f.Name, err)
	}
	applyAxis(a.Axis(), f.Axis)
	return a, nil
}

func (b *Builder) aesthetic(chart, channel string, f api.Field) (binding.Channel, *binding.AestheticRef, error) {
	ch, err := binding.ParseChannel(channel)
	if err != nil {
		return 0, nil, fmt.Errorf("chart %s: %w", chart, err)
	}
	r, err := b.Field(chart, &f)
	if err != nil {
		return 0, nil, err
	}
	return ch, binding.NewAesthetic(r, nil), nil
}

func (b *Builder) geo(chart string, f *api.Field) (*binding.GeoRef, error) {
	fm, err := b.composite(chart, binding.KindGeo, f)
	if err != nil {
		return nil, err
	}
	layer := dynamic.Parse(f.Layer)
	if f.Layer == "" {
		layer = dynamic.LiteralOf("country")
	}
	g := binding.NewGeo(dataRef(f), layer, fm)
	if err := dimensionSettings(&g.Ranking, &g.Order, &g.DateLevel, f); err != nil {
		return nil, fmt.Errorf("chart %s: field %s: %w", chart, f.Name, err)
	}
	g.NamedGroup = f.NamedGroup
	for _, m := range f.Mapping {
		g.Mapping.Add(m.Raw, m.Code)
	}
	g.Hyperlink = hyperlink(f.Hyperlink)
	if g.Highlights, err = highlights(f.Highlights); err != nil {
		return nil, fmt.Errorf("chart %s: field %s: %w", chart, f.Name, err)
	}
	applyAxis(g.Axis(), f.Axis)
	return g, nil
}

func userTier(f *api.Format) (format.TextFormat, error) {
	var t format.TextFormat
	if f.Color != "" {
		c, err := format.ParseColor(f.Color)
		if err != nil {
			return t, err
		}
		t.SetColor(c)
	}
	if f.Background != "" {
		c, err := format.ParseColor(f.Background)
		if err != nil {
			return t, err
		}
		t.SetBackground(c)
	}
	if f.Alpha != nil {
		t.SetAlpha(*f.Alpha)
	}
	if f.Font != nil {
		font := format.Font{Name: f.Font.Name, Size: f.Font.Size}
		if f.Font.Bold {
			font.Style |= format.FontBold
		}
		if f.Font.Italic {
			font.Style |= format.FontItalic
		}
		if f.Font.Underline {
			font.Style |= format.FontUnderline
		}
		t.SetFont(font)
	}
	if len(f.Alignment) > 0 {
		a, err := format.ParseAlignment(f.Alignment...)
		if err != nil {
			return t, err
		}
		t.SetAlignment(a)
	}
	if f.Rotation != nil {
		t.SetRotation(*f.Rotation)
	}
	if f.NumberFormat != nil {
		t.SetNumberFormat(format.NumberFormat{Kind: f.NumberFormat.Kind, Pattern: f.NumberFormat.Pattern})
	}
	return t, nil
}

func applyAxis(dst *binding.AxisDescriptor, a *api.Axis) {
	if a == nil || dst == nil {
		return
	}
	dst.Min, dst.Max = a.Min, a.Max
	dst.Increment = a.Increment
	dst.Logarithmic = a.Logarithmic
	dst.Reversed = a.Reversed
	dst.ShowLine = !a.HideLine
	dst.ShowLabels = !a.HideLabels
	dst.LabelRotation = a.LabelRotation
	dst.LabelAliases = a.LabelAliases
}

func hyperlink(h *api.Hyperlink) *binding.Hyperlink {
	if h == nil {
		return nil
	}
	return &binding.Hyperlink{Link: h.Link, Target: h.Target, Params: h.Params, SendSelection: h.SendSelection}
}

func highlights(hs []api.Highlight) ([]binding.Highlight, error) {
	if len(hs) == 0 {
		return nil, nil
	}
	out := make([]binding.Highlight, 0, len(hs))
	for _, h := range hs {
		var c format.Color
		if h.Color != "" {
			var err error
			if c, err = format.ParseColor(h.Color); err != nil {
				return nil, err
			}
		}
		out = append(out, binding.Highlight{Name: h.Name, Condition: h.Condition, Color: c})
	}
	return out, nil
}
