package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/format"
)

func runtimeMeasures(names ...string) []*binding.AggregateRef {
	decl := binding.NewAggregate(binding.DataRef{Name: "$(m)"}, "sum", nil)
	out := make([]*binding.AggregateRef, 0, len(names))
	for _, n := range names {
		rt := decl.Instantiate(binding.Column{Name: n, DataType: binding.TypeDouble})
		out = append(out, rt.(*binding.AggregateRef))
	}
	return out
}

func TestView_ChartTypeIgnoresStacked(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit")
	refs[0].RTChartType = binding.ChartBar
	refs[1].RTChartType = binding.ChartBar | binding.Stacked
	v := NewView(refs)

	mixed, err := v.IsMixed(ChartType)
	require.NoError(t, err)
	assert.False(t, mixed)
	got, ok, err := v.Get(ChartType)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, binding.ChartBar, got)

	refs[1].RTChartType = binding.ChartLine | binding.Stacked
	mixed, _ = v.IsMixed(ChartType)
	assert.True(t, mixed)
	_, ok, _ = v.Get(ChartType)
	assert.False(t, ok)
}

func TestView_AestheticComparedByResolvedName(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit")
	decl := binding.NewAesthetic(binding.NewDimension(binding.DataRef{Name: "$(c)"}, nil),
		&binding.ColorFrame{Mode: binding.FrameCategorical})
	refs[0].SetAesthetic(binding.ChannelColor, decl.Bind(binding.Column{Name: "Region"}))
	refs[1].SetAesthetic(binding.ChannelColor, decl.Bind(binding.Column{Name: "Country"}))
	v := NewView(refs)

	mixed, err := v.IsMixed(ColorField)
	require.NoError(t, err)
	assert.True(t, mixed)

	refs[1].SetAesthetic(binding.ChannelColor, decl.Bind(binding.Column{Name: "Region"}))
	mixed, _ = v.IsMixed(ColorField)
	assert.False(t, mixed)

	mixed, _ = v.IsMixed(ShapeField)
	assert.False(t, mixed, "unbound on every member")
}

func TestView_SizeFrameBoundsTightened(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit")
	a := &binding.SizeFrame{Mode: binding.FrameLinear, Size: 10, Smallest: 1, Largest: 20}
	b := &binding.SizeFrame{Mode: binding.FrameLinear, Size: 10, Smallest: 1, Largest: 40}
	require.True(t, a.Equal(b))
	refs[0].SetFrame(binding.ChannelSize, a)
	refs[1].SetFrame(binding.ChannelSize, b)
	v := NewView(refs)

	mixed, err := v.IsMixed(SizeFrame)
	require.NoError(t, err)
	assert.True(t, mixed)

	require.NoError(t, v.Set(SizeFrame, a))
	mixed, _ = v.IsMixed(SizeFrame)
	assert.False(t, mixed)
	assert.NotSame(t, refs[0].Frame(binding.ChannelSize).Explicit, refs[1].Frame(binding.ChannelSize).Explicit)
}

func TestSameDimension(t *testing.T) {
	mk := func(name, typ string) *binding.DimensionRef {
		return binding.NewDimension(binding.DataRef{Name: name, DataType: typ}, nil)
	}

	a, b := mk("Region", binding.TypeString), mk("Region", binding.TypeString)
	a.DateLevel, b.DateLevel = binding.LevelYear, binding.LevelMonth
	assert.True(t, SameDimension(a, b), "date level ignored unless both are dates")

	a.Ranking = binding.Ranking{Option: binding.RankNone, N: 5}
	b.Ranking = binding.Ranking{Option: binding.RankNone, N: 10}
	assert.True(t, SameDimension(a, b), "ranking details ignored without top/bottom N")

	a.Ranking.Option, b.Ranking.Option = binding.RankTopN, binding.RankTopN
	assert.False(t, SameDimension(a, b))
	b.Ranking.N = 5
	assert.True(t, SameDimension(a, b))
	b.Ranking.GroupOthers = true
	assert.False(t, SameDimension(a, b))
	b.Ranking.GroupOthers = false

	a.Order = binding.SortOrder{Kind: binding.SortAsc, ByColumn: "Sales"}
	b.Order = binding.SortOrder{Kind: binding.SortAsc, ByColumn: "Profit"}
	assert.True(t, SameDimension(a, b))
	a.Order.Kind, b.Order.Kind = binding.SortByValueDesc, binding.SortByValueDesc
	assert.False(t, SameDimension(a, b))

	d1, d2 := mk("OrderDate", binding.TypeDate), mk("OrderDate", binding.TypeDate)
	d1.DateLevel, d2.DateLevel = binding.LevelYear, binding.LevelYear
	assert.True(t, SameDimension(d1, d2))
	d2.DateLevel = binding.LevelMonth
	assert.False(t, SameDimension(d1, d2), "full names differ too")

	assert.False(t, SameDimension(mk("Region", ""), mk("Country", "")))
	assert.True(t, SameDimension(nil, nil))
	assert.False(t, SameDimension(a, nil))
}

func TestView_BroadcastClonesPerTarget(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit", "Cost")
	v := NewView(refs)

	src := format.NewComposite(format.DefaultVisuals(), format.Selector{Type: "axis"}, nil)
	src.User.SetColor(0x336699)
	require.NoError(t, v.Set(TextFormat, src))

	for i, r := range refs {
		assert.NotSame(t, src, r.Format(), "member %d", i)
		assert.Equal(t, format.Color(0x336699), r.Format().User.Color)
	}
	assert.NotSame(t, refs[0].Format(), refs[1].Format())
	assert.NotSame(t, refs[1].Format(), refs[2].Format())

	refs[0].Format().User.SetColor(0xff0000)
	assert.Equal(t, format.Color(0x336699), refs[1].Format().User.Color)
	assert.Equal(t, format.Color(0x336699), refs[2].Format().User.Color)
	assert.Equal(t, format.Color(0x336699), src.User.Color)

	mixed, _ := v.IsMixed(TextFormat)
	assert.True(t, mixed)
}

func TestView_BroadcastHyperlinkAndBreakBy(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit")
	v := NewView(refs)

	link := &binding.Hyperlink{Link: "detail", Params: map[string]string{"k": "v"}}
	require.NoError(t, v.Set(Hyperlink, link))
	refs[0].Hyperlink.Params["k"] = "changed"
	assert.Equal(t, "v", refs[1].Hyperlink.Params["k"])

	by := binding.NewDimension(binding.DataRef{Name: "Region"}, nil)
	require.NoError(t, v.Set(BreakBy, by))
	assert.NotSame(t, refs[0].BreakBy, refs[1].BreakBy)
	got, ok, err := v.Get(BreakBy)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Region", got.(*binding.DimensionRef).FullName())

	require.NoError(t, v.Set(BreakBy, nil))
	assert.Nil(t, refs[1].BreakBy)
}

func TestView_UnknownAndInvalid(t *testing.T) {
	v := NewView(runtimeMeasures("Sales", "Profit"))

	_, _, err := v.Get(Property(200))
	assert.ErrorIs(t, err, ErrUnknownProperty)
	_, err = v.IsMixed(propertyCount)
	assert.ErrorIs(t, err, ErrUnknownProperty)
	assert.ErrorIs(t, v.Set(Property(99), "x"), ErrUnknownProperty)
	_, err = ParseProperty("opacity")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	assert.ErrorIs(t, v.Set(Formula, 3), ErrInvalidValue)
	assert.ErrorIs(t, v.Set(ColorFrame, &binding.SizeFrame{}), ErrInvalidValue)
	got, ok, err := v.Get(Formula)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sum", got, "failed writes change nothing")
}

func TestView_TextFormatRejectsNil(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit")
	v := NewView(refs)

	assert.ErrorIs(t, v.Set(TextFormat, nil), ErrInvalidValue)
	assert.ErrorIs(t, v.Set(TextFormat, (*format.CompositeTextFormat)(nil)), ErrInvalidValue)
	for _, r := range refs {
		require.NotNil(t, r.Format(), "rejected writes leave formats in place")
	}
	_, ok, err := v.Get(TextFormat)
	require.NoError(t, err)
	assert.True(t, ok)

	var r format.Resolver
	assert.Equal(t, format.TierDefault, r.Tier(refs[0].Format(), format.AttrColor))
}

func TestView_MixedProperties(t *testing.T) {
	refs := runtimeMeasures("Sales", "Profit")
	v := NewView(refs)
	assert.True(t, v.MixedProperties().IsEmpty())

	refs[1].Formula = "avg"
	refs[1].SecondaryY = true
	bm := v.MixedProperties()
	assert.Equal(t, []uint32{uint32(Formula), uint32(SecondaryY)}, bm.ToArray())

	p, err := ParseProperty("secondary-y")
	require.NoError(t, err)
	assert.Equal(t, SecondaryY, p)
	assert.Len(t, Properties(), int(propertyCount))
}

func TestView_EmptyAndSingle(t *testing.T) {
	_, ok, err := NewView(nil).Get(Formula)
	require.NoError(t, err)
	assert.False(t, ok)

	v := NewView(runtimeMeasures("Sales"))
	mixed, err := v.IsMixed(Formula)
	require.NoError(t, err)
	assert.False(t, mixed)
}
