package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/chartbind/internal/dynamic"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/geo"
)

func TestFullNames(t *testing.T) {
	d := NewDimension(DataRef{Name: "OrderDate", DataType: TypeDate}, nil)
	assert.Equal(t, "OrderDate", d.FullName())
	d.DateLevel = LevelQuarter
	assert.Equal(t, "Quarter(OrderDate)", d.FullName())

	notDate := NewDimension(DataRef{Name: "Region", DataType: TypeString}, nil)
	notDate.DateLevel = LevelYear
	assert.Equal(t, "Region", notDate.FullName(), "date level only applies to dates")

	a := NewAggregate(DataRef{Name: "Sales"}, "sum", nil)
	assert.Equal(t, "sum(Sales)", a.FullName())
	assert.Equal(t, "Sales", NewAggregate(DataRef{Name: "Sales"}, "", nil).FullName())
}

func TestDataRef_Source(t *testing.T) {
	assert.Equal(t, dynamic.Literal, DataRef{Name: "Sales"}.Source())
	assert.Equal(t, dynamic.Variable, DataRef{Name: "$(measure)"}.Source())
	assert.Equal(t, dynamic.Expression, DataRef{Name: "=$.measures"}.Source())
}

func TestInstantiate_IndependentFormat(t *testing.T) {
	d := NewDimension(DataRef{Name: "$(dim)", Entity: "orders"}, nil)
	d.Format().User.SetColor(0xff0000)

	rt := d.Instantiate(Column{Name: "Region", DataType: TypeString})
	require.True(t, rt.IsRuntime())
	assert.True(t, rt.Resolved())
	assert.Equal(t, "Region", rt.FullName())
	assert.Equal(t, "orders", rt.Data().Entity)
	assert.Nil(t, rt.Axis(), "axis is attached by the rebinder")
	assert.Nil(t, rt.Arena())

	rt.Format().User.SetColor(0x00ff00)
	assert.Equal(t, format.Color(0xff0000), d.Format().User.Color)

	un := d.MarkUnresolved()
	assert.False(t, un.Resolved())
	assert.Equal(t, "$(dim)", un.Data().Name)
}

func TestArena_FindOrInsert(t *testing.T) {
	a := NewAxisArena()
	proto := NewAxisDescriptor()
	proto.LabelAliases = map[string]string{"CA": "California"}

	x := a.FindOrInsert("Sales", proto)
	require.NotNil(t, x)
	assert.NotSame(t, proto, x)
	assert.Same(t, x, a.FindOrInsert("Sales", NewAxisDescriptor()), "existing entries are reused")

	x.LabelAliases["NY"] = "New York"
	assert.NotContains(t, proto.LabelAliases, "NY", "clone is deep")

	y := a.FindOrInsert("Profit", proto)
	assert.NotSame(t, x, y)
	assert.Equal(t, []string{"Profit", "Sales"}, a.Names())

	a.Remove("Profit")
	got, ok := a.Get("Sales")
	assert.True(t, ok)
	assert.Same(t, x, got, "removing one name leaves the others untouched")
	assert.Equal(t, 1, a.Len())
}

func TestAggregate_TypeFollowsDataFrames(t *testing.T) {
	a := NewAggregate(DataRef{Name: "Region"}, "max", nil)
	cf := a.Frame(ChannelColor).Effective().(*ColorFrame)
	assert.Equal(t, FrameCategorical, cf.Mode)

	rt := a.Instantiate(Column{Name: "Region", DataType: TypeDouble}).(*AggregateRef)
	assert.Equal(t, FrameGradient, rt.Frame(ChannelColor).Effective().(*ColorFrame).Mode)
	assert.Equal(t, FrameLinear, rt.Frame(ChannelSize).Effective().(*SizeFrame).Mode)

	count := NewAggregate(DataRef{Name: "Region"}, "count", nil)
	assert.True(t, count.IsNumeric())
}

func TestAggregate_InferTypeKeepsDeclaredTypeApart(t *testing.T) {
	a := NewAggregate(DataRef{Name: "Amount"}, "max", nil)

	a.InferType(TypeDouble)
	assert.Empty(t, a.Data().DataType)
	assert.Equal(t, TypeDouble, a.DataType())
	assert.Equal(t, FrameGradient, a.Frame(ChannelColor).Effective().(*ColorFrame).Mode)

	a.InferType(TypeString)
	assert.Equal(t, TypeString, a.DataType())
	assert.Equal(t, FrameCategorical, a.Frame(ChannelColor).Effective().(*ColorFrame).Mode)

	rt := a.Instantiate(Column{Name: "Amount", DataType: TypeString}).(*AggregateRef)
	assert.Equal(t, FrameCategorical, rt.Frame(ChannelColor).Effective().(*ColorFrame).Mode)

	typed := NewAggregate(DataRef{Name: "Amount", DataType: TypeDouble}, "max", nil)
	typed.InferType(TypeString)
	assert.Empty(t, typed.InferredType)
	assert.Equal(t, TypeDouble, typed.DataType())
}

func TestDimension_FullNameAs(t *testing.T) {
	d := NewDimension(DataRef{Name: "OrderDate"}, nil)
	d.DateLevel = LevelYear
	assert.Equal(t, "OrderDate", d.FullName())
	assert.Equal(t, "Year(OrderDate)", d.FullNameAs(TypeDate))
	assert.Equal(t, "OrderDate", d.FullNameAs(TypeString))
}

func TestAxisArena_InsertKeepsFirst(t *testing.T) {
	a := NewAxisArena()
	first := NewAxisDescriptor()
	assert.Same(t, first, a.Insert("Sales", first))
	assert.Same(t, first, a.Insert("Sales", NewAxisDescriptor()))
	assert.Equal(t, 1, a.Len())
}

func TestAggregate_CloneIsDeep(t *testing.T) {
	a := NewAggregate(DataRef{Name: "Sales"}, "sum", nil)
	a.Calculator = &Calculator{Kind: "percent"}
	a.Hyperlink = &Hyperlink{Link: "detail", Params: map[string]string{"id": "Sales"}}
	a.Highlights = []Highlight{{Name: "high", Condition: "> 100", Color: 0xff0000}}
	a.SetFrame(ChannelColor, &ColorFrame{Mode: FrameStatic, Static: 0x123456})
	a.SetAesthetic(ChannelColor, NewAesthetic(NewDimension(DataRef{Name: "Region"}, nil), nil))
	a.Arena().FindOrInsert("Sales", a.Axis())

	cp := a.Clone()
	cp.Calculator.Kind = "change"
	cp.Hyperlink.Params["id"] = "other"
	cp.Highlights[0].Name = "low"
	cp.Frame(ChannelColor).Explicit.(*ColorFrame).Static = 0
	cp.Aesthetic(ChannelColor).Field.Data().Name = "Country"
	cp.Axis().ShowLabels = false

	assert.Equal(t, "percent", a.Calculator.Kind)
	assert.Equal(t, "Sales", a.Hyperlink.Params["id"])
	assert.Equal(t, "high", a.Highlights[0].Name)
	assert.Equal(t, format.Color(0x123456), a.Frame(ChannelColor).Explicit.(*ColorFrame).Static)
	assert.Equal(t, "Region", a.Aesthetic(ChannelColor).FullName())
	assert.True(t, a.Axis().ShowLabels)

	orig, _ := a.Arena().Get("Sales")
	copied, _ := cp.Arena().Get("Sales")
	assert.NotSame(t, orig, copied)
}

func TestAesthetic_SameBinding(t *testing.T) {
	decl := NewAesthetic(NewDimension(DataRef{Name: "$(color)"}, nil), nil)
	a := decl.Bind(Column{Name: "Region"})
	b := decl.Bind(Column{Name: "Country"})
	c := decl.Bind(Column{Name: "Region"})

	assert.False(t, a.SameBinding(b))
	assert.True(t, a.SameBinding(c))
	assert.True(t, a.Resolved())
	assert.False(t, decl.Unbound().Resolved())
}

func TestChartType(t *testing.T) {
	sb, err := ParseChartType("stacked-bar")
	require.NoError(t, err)
	assert.True(t, sb.IsStacked())
	assert.Equal(t, ChartBar, sb.Unstacked())
	assert.Equal(t, "stacked-bar", sb.String())

	p, err := ParseChartType("3d-pie")
	require.NoError(t, err)
	assert.Equal(t, ChartPie, p.Base())
	assert.Equal(t, "3d-pie", p.String())

	_, err = ParseChartType("sunburst")
	assert.Error(t, err)
}

func TestSizeFrame_LooseEquality(t *testing.T) {
	a := &SizeFrame{Mode: FrameLinear, Size: 10, Smallest: 1, Largest: 20}
	b := &SizeFrame{Mode: FrameLinear, Size: 10, Smallest: 5, Largest: 40}
	assert.True(t, a.Equal(b))
	assert.False(t, a.EqualBounds(b))
	assert.False(t, a.Equal(&ColorFrame{}))
	assert.True(t, FramesEqual(nil, nil))
	assert.False(t, FramesEqual(a, nil))
}

func TestGeoRef(t *testing.T) {
	g := NewGeo(DataRef{Name: "State"}, dynamic.LiteralOf("state"), nil)
	assert.Equal(t, geo.LayerState, g.RTLayer)
	g.Mapping.Add("Calif.", "US-CA")

	rt := g.Instantiate(Column{Name: "State"}).(*GeoRef)
	assert.Equal(t, KindGeo, rt.Kind())
	assert.Equal(t, "US-CA", rt.Regions("Calif.")[0].Code)

	cp := g.Clone()
	cp.Mapping.Add("Tex.", "US-TX")
	assert.Equal(t, 1, g.Mapping.Len())
}

func TestParseHelpers(t *testing.T) {
	k, err := ParseSortKind("By-Value-Desc")
	require.NoError(t, err)
	assert.Equal(t, SortByValueDesc, k)
	assert.Equal(t, "by-value-desc", k.String())

	l, err := ParseDateLevel("month")
	require.NoError(t, err)
	assert.Equal(t, LevelMonth, l)

	_, err = ParseDateLevel("fortnight")
	assert.Error(t, err)
}
