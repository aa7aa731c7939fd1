package document

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/rebind"
	"github.com/agentic-research/chartbind/internal/universe"
)

const sample = `{
  "version": "1",
  "charts": [
    {
      "name": "sales",
      "chart_type": "stacked-bar",
      "x": [{"name": "Region", "sort": {"order": "by-value-desc", "by_column": "Sales"},
             "format": {"color": "#ff0000", "alignment": ["top", "left"]},
             "axis": {"hide_labels": true}}],
      "y": [{"kind": "aggregate", "name": "$(measures)", "formula": "sum",
             "aesthetics": {"color": {"name": "Region"}},
             "break_by": {"name": "Country"}}],
      "hyperlink": {"link": "detail", "params": {"r": "Region"}}
    },
    {
      "name": "where",
      "kind": "map",
      "geo": [{"kind": "geo", "name": "State", "layer": "$(layer)",
               "mapping": [{"raw": "Georgia", "code": "US-GA"}, {"raw": "Georgia", "code": "GE"},
                           {"raw": "Georgia", "code": "US-GA"}, {"raw": "Calif.", "code": "US-CA"}]}]
    }
  ]
}`

func load(t *testing.T) []*rebind.Container {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "charts.json", []byte(sample), 0o644))
	doc, err := Load(fs, "charts.json")
	require.NoError(t, err)
	cs, err := Build(doc, format.DefaultVisuals(), nil)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	return cs
}

func TestBuild(t *testing.T) {
	cs := load(t)
	sales := cs[0]
	assert.Equal(t, binding.ChartBar|binding.Stacked, sales.ChartType)
	require.Len(t, sales.X, 1)

	region := sales.X[0].(*binding.DimensionRef)
	assert.Equal(t, binding.SortByValueDesc, region.Order.Kind)
	assert.Equal(t, format.Color(0xff0000), region.Format().User.Color)
	assert.Equal(t, format.AlignTop|format.AlignLeft, region.Format().User.Alignment)
	assert.False(t, region.Format().User.IsDefined(format.AttrFont))
	assert.Equal(t, "Region", region.Format().Selector.ID)
	assert.Equal(t, "sales", region.Format().Selector.Class)
	assert.False(t, region.Axis().ShowLabels)

	m := sales.Y[0].(*binding.AggregateRef)
	assert.Equal(t, "sum($(measures))", m.FullName())
	assert.Equal(t, "Region", m.Aesthetic(binding.ChannelColor).FullName())
	assert.Equal(t, "Country", m.BreakBy.FullName())

	where := cs[1]
	assert.Equal(t, rebind.KindMap, where.Kind())
	g := where.Ext.(*rebind.Map).Geo[0]
	assert.True(t, g.Layer.IsDynamic())
	assert.True(t, g.Mapping.IsAmbiguous("Georgia"))
}

func TestBuild_RejectsBadInput(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "bad.json", []byte(`{"charts":[{"name":"c","kind":"sankey"}]}`), 0o644))
	doc, err := Load(fs, "bad.json")
	require.NoError(t, err)
	_, err = Build(doc, format.DefaultVisuals(), nil)
	assert.Error(t, err)

	_, err = Load(fs, "missing.json")
	assert.Error(t, err)
}

func TestEncode_RoundTripsUserTierAndAxis(t *testing.T) {
	cs := load(t)
	u := universe.NewSet(
		binding.Column{Name: "Region", DataType: binding.TypeString},
		binding.Column{Name: "Country", DataType: binding.TypeString},
		binding.Column{Name: "Sales", DataType: binding.TypeDouble},
	).WithParams(map[string]any{"measures": []any{"Sales"}})
	require.NoError(t, rebind.Rebind(cs[0], u))

	fs := memfs.New()
	require.NoError(t, Save(fs, "out.json", Encode(cs...)))
	doc, err := Load(fs, "out.json")
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, doc.Version)

	x := doc.Charts[0].X[0]
	require.NotNil(t, x.Format)
	assert.Equal(t, "#ff0000", x.Format.Color)
	assert.Empty(t, x.Format.Background, "only user-set attributes are written")
	assert.Nil(t, x.Format.Font)
	require.NotNil(t, x.Axis)
	assert.True(t, x.Axis.HideLabels)
	assert.Equal(t, "stacked-bar", doc.Charts[0].ChartType)

	again, err := Build(doc, format.DefaultVisuals(), nil)
	require.NoError(t, err)
	region := again[0].X[0].(*binding.DimensionRef)
	assert.Equal(t, format.AlignTop|format.AlignLeft, region.Format().User.Alignment)
	assert.Equal(t, binding.SortByValueDesc, region.Order.Kind)
	assert.Equal(t, "Sales", region.Order.ByColumn)

	g := again[1].Ext.(*rebind.Map).Geo[0]
	assert.Equal(t, map[string][]string{"Georgia": {"US-GA", "GE"}}, g.Mapping.Duplicates())
	code, _ := g.Mapping.Lookup("Georgia")
	assert.Equal(t, "US-GA", code)
	assert.Equal(t, "$(layer)", g.Layer.String())
}

func TestEncode_KeepsInferredTypeOut(t *testing.T) {
	c := rebind.NewContainer("amounts", nil)
	m := binding.NewAggregate(binding.DataRef{Name: "Amount"}, "max", nil)
	c.Y = []binding.Ref{m}
	u := universe.NewSet(binding.Column{Name: "Amount", DataType: binding.TypeDouble})
	require.NoError(t, rebind.Rebind(c, u))
	require.Equal(t, binding.TypeDouble, m.DataType())

	fs := memfs.New()
	require.NoError(t, Save(fs, "out.json", Encode(c)))
	doc, err := Load(fs, "out.json")
	require.NoError(t, err)
	assert.Empty(t, doc.Charts[0].Y[0].DataType)

	again, err := Build(doc, format.DefaultVisuals(), nil)
	require.NoError(t, err)
	back := again[0].Y[0].(*binding.AggregateRef)
	assert.Empty(t, back.DataType())
	assert.Equal(t, binding.FrameCategorical, back.Frame(binding.ChannelColor).Effective().(*binding.ColorFrame).Mode)
}
