package stylesheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentic-research/chartbind/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

const axisStyles = `
rules:
  - type: ChartAxis
    color: "#333333"
    font: {name: Roboto, size: 11}
  - type: ChartAxis
    class: dark
    color: "#eeeeee"
    background: "#111111"
  - type: ChartAxis
    id: sales-axis
    alignment: [top, right]
  - type: ChartAxis
    attributes: {axis: y}
    rotation: 90
    number-format: {kind: decimal, pattern: "#,##0"}
`

type fakeSource struct {
	mod   time.Time
	data  []byte
	err   error
	reads int
}

func (f *fakeSource) Stat(context.Context) (time.Time, error) { return f.mod, f.err }

func (f *fakeSource) Read(context.Context) ([]byte, error) {
	f.reads++
	return f.data, f.err
}

func TestDictionary_LookupBySpecificity(t *testing.T) {
	dict, err := Parse([]byte(axisStyles))
	require.NoError(t, err)
	assert.Equal(t, 4, dict.Len())

	tier, ok := dict.Lookup(format.Selector{Type: "ChartAxis"})
	require.True(t, ok)
	assert.Equal(t, format.Color(0x333333), tier.Color)
	assert.False(t, tier.IsDefined(format.AttrBackground))

	tier, ok = dict.Lookup(format.Selector{Type: "ChartAxis", Class: "dark", ID: "sales-axis"})
	require.True(t, ok)
	assert.Equal(t, format.Color(0xeeeeee), tier.Color, "class beats type")
	assert.Equal(t, format.AlignTop|format.AlignRight, tier.Alignment)
	assert.Equal(t, format.Font{Name: "Roboto", Size: 11}, tier.Font)

	tier, ok = dict.Lookup(format.Selector{Type: "ChartAxis", Attributes: map[string]string{"axis": "y"}})
	require.True(t, ok)
	assert.Equal(t, 90.0, tier.Rotation)
	assert.Equal(t, format.NumberFormat{Kind: "decimal", Pattern: "#,##0"}, tier.NumberFormat)

	_, ok = dict.Lookup(format.Selector{Type: "Legend"})
	assert.False(t, ok)
}

func TestParse_RejectsBadValues(t *testing.T) {
	_, err := Parse([]byte("rules:\n  - type: A\n    color: nope\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("rules:\n  - type: A\n    alignment: [sideways]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("rules: ["))
	assert.Error(t, err)
}

func TestStore_Freshness(t *testing.T) {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	src := &fakeSource{mod: t0, data: []byte(axisStyles)}
	store := NewStore(src)
	ctx := context.Background()

	d1, v1, err := store.Get(ctx, Version{})
	require.NoError(t, err)
	assert.Equal(t, t0, v1.ModTime)
	assert.Equal(t, Digest([]byte(axisStyles)), v1.Digest)

	// unchanged source: same dictionary, no read
	d2, v2, err := store.Get(ctx, v1)
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, src.reads)

	// touched but identical: same dictionary, new token
	src.mod = t0.Add(time.Minute)
	d3, v3, err := store.Get(ctx, v2)
	require.NoError(t, err)
	assert.Same(t, d1, d3)
	assert.NotEqual(t, v2, v3)
	assert.Equal(t, v1.Digest, v3.Digest)
	assert.Equal(t, 1, store.Loads())

	// changed content: new dictionary
	src.mod = t0.Add(2 * time.Minute)
	src.data = []byte("rules:\n  - type: Legend\n    color: \"#010203\"\n")
	d4, v4, err := store.Get(ctx, v3)
	require.NoError(t, err)
	assert.NotSame(t, d1, d4)
	assert.NotEqual(t, v3.Digest, v4.Digest)
	assert.Equal(t, 2, store.Loads())
}

func TestStore_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("gone")}
	store := NewStore(src)
	v := Version{Digest: 7}
	_, got, err := store.Get(context.Background(), v)
	assert.Error(t, err)
	assert.Equal(t, v, got)
}

func TestStyles_UnavailableStoreIsUndefined(t *testing.T) {
	styles := NewStyles(NewStore(&fakeSource{err: errors.New("offline")}))
	_, ok := styles.Lookup(format.Selector{Type: "ChartAxis"})
	assert.False(t, ok)

	var nilStyles *Styles
	_, ok = nilStyles.Lookup(format.Selector{})
	assert.False(t, ok)
}

func TestStyles_FeedsResolver(t *testing.T) {
	src := &fakeSource{mod: time.Unix(100, 0), data: []byte(axisStyles)}
	styles := NewStyles(NewStore(src))

	c := format.NewComposite(format.DefaultVisuals(), format.Selector{Type: "ChartAxis", Class: "dark"}, styles)
	r := format.Resolver{}
	assert.Equal(t, format.Color(0xeeeeee), r.Color(c))
	assert.Equal(t, format.Color(0x111111), r.Background(c))
	assert.Equal(t, time.Unix(100, 0), styles.Version().ModTime)

	c.User.SetColor(0xabcdef)
	assert.Equal(t, format.Color(0xabcdef), r.Color(c))
}

func TestURLSource_ReadsThroughAFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(axisStyles), 0o644))

	store := NewStore(NewURLSource(afs.New(), path))
	dict, v, err := store.Get(context.Background(), Version{})
	require.NoError(t, err)
	assert.Equal(t, 4, dict.Len())
	assert.False(t, v.IsZero())

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	same, _, err := store.Get(context.Background(), v)
	require.NoError(t, err)
	assert.Same(t, dict, same)
	assert.Equal(t, 1, store.Loads())
}
