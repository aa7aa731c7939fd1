package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMappingTable_LookupAndPassThrough(t *testing.T) {
	m := NewMappingTable()
	m.Add("Calif.", "US-CA")
	m.Add("N.Y.", "US-NY")

	code, ok := m.Lookup("Calif.")
	assert.True(t, ok)
	assert.Equal(t, "US-CA", code)

	res := m.Resolve("N.Y.", "Atlantis")
	assert.Equal(t, Resolution{Raw: "N.Y.", Code: "US-NY", Resolved: true}, res[0])
	assert.Equal(t, Resolution{Raw: "Atlantis", Code: "Atlantis"}, res[1])
}

func TestMappingTable_DuplicatesKept(t *testing.T) {
	m := NewMappingTable()
	m.Add("Georgia", "US-GA")
	m.Add("Georgia", "US-GA")
	assert.False(t, m.IsAmbiguous("Georgia"), "same code twice is not a duplicate")

	m.Add("Georgia", "GE")
	m.Add("Georgia", "US-GA")
	assert.True(t, m.IsAmbiguous("Georgia"))
	assert.Equal(t, map[string][]string{"Georgia": {"US-GA", "GE"}}, m.Duplicates())

	code, _ := m.Lookup("Georgia")
	assert.Equal(t, "US-GA", code)
	assert.True(t, m.Resolve("Georgia")[0].Ambiguous)
	assert.Equal(t, 1, m.Len())

	dups := m.Duplicates()
	dups["Georgia"][0] = "changed"
	assert.Equal(t, "US-GA", m.Duplicates()["Georgia"][0])
}

func TestMappingTable_RemoveAndClone(t *testing.T) {
	m := NewMappingTable()
	m.Add("a", "1")
	m.Add("b", "2")
	m.Add("b", "3")

	cp := m.Clone()
	m.Remove("b")
	assert.Equal(t, []string{"a"}, m.Raws())
	assert.Empty(t, m.Duplicates())

	assert.Equal(t, []string{"a", "b"}, cp.Raws())
	assert.True(t, cp.IsAmbiguous("b"))
}

func TestParseLayer(t *testing.T) {
	assert.Equal(t, LayerState, ParseLayer("Province"))
	assert.Equal(t, LayerCity, ParseLayer(3))
	assert.Equal(t, LayerPostal, ParseLayer(4.0))
	assert.Equal(t, LayerCustom, ParseLayer("Sales Territory"))
	assert.Equal(t, LayerCustom, ParseLayer(99))
	assert.Equal(t, "county", LayerCounty.String())
}

func TestDistribute_WrapsAround(t *testing.T) {
	assert.Equal(t, []any{"a", "b", "a"}, Distribute([]any{"a", "b"}, 3))
	assert.Equal(t, []any{"a", "b"}, Distribute([]any{"a", "b", "c"}, 2))
	assert.Nil(t, Distribute(nil, 3))
	assert.Nil(t, Distribute([]any{"a"}, 0))
}
