package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/chartbind/internal/format"
)

const full = `
stylesheet = "file:///tmp/styles.yaml"

defaults {
  color     = "#336699"
  alpha     = 50
  font_name = "Inter"
  font_size = 11
  alignment = ["top", "left"]
}

universe "columns" {
  column "Region" {
    type = "string"
  }
  column "Sales" {
    type   = "double"
    entity = "orders"
  }
}

params = {
  measures = ["Sales", "Profit"]
  layer    = "state"
}
`

func TestParse(t *testing.T) {
	cfg, err := Parse("chartbind.hcl", []byte(full))
	require.NoError(t, err)

	assert.Equal(t, "file:///tmp/styles.yaml", cfg.Stylesheet)
	require.NotNil(t, cfg.Universe)
	assert.Equal(t, UniverseColumns, cfg.Universe.Kind)
	require.Len(t, cfg.Universe.Columns, 2)
	assert.Equal(t, Column{Name: "Sales", Type: "double", Entity: "orders"}, cfg.Universe.Columns[1])

	env, err := cfg.Env()
	require.NoError(t, err)
	assert.Equal(t, []any{"Sales", "Profit"}, env["measures"])
	assert.Equal(t, "state", env["layer"])
}

func TestVisuals_Overrides(t *testing.T) {
	cfg, err := Parse("chartbind.hcl", []byte(full))
	require.NoError(t, err)

	d, err := cfg.Visuals()
	require.NoError(t, err)
	base := format.DefaultVisuals()
	assert.Equal(t, format.Color(0x336699), d.Color)
	assert.Equal(t, base.Background, d.Background)
	assert.Equal(t, 50, d.Alpha)
	assert.Equal(t, "Inter", d.Font.Name)
	assert.InDelta(t, 11.0, d.Font.Size, 1e-9)
	assert.Equal(t, format.AlignTop|format.AlignLeft, d.Alignment)
}

func TestVisuals_BadColor(t *testing.T) {
	cfg, err := Parse("chartbind.hcl", []byte(`defaults { color = "teal" }`))
	require.NoError(t, err)
	_, err = cfg.Visuals()
	assert.Error(t, err)
}

func TestParse_RejectsUniverse(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown kind", `universe "parquet" {}`},
		{"sqlite without table", `universe "sqlite" { path = "a.db" }`},
		{"xlsx without path", `universe "xlsx" { sheet = "Data" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("chartbind.hcl", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.hcl"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Universe)
	env, err := cfg.Env()
	require.NoError(t, err)
	assert.Empty(t, env)
	d, err := cfg.Visuals()
	require.NoError(t, err)
	assert.Equal(t, format.DefaultVisuals(), d)

	path := filepath.Join(dir, "chartbind.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
universe "sqlite" {
  path  = "shop.db"
  table = "orders"
}
`), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", cfg.Universe.Table)

	require.NoError(t, os.WriteFile(path, []byte(`universe "sqlite" {`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
