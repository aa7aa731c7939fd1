// Package config loads the chartbind tool configuration from HCL.
//
// A configuration names the stylesheet, overrides the global visual
// defaults, selects the column universe and sets runtime parameters:
//
//	stylesheet = "file:///etc/chartbind/styles.yaml"
//
//	defaults {
//	  font_name = "Inter"
//	  font_size = 11
//	}
//
//	universe "sqlite" {
//	  path  = "shop.db"
//	  table = "orders"
//	}
//
//	params = {
//	  measures = ["Sales", "Profit"]
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/agentic-research/chartbind/internal/dynamic"
	"github.com/agentic-research/chartbind/internal/format"
)

// Universe kinds.
const (
	UniverseColumns     = "columns"
	UniverseSQLite      = "sqlite"
	UniverseSpreadsheet = "xlsx"
)

type Config struct {
	// Stylesheet is an afs URL; empty disables the stylesheet tier.
	Stylesheet         string    `hcl:"stylesheet,optional"`
	SuppressStylesheet bool      `hcl:"suppress_stylesheet,optional"`
	Defaults           *Defaults `hcl:"defaults,block"`
	Universe           *Universe `hcl:"universe,block"`
	Params             cty.Value `hcl:"params,optional"`
}

// Defaults overrides the built-in visual defaults. Unset attributes keep
// the built-in value.
type Defaults struct {
	Color      string   `hcl:"color,optional"`
	Background string   `hcl:"background,optional"`
	Alpha      *int     `hcl:"alpha,optional"`
	FontName   string   `hcl:"font_name,optional"`
	FontSize   float64  `hcl:"font_size,optional"`
	Alignment  []string `hcl:"alignment,optional"`
	Rotation   float64  `hcl:"rotation,optional"`
}

// Universe selects where columns come from.
type Universe struct {
	Kind    string   `hcl:"kind,label"`
	Path    string   `hcl:"path,optional"`
	Table   string   `hcl:"table,optional"`
	Sheet   string   `hcl:"sheet,optional"`
	Columns []Column `hcl:"column,block"`
}

// Column declares one column of a "columns" universe.
type Column struct {
	Name   string `hcl:"name,label"`
	Type   string `hcl:"type,optional"`
	Entity string `hcl:"entity,optional"`
}

// DefaultConfig is used when no configuration file exists.
func DefaultConfig() *Config {
	return &Config{}
}

// Load decodes the HCL file at path. A missing file yields DefaultConfig.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

// Parse decodes HCL source; filename only labels diagnostics and must end
// in ".hcl".
func Parse(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Universe == nil {
		return nil
	}
	switch c.Universe.Kind {
	case UniverseColumns:
		return nil
	case UniverseSQLite:
		if c.Universe.Path == "" || c.Universe.Table == "" {
			return fmt.Errorf("universe %q needs path and table", c.Universe.Kind)
		}
	case UniverseSpreadsheet:
		if c.Universe.Path == "" {
			return fmt.Errorf("universe %q needs path", c.Universe.Kind)
		}
	default:
		return fmt.Errorf("unknown universe kind %q", c.Universe.Kind)
	}
	return nil
}

// Visuals applies the configured overrides to the built-in defaults.
func (c *Config) Visuals() (format.Defaults, error) {
	d := format.DefaultVisuals()
	o := c.Defaults
	if o == nil {
		return d, nil
	}
	var err error
	if o.Color != "" {
		if d.Color, err = format.ParseColor(o.Color); err != nil {
			return d, err
		}
	}
	if o.Background != "" {
		if d.Background, err = format.ParseColor(o.Background); err != nil {
			return d, err
		}
	}
	if o.Alpha != nil {
		d.Alpha = *o.Alpha
	}
	if o.FontName != "" {
		d.Font.Name = o.FontName
	}
	if o.FontSize > 0 {
		d.Font.Size = o.FontSize
	}
	if len(o.Alignment) > 0 {
		if d.Alignment, err = format.ParseAlignment(o.Alignment...); err != nil {
			return d, err
		}
	}
	d.Rotation = o.Rotation
	return d, nil
}

// Env converts the params object into the environment dynamic bindings
// evaluate against.
func (c *Config) Env() (dynamic.Env, error) {
	env := dynamic.Env{}
	if c.Params.IsNull() {
		return env, nil
	}
	if !c.Params.IsWhollyKnown() {
		return nil, errors.New("params must be known values")
	}
	data, err := ctyjson.Marshal(c.Params, c.Params.Type())
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("params must be an object: %w", err)
	}
	return env, nil
}
