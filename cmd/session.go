package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/viant/afs"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/config"
	"github.com/agentic-research/chartbind/internal/document"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/rebind"
	"github.com/agentic-research/chartbind/internal/stylesheet"
	"github.com/agentic-research/chartbind/internal/universe"
)

// session is everything one command needs: the configuration, the column
// universe and the containers built from the document.
type session struct {
	cfg      *config.Config
	resolver format.Resolver
	universe *universe.Set
	charts   []*rebind.Container
}

func openSession(ctx context.Context, cfgPath, docPath, only string) (*session, error) {
	if docPath == "" {
		return nil, errors.New("no document given (use --document)")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	visuals, err := cfg.Visuals()
	if err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	env, err := cfg.Env()
	if err != nil {
		return nil, err
	}
	u, err := loadUniverse(ctx, cfg.Universe)
	if err != nil {
		return nil, err
	}

	var styles format.StyleSource
	if cfg.Stylesheet != "" {
		store := stylesheet.NewStore(stylesheet.NewURLSource(afs.New(), cfg.Stylesheet))
		styles = stylesheet.NewStyles(store)
	}

	abs, err := filepath.Abs(docPath)
	if err != nil {
		return nil, err
	}
	doc, err := document.Load(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	charts, err := document.Build(doc, visuals, styles)
	if err != nil {
		return nil, err
	}
	if only != "" {
		charts = filterCharts(charts, only)
		if len(charts) == 0 {
			return nil, fmt.Errorf("chart %q not found in %s", only, docPath)
		}
	}

	return &session{
		cfg:      cfg,
		resolver: format.Resolver{SuppressStylesheet: cfg.SuppressStylesheet},
		universe: u.WithParams(env),
		charts:   charts,
	}, nil
}

func filterCharts(cs []*rebind.Container, name string) []*rebind.Container {
	var out []*rebind.Container
	for _, c := range cs {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func loadUniverse(ctx context.Context, u *config.Universe) (*universe.Set, error) {
	if u == nil {
		return universe.NewSet(), nil
	}
	switch u.Kind {
	case config.UniverseSQLite:
		return universe.LoadSQLite(ctx, u.Path, u.Table)
	case config.UniverseSpreadsheet:
		return universe.LoadSpreadsheet(u.Path, u.Sheet)
	}
	cols := make([]binding.Column, 0, len(u.Columns))
	for _, c := range u.Columns {
		cols = append(cols, binding.Column{Name: c.Name, Entity: c.Entity, DataType: c.Type})
	}
	return universe.NewSet(cols...), nil
}

// rebindAll rebinds every chart. A failing chart keeps its previous runtime
// and its error is reported; the others still rebind.
func (s *session) rebindAll() error {
	var errs []error
	for _, c := range s.charts {
		if err := rebind.Rebind(c, s.universe); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
