package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/format"
	"github.com/agentic-research/chartbind/internal/rebind"
	"github.com/agentic-research/chartbind/internal/series"
)

var fieldHeader = []string{"section", "kind", "name", "entity", "type", "chart", "status"}

func fieldRow(section string, r binding.Ref) []string {
	d := r.Data()
	chart := ""
	if a, ok := r.(*binding.AggregateRef); ok {
		chart = a.RTChartType.String()
	}
	status := "resolved"
	if !r.Resolved() {
		status = "unresolved"
	}
	return []string{section, r.Kind().String(), r.FullName(), d.Entity, d.DataType, chart, status}
}

// runtimeRows lists the runtime fields in visit order.
func runtimeRows(rt *rebind.Runtime) [][]string {
	var rows [][]string
	for _, r := range rt.X {
		rows = append(rows, fieldRow("x", r))
	}
	for _, r := range rt.Y {
		rows = append(rows, fieldRow("y", r))
	}
	for _, ch := range binding.AestheticChannels {
		if a := rt.Aesthetics[ch]; a != nil && a.Field != nil {
			rows = append(rows, fieldRow(ch.String(), a.Field))
		}
	}
	for _, s := range rt.Slots {
		for _, r := range s.Refs {
			rows = append(rows, fieldRow(s.Name, r))
		}
	}
	for _, g := range rt.Geo {
		rows = append(rows, fieldRow("geo:"+g.RTLayer.String(), g))
	}
	return rows
}

func writeRuntime(w io.Writer, c *rebind.Container) {
	bound := c.ViewRuntime(func(rt *rebind.Runtime) {
		fmt.Fprintf(w, "%s (%s): %d declared, %d resolved, %d unresolved, %d dropped\n",
			c.Name, c.Kind(), rt.Declared,
			rt.Resolved.GetCardinality(), rt.Unresolved.GetCardinality(), rt.Dropped.GetCardinality())
		for _, row := range runtimeRows(rt) {
			fmt.Fprintf(w, "  %-10s %-9s %-24s %-10s %-8s %-12s %s\n",
				row[0], row[1], row[2], row[3], row[4], row[5], row[6])
		}
		if rt.DefaultMeasure != nil {
			fmt.Fprintf(w, "  default measure: %s\n", rt.DefaultMeasure.FullName())
		}
	})
	if !bound {
		fmt.Fprintf(w, "%s: not bound\n", c.Name)
	}
}

// exportRuntime writes one sheet per bound chart.
func exportRuntime(path string, cs []*rebind.Container) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }() // safe to ignore

	first := true
	for _, c := range cs {
		var rows [][]string
		if !c.ViewRuntime(func(rt *rebind.Runtime) { rows = runtimeRows(rt) }) {
			continue
		}
		sheet := sheetName(c.Name)
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		rows = append([][]string{fieldHeader}, rows...)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			vals := make([]any, len(row))
			for j, v := range row {
				vals[j] = v
			}
			if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

var sheetReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

func sheetName(name string) string {
	s := sheetReplacer.Replace(name)
	if s == "" {
		s = "chart"
	}
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}

// declaredFields lists the declarative fields of c in visit order. Callers
// hold the container lock.
func declaredFields(c *rebind.Container) []binding.Ref {
	var out []binding.Ref
	out = append(out, c.X...)
	out = append(out, c.Y...)
	for _, ch := range binding.AestheticChannels {
		if a := c.Aesthetics[ch]; a != nil && a.Field != nil {
			out = append(out, a.Field)
		}
	}
	if c.Ext != nil {
		for _, s := range c.Ext.Slots() {
			out = append(out, s.Refs...)
		}
		if g, ok := c.Ext.(rebind.GeoExtension); ok {
			for _, ref := range g.GeoFields() {
				out = append(out, ref)
			}
		}
	}
	return out
}

// writeResolved prints the effective value and supplying tier of attrs for
// every declared field whose name matches field (all when empty).
func writeResolved(w io.Writer, r format.Resolver, c *rebind.Container, field string, attrs []format.Attribute) int {
	n := 0
	c.View(func(c *rebind.Container) {
		for _, ref := range declaredFields(c) {
			if field != "" && !strings.EqualFold(ref.Data().Name, field) && !strings.EqualFold(ref.FullName(), field) {
				continue
			}
			for _, a := range attrs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t(%s)\n",
					c.Name, ref.FullName(), a, r.Resolve(ref.Format(), a), r.Tier(ref.Format(), a))
				n++
			}
		}
	})
	return n
}

func writeMixed(w io.Writer, c *rebind.Container) error {
	var err error
	bound := c.ViewRuntime(func(rt *rebind.Runtime) {
		err = writeView(w, c.Name, series.NewView(rt.Aggregates()))
	})
	if !bound {
		return fmt.Errorf("chart %s is not bound", c.Name)
	}
	return err
}

func writeView(w io.Writer, name string, v *series.View) error {
	fmt.Fprintf(w, "%s: %d measures\n", name, v.Len())
	if v.Len() == 0 {
		return nil
	}
	for _, p := range series.Properties() {
		val, ok, err := v.Get(p)
		if err != nil {
			return err
		}
		shown := "(mixed)"
		if ok {
			shown = describe(val)
		}
		fmt.Fprintf(w, "  %-14s %s\n", p, shown)
	}
	mixed := v.MixedProperties()
	names := make([]string, 0, mixed.GetCardinality())
	for _, id := range mixed.ToArray() {
		names = append(names, series.Property(id).String())
	}
	if len(names) > 0 {
		fmt.Fprintf(w, "  mixed: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case *binding.AestheticRef:
		if x == nil {
			return "-"
		}
		return x.FullName()
	case *binding.DimensionRef:
		if x == nil {
			return "-"
		}
		return x.FullName()
	case *binding.Hyperlink:
		if x == nil {
			return "-"
		}
		return x.Link
	case *binding.Calculator:
		if x == nil {
			return "-"
		}
		return x.Kind
	case *format.CompositeTextFormat:
		if x == nil {
			return "-"
		}
		return fmt.Sprintf("%d user attributes", len(definedAttrs(x.User)))
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func definedAttrs(t format.TextFormat) []format.Attribute {
	var out []format.Attribute
	for _, a := range format.Attributes() {
		if t.IsDefined(a) {
			out = append(out, a)
		}
	}
	return out
}

// parseAssignment turns "property=value" into a typed series value. Only
// scalar properties can be set from text.
func parseAssignment(s string) (series.Property, any, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return 0, nil, fmt.Errorf("expected property=value, got %q", s)
	}
	p, err := series.ParseProperty(strings.TrimSpace(name))
	if err != nil {
		return 0, nil, err
	}
	raw = strings.TrimSpace(raw)
	switch p {
	case series.ChartType:
		t, err := binding.ParseChartType(raw)
		return p, t, err
	case series.Formula:
		return p, raw, nil
	case series.SecondaryY:
		b, err := strconv.ParseBool(raw)
		return p, b, err
	}
	return 0, nil, fmt.Errorf("%s cannot be set from text", p)
}
