package rebind

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/dynamic"
	"github.com/agentic-research/chartbind/internal/geo"
)

// ErrScriptUnresolved marks a script-driven field with no matching column.
var ErrScriptUnresolved = errors.New("script binding unresolved")

// ColumnUniverse is the set of columns a chart can bind to.
type ColumnUniverse interface {
	// Resolve returns the columns ref binds to, or an error wrapping a
	// not-found sentinel.
	Resolve(ref *binding.DataRef) ([]binding.Column, error)
	// Params are the runtime parameters dynamic values evaluate against.
	Params() dynamic.Env
}

// RebindError aborts a rebind. The container keeps its previous runtime.
type RebindError struct {
	Container string
	Ref       string
	Err       error
}

func (e *RebindError) Error() string {
	return fmt.Sprintf("rebind %s: field %s: %v", e.Container, e.Ref, e.Err)
}

func (e *RebindError) Unwrap() error { return e.Err }

type outcome uint8

const (
	resolved outcome = iota
	unresolved
	dropped
)

type rebinder struct {
	c   *Container
	u   ColumnUniverse
	rt  *Runtime
	pos uint32

	// Declarative side effects, applied only when the rebind succeeds.
	commits []func()
	axes    map[arenaKey]*binding.AxisDescriptor
}

type arenaKey struct {
	arena *binding.AxisArena
	name  string
}

// Rebind resolves every declarative field of c against u and replaces c's
// runtime snapshot. A script-driven field with no column fails the whole
// rebind; variable-driven fields are kept unresolved; other missing fields
// are dropped. A failed rebind leaves the declarations as they were: type
// inference and new axis arena entries are only applied on success.
func Rebind(c *Container, u ColumnUniverse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := &rebinder{c: c, u: u, rt: newRuntime(), axes: make(map[arenaKey]*binding.AxisDescriptor)}
	if err := b.run(); err != nil {
		return err
	}
	for _, fn := range b.commits {
		fn()
	}
	b.rt.Declared = int(b.pos)
	c.rt = b.rt
	return nil
}

func (b *rebinder) run() error {
	var err error
	if b.rt.X, err = b.fields(b.c.X); err != nil {
		return err
	}
	if b.rt.Y, err = b.fields(b.c.Y); err != nil {
		return err
	}
	for _, ch := range binding.AestheticChannels {
		decl := b.c.Aesthetics[ch]
		if decl == nil || decl.Field == nil {
			continue
		}
		pos := b.next()
		a, st, err := b.aesthetic(decl)
		if err != nil {
			return err
		}
		b.mark(pos, st)
		if a != nil {
			b.rt.Aesthetics[ch] = a
		}
	}
	if b.c.Ext != nil {
		for _, s := range b.c.Ext.Slots() {
			refs, err := b.fields(s.Refs)
			if err != nil {
				return err
			}
			b.rt.Slots = append(b.rt.Slots, Slot{Name: s.Name, Refs: refs})
		}
		if g, ok := b.c.Ext.(GeoExtension); ok {
			if err := b.geoFields(g.GeoFields()); err != nil {
				return err
			}
		}
	}

	b.chartTypes()
	b.pushDown()
	b.rt.DefaultMeasure = firstMeasure(b.rt.Y)
	if b.rt.DefaultMeasure == nil {
		b.rt.DefaultMeasure = firstMeasure(b.rt.X)
	}
	return nil
}

func (b *rebinder) next() uint32 {
	p := b.pos
	b.pos++
	return p
}

func (b *rebinder) mark(pos uint32, st outcome) {
	switch st {
	case resolved:
		b.rt.Resolved.Add(pos)
	case unresolved:
		b.rt.Unresolved.Add(pos)
	default:
		b.rt.Dropped.Add(pos)
	}
}

// fields resolves a declarative list in order.
func (b *rebinder) fields(decls []binding.Ref) ([]binding.Ref, error) {
	var out []binding.Ref
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		pos := b.next()
		refs, st, err := b.field(decl)
		if err != nil {
			return nil, err
		}
		b.mark(pos, st)
		out = append(out, refs...)
	}
	return out, nil
}

func (b *rebinder) field(decl binding.Ref) ([]binding.Ref, outcome, error) {
	cols, st, err := b.columns(decl)
	if err != nil || st == dropped {
		return nil, st, err
	}
	if st == unresolved {
		return []binding.Ref{b.unresolved(decl)}, st, nil
	}

	out := make([]binding.Ref, 0, len(cols))
	for _, col := range cols {
		rt := b.instantiate(decl, col)
		if agg, ok := rt.(*binding.AggregateRef); ok {
			if err := b.measure(agg, decl.(*binding.AggregateRef)); err != nil {
				return nil, st, err
			}
		}
		out = append(out, rt)
	}
	return out, st, nil
}

// columns applies the failure policy to the universe's answer for decl.
func (b *rebinder) columns(decl binding.Ref) ([]binding.Column, outcome, error) {
	cols, err := b.u.Resolve(decl.Data())
	if err == nil && len(cols) > 0 {
		b.followType(decl, cols[0])
		return cols, resolved, nil
	}
	if err == nil {
		err = fmt.Errorf("no columns for %s", decl.Data().Name)
	}

	switch decl.Data().Source() {
	case dynamic.Expression:
		return nil, dropped, &RebindError{
			Container: b.c.Name,
			Ref:       decl.Data().Name,
			Err:       fmt.Errorf("%w: %w", ErrScriptUnresolved, err),
		}
	case dynamic.Variable:
		return nil, unresolved, nil
	default:
		log.Printf("rebind %s: dropping %s: %v", b.c.Name, decl.FullName(), err)
		return nil, dropped, nil
	}
}

// followType records the first column's type on a measure declared
// without one, so frame defaults match the data. The declared type itself
// is never touched.
func (b *rebinder) followType(decl binding.Ref, col binding.Column) {
	agg, ok := decl.(*binding.AggregateRef)
	if !ok || agg.Field.DataType != "" {
		return
	}
	b.commits = append(b.commits, func() { agg.InferType(col.DataType) })
}

func (b *rebinder) instantiate(decl binding.Ref, col binding.Column) binding.Ref {
	rt := decl.Instantiate(col)
	b.attachAxis(decl, rt)
	return rt
}

func (b *rebinder) unresolved(decl binding.Ref) binding.Ref {
	rt := decl.MarkUnresolved()
	rt.SetAxis(decl.Axis())
	return rt
}

// attachAxis shares the declared axis when the names match and otherwise
// uses the arena entry for the resolved name. Dimensions compare under the
// resolved column's type, so an untyped date field keeps its own axis.
func (b *rebinder) attachAxis(decl, rt binding.Ref) {
	name := rt.FullName()
	declName := decl.FullName()
	if d, ok := decl.(interface{ FullNameAs(string) string }); ok {
		declName = d.FullNameAs(rt.Data().DataType)
	}
	if name == declName {
		rt.SetAxis(decl.Axis())
		return
	}
	arena := decl.Arena()
	if arena == nil {
		rt.SetAxis(binding.CloneAxis(decl.Axis()))
		return
	}
	if a, ok := arena.Get(name); ok {
		rt.SetAxis(a)
		return
	}
	key := arenaKey{arena, name}
	a, ok := b.axes[key]
	if !ok {
		if a = binding.CloneAxis(decl.Axis()); a == nil {
			rt.SetAxis(nil)
			return
		}
		b.axes[key] = a
		b.commits = append(b.commits, func() { arena.Insert(name, a) })
	}
	rt.SetAxis(a)
}

// aesthetic binds decl to the first matching column.
func (b *rebinder) aesthetic(decl *binding.AestheticRef) (*binding.AestheticRef, outcome, error) {
	cols, st, err := b.columns(decl.Field)
	switch {
	case err != nil:
		return nil, st, err
	case st == dropped:
		return nil, st, nil
	case st == unresolved:
		a := decl.Unbound()
		a.Field.SetAxis(decl.Field.Axis())
		return a, st, nil
	}
	a := decl.Bind(cols[0])
	b.attachAxis(decl.Field, a.Field)
	return a, st, nil
}

// measure resolves the fields a runtime measure carries itself.
func (b *rebinder) measure(rt, decl *binding.AggregateRef) error {
	for _, ch := range binding.AestheticChannels {
		da := decl.Aesthetic(ch)
		if da == nil || da.Field == nil {
			continue
		}
		a, _, err := b.aesthetic(da)
		if err != nil {
			return err
		}
		rt.SetAesthetic(ch, a)
	}
	if decl.BreakBy == nil {
		return nil
	}
	refs, _, err := b.field(decl.BreakBy)
	if err != nil {
		return err
	}
	rt.BreakBy = nil
	if len(refs) > 0 {
		rt.BreakBy, _ = refs[0].(*binding.DimensionRef)
	}
	return nil
}

// geoFields resolves geographic fields, assigns runtime layers and sorts
// the result by layer. Unresolved fields take no part in the ordering and
// follow the sorted ones in declaration order.
func (b *rebinder) geoFields(decls []*binding.GeoRef) error {
	var all, soft []*binding.GeoRef
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		pos := b.next()
		refs, st, err := b.field(decl)
		if err != nil {
			return err
		}
		b.mark(pos, st)

		inst := make([]*binding.GeoRef, 0, len(refs))
		for _, r := range refs {
			inst = append(inst, r.(*binding.GeoRef))
		}
		if st != resolved {
			soft = append(soft, inst...)
			continue
		}
		b.layers(decl, inst)
		all = append(all, inst...)
	}
	slices.SortStableFunc(all, func(x, y *binding.GeoRef) int {
		return cmp.Compare(x.RTLayer, y.RTLayer)
	})
	b.rt.Geo = append(all, soft...)
	return nil
}

// layers evaluates a dynamic layer selector and hands the values out to
// the instances positionally, wrapping around when values run short.
func (b *rebinder) layers(decl *binding.GeoRef, inst []*binding.GeoRef) {
	if !decl.Layer.IsDynamic() {
		l := geo.ParseLayer(decl.Layer.Literal)
		for _, g := range inst {
			g.RTLayer = l
		}
		return
	}
	vals, err := decl.Layer.Evaluate(b.u.Params())
	if err != nil {
		log.Printf("rebind %s: layer of %s: %v", b.c.Name, decl.FullName(), err)
		return
	}
	for i, v := range geo.Distribute(vals, len(inst)) {
		inst[i].RTLayer = geo.ParseLayer(v)
	}
}

// chartTypes sets the runtime chart type of every resolved measure. Only
// multi-style charts let a measure keep its own type; everything else,
// stacked bit included, comes from the container.
func (b *rebinder) chartTypes() {
	multi := b.c.MultiStyles()
	auto := binding.ChartPoint
	if hasDimension(b.rt.X) {
		auto = binding.ChartBar
	}
	for _, agg := range b.rt.Aggregates() {
		t := b.c.ChartType
		if multi && !agg.ChartType.IsAuto() {
			t = agg.ChartType
		}
		if t.IsAuto() {
			t = auto | (t ^ t.Base())
		}
		agg.RTChartType = t
	}
}

// pushDown copies the container's hyperlink and highlights onto every
// resolved measure and geographic field, replacing what they had.
func (b *rebinder) pushDown() {
	link, marks := b.c.Hyperlink, b.c.Highlights
	if link == nil && len(marks) == 0 {
		return
	}
	for _, agg := range b.rt.Aggregates() {
		if link != nil {
			agg.Hyperlink = binding.CloneHyperlink(link)
		}
		if len(marks) > 0 {
			agg.Highlights = binding.CloneHighlights(marks)
		}
	}
	for _, g := range b.rt.Geo {
		if !g.Resolved() {
			continue
		}
		if link != nil {
			g.Hyperlink = binding.CloneHyperlink(link)
		}
		if len(marks) > 0 {
			g.Highlights = binding.CloneHighlights(marks)
		}
	}
}

func hasDimension(refs []binding.Ref) bool {
	for _, r := range refs {
		if r.Kind() != binding.KindAggregate && r.Resolved() {
			return true
		}
	}
	return false
}

func firstMeasure(refs []binding.Ref) *binding.AggregateRef {
	for _, r := range refs {
		if a, ok := r.(*binding.AggregateRef); ok && a.Resolved() {
			return a
		}
	}
	return nil
}
