// Package series presents several measures as one "all series" measure:
// a property reads as a single value only when every member agrees on it,
// and a write goes to every member.
package series

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/chartbind/internal/binding"
)

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrInvalidValue    = errors.New("invalid property value")
)

// View is the consistency view over a list of runtime measures. It does
// not own the measures and only mutates them through Set.
type View struct {
	refs []*binding.AggregateRef
}

// NewView skips nil members.
func NewView(refs []*binding.AggregateRef) *View {
	v := &View{}
	for _, r := range refs {
		if r != nil {
			v.refs = append(v.refs, r)
		}
	}
	return v
}

func (v *View) Len() int { return len(v.refs) }

// Refs returns the members in list order.
func (v *View) Refs() []*binding.AggregateRef {
	return append([]*binding.AggregateRef(nil), v.refs...)
}

func lookup(p Property) (*accessor, error) {
	if p >= propertyCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProperty, int(p))
	}
	return &properties[p], nil
}

// Get returns the shared value of p. ok is false when the members disagree
// or the view is empty.
func (v *View) Get(p Property) (value any, ok bool, err error) {
	acc, err := lookup(p)
	if err != nil {
		return nil, false, err
	}
	if len(v.refs) == 0 {
		return nil, false, nil
	}
	first := acc.get(v.refs[0])
	for _, r := range v.refs[1:] {
		if !acc.equal(first, acc.get(r)) {
			return nil, false, nil
		}
	}
	return first, true, nil
}

// IsMixed reports whether the members disagree on p.
func (v *View) IsMixed(p Property) (bool, error) {
	acc, err := lookup(p)
	if err != nil {
		return false, err
	}
	return v.mixed(acc), nil
}

func (v *View) mixed(acc *accessor) bool {
	if len(v.refs) < 2 {
		return false
	}
	first := acc.get(v.refs[0])
	for _, r := range v.refs[1:] {
		if !acc.equal(first, acc.get(r)) {
			return true
		}
	}
	return false
}

// Set writes value to every member in list order. Mutable values are
// cloned per member, so no two members share the written object.
func (v *View) Set(p Property, value any) error {
	acc, err := lookup(p)
	if err != nil {
		return err
	}
	if err := acc.check(value); err != nil {
		return fmt.Errorf("set %s: %w", acc.name, err)
	}
	for _, r := range v.refs {
		acc.set(r, value)
	}
	return nil
}

// MixedProperties returns the ids of every property the members disagree
// on.
func (v *View) MixedProperties() *roaring.Bitmap {
	bm := roaring.New()
	for i := range properties {
		if v.mixed(&properties[i]) {
			bm.Add(uint32(i))
		}
	}
	return bm
}
