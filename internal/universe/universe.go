// Package universe provides column universes: the set of columns a chart
// can currently bind to, plus the runtime parameters that drive dynamic
// bindings.
package universe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/chartbind/internal/binding"
	"github.com/agentic-research/chartbind/internal/dynamic"
)

// ErrColumnNotFound reports a binding with no matching column.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError names the binding that failed. Cause is set when a
// dynamic binding could not be evaluated.
type ColumnNotFoundError struct {
	Name  string
	Cause error
}

func (e *ColumnNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("column %q not found: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("column %q not found", e.Name)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

func (e *ColumnNotFoundError) Unwrap() error { return e.Cause }

// Set is an in-memory column universe. A Set is read-only after
// construction; WithParams returns a copy.
type Set struct {
	columns []binding.Column
	index   map[string][]int
	params  dynamic.Env
}

func NewSet(cols ...binding.Column) *Set {
	s := &Set{index: make(map[string][]int, len(cols))}
	for _, c := range cols {
		s.index[key(c.Name)] = append(s.index[key(c.Name)], len(s.columns))
		s.columns = append(s.columns, c)
	}
	return s
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// WithParams returns a copy of s evaluating dynamic bindings against env.
func (s *Set) WithParams(env dynamic.Env) *Set {
	out := *s
	out.params = env
	return &out
}

func (s *Set) Params() dynamic.Env { return s.params }

// Columns returns the columns in load order.
func (s *Set) Columns() []binding.Column {
	return append([]binding.Column(nil), s.columns...)
}

func (s *Set) Len() int { return len(s.columns) }

// Lookup finds a column by name, case-insensitively. When entity is set,
// columns of another entity do not match.
func (s *Set) Lookup(name, entity string) (binding.Column, bool) {
	for _, i := range s.index[key(name)] {
		c := s.columns[i]
		if entity == "" || c.Entity == "" || strings.EqualFold(c.Entity, entity) {
			return c, true
		}
	}
	return binding.Column{}, false
}

// Resolve returns the columns ref binds to. A static ref yields one column;
// a variable or expression yields one column per evaluated name, skipping
// names that are not columns. No match is a *ColumnNotFoundError.
func (s *Set) Resolve(ref *binding.DataRef) ([]binding.Column, error) {
	v := ref.Binding()
	if !v.IsDynamic() {
		c, ok := s.Lookup(ref.Name, ref.Entity)
		if !ok {
			return nil, &ColumnNotFoundError{Name: ref.Name}
		}
		return []binding.Column{c}, nil
	}

	names, err := v.Strings(s.params)
	if err != nil {
		return nil, &ColumnNotFoundError{Name: ref.Name, Cause: err}
	}
	var out []binding.Column
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		c, ok := s.Lookup(n, ref.Entity)
		if !ok || seen[key(c.Name)] {
			continue
		}
		seen[key(c.Name)] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, &ColumnNotFoundError{Name: ref.Name}
	}
	return out, nil
}
