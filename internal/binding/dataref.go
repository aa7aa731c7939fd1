// Package binding models declarative chart field references and the runtime
// copies produced when they are resolved against a column universe.
package binding

import (
	"strings"

	"github.com/agentic-research/chartbind/internal/dynamic"
)

// Data types carried by columns and refs.
const (
	TypeString    = "string"
	TypeBoolean   = "boolean"
	TypeInteger   = "integer"
	TypeLong      = "long"
	TypeDouble    = "double"
	TypeFloat     = "float"
	TypeDate      = "date"
	TypeTime      = "time"
	TypeTimestamp = "timestamp"
)

// IsNumericType reports whether t holds numbers.
func IsNumericType(t string) bool {
	switch strings.ToLower(t) {
	case TypeInteger, TypeLong, TypeDouble, TypeFloat, "short", "byte", "decimal":
		return true
	}
	return false
}

// IsDateType reports whether t holds dates or times.
func IsDateType(t string) bool {
	switch strings.ToLower(t) {
	case TypeDate, TypeTime, TypeTimestamp:
		return true
	}
	return false
}

// Column is one concrete column of a column universe.
type Column struct {
	Name     string
	Entity   string
	DataType string
}

// DataRef points at the underlying column or expression of a ref. Name is a
// plain column name, "$(var)" for a variable-driven ref, or "=path" for a
// script-driven ref.
type DataRef struct {
	Name     string
	Entity   string
	DataType string
}

// Binding parses Name into a dynamic value.
func (d DataRef) Binding() dynamic.Value {
	return dynamic.Parse(d.Name)
}

// Source tells whether the ref is static, variable-driven or script-driven.
func (d DataRef) Source() dynamic.Kind {
	return d.Binding().Kind
}

// RefKind distinguishes the ref variants.
type RefKind uint8

const (
	KindDimension RefKind = iota
	KindAggregate
	KindGeo
)

func (k RefKind) String() string {
	switch k {
	case KindAggregate:
		return "aggregate"
	case KindGeo:
		return "geo"
	default:
		return "dimension"
	}
}
