package binding

import (
	"maps"

	"github.com/agentic-research/chartbind/internal/format"
)

// Hyperlink is a drill target attached to a field.
type Hyperlink struct {
	Link          string
	Target        string
	Params        map[string]string
	SendSelection bool
}

// Equal compares every field.
func (h *Hyperlink) Equal(o *Hyperlink) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Link == o.Link && h.Target == o.Target &&
		h.SendSelection == o.SendSelection && maps.Equal(h.Params, o.Params)
}

// Highlight colors values matching Condition.
type Highlight struct {
	Name      string
	Condition string
	Color     format.Color
}
