package binding

import (
	"log"

	"github.com/tiendc/go-deepcopy"
)

// Cloning is best effort: a copy that fails is logged and comes back nil,
// so one unclonable attribute does not stop the rest of a binding.
func clone[T any](what string, src *T) *T {
	if src == nil {
		return nil
	}
	var dst T
	if err := deepcopy.Copy(&dst, src); err != nil {
		log.Printf("clone %s: %v", what, err)
		return nil
	}
	return &dst
}

func CloneAxis(a *AxisDescriptor) *AxisDescriptor {
	return clone("axis descriptor", a)
}

func CloneHyperlink(h *Hyperlink) *Hyperlink {
	return clone("hyperlink", h)
}

func CloneCalculator(c *Calculator) *Calculator {
	return clone("calculator", c)
}

// CloneHighlights copies a highlight list; nil stays nil.
func CloneHighlights(hs []Highlight) []Highlight {
	if hs == nil {
		return nil
	}
	out := clone("highlights", &hs)
	if out == nil {
		return nil
	}
	return *out
}
