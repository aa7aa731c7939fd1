package geo

import (
	"fmt"
	"strings"
)

// Layer is a map layer, ordered from the widest region to the narrowest.
type Layer int

const (
	LayerCountry Layer = iota
	LayerState
	LayerCounty
	LayerCity
	LayerPostal
	LayerPoint
	LayerCustom
)

var layerNames = map[string]Layer{
	"country":  LayerCountry,
	"world":    LayerCountry,
	"state":    LayerState,
	"province": LayerState,
	"county":   LayerCounty,
	"city":     LayerCity,
	"zip":      LayerPostal,
	"postal":   LayerPostal,
	"point":    LayerPoint,
}

// ParseLayer maps a layer name or number to a Layer. Names it does not know
// are custom layers and sort last.
func ParseLayer(v any) Layer {
	switch t := v.(type) {
	case Layer:
		return t
	case int:
		return clampLayer(t)
	case int64:
		return clampLayer(int(t))
	case float64:
		return clampLayer(int(t))
	case string:
		if l, ok := layerNames[strings.ToLower(strings.TrimSpace(t))]; ok {
			return l
		}
	}
	return LayerCustom
}

func clampLayer(n int) Layer {
	if n < int(LayerCountry) || n > int(LayerCustom) {
		return LayerCustom
	}
	return Layer(n)
}

func (l Layer) String() string {
	switch l {
	case LayerCountry:
		return "country"
	case LayerState:
		return "state"
	case LayerCounty:
		return "county"
	case LayerCity:
		return "city"
	case LayerPostal:
		return "postal"
	case LayerPoint:
		return "point"
	case LayerCustom:
		return "custom"
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Distribute assigns values to n instances positionally, wrapping around
// when there are fewer values than instances. No values yields nil.
func Distribute(values []any, n int) []any {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]any, n)
	for i := range out {
		out[i] = values[i%len(values)]
	}
	return out
}
