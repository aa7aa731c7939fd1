package binding

import (
	"fmt"
	"strings"
)

// ChartType is a base chart style in the low byte plus decoration bits.
type ChartType uint16

const (
	ChartAuto ChartType = iota
	ChartBar
	ChartLine
	ChartArea
	ChartPoint
	ChartPie
	ChartRadar
	ChartGantt
	ChartMap
	ChartTree
	ChartNetwork
)

// Decoration bits.
const (
	Stacked ChartType = 1 << 8
	Chart3D ChartType = 1 << 9

	baseMask ChartType = 0xff
)

var chartNames = [...]string{"auto", "bar", "line", "area", "point", "pie", "radar", "gantt", "map", "tree", "network"}

// Base strips decoration bits.
func (t ChartType) Base() ChartType { return t & baseMask }

func (t ChartType) IsStacked() bool { return t&Stacked != 0 }

// Unstacked clears the stacked bit only.
func (t ChartType) Unstacked() ChartType { return t &^ Stacked }

func (t ChartType) IsAuto() bool { return t.Base() == ChartAuto }

func (t ChartType) String() string {
	b := int(t.Base())
	name := fmt.Sprintf("type(%d)", b)
	if b < len(chartNames) {
		name = chartNames[b]
	}
	if t&Chart3D != 0 {
		name = "3d-" + name
	}
	if t.IsStacked() {
		name = "stacked-" + name
	}
	return name
}

// ParseChartType accepts names like "bar", "stacked-area" or "3d-pie".
func ParseChartType(s string) (ChartType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ChartAuto, nil
	}
	var deco ChartType
	for {
		switch {
		case strings.HasPrefix(s, "stacked-"):
			deco |= Stacked
			s = strings.TrimPrefix(s, "stacked-")
			continue
		case strings.HasPrefix(s, "3d-"):
			deco |= Chart3D
			s = strings.TrimPrefix(s, "3d-")
			continue
		}
		break
	}
	for i, n := range chartNames {
		if n == s {
			return ChartType(i) | deco, nil
		}
	}
	return ChartAuto, fmt.Errorf("unknown chart type %q", s)
}
