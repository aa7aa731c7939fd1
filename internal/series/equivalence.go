package series

import "github.com/agentic-research/chartbind/internal/binding"

// SameDimension decides whether two dimensions group the same way. Date
// levels only count when both are dates; ranking details only count for
// top-N and bottom-N; the sort column only counts for by-value sorts.
func SameDimension(a, b *binding.DimensionRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.FullName() != b.FullName() {
		return false
	}
	if a.IsDate() && b.IsDate() && a.DateLevel != b.DateLevel {
		return false
	}
	if a.Ranking.Option != b.Ranking.Option ||
		a.Order.Kind != b.Order.Kind ||
		a.NamedGroup != b.NamedGroup {
		return false
	}
	if a.Ranking.IsTopBottom() {
		if a.Ranking.GroupOthers != b.Ranking.GroupOthers ||
			a.Ranking.N != b.Ranking.N ||
			a.Ranking.Column != b.Ranking.Column {
			return false
		}
	}
	if a.Order.IsByValue() && a.Order.ByColumn != b.Order.ByColumn {
		return false
	}
	return true
}
