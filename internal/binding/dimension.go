package binding

import (
	"fmt"
	"strings"

	"github.com/agentic-research/chartbind/internal/format"
)

// RankingOption selects top-N or bottom-N filtering of a dimension.
type RankingOption uint8

const (
	RankNone RankingOption = iota
	RankTopN
	RankBottomN
)

// Ranking keeps only the N best or worst members by Column.
type Ranking struct {
	Option      RankingOption
	N           int
	Column      string
	GroupOthers bool
}

// IsTopBottom reports whether the ranking filters members.
func (r Ranking) IsTopBottom() bool {
	return r.Option == RankTopN || r.Option == RankBottomN
}

type SortKind uint8

const (
	SortNone SortKind = iota
	SortAsc
	SortDesc
	SortByValueAsc
	SortByValueDesc
	SortOriginal
)

var sortNames = [...]string{"none", "asc", "desc", "by-value-asc", "by-value-desc", "original"}

// ParseSortKind maps a persisted sort name to a SortKind; empty is SortNone.
func ParseSortKind(s string) (SortKind, error) {
	if s == "" {
		return SortNone, nil
	}
	for i, n := range sortNames {
		if strings.EqualFold(n, s) {
			return SortKind(i), nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort order %q", s)
}

func (k SortKind) String() string {
	if int(k) < len(sortNames) {
		return sortNames[k]
	}
	return fmt.Sprintf("sort(%d)", int(k))
}

// SortOrder orders dimension members. ByColumn only matters for by-value
// sorts.
type SortOrder struct {
	Kind     SortKind
	ByColumn string
}

// IsByValue reports a sort by an aggregate's values.
func (s SortOrder) IsByValue() bool {
	return s.Kind == SortByValueAsc || s.Kind == SortByValueDesc
}

// DateLevel groups date values.
type DateLevel uint8

const (
	LevelNone DateLevel = iota
	LevelYear
	LevelQuarter
	LevelMonth
	LevelWeek
	LevelDay
	LevelHour
	LevelMinute
	LevelSecond
)

var levelNames = [...]string{"", "Year", "Quarter", "Month", "Week", "Day", "Hour", "Minute", "Second"}

func (l DateLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return ""
}

// ParseDateLevel is case-insensitive; the empty string is LevelNone.
func ParseDateLevel(s string) (DateLevel, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, s) {
			return DateLevel(i), nil
		}
	}
	return LevelNone, fmt.Errorf("unknown date level %q", s)
}

// DimensionRef is a grouping field.
type DimensionRef struct {
	base

	Ranking    Ranking
	Order      SortOrder
	NamedGroup string
	DateLevel  DateLevel
}

func NewDimension(d DataRef, f *format.CompositeTextFormat) *DimensionRef {
	return &DimensionRef{base: newBase(d, f)}
}

func (r *DimensionRef) Kind() RefKind { return KindDimension }

// IsDate reports whether the bound column holds dates.
func (r *DimensionRef) IsDate() bool { return IsDateType(r.Field.DataType) }

// FullName is Level(Name) for a dated dimension with a date level.
func (r *DimensionRef) FullName() string {
	return r.FullNameAs(r.Field.DataType)
}

// FullNameAs is the full name the dimension has once bound to a column of
// type dataType.
func (r *DimensionRef) FullNameAs(dataType string) string {
	if r.DateLevel != LevelNone && IsDateType(dataType) {
		return r.DateLevel.String() + "(" + r.Field.Name + ")"
	}
	return r.Field.Name
}

func (r *DimensionRef) Instantiate(col Column) Ref {
	out := *r
	out.base = r.runtimeCopy(&col)
	return &out
}

func (r *DimensionRef) MarkUnresolved() Ref {
	out := *r
	out.base = r.runtimeCopy(nil)
	return &out
}

// Clone deep-copies a declarative dimension.
func (r *DimensionRef) Clone() *DimensionRef {
	if r == nil {
		return nil
	}
	out := *r
	out.base = r.declarativeCopy()
	return &out
}
