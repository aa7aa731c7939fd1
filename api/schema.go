package api

// Document is the persisted form of a set of chart bindings.
// Only authored state is stored: field definitions, the user tier of each
// format and each field's own axis. Stylesheet and default tiers are
// recomputed when the document is loaded.
type Document struct {
	// Version of the chartbind document schema.
	Version string `json:"version"`
	// Charts in the document.
	Charts []Chart `json:"charts,omitempty"`
}

// Chart is one binding container.
type Chart struct {
	// Name identifies the chart within the document.
	Name string `json:"name"`
	// Kind is the chart variant: none, merged, radar, gantt, map or relation.
	Kind string `json:"kind,omitempty"`
	// ChartType is the container chart type, e.g. "bar" or "stacked-area".
	ChartType string `json:"chart_type,omitempty"`
	X         []Field `json:"x,omitempty"`
	Y         []Field `json:"y,omitempty"`
	// Aesthetics binds container-level fields by channel name
	// (color, shape, size, text).
	Aesthetics map[string]Field `json:"aesthetics,omitempty"`
	Hyperlink  *Hyperlink       `json:"hyperlink,omitempty"`
	Highlights []Highlight      `json:"highlights,omitempty"`

	// Gantt slots.
	Start     *Field `json:"start,omitempty"`
	End       *Field `json:"end,omitempty"`
	Milestone *Field `json:"milestone,omitempty"`
	// Relation slots.
	Source *Field `json:"source,omitempty"`
	Target *Field `json:"target,omitempty"`
	// Geo fields of a map chart.
	Geo []Field `json:"geo,omitempty"`
}

// Field is one declarative field.
type Field struct {
	// Kind is dimension, aggregate or geo. Empty means dimension.
	Kind string `json:"kind,omitempty"`
	// Name is a column name, "$(var)" or "=jsonpath".
	Name     string `json:"name"`
	Entity   string `json:"entity,omitempty"`
	DataType string `json:"data_type,omitempty"`

	// Dimension settings.
	DateLevel  string   `json:"date_level,omitempty"`
	Ranking    *Ranking `json:"ranking,omitempty"`
	Sort       *Sort    `json:"sort,omitempty"`
	NamedGroup string   `json:"named_group,omitempty"`

	// Aggregate settings.
	Formula    string           `json:"formula,omitempty"`
	ChartType  string           `json:"chart_type,omitempty"`
	SecondaryY bool             `json:"secondary_y,omitempty"`
	Calculator *Calculator      `json:"calculator,omitempty"`
	Aesthetics map[string]Field `json:"aesthetics,omitempty"`
	BreakBy    *Field           `json:"break_by,omitempty"`
	Hyperlink  *Hyperlink       `json:"hyperlink,omitempty"`
	Highlights []Highlight      `json:"highlights,omitempty"`

	// Geo settings. Layer may be a literal, "$(var)" or "=jsonpath".
	Layer   string     `json:"layer,omitempty"`
	Mapping []MapEntry `json:"mapping,omitempty"`

	// Format holds the user tier only.
	Format *Format `json:"format,omitempty"`
	Axis   *Axis   `json:"axis,omitempty"`
}

// Ranking is a top-N or bottom-N filter.
type Ranking struct {
	Option      string `json:"option"` // none, top, bottom
	N           int    `json:"n,omitempty"`
	Column      string `json:"column,omitempty"`
	GroupOthers bool   `json:"group_others,omitempty"`
}

// Sort orders dimension members.
type Sort struct {
	Order    string `json:"order"`
	ByColumn string `json:"by_column,omitempty"`
}

type Calculator struct {
	Kind   string `json:"kind"`
	Column string `json:"column,omitempty"`
	Period int    `json:"period,omitempty"`
}

// MapEntry is one authored raw value to region code assignment. Entries are
// replayed in order, so a raw value listed with two codes is kept as a
// duplicate mapping.
type MapEntry struct {
	Raw  string `json:"raw"`
	Code string `json:"code"`
}

type Hyperlink struct {
	Link          string            `json:"link"`
	Target        string            `json:"target,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
	SendSelection bool              `json:"send_selection,omitempty"`
}

type Highlight struct {
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Color     string `json:"color,omitempty"`
}

// Format is a user tier. Absent attributes are undefined.
type Format struct {
	Color        string        `json:"color,omitempty"`
	Background   string        `json:"background,omitempty"`
	Alpha        *int          `json:"alpha,omitempty"`
	Font         *Font         `json:"font,omitempty"`
	Alignment    []string      `json:"alignment,omitempty"`
	Rotation     *float64      `json:"rotation,omitempty"`
	NumberFormat *NumberFormat `json:"number_format,omitempty"`
}

type Font struct {
	Name      string  `json:"name"`
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
}

type NumberFormat struct {
	Kind    string `json:"kind"`
	Pattern string `json:"pattern,omitempty"`
}

// Axis is a field's own axis descriptor.
type Axis struct {
	Min           *float64          `json:"min,omitempty"`
	Max           *float64          `json:"max,omitempty"`
	Increment     float64           `json:"increment,omitempty"`
	Logarithmic   bool              `json:"logarithmic,omitempty"`
	Reversed      bool              `json:"reversed,omitempty"`
	HideLine      bool              `json:"hide_line,omitempty"`
	HideLabels    bool              `json:"hide_labels,omitempty"`
	LabelRotation float64           `json:"label_rotation,omitempty"`
	LabelAliases  map[string]string `json:"label_aliases,omitempty"`
}
