// Package lookml defines the LookML object model emitted by view generators
// and a deterministic .lkml text serializer for it.
package lookml

// File is the root of a generated LookML document. A File with no views
// renders to an empty string, which is the terminal "nothing to render"
// outcome for insufficiently configured views.
type File struct {
	Views []*View `json:"views"`
}

// Empty reports whether the file contains no views.
func (f *File) Empty() bool {
	return f == nil || len(f.Views) == 0
}

// View is a single LookML view definition.
type View struct {
	Name            string            `json:"name"`
	DerivedTable    *DerivedTable     `json:"derived_table,omitempty"`
	SQLTableName    string            `json:"sql_table_name,omitempty"`
	Dimensions      []*Dimension      `json:"dimensions,omitempty"`
	DimensionGroups []*DimensionGroup `json:"dimension_groups,omitempty"`
	Measures        []*Measure        `json:"measures,omitempty"`
	Sets            []*Set            `json:"sets,omitempty"`
	Parameters      []*Parameter      `json:"parameters,omitempty"`
}

// DerivedTable backs a view with a full SQL query instead of a table
// reference. The SQL is opaque text and may contain BI-tool template
// fragments (liquid conditionals, date-range placeholders) that are
// evaluated at query time, not at generation time.
type DerivedTable struct {
	SQL string `json:"sql"`
}

// Dimension is a row-level attribute field.
type Dimension struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	SQL         string `json:"sql,omitempty"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	GroupLabel  string `json:"group_label,omitempty"`
	PrimaryKey  string `json:"primary_key,omitempty"`
}

// DimensionGroup is a time field expanded by the BI tool into one dimension
// per timeframe.
type DimensionGroup struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	SQL         string   `json:"sql,omitempty"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	GroupLabel  string   `json:"group_label,omitempty"`
	Timeframes  []string `json:"timeframes,omitempty"`
}

// Measure is an aggregation field.
type Measure struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	SQL         string `json:"sql,omitempty"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	GroupLabel  string `json:"group_label,omitempty"`
}

// Set is a named field grouping for the BI tool's field picker.
type Set struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Parameter is a user-facing query-time input.
type Parameter struct {
	Name          string         `json:"name"`
	Label         string         `json:"label,omitempty"`
	Type          string         `json:"type,omitempty"`
	DefaultValue  string         `json:"default_value,omitempty"`
	AllowedValues []AllowedValue `json:"allowed_values,omitempty"`
}

// AllowedValue is one selectable value of an enumerated parameter.
type AllowedValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
