// Package views builds LookML view definitions from namespace configuration
// and warehouse table schemas.
package views

import (
	"context"
	"errors"

	"github.com/hwine/lookml-generator/pkg/lookml"
)

// View type identifiers, as they appear in namespace definition files.
const (
	TypeTableView         = "table_view"
	TypeMetricDefinitions = "metric_definitions_view"
)

// MetricDefinitionsPrefix prefixes the name of every metric definitions
// view. The remainder of the name is the data source identifier.
const MetricDefinitionsPrefix = "metric_definitions_"

// Define static errors
var (
	// ErrNoWarehouseClient is returned when schema-backed generation runs
	// without a warehouse client configured
	ErrNoWarehouseClient = errors.New("no warehouse client configured")
)

// Table is one backing table configuration of a view.
type Table struct {
	Table   string `yaml:"table,omitempty" json:"table,omitempty"`
	Channel string `yaml:"channel,omitempty" json:"channel,omitempty"`
}

// Definition is the configuration payload of a view inside a namespace
// definition file.
type Definition struct {
	Type   string  `yaml:"type,omitempty" json:"type,omitempty"`
	Tables []Table `yaml:"tables,omitempty" json:"tables,omitempty"`
}

// View generates one LookML view.
type View interface {
	// Name returns the view name
	Name() string
	// Type returns the view type identifier
	Type() string
	// Namespace returns the owning namespace
	Namespace() string
	// Tables returns the backing table configurations
	Tables() []Table
	// Generate renders the view. An empty file means the view has nothing
	// to render, which is a valid outcome, not an error.
	Generate(ctx context.Context) (*lookml.File, error)
}
