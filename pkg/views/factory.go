package views

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/warehouse"
)

// Factory builds views with their shared dependencies injected: the
// metrics configuration registry and an optional warehouse client for
// schema-backed views.
type Factory struct {
	log       logrus.FieldLogger
	registry  metricshub.Registry
	warehouse warehouse.Client
}

// NewFactory creates a view factory. warehouseClient may be nil when only
// configuration-driven views without base tables are generated.
func NewFactory(log logrus.FieldLogger, registry metricshub.Registry, warehouseClient warehouse.Client) *Factory {
	return &Factory{
		log:       log.WithField("component", "views"),
		registry:  registry,
		warehouse: warehouseClient,
	}
}

// MetricDefinitions builds a metric definitions view. tables may be nil.
func (f *Factory) MetricDefinitions(namespace, name string, tables []Table) *MetricDefinitionsView {
	return newMetricDefinitionsView(f.log, f.registry, f.warehouse, namespace, name, tables)
}

// TableView builds a schema-backed table view.
func (f *Factory) TableView(namespace, name string, tables []Table) *TableView {
	return newTableView(f.log, f.warehouse, namespace, name, tables)
}

// FromDefinition builds the view described by a namespace definition
// entry. Views carrying the metric definitions prefix are metric
// definitions views even without an explicit type.
func (f *Factory) FromDefinition(namespace, name string, def Definition) View {
	if def.Type == TypeMetricDefinitions || strings.HasPrefix(name, MetricDefinitionsPrefix) {
		return f.MetricDefinitions(namespace, name, def.Tables)
	}

	return f.TableView(namespace, name, def.Tables)
}

// FromDBViews derives table views from a raw warehouse view listing.
// Metric definitions views are never derived this way: they exist only
// when explicitly configured.
func (f *Factory) FromDBViews(namespace string, tables []string) []View {
	out := make([]View, 0, len(tables))

	for _, table := range tables {
		name := table
		if idx := strings.LastIndex(table, "."); idx >= 0 {
			name = table[idx+1:]
		}

		out = append(out, f.TableView(namespace, name, []Table{{Table: table, Channel: "release"}}))
	}

	return out
}
