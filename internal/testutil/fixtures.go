// Package testutil provides shared helpers for tests: in-memory redis,
// a fake warehouse client and canned registry fixtures.
package testutil

import (
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/warehouse"
)

// NamespaceFixture returns a minimal namespace configuration: one data
// source named ds1 and one applicable metric named active_hours.
func NamespaceFixture() *metricshub.NamespaceConfig {
	cfg := &metricshub.NamespaceConfig{
		DataSources: metricshub.DataSourcesSection{
			Definitions: map[string]*metricshub.DataSource{
				"ds1": {FromExpression: "mozdata.ds1.metrics"},
			},
		},
	}

	cfg.Metrics.Definitions.Add("active_hours", &metricshub.MetricDefinition{
		FriendlyName:     "Active Hours",
		Description:      "Total hours of activity",
		SelectExpression: "COALESCE(SUM(active_hours_sum), 0)",
		DataSource:       "ds1",
		Type:             "scalar",
	})

	return cfg
}

// RegistryFixture returns a static registry holding NamespaceFixture under
// the namespace name ns.
func RegistryFixture() metricshub.Registry {
	return metricshub.NewStaticRegistry(map[string]*metricshub.NamespaceConfig{
		"ns": NamespaceFixture(),
	})
}

// BaseTableSchema returns the column list used by base-table fixtures.
func BaseTableSchema() []warehouse.Column {
	return []warehouse.Column{
		{Name: "client_id", Type: "STRING"},
		{Name: "submission_date", Type: "DATE"},
		{Name: "country", Type: "STRING"},
		{Name: "os", Type: "STRING"},
	}
}
