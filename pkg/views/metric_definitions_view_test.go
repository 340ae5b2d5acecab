package views

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwine/lookml-generator/pkg/lookml"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/warehouse"
)

type stubWarehouse struct {
	schemas map[string][]warehouse.Column
	err     error
	calls   int
}

func (s *stubWarehouse) TableSchema(_ context.Context, table string) ([]warehouse.Column, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	columns, ok := s.schemas[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", warehouse.ErrTableNotFound, table)
	}

	return columns, nil
}

func (s *stubWarehouse) Start() error { return nil }
func (s *stubWarehouse) Stop() error  { return nil }

func newTestFactory(namespaces map[string]*metricshub.NamespaceConfig, wh warehouse.Client) *Factory {
	return NewFactory(logrus.New(), metricshub.NewStaticRegistry(namespaces), wh)
}

// singleMetricConfig is the smallest useful namespace: one data source and
// one applicable metric.
func singleMetricConfig() *metricshub.NamespaceConfig {
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

func TestGenerateEmptyWhenNamespaceMissing(t *testing.T) {
	factory := newTestFactory(nil, nil)
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	assert.True(t, file.Empty())
	assert.Equal(t, "", file.Render())
}

func TestGenerateEmptyWhenDataSourceMissing(t *testing.T) {
	cfg := singleMetricConfig()
	cfg.DataSources.Definitions = map[string]*metricshub.DataSource{}

	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, nil)
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	assert.True(t, file.Empty())
}

func TestGenerateEmptyWhenNoApplicableMetrics(t *testing.T) {
	tests := []struct {
		name   string
		metric *metricshub.MetricDefinition
	}{
		{
			name: "no select expression",
			metric: &metricshub.MetricDefinition{
				DataSource: "ds1",
				Type:       "scalar",
			},
		},
		{
			name: "different data source",
			metric: &metricshub.MetricDefinition{
				SelectExpression: "SUM(x)",
				DataSource:       "ds2",
				Type:             "scalar",
			},
		},
		{
			name: "histogram metric",
			metric: &metricshub.MetricDefinition{
				SelectExpression: "SUM(x)",
				DataSource:       "ds1",
				Type:             "histogram",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &metricshub.NamespaceConfig{
				DataSources: metricshub.DataSourcesSection{
					Definitions: map[string]*metricshub.DataSource{
						"ds1": {FromExpression: "mozdata.ds1.metrics"},
					},
				},
			}
			cfg.Metrics.Definitions.Add("some_metric", tt.metric)

			factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, nil)
			view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

			file, err := view.Generate(context.Background())
			require.NoError(t, err)
			assert.True(t, file.Empty())
		})
	}
}

func TestGenerateWorkedExample(t *testing.T) {
	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, nil)
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, file.Views, 1)

	generated := file.Views[0]
	assert.Equal(t, "metric_definitions_ds1", generated.Name)
	require.NotNil(t, generated.DerivedTable)

	dimensionNames := make([]string, 0, len(generated.Dimensions))
	for _, d := range generated.Dimensions {
		dimensionNames = append(dimensionNames, d.Name)
	}

	assert.Equal(t, []string{"client_id", "active_hours"}, dimensionNames)

	require.Len(t, generated.DimensionGroups, 1)
	assert.Equal(t, "submission", generated.DimensionGroups[0].Name)
	assert.Equal(t, "time", generated.DimensionGroups[0].Type)
	assert.Equal(t, "CAST(${TABLE}.analysis_basis AS TIMESTAMP)", generated.DimensionGroups[0].SQL)
	assert.Equal(t, []string{"raw", "date", "week", "month", "quarter", "year"}, generated.DimensionGroups[0].Timeframes)

	assert.Empty(t, generated.Measures)

	require.Len(t, generated.Sets, 1)
	assert.Equal(t, "metrics", generated.Sets[0].Name)
	assert.Equal(t, []string{"active_hours"}, generated.Sets[0].Fields)

	require.Len(t, generated.Parameters, 1)

	parameter := generated.Parameters[0]
	assert.Equal(t, "aggregate_metrics_by", parameter.Name)
	assert.Equal(t, "Aggregate Client Metrics Per", parameter.Label)
	assert.Equal(t, "unquoted", parameter.Type)
	assert.Equal(t, "day", parameter.DefaultValue)
	assert.Equal(t, []lookml.AllowedValue{
		{Label: "Per Day", Value: "day"},
		{Label: "Per Week", Value: "week"},
		{Label: "Per Month", Value: "month"},
		{Label: "Per Quarter", Value: "quarter"},
		{Label: "Per Year", Value: "year"},
		{Label: "Overall", Value: "overall"},
	}, parameter.AllowedValues)

	// The fixed leading dimension.
	clientID := generated.Dimensions[0]
	assert.Equal(t, "string", clientID.Type)
	assert.Equal(t, "SAFE_CAST(${TABLE}.client_id AS STRING)", clientID.SQL)
	assert.Equal(t, "Client ID", clientID.Label)
	assert.Equal(t, "yes", clientID.PrimaryKey)
	assert.Equal(t, "Base Fields", clientID.GroupLabel)
	assert.Equal(t, "Unique client identifier", clientID.Description)

	metricDimension := generated.Dimensions[1]
	assert.Equal(t, "Metrics", metricDimension.GroupLabel)
	assert.Equal(t, "Active Hours", metricDimension.Label)
	assert.Equal(t, "Total hours of activity", metricDimension.Description)
	assert.Equal(t, "number", metricDimension.Type)
	assert.Equal(t, "${TABLE}.active_hours", metricDimension.SQL)
}

// The expected SQL bodies are assembled line by line because trailing
// whitespace is significant: output is compared byte-for-byte.
var liquidConditionalLines = []string{
	"                {% if aggregate_metrics_by._parameter_value == 'day' %}",
	"                m.submission_date AS analysis_basis",
	"                {% elsif aggregate_metrics_by._parameter_value == 'week'  %}",
	"                (FORMAT_DATE(",
	"                    '%F',",
	"                    DATE_TRUNC(m.submission_date,",
	"                    WEEK(MONDAY)))",
	"                ) AS analysis_basis",
	"                {% elsif aggregate_metrics_by._parameter_value == 'month'  %}",
	"                (FORMAT_DATE(",
	"                    '%Y-%m',",
	"                    m.submission_date)",
	"                ) AS analysis_basis",
	"                {% elsif aggregate_metrics_by._parameter_value == 'quarter'  %}",
	"                (FORMAT_DATE(",
	"                    '%Y-%m',",
	"                    DATE_TRUNC(m.submission_date,",
	"                    QUARTER))",
	"                ) AS analysis_basis",
	"                {% elsif aggregate_metrics_by._parameter_value == 'year'  %}",
	"                (EXTRACT(",
	"                    YEAR FROM m.submission_date)",
	"                ) AS analysis_basis",
	"                {% else %}",
	"                NULL as analysis_basis",
	"                {% endif %}",
}

func sqlFromLines(groups ...[]string) string {
	var lines []string
	for _, group := range groups {
		lines = append(lines, group...)
	}

	return strings.Join(lines, "\n")
}

var wantSQLWithoutBase = sqlFromLines(
	[]string{
		"",
		"            SELECT",
		"                COALESCE(SUM(active_hours_sum), 0) AS active_hours,",
		"",
		"                ",
		"                m.client_id AS client_id,",
	},
	liquidConditionalLines,
	[]string{
		"            FROM",
		"                mozdata.ds1.metrics",
		"            AS m",
		"            ",
		"            WHERE m.submission_date BETWEEN",
		"                SAFE_CAST(",
		"                    {% date_start submission_date %} AS DATE",
		"                ) AND",
		"                SAFE_CAST(",
		"                    {% date_end submission_date %} AS DATE",
		"                )",
		"            GROUP BY",
		"                ",
		"                client_id,",
		"                analysis_basis",
		"            ",
	},
)

func TestGenerateDerivedTableSQL(t *testing.T) {
	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, nil)
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, file.Views, 1)

	assert.Equal(t, wantSQLWithoutBase, file.Views[0].DerivedTable.SQL)
}

var wantSQLWithBase = sqlFromLines(
	[]string{
		"",
		"            SELECT",
		"                COALESCE(SUM(active_hours_sum), 0) AS active_hours,",
		"",
		"                country,",
		"base.os,",
		"base.profile_age,",
		"",
		"                m.client_id AS client_id,",
	},
	liquidConditionalLines,
	[]string{
		"            FROM",
		"                mozdata.ds1.metrics",
		"            AS m",
		"            ",
		"            INNER JOIN mozdata.ns.base_tbl base",
		"            ON",
		"                base.submission_date = m.submission_date AND",
		"                base.client_id = m.client_id",
		"            WHERE base.submission_date BETWEEN",
		"                SAFE_CAST(",
		"                    {% date_start submission_date %} AS DATE",
		"                ) AND",
		"                SAFE_CAST(",
		"                    {% date_end submission_date %} AS DATE",
		"                )",
		"            ",
		"            AND m.submission_date BETWEEN",
		"                SAFE_CAST(",
		"                    {% date_start submission_date %} AS DATE",
		"                ) AND",
		"                SAFE_CAST(",
		"                    {% date_end submission_date %} AS DATE",
		"                )",
		"            GROUP BY",
		"                country,",
		"os,",
		"profile_age,",
		"",
		"                client_id,",
		"                analysis_basis",
		"            ",
	},
)

// baseTableWarehouse serves the schema used by the base-table tests.
func baseTableWarehouse() *stubWarehouse {
	return &stubWarehouse{
		schemas: map[string][]warehouse.Column{
			"mozdata.ns.base_tbl": {
				{Name: "client_id", Type: "STRING"},
				{Name: "submission_date", Type: "DATE"},
				{Name: "country", Type: "STRING"},
				{Name: "os", Type: "STRING"},
				{Name: "active_hours", Type: "FLOAT64"},
				{Name: "first_run_date", Type: "DATE"},
				{Name: "profile_age", Type: "INT64"},
				{Name: "created_at", Type: "TIMESTAMP"},
				{Name: "experiments", Type: "ARRAY<STRUCT<key STRING, value STRING>>"},
			},
		},
	}
}

func TestGenerateDerivedTableSQLWithBaseTable(t *testing.T) {
	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, baseTableWarehouse())
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", []Table{
		{Table: "mozdata.ns.base_tbl", Channel: "release"},
	})

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, file.Views, 1)

	assert.Equal(t, wantSQLWithBase, file.Views[0].DerivedTable.SQL)
}

func TestGenerateBaseFieldMerge(t *testing.T) {
	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, baseTableWarehouse())
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", []Table{
		{Table: "mozdata.ns.base_tbl", Channel: "release"},
	})

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, file.Views, 1)

	generated := file.Views[0]

	dimensionNames := make([]string, 0, len(generated.Dimensions))
	for _, d := range generated.Dimensions {
		dimensionNames = append(dimensionNames, d.Name)
	}

	// Metric fields first, base fields appended. client_id, the date
	// fields and the metric slug itself never merge in from the base.
	assert.Equal(t, []string{"client_id", "active_hours", "country", "os", "profile_age"}, dimensionNames)

	for _, d := range generated.Dimensions[2:] {
		assert.Equal(t, "Base Fields", d.GroupLabel, d.Name)
	}

	groupNames := make([]string, 0, len(generated.DimensionGroups))
	for _, g := range generated.DimensionGroups {
		groupNames = append(groupNames, g.Name)
	}

	// submission and first_run are excluded, created_at merges in.
	assert.Equal(t, []string{"submission", "created_at"}, groupNames)
	assert.Equal(t, "Base Fields", generated.DimensionGroups[1].GroupLabel)

	// The metrics set never includes base fields.
	require.Len(t, generated.Sets, 1)
	assert.Equal(t, []string{"active_hours"}, generated.Sets[0].Fields)
}

func TestGenerateFilterConsistency(t *testing.T) {
	cfg := &metricshub.NamespaceConfig{
		DataSources: metricshub.DataSourcesSection{
			Definitions: map[string]*metricshub.DataSource{
				"ds1": {FromExpression: "mozdata.ds1.metrics"},
			},
		},
	}

	cfg.Metrics.Definitions.Add("uri_count", &metricshub.MetricDefinition{
		SelectExpression: "SUM(uri_count)",
		DataSource:       "ds1",
		Type:             "scalar",
	})
	cfg.Metrics.Definitions.Add("memory_pressure", &metricshub.MetricDefinition{
		SelectExpression: "SUM(memory_pressure)",
		DataSource:       "ds1",
		Type:             "histogram",
	})
	cfg.Metrics.Definitions.Add("searches", &metricshub.MetricDefinition{
		SelectExpression: "SUM(searches)",
		DataSource:       "ds2",
		Type:             "scalar",
	})
	cfg.Metrics.Definitions.Add("no_expression", &metricshub.MetricDefinition{
		DataSource: "ds1",
		Type:       "scalar",
	})
	cfg.Metrics.Definitions.Add("active_hours", &metricshub.MetricDefinition{
		SelectExpression: "COALESCE(SUM(active_hours_sum), 0)",
		DataSource:       "ds1",
		Type:             "scalar",
	})

	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, nil)
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, file.Views, 1)

	generated := file.Views[0]

	dimensionNames := make([]string, 0, len(generated.Dimensions))
	for _, d := range generated.Dimensions {
		if d.Name != "client_id" {
			dimensionNames = append(dimensionNames, d.Name)
		}
	}

	// Registry order, not alphabetical.
	assert.Equal(t, []string{"uri_count", "active_hours"}, dimensionNames)

	sql := generated.DerivedTable.SQL

	for _, name := range dimensionNames {
		assert.Contains(t, sql, fmt.Sprintf("AS %s,\n", name))
	}

	assert.NotContains(t, sql, "AS memory_pressure")
	assert.NotContains(t, sql, "AS searches")
	assert.NotContains(t, sql, "AS no_expression")
}

func TestGenerateMeasures(t *testing.T) {
	statistics := func(names ...string) metricshub.Statistics {
		var s metricshub.Statistics
		for _, name := range names {
			s.Add(name, nil)
		}

		return s
	}

	t.Run("sum and client_count", func(t *testing.T) {
		cfg := singleMetricConfig()
		def, _ := cfg.Metric("active_hours")
		def.Statistics = statistics("sum", "client_count")

		factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, nil)
		view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

		file, err := view.Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, file.Views, 1)

		measures := file.Views[0].Measures
		require.Len(t, measures, 2)

		assert.Equal(t, &lookml.Measure{
			Name:        "active_hours_sum",
			Type:        "sum",
			SQL:         "${TABLE}.active_hours",
			Label:       "Active Hours Sum",
			GroupLabel:  "Statistics",
			Description: "Sum of Active Hours",
		}, measures[0])

		assert.Equal(t, &lookml.Measure{
			Name:        "active_hours_client_count",
			Type:        "count_distinct",
			SQL:         "IF(SAFE_CAST(${TABLE}.active_hours AS BOOL), ${TABLE}.client_id, SAFE_CAST(NULL AS STRING))",
			Label:       "Active Hours Client Count",
			GroupLabel:  "Statistics",
			Description: "Number of clients with Active Hours",
		}, measures[1])

		// Measure names join the set alongside the dimension.
		assert.Equal(t, []string{"active_hours", "active_hours_sum", "active_hours_client_count"}, file.Views[0].Sets[0].Fields)
	})

	t.Run("unknown statistics are skipped", func(t *testing.T) {
		cfg := singleMetricConfig()
		def, _ := cfg.Metric("active_hours")
		def.Statistics = statistics("percentile_95", "sum")

		factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, nil)
		view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

		file, err := view.Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, file.Views, 1)

		measures := file.Views[0].Measures
		require.Len(t, measures, 1)
		assert.Equal(t, "active_hours_sum", measures[0].Name)
	})

	t.Run("label falls back to slug title", func(t *testing.T) {
		cfg := singleMetricConfig()
		def, _ := cfg.Metric("active_hours")
		def.FriendlyName = ""
		def.Statistics = statistics("sum")

		factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, nil)
		view := factory.MetricDefinitions("ns", "metric_definitions_ds1", nil)

		file, err := view.Generate(context.Background())
		require.NoError(t, err)

		require.Len(t, file.Views[0].Measures, 1)
		assert.Equal(t, "Active Hours Sum", file.Views[0].Measures[0].Label)
	})
}

func TestGenerateColumnOverrides(t *testing.T) {
	cfg := &metricshub.NamespaceConfig{
		DataSources: metricshub.DataSourcesSection{
			Definitions: map[string]*metricshub.DataSource{
				"ds1": {
					FromExpression:       "mozdata.{dataset}.metrics",
					SubmissionDateColumn: "event_date",
					ClientIDColumn:       "profile_id",
				},
			},
		},
	}
	cfg.Metrics.Definitions.Add("active_hours", &metricshub.MetricDefinition{
		SelectExpression: "SUM(active_hours)",
		DataSource:       "ds1",
		Type:             "scalar",
	})

	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": cfg}, baseTableWarehouse())
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", []Table{
		{Table: "mozdata.ns.base_tbl", Channel: "release"},
	})

	file, err := view.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, file.Views, 1)

	sql := file.Views[0].DerivedTable.SQL

	// The dataset placeholder expands to the namespace.
	assert.Contains(t, sql, "FROM\n                mozdata.ns.metrics\n            AS m")

	// Override columns drive the select list, the conditional and the join.
	assert.Contains(t, sql, "m.profile_id AS client_id,")
	assert.Contains(t, sql, "m.event_date AS analysis_basis")
	assert.Contains(t, sql, "{% date_start event_date %}")
	assert.Contains(t, sql, "{% date_end event_date %}")
	assert.Contains(t, sql, "base.submission_date = m.event_date AND")
	assert.Contains(t, sql, "base.client_id = m.profile_id")

	// The date bounding clause keeps its fixed column reference.
	assert.Contains(t, sql, "AND m.submission_date BETWEEN")
}

func TestGenerateIsIdempotent(t *testing.T) {
	factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, baseTableWarehouse())
	view := factory.MetricDefinitions("ns", "metric_definitions_ds1", []Table{
		{Table: "mozdata.ns.base_tbl", Channel: "release"},
	})

	first, err := view.Generate(context.Background())
	require.NoError(t, err)

	second, err := view.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Render(), second.Render())
	require.NotEmpty(t, first.Render())
}

func TestGenerateWarehouseErrors(t *testing.T) {
	t.Run("schema lookup failure propagates", func(t *testing.T) {
		wh := &stubWarehouse{err: fmt.Errorf("warehouse unavailable")}

		factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, wh)
		view := factory.MetricDefinitions("ns", "metric_definitions_ds1", []Table{
			{Table: "mozdata.ns.base_tbl", Channel: "release"},
		})

		_, err := view.Generate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "warehouse unavailable")
	})

	t.Run("tables without a warehouse client", func(t *testing.T) {
		factory := newTestFactory(map[string]*metricshub.NamespaceConfig{"ns": singleMetricConfig()}, nil)
		view := factory.MetricDefinitions("ns", "metric_definitions_ds1", []Table{
			{Table: "mozdata.ns.base_tbl", Channel: "release"},
		})

		_, err := view.Generate(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoWarehouseClient)
	})
}

func TestDataSourceName(t *testing.T) {
	factory := newTestFactory(nil, nil)

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{
			name:     "prefix stripped",
			viewName: "metric_definitions_ds1",
			want:     "ds1",
		},
		{
			name:     "multi word data source",
			viewName: "metric_definitions_search_clients_daily",
			want:     "search_clients_daily",
		},
		{
			name:     "no prefix",
			viewName: "ds1",
			want:     "ds1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := factory.MetricDefinitions("ns", tt.viewName, nil)
			assert.Equal(t, tt.want, view.DataSourceName())
		})
	}
}

func TestApplicableMetrics(t *testing.T) {
	cfg := &metricshub.NamespaceConfig{}
	cfg.Metrics.Definitions.Add("zeta", &metricshub.MetricDefinition{
		SelectExpression: "SUM(z)", DataSource: "ds1", Type: "scalar",
	})
	cfg.Metrics.Definitions.Add("histogram_metric", &metricshub.MetricDefinition{
		SelectExpression: "SUM(h)", DataSource: "ds1", Type: "histogram",
	})
	cfg.Metrics.Definitions.Add("alpha", &metricshub.MetricDefinition{
		SelectExpression: "SUM(a)", DataSource: "ds1", Type: "scalar",
	})
	cfg.Metrics.Definitions.Add("other_source", &metricshub.MetricDefinition{
		SelectExpression: "SUM(o)", DataSource: "ds2", Type: "scalar",
	})
	cfg.Metrics.Definitions.Add("empty_expression", &metricshub.MetricDefinition{
		DataSource: "ds1", Type: "scalar",
	})

	metrics := ApplicableMetrics(cfg, "ds1")

	slugs := make([]string, 0, len(metrics))
	for _, m := range metrics {
		slugs = append(slugs, m.Slug)
	}

	assert.Equal(t, []string{"zeta", "alpha"}, slugs)
}
