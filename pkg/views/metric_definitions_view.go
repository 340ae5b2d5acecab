package views

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/lookml"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/warehouse"
)

// derivedTableTemplate is the SQL body of a metric definitions view. The
// {% ... %} fragments are BI-tool template control flow evaluated at query
// time and must pass through untouched, whitespace included: generated
// output is diffed byte-for-byte against checked-in view files.
var derivedTableTemplate = template.Must(template.New("derived_table").Parse(`
            SELECT
                {{.MetricColumns}}
                {{.BaseColumns}}
                m.{{.ClientColumn}} AS client_id,
                {% if aggregate_metrics_by._parameter_value == 'day' %}
                m.{{.DateColumn}} AS analysis_basis
                {% elsif aggregate_metrics_by._parameter_value == 'week'  %}
                (FORMAT_DATE(
                    '%F',
                    DATE_TRUNC(m.{{.DateColumn}},
                    WEEK(MONDAY)))
                ) AS analysis_basis
                {% elsif aggregate_metrics_by._parameter_value == 'month'  %}
                (FORMAT_DATE(
                    '%Y-%m',
                    m.{{.DateColumn}})
                ) AS analysis_basis
                {% elsif aggregate_metrics_by._parameter_value == 'quarter'  %}
                (FORMAT_DATE(
                    '%Y-%m',
                    DATE_TRUNC(m.{{.DateColumn}},
                    QUARTER))
                ) AS analysis_basis
                {% elsif aggregate_metrics_by._parameter_value == 'year'  %}
                (EXTRACT(
                    YEAR FROM m.{{.DateColumn}})
                ) AS analysis_basis
                {% else %}
                NULL as analysis_basis
                {% endif %}
            FROM
                {{.FromSQL}}
            AS m
            {{.Join}}
            {{.Conjunction}} m.submission_date BETWEEN
                SAFE_CAST(
                    {% date_start {{.DateColumn}} %} AS DATE
                ) AND
                SAFE_CAST(
                    {% date_end {{.DateColumn}} %} AS DATE
                )
            GROUP BY
                {{.GroupByColumns}}
                client_id,
                analysis_basis
            `))

// joinTemplate joins the base table onto the data source rows by date and
// client, bounded by the BI-tool date range placeholders.
var joinTemplate = template.Must(template.New("join_base_view").Parse(`
            INNER JOIN {{.BaseTable}} base
            ON
                base.submission_date = m.{{.DateColumn}} AND
                base.client_id = m.{{.ClientColumn}}
            WHERE base.submission_date BETWEEN
                SAFE_CAST(
                    {% date_start {{.DateColumn}} %} AS DATE
                ) AND
                SAFE_CAST(
                    {% date_end {{.DateColumn}} %} AS DATE
                )
            `))

type derivedTableData struct {
	MetricColumns  string
	BaseColumns    string
	ClientColumn   string
	DateColumn     string
	FromSQL        string
	Join           string
	Conjunction    string
	GroupByColumns string
}

type joinData struct {
	BaseTable    string
	DateColumn   string
	ClientColumn string
}

// NamedMetric pairs a metric slug with its definition, preserving registry
// order.
type NamedMetric struct {
	Slug string
	Def  *metricshub.MetricDefinition
}

// ApplicableMetrics returns the ordered metrics of cfg that contribute to
// a view over the named data source: a select expression is present, the
// metric belongs to that data source, and it is not a histogram. Every
// consumer of "which metrics are in this view" goes through this one
// function so the SQL column list, the dimension list and the base-field
// exclusions cannot drift apart.
func ApplicableMetrics(cfg *metricshub.NamespaceConfig, dataSource string) []NamedMetric {
	defs := cfg.Metrics.Definitions

	metrics := make([]NamedMetric, 0, defs.Len())

	for _, slug := range defs.Slugs() {
		def, _ := defs.Get(slug)

		if def.SelectExpression == "" || def.DataSource != dataSource || def.Type == "histogram" {
			continue
		}

		metrics = append(metrics, NamedMetric{Slug: slug, Def: def})
	}

	return metrics
}

// MetricDefinitionsView builds a derived-table view over all metrics of a
// single data source, aggregated to one row per client per analysis-basis
// bucket.
//
// BI dimension definitions cannot themselves aggregate, so the derived
// table performs the per-client aggregation up front and exposes the
// results as plain numeric dimensions. Custom measures over these
// per-client values can then be defined downstream in the BI tool.
type MetricDefinitionsView struct {
	log       logrus.FieldLogger
	registry  metricshub.Registry
	warehouse warehouse.Client

	namespace string
	name      string
	tables    []Table
}

var _ View = (*MetricDefinitionsView)(nil)

func newMetricDefinitionsView(log logrus.FieldLogger, registry metricshub.Registry, warehouseClient warehouse.Client, namespace, name string, tables []Table) *MetricDefinitionsView {
	return &MetricDefinitionsView{
		log:       log,
		registry:  registry,
		warehouse: warehouseClient,
		namespace: namespace,
		name:      name,
		tables:    tables,
	}
}

func (v *MetricDefinitionsView) Name() string {
	return v.name
}

func (v *MetricDefinitionsView) Type() string {
	return TypeMetricDefinitions
}

func (v *MetricDefinitionsView) Namespace() string {
	return v.namespace
}

func (v *MetricDefinitionsView) Tables() []Table {
	return v.tables
}

// DataSourceName derives the data source identifier from the view name.
func (v *MetricDefinitionsView) DataSourceName() string {
	return strings.TrimPrefix(v.name, MetricDefinitionsPrefix)
}

// Generate renders the view. A missing namespace, a missing data source
// or an empty metric list all yield an empty file: insufficient
// configuration means there is nothing to render, not a failure.
func (v *MetricDefinitionsView) Generate(ctx context.Context) (*lookml.File, error) {
	cfg := v.registry.Namespace(v.namespace)
	if cfg == nil {
		return &lookml.File{}, nil
	}

	sourceName := v.DataSourceName()

	source, ok := cfg.DataSource(sourceName)
	if !ok {
		return &lookml.File{}, nil
	}

	// TODO: hide deprecated metrics?
	metrics := ApplicableMetrics(cfg, sourceName)
	if len(metrics) == 0 {
		return &lookml.File{}, nil
	}

	ignore := map[string]bool{
		"client_id":       true,
		"submission_date": true,
		"submission":      true,
		"first_run":       true,
	}
	for _, m := range metrics {
		ignore[m.Slug] = true
	}

	var (
		baseFields []string
		baseView   *lookml.View
		join       string
	)

	if len(v.tables) > 0 {
		baseTable := v.tables[0].Table

		base := newTableView(v.log, v.warehouse, v.namespace, "base_view", []Table{
			{Table: baseTable, Channel: "release"},
		})

		baseFile, err := base.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("generating base view for %s: %w", baseTable, err)
		}

		if len(baseFile.Views) > 0 {
			baseView = baseFile.Views[0]

			for _, d := range baseView.Dimensions {
				if !ignore[d.Name] {
					baseFields = append(baseFields, d.Name+",\n")
				}
			}
		}

		join, err = renderTemplate(joinTemplate, joinData{
			BaseTable:    baseTable,
			DateColumn:   source.DateColumn(),
			ClientColumn: source.ClientColumn(),
		})
		if err != nil {
			return nil, err
		}
	}

	conjunction := "WHERE"
	if join != "" {
		conjunction = "AND"
	}

	metricColumns := make([]string, 0, len(metrics))
	for _, m := range metrics {
		metricColumns = append(metricColumns, fmt.Sprintf("%s AS %s,\n", m.Def.SelectExpression, m.Slug))
	}

	sql, err := renderTemplate(derivedTableTemplate, derivedTableData{
		MetricColumns:  strings.Join(metricColumns, ""),
		BaseColumns:    strings.Join(baseFields, "base."),
		ClientColumn:   source.ClientColumn(),
		DateColumn:     source.DateColumn(),
		FromSQL:        source.Table(v.namespace),
		Join:           join,
		Conjunction:    conjunction,
		GroupByColumns: strings.Join(baseFields, ""),
	})
	if err != nil {
		return nil, err
	}

	dimensions := v.dimensions(metrics)
	groups := v.dimensionGroups()

	if baseView != nil {
		for _, d := range baseView.Dimensions {
			if !ignore[d.Name] {
				d.GroupLabel = "Base Fields"
				dimensions = append(dimensions, d)
			}
		}

		for _, g := range baseView.DimensionGroups {
			if !ignore[g.Name] {
				g.GroupLabel = "Base Fields"
				groups = append(groups, g)
			}
		}
	}

	view := &lookml.View{
		Name:            v.name,
		DerivedTable:    &lookml.DerivedTable{SQL: sql},
		Dimensions:      dimensions,
		DimensionGroups: groups,
		Measures:        v.measures(cfg, dimensions),
		Sets:            v.sets(cfg, metrics),
		Parameters:      v.parameters(),
	}

	return &lookml.File{Views: []*lookml.View{view}}, nil
}

// dimensions returns the fixed client_id dimension followed by one
// numeric dimension per applicable metric.
func (v *MetricDefinitionsView) dimensions(metrics []NamedMetric) []*lookml.Dimension {
	dimensions := []*lookml.Dimension{
		{
			Name:        "client_id",
			Type:        "string",
			SQL:         "SAFE_CAST(${TABLE}.client_id AS STRING)",
			Label:       "Client ID",
			PrimaryKey:  "yes",
			GroupLabel:  "Base Fields",
			Description: "Unique client identifier",
		},
	}

	for _, m := range metrics {
		label := m.Def.FriendlyName
		if label == "" {
			label = lookml.SlugToTitle(m.Slug)
		}

		dimensions = append(dimensions, &lookml.Dimension{
			Name:        m.Slug,
			GroupLabel:  "Metrics",
			Label:       label,
			Description: m.Def.Description,
			Type:        "number",
			SQL:         "${TABLE}." + m.Slug,
		})
	}

	return dimensions
}

// dimensionGroups returns the single submission time group over the
// analysis_basis column.
func (v *MetricDefinitionsView) dimensionGroups() []*lookml.DimensionGroup {
	return []*lookml.DimensionGroup{
		{
			Name:       "submission",
			Type:       "time",
			GroupLabel: "Base Fields",
			SQL:        "CAST(${TABLE}.analysis_basis AS TIMESTAMP)",
			Label:      "Submission",
			Timeframes: []string{
				"raw",
				"date",
				"week",
				"month",
				"quarter",
				"year",
			},
		},
	}
}

// measures emits one measure per declared statistic of every dimension
// backed by a metric definition. Unknown statistic kinds are skipped.
func (v *MetricDefinitionsView) measures(cfg *metricshub.NamespaceConfig, dimensions []*lookml.Dimension) []*lookml.Measure {
	measures := []*lookml.Measure{}

	for _, dimension := range dimensions {
		metric, ok := cfg.Metric(dimension.Name)
		if !ok || len(metric.Statistics.Names()) == 0 {
			continue
		}

		for _, statistic := range metric.Statistics.Names() {
			switch statistic {
			case "sum":
				measures = append(measures, &lookml.Measure{
					Name:        fmt.Sprintf("%s_%s", dimension.Name, statistic),
					Type:        "sum",
					SQL:         "${TABLE}." + dimension.Name,
					Label:       fmt.Sprintf("%s Sum", dimension.Label),
					GroupLabel:  "Statistics",
					Description: fmt.Sprintf("Sum of %s", dimension.Label),
				})
			case "client_count":
				measures = append(measures, &lookml.Measure{
					Name:  fmt.Sprintf("%s_%s", dimension.Name, statistic),
					Type:  "count_distinct",
					Label: fmt.Sprintf("%s Client Count", dimension.Label),
					SQL: "IF(SAFE_CAST(${TABLE}." + dimension.Name +
						" AS BOOL), ${TABLE}.client_id, SAFE_CAST(NULL AS STRING))",
					GroupLabel:  "Statistics",
					Description: fmt.Sprintf("Number of clients with %s", dimension.Label),
				})
			}
		}
	}

	return measures
}

// sets groups the metric dimensions and their measures into a single
// "metrics" set. The field list is rebuilt from the metric list alone, so
// base fields never enter the set.
func (v *MetricDefinitionsView) sets(cfg *metricshub.NamespaceConfig, metrics []NamedMetric) []*lookml.Set {
	dimensions := v.dimensions(metrics)
	measures := v.measures(cfg, dimensions)

	fields := make([]string, 0, len(dimensions)+len(measures))

	for _, dimension := range dimensions {
		if dimension.Name != "client_id" {
			fields = append(fields, dimension.Name)
		}
	}

	for _, measure := range measures {
		fields = append(fields, measure.Name)
	}

	return []*lookml.Set{
		{
			Name:   "metrics",
			Fields: fields,
		},
	}
}

// parameters returns the aggregation granularity parameter. The overall
// value has no SQL branch on purpose: it falls through to the NULL case,
// collapsing all rows of a client into one group.
func (v *MetricDefinitionsView) parameters() []*lookml.Parameter {
	return []*lookml.Parameter{
		{
			Name:         "aggregate_metrics_by",
			Label:        "Aggregate Client Metrics Per",
			Type:         "unquoted",
			DefaultValue: "day",
			AllowedValues: []lookml.AllowedValue{
				{Label: "Per Day", Value: "day"},
				{Label: "Per Week", Value: "week"},
				{Label: "Per Month", Value: "month"},
				{Label: "Per Quarter", Value: "quarter"},
				{Label: "Per Year", Value: "year"},
				{Label: "Overall", Value: "overall"},
			},
		},
	}
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}

	return buf.String(), nil
}
