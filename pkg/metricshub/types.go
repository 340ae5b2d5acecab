// Package metricshub parses the metrics configuration registry: per-namespace
// YAML files defining metrics and the data sources they select from. Mapping
// order in those files is preserved because it drives the field order of
// everything generated from them.
package metricshub

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NamespaceConfig is the parsed configuration for one namespace.
type NamespaceConfig struct {
	Metrics     MetricsSection     `yaml:"metrics"`
	DataSources DataSourcesSection `yaml:"data_sources"`
}

// Metric returns the definition for a slug.
func (n *NamespaceConfig) Metric(slug string) (*MetricDefinition, bool) {
	return n.Metrics.Definitions.Get(slug)
}

// DataSource returns the named data source definition.
func (n *NamespaceConfig) DataSource(name string) (*DataSource, bool) {
	ds, ok := n.DataSources.Definitions[name]

	return ds, ok
}

// MetricsSection holds the metric definitions of a namespace.
type MetricsSection struct {
	Definitions MetricDefinitions `yaml:"definitions"`
}

// DataSourcesSection holds the data source definitions of a namespace.
type DataSourcesSection struct {
	Definitions map[string]*DataSource `yaml:"definitions"`
}

// MetricDefinition describes one metric of a namespace.
type MetricDefinition struct {
	// FriendlyName is the display label. When empty, a label is derived
	// from the slug.
	FriendlyName string `yaml:"friendly_name"`

	// Description is free-form display text.
	Description string `yaml:"description"`

	// SelectExpression is the SQL fragment computing the metric per client.
	// Registry templating helpers are expanded at load time.
	SelectExpression string `yaml:"select_expression"`

	// DataSource names the data source the expression selects from.
	DataSource string `yaml:"data_source"`

	// Type is the metric shape. Histogram metrics cannot be aggregated in
	// generated views and are skipped.
	Type string `yaml:"type"`

	// Category groups related metrics for display purposes.
	Category string `yaml:"category"`

	// Statistics selects the aggregations exposed as measures.
	Statistics Statistics `yaml:"statistics"`

	// Deprecated marks metrics kept only for backwards compatibility.
	Deprecated bool `yaml:"deprecated"`
}

// DataSource describes a queryable table metrics select from.
type DataSource struct {
	// FromExpression is the table reference, optionally containing a
	// {dataset} placeholder expanded with the namespace.
	FromExpression string `yaml:"from_expression"`

	// SubmissionDateColumn overrides the date column used for joining and
	// date filtering. Defaults to submission_date.
	SubmissionDateColumn string `yaml:"submission_date_column"`

	// ClientIDColumn overrides the client identifier column. Defaults to
	// client_id.
	ClientIDColumn string `yaml:"client_id_column"`
}

// Table expands the from expression for a namespace.
func (d *DataSource) Table(namespace string) string {
	return strings.ReplaceAll(d.FromExpression, "{dataset}", namespace)
}

// DateColumn returns the submission date column, defaulted.
func (d *DataSource) DateColumn() string {
	if d.SubmissionDateColumn == "" {
		return "submission_date"
	}

	return d.SubmissionDateColumn
}

// ClientColumn returns the client identifier column, defaulted.
func (d *DataSource) ClientColumn() string {
	if d.ClientIDColumn == "" {
		return "client_id"
	}

	return d.ClientIDColumn
}

// MetricDefinitions is an ordered collection of metric definitions keyed by
// slug.
type MetricDefinitions struct {
	slugs []string
	defs  map[string]*MetricDefinition
}

// UnmarshalYAML decodes a mapping node while recording key order.
func (m *MetricDefinitions) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: metrics definitions must be a mapping", ErrInvalidDefinition)
	}

	m.slugs = make([]string, 0, len(value.Content)/2)
	m.defs = make(map[string]*MetricDefinition, len(value.Content)/2)

	for i := 0; i+1 < len(value.Content); i += 2 {
		slug := value.Content[i].Value

		def := &MetricDefinition{}
		if err := value.Content[i+1].Decode(def); err != nil {
			return fmt.Errorf("metric %q: %w", slug, err)
		}

		m.slugs = append(m.slugs, slug)
		m.defs[slug] = def
	}

	return nil
}

// Slugs returns metric slugs in definition order.
func (m *MetricDefinitions) Slugs() []string {
	return m.slugs
}

// Get returns the definition for a slug.
func (m *MetricDefinitions) Get(slug string) (*MetricDefinition, bool) {
	def, ok := m.defs[slug]

	return def, ok
}

// Len returns the number of definitions.
func (m *MetricDefinitions) Len() int {
	return len(m.slugs)
}

// Add appends a definition. Re-adding an existing slug replaces the
// definition but keeps its original position.
func (m *MetricDefinitions) Add(slug string, def *MetricDefinition) {
	if m.defs == nil {
		m.defs = map[string]*MetricDefinition{}
	}

	if _, ok := m.defs[slug]; !ok {
		m.slugs = append(m.slugs, slug)
	}

	m.defs[slug] = def
}

// Statistics is an ordered set of statistic configurations keyed by
// statistic name.
type Statistics struct {
	names  []string
	params map[string]map[string]interface{}
}

// UnmarshalYAML decodes a mapping node while recording key order.
func (s *Statistics) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: statistics must be a mapping", ErrInvalidDefinition)
	}

	s.names = make([]string, 0, len(value.Content)/2)
	s.params = make(map[string]map[string]interface{}, len(value.Content)/2)

	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value

		var params map[string]interface{}
		if err := value.Content[i+1].Decode(&params); err != nil {
			return fmt.Errorf("statistic %q: %w", name, err)
		}

		s.names = append(s.names, name)
		s.params[name] = params
	}

	return nil
}

// Names returns statistic names in definition order.
func (s *Statistics) Names() []string {
	return s.names
}

// Params returns the configuration of a statistic.
func (s *Statistics) Params(name string) (map[string]interface{}, bool) {
	params, ok := s.params[name]

	return params, ok
}

// Add appends a statistic. Re-adding an existing name replaces its
// parameters but keeps its original position.
func (s *Statistics) Add(name string, params map[string]interface{}) {
	if s.params == nil {
		s.params = map[string]map[string]interface{}{}
	}

	if _, ok := s.params[name]; !ok {
		s.names = append(s.names, name)
	}

	s.params[name] = params
}
