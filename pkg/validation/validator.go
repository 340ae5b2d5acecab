// Package validation cross-checks the namespaces configuration against the
// metrics configuration registry before generation runs.
package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/observability"
	"github.com/hwine/lookml-generator/pkg/views"
)

// Severity grades a validation issue
type Severity string

// Issue severities. Errors mark configuration the generator cannot act on;
// warnings mark configuration that is probably a mistake; info marks legal
// configuration that renders nothing.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding of a validation pass
type Issue struct {
	Severity  Severity `json:"severity"`
	Namespace string   `json:"namespace"`
	View      string   `json:"view,omitempty"`
	Message   string   `json:"message"`
}

// Validator checks a namespaces configuration against the registry
type Validator interface {
	// Validate returns all issues found in the configuration
	Validate(ctx context.Context, cfg generator.NamespacesConfig) []Issue
}

// validator implements the Validator interface
type validator struct {
	log      logrus.FieldLogger
	registry metricshub.Registry
}

// NewValidator creates a configuration validator
func NewValidator(log logrus.FieldLogger, registry metricshub.Registry) Validator {
	return &validator{
		log:      log.WithField("service", "validation"),
		registry: registry,
	}
}

// HasErrors reports whether any issue is of error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Validate walks every configured namespace and view. Empty-result
// situations are reported at info severity and never block generation.
func (v *validator) Validate(_ context.Context, cfg generator.NamespacesConfig) []Issue {
	issues := []Issue{}

	for _, namespace := range cfg.Names() {
		def := cfg[namespace]

		nsIssues := v.validateNamespace(namespace, def)
		issues = append(issues, nsIssues...)

		counts := map[Severity]float64{}
		for _, issue := range nsIssues {
			counts[issue.Severity]++
		}

		for _, severity := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
			observability.RecordValidationIssues(namespace, string(severity), counts[severity])
		}
	}

	return issues
}

func (v *validator) validateNamespace(namespace string, def *generator.NamespaceDefinition) []Issue {
	issues := []Issue{}

	if len(def.Views) == 0 {
		issues = append(issues, Issue{
			Severity:  SeverityWarning,
			Namespace: namespace,
			Message:   "namespace has no views configured",
		})
	}

	for _, viewName := range def.ViewNames() {
		issues = append(issues, v.validateView(namespace, viewName, def.Views[viewName])...)
	}

	return issues
}

func (v *validator) validateView(namespace, viewName string, def views.Definition) []Issue {
	issues := []Issue{}

	metricDefinitions := def.Type == views.TypeMetricDefinitions ||
		strings.HasPrefix(viewName, views.MetricDefinitionsPrefix)

	switch def.Type {
	case "", views.TypeTableView, views.TypeMetricDefinitions:
	default:
		issues = append(issues, Issue{
			Severity:  SeverityError,
			Namespace: namespace,
			View:      viewName,
			Message:   fmt.Sprintf("unknown view type %q", def.Type),
		})

		return issues
	}

	issues = append(issues, v.validateTables(namespace, viewName, def)...)

	if metricDefinitions {
		issues = append(issues, v.validateMetricDefinitions(namespace, viewName)...)
	} else if len(def.Tables) == 0 {
		issues = append(issues, Issue{
			Severity:  SeverityWarning,
			Namespace: namespace,
			View:      viewName,
			Message:   "table view has no tables and renders nothing",
		})
	}

	return issues
}

func (v *validator) validateTables(namespace, viewName string, def views.Definition) []Issue {
	issues := []Issue{}

	for i, table := range def.Tables {
		if table.Table == "" {
			issues = append(issues, Issue{
				Severity:  SeverityError,
				Namespace: namespace,
				View:      viewName,
				Message:   fmt.Sprintf("table entry %d has an empty table reference", i),
			})

			continue
		}

		if !strings.Contains(table.Table, ".") {
			issues = append(issues, Issue{
				Severity:  SeverityWarning,
				Namespace: namespace,
				View:      viewName,
				Message:   fmt.Sprintf("table reference %q is not fully qualified", table.Table),
			})
		}
	}

	return issues
}

// validateMetricDefinitions reports metric definitions views that will
// render empty. These are info findings: generation treats them as valid
// configuration with nothing to emit.
func (v *validator) validateMetricDefinitions(namespace, viewName string) []Issue {
	cfg := v.registry.Namespace(namespace)
	if cfg == nil {
		return []Issue{{
			Severity:  SeverityInfo,
			Namespace: namespace,
			View:      viewName,
			Message:   "namespace has no registry entry and the view renders empty",
		}}
	}

	sourceName := strings.TrimPrefix(viewName, views.MetricDefinitionsPrefix)

	if _, ok := cfg.DataSource(sourceName); !ok {
		return []Issue{{
			Severity:  SeverityInfo,
			Namespace: namespace,
			View:      viewName,
			Message:   fmt.Sprintf("data source %q has no registry entry and the view renders empty", sourceName),
		}}
	}

	if len(views.ApplicableMetrics(cfg, sourceName)) == 0 {
		return []Issue{{
			Severity:  SeverityInfo,
			Namespace: namespace,
			View:      viewName,
			Message:   fmt.Sprintf("data source %q has no applicable metrics and the view renders empty", sourceName),
		}}
	}

	return nil
}

var _ Validator = (*validator)(nil)
