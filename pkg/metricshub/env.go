package metricshub

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs returns the helpers available inside select expressions:
// the sprig text functions plus the SQL aggregation shorthand used
// throughout the metrics configuration registry.
func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()

	funcs["agg_sum"] = func(column string) string {
		return fmt.Sprintf("COALESCE(SUM(%s), 0)", column)
	}

	funcs["agg_any"] = func(column string) string {
		return fmt.Sprintf("COALESCE(LOGICAL_OR(%s), FALSE)", column)
	}

	return funcs
}

// RenderExpression expands the templating helpers inside a select
// expression. Expressions are rendered once at load time so downstream
// consumers always see plain SQL.
func RenderExpression(expr string) (string, error) {
	tmpl, err := template.New("select_expression").Funcs(templateFuncs()).Parse(expr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	return buf.String(), nil
}
