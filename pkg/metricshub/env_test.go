package metricshub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "plain sql passes through",
			expr: "SUM(active_hours_sum)",
			want: "SUM(active_hours_sum)",
		},
		{
			name: "agg_sum helper",
			expr: `{{ agg_sum "active_hours_sum" }}`,
			want: "COALESCE(SUM(active_hours_sum), 0)",
		},
		{
			name: "agg_any helper",
			expr: `{{ agg_any "is_default_browser" }}`,
			want: "COALESCE(LOGICAL_OR(is_default_browser), FALSE)",
		},
		{
			name: "helpers compose with surrounding sql",
			expr: `{{ agg_sum "uri_count" }} / NULLIF({{ agg_sum "active_hours_sum" }}, 0)`,
			want: "COALESCE(SUM(uri_count), 0) / NULLIF(COALESCE(SUM(active_hours_sum), 0), 0)",
		},
		{
			name: "sprig functions are available",
			expr: `{{ upper "safe_cast" }}(x AS INT64)`,
			want: "SAFE_CAST(x AS INT64)",
		},
		{
			name: "empty expression",
			expr: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderExpression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderExpressionErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{
			name: "unclosed action",
			expr: `{{ agg_sum "col"`,
		},
		{
			name: "unknown helper",
			expr: `{{ agg_median "col" }}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderExpression(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidExpression)
		})
	}
}
