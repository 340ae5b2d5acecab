package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDefinition(t *testing.T) {
	factory := newTestFactory(nil, nil)

	tests := []struct {
		name     string
		viewName string
		def      Definition
		wantType string
	}{
		{
			name:     "explicit metric definitions type",
			viewName: "my_metrics",
			def:      Definition{Type: TypeMetricDefinitions},
			wantType: TypeMetricDefinitions,
		},
		{
			name:     "metric definitions by name prefix",
			viewName: "metric_definitions_ds1",
			def:      Definition{},
			wantType: TypeMetricDefinitions,
		},
		{
			name:     "table view by default",
			viewName: "events",
			def:      Definition{Tables: []Table{{Table: "mozdata.ns.events", Channel: "release"}}},
			wantType: TypeTableView,
		},
		{
			name:     "explicit table view type",
			viewName: "events",
			def:      Definition{Type: TypeTableView},
			wantType: TypeTableView,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := factory.FromDefinition("ns", tt.viewName, tt.def)
			require.NotNil(t, view)
			assert.Equal(t, tt.wantType, view.Type())
			assert.Equal(t, tt.viewName, view.Name())
			assert.Equal(t, "ns", view.Namespace())
			assert.Equal(t, tt.def.Tables, view.Tables())
		})
	}
}

func TestFromDBViews(t *testing.T) {
	factory := newTestFactory(nil, nil)

	views := factory.FromDBViews("ns", []string{
		"mozdata.ns.events",
		"mozdata.ns.clients_daily",
		"bare_table",
	})

	require.Len(t, views, 3)

	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name())
		assert.Equal(t, TypeTableView, v.Type())
	}

	assert.Equal(t, []string{"events", "clients_daily", "bare_table"}, names)

	require.Len(t, views[0].Tables(), 1)
	assert.Equal(t, Table{Table: "mozdata.ns.events", Channel: "release"}, views[0].Tables()[0])
}

// Discovered warehouse views never become metric definitions views, even
// when their name carries the prefix. Those exist only when configured.
func TestFromDBViewsNeverMetricDefinitions(t *testing.T) {
	factory := newTestFactory(nil, nil)

	views := factory.FromDBViews("ns", []string{"mozdata.ns.metric_definitions_ds1"})

	require.Len(t, views, 1)
	assert.Equal(t, TypeTableView, views[0].Type())
	assert.Equal(t, "metric_definitions_ds1", views[0].Name())
}
