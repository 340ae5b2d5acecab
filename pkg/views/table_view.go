package views

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/lookml"
	"github.com/hwine/lookml-generator/pkg/warehouse"
)

// timeSuffix is stripped from time column names so the BI tool's
// timeframe expansion does not produce names like submission_date_date.
var timeSuffix = regexp.MustCompile("_(date|time)$")

// TableView exposes a warehouse table directly, one field per column.
type TableView struct {
	log       logrus.FieldLogger
	warehouse warehouse.Client

	namespace string
	name      string
	tables    []Table
}

var _ View = (*TableView)(nil)

func newTableView(log logrus.FieldLogger, warehouseClient warehouse.Client, namespace, name string, tables []Table) *TableView {
	return &TableView{
		log:       log,
		warehouse: warehouseClient,
		namespace: namespace,
		name:      name,
		tables:    tables,
	}
}

func (v *TableView) Name() string {
	return v.name
}

func (v *TableView) Type() string {
	return TypeTableView
}

func (v *TableView) Namespace() string {
	return v.namespace
}

func (v *TableView) Tables() []Table {
	return v.tables
}

// Generate resolves the schema of the view's release-channel table and
// maps every supported column to a dimension or dimension group.
func (v *TableView) Generate(ctx context.Context) (*lookml.File, error) {
	if len(v.tables) == 0 {
		return &lookml.File{}, nil
	}

	if v.warehouse == nil {
		return nil, ErrNoWarehouseClient
	}

	table := v.releaseTable()

	columns, err := v.warehouse.TableSchema(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("resolving schema for %s: %w", table, err)
	}

	var (
		dimensions []*lookml.Dimension
		groups     []*lookml.DimensionGroup
	)

	for _, column := range columns {
		typ := dimensionType(column.Type)

		switch typ {
		case "":
			// Arrays, structs and other composite columns have no scalar
			// dimension representation.
			continue
		case "time":
			groups = append(groups, &lookml.DimensionGroup{
				Name:       timeSuffix.ReplaceAllString(column.Name, ""),
				Type:       "time",
				SQL:        "${TABLE}." + column.Name,
				Timeframes: []string{"raw", "date", "week", "month", "quarter", "year"},
			})
		default:
			dimensions = append(dimensions, &lookml.Dimension{
				Name: column.Name,
				Type: typ,
				SQL:  "${TABLE}." + column.Name,
			})
		}
	}

	view := &lookml.View{
		Name:            v.name,
		SQLTableName:    fmt.Sprintf("`%s`", table),
		Dimensions:      dimensions,
		DimensionGroups: groups,
	}

	return &lookml.File{Views: []*lookml.View{view}}, nil
}

// releaseTable picks the release-channel table, falling back to the first
// configured table.
func (v *TableView) releaseTable() string {
	for _, t := range v.tables {
		if t.Channel == "release" {
			return t.Table
		}
	}

	return v.tables[0].Table
}

// dimensionType maps a warehouse column type to a LookML dimension type.
// Unsupported types map to an empty string.
func dimensionType(columnType string) string {
	switch strings.ToUpper(columnType) {
	case "STRING":
		return "string"
	case "INT64", "INTEGER", "NUMERIC", "FLOAT64", "FLOAT":
		return "number"
	case "BOOL", "BOOLEAN":
		return "yesno"
	case "DATE", "DATETIME", "TIMESTAMP":
		return "time"
	default:
		return ""
	}
}
