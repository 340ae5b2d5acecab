package testutil

import (
	"context"
	"fmt"

	"github.com/hwine/lookml-generator/pkg/warehouse"
)

// FakeWarehouse is an in-memory warehouse.Client serving canned table
// schemas, for tests that exercise schema-backed view generation.
type FakeWarehouse struct {
	// Schemas maps fully qualified table names to their column lists
	Schemas map[string][]warehouse.Column

	// Err, when set, is returned by every TableSchema call
	Err error

	// Calls counts TableSchema invocations
	Calls int
}

// TableSchema returns the canned schema for a table.
func (f *FakeWarehouse) TableSchema(_ context.Context, table string) ([]warehouse.Column, error) {
	f.Calls++

	if f.Err != nil {
		return nil, f.Err
	}

	columns, ok := f.Schemas[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", warehouse.ErrTableNotFound, table)
	}

	return columns, nil
}

// Start implements warehouse.Client.
func (f *FakeWarehouse) Start() error { return nil }

// Stop implements warehouse.Client.
func (f *FakeWarehouse) Stop() error { return nil }

var _ warehouse.Client = (*FakeWarehouse)(nil)
