package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"sameshi/catalog"
)

// DefaultTables maps catalog sheet names to Postgres table names.
var DefaultTables = map[string]string{
	catalog.SheetFacilities:   "saunas",
	catalog.SheetVendors:      "restaurants",
	catalog.SheetMenuItems:    "menu_items",
	catalog.SheetTags:         "menu_tags",
	catalog.SheetMenuItemTags: "menu_tag_relations",
}

// TableSource reads the catalog tables from Postgres. Columns are read by
// name so spreadsheet-shaped schemas work unchanged.
type TableSource struct {
	DB     *sql.DB
	Tables map[string]string
}

func (s TableSource) Load(ctx context.Context) (catalog.Tables, error) {
	names := s.Tables
	if names == nil {
		names = DefaultTables
	}

	var t catalog.Tables
	for _, sheet := range catalog.SheetNames {
		table, ok := names[sheet]
		if !ok {
			continue
		}
		rows, err := s.readTable(ctx, table)
		if err != nil {
			return catalog.Tables{}, fmt.Errorf("read table %s: %w", table, err)
		}
		t.Set(sheet, rows)
	}
	return t, nil
}

func (s TableSource) readTable(ctx context.Context, table string) ([]catalog.Row, error) {
	query := "SELECT * FROM " + pq.QuoteIdentifier(table)
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []catalog.Row{}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, toRow(columns, values))
	}
	return out, rows.Err()
}

func toRow(columns []string, values []sql.NullString) catalog.Row {
	strs := make([]string, len(values))
	for i, v := range values {
		if v.Valid {
			strs[i] = v.String
		}
	}
	return catalog.NewRow(columns, strs)
}
