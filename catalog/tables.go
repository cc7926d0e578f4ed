package catalog

import (
	"context"
	"strings"
)

// Sheet names of the five catalog tables.
const (
	SheetFacilities   = "Saunas"
	SheetVendors      = "Restaurants"
	SheetMenuItems    = "Menu"
	SheetTags         = "MenuTags"
	SheetMenuItemTags = "MenuTagRelation"
)

// SheetNames lists the catalog tables in load order.
var SheetNames = []string{SheetFacilities, SheetVendors, SheetMenuItems, SheetTags, SheetMenuItemTags}

// Row is one loosely typed record keyed by normalized column name.
type Row map[string]string

// Get returns the first non-blank value among the given column aliases.
func (r Row) Get(columns ...string) string {
	for _, c := range columns {
		if v := strings.TrimSpace(r[c]); v != "" {
			return v
		}
	}
	return ""
}

// Tables holds the raw catalog tables as read from a Source.
type Tables struct {
	Facilities   []Row `json:"facilities"`
	Vendors      []Row `json:"vendors"`
	MenuItems    []Row `json:"menu_items"`
	Tags         []Row `json:"tags"`
	MenuItemTags []Row `json:"menu_item_tags"`
}

// Set stores rows under the table for the given sheet name. Unknown names are ignored.
func (t *Tables) Set(sheet string, rows []Row) {
	switch sheet {
	case SheetFacilities:
		t.Facilities = rows
	case SheetVendors:
		t.Vendors = rows
	case SheetMenuItems:
		t.MenuItems = rows
	case SheetTags:
		t.Tags = rows
	case SheetMenuItemTags:
		t.MenuItemTags = rows
	}
}

// Source loads the raw catalog tables.
type Source interface {
	Load(ctx context.Context) (Tables, error)
}

// NormalizeColumn trims, lower-cases and replaces spaces with underscores.
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NewRow builds a Row from parallel header and value slices. Missing
// trailing values are treated as blank.
func NewRow(headers []string, values []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		col := NormalizeColumn(h)
		if col == "" {
			continue
		}
		if i < len(values) {
			row[col] = values[i]
		} else {
			row[col] = ""
		}
	}
	return row
}
