package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/catalog.yaml
var defaultFixture []byte

// FixtureSource reads mock catalog records from YAML, keyed by sheet name.
// With an empty Path it serves the embedded fixture.
type FixtureSource struct {
	Path string
}

func (s FixtureSource) Load(_ context.Context) (Tables, error) {
	data := defaultFixture
	if s.Path != "" {
		b, err := os.ReadFile(s.Path)
		if err != nil {
			return Tables{}, fmt.Errorf("read fixture %s: %w", s.Path, err)
		}
		data = b
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML document of the form
//
//	Saunas:
//	  - {id: 1, name: ...}
//	Restaurants:
//	  - ...
func ParseFixture(data []byte) (Tables, error) {
	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Tables{}, fmt.Errorf("parse fixture: %w", err)
	}

	var t Tables
	for _, sheet := range SheetNames {
		records := doc[sheet]
		rows := make([]Row, 0, len(records))
		for _, rec := range records {
			row := make(Row, len(rec))
			for k, v := range rec {
				row[NormalizeColumn(k)] = fixtureValue(v)
			}
			rows = append(rows, row)
		}
		t.Set(sheet, rows)
	}
	return t, nil
}

func fixtureValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
