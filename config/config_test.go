package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps godotenv from picking up a developer's .env file.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3003", c.Port)
	assert.Equal(t, "fixture", c.CatalogSource)
	assert.Equal(t, 200, c.PlacesRadius)
	assert.Equal(t, 3.5, c.PlacesMinRating)
	assert.Equal(t, []string{"ラーメン", "牛丼", "カレー", "ハンバーガー"}, c.PlacesKeywords)
	assert.Equal(t, "ja", c.PlacesLanguage)
	assert.Equal(t, 10*time.Second, c.HTTPTimeout)
	assert.Equal(t, "category", c.SelectionPolicy)
	assert.False(t, c.NearbyEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CATALOG_SOURCE", "sheets")
	t.Setenv("SHEET_ID", "abc123")
	t.Setenv("PLACES_RADIUS", "500")
	t.Setenv("PLACES_KEYWORDS", "そば, 寿司 ,")
	t.Setenv("PLACES_CONCURRENT", "true")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SELECTION_POLICY", "FLAT")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "sheets", c.CatalogSource)
	assert.Equal(t, 500, c.PlacesRadius)
	assert.Equal(t, []string{"そば", "寿司"}, c.PlacesKeywords)
	assert.True(t, c.PlacesConcurrent)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, "flat", c.SelectionPolicy)
	assert.True(t, c.NearbyEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown source":       {"CATALOG_SOURCE": "excel"},
		"sheets without id":    {"CATALOG_SOURCE": "sheets", "SHEET_ID": ""},
		"postgres without dsn": {"CATALOG_SOURCE": "postgres", "DATABASE_URL": ""},
		"bad radius":           {"PLACES_RADIUS": "wide"},
		"negative radius":      {"PLACES_RADIUS": "-1"},
		"bad duration":         {"SESSION_TTL": "forever"},
		"bad policy":           {"SELECTION_POLICY": "weighted"},
		"bad bool":             {"PLACES_CONCURRENT": "maybe"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
