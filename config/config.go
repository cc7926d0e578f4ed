package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the server configuration, read from the environment.
type Config struct {
	Port        string   `validate:"required,numeric"`
	Env         string   `validate:"oneof=development production"`
	LogLevel    string   `validate:"oneof=debug info warn error"`
	CORSOrigins []string `validate:"dive,required"`

	CatalogSource string `validate:"oneof=fixture sheets postgres"`
	FixturePath   string
	SheetID       string `validate:"required_if=CatalogSource sheets"`
	SheetsAPIKey  string
	SheetsToken   string
	DatabaseURL   string `validate:"required_if=CatalogSource postgres"`

	RedisURL        string
	CatalogCacheTTL time.Duration `validate:"gte=0"`
	SessionTTL      time.Duration `validate:"gte=0"`

	MapsAPIKey       string
	PlacesRadius     int      `validate:"gt=0,lte=50000"`
	PlacesMinRating  float64  `validate:"gte=0,lte=5"`
	PlacesKeywords   []string `validate:"min=1,dive,required"`
	PlacesLanguage   string
	PlacesConcurrent bool
	HTTPTimeout      time.Duration `validate:"gt=0"`

	SelectionPolicy string `validate:"oneof=category flat"`
	GeocodeMissing  bool
}

// Load reads .env (if present) and the environment, applies defaults and
// validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []string
	c := Config{
		Port:        getString("PORT", "3003"),
		Env:         getString("APP_ENV", "development"),
		LogLevel:    getString("LOG_LEVEL", "info"),
		CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		CatalogSource: getString("CATALOG_SOURCE", "fixture"),
		FixturePath:   os.Getenv("FIXTURE_PATH"),
		SheetID:       os.Getenv("SHEET_ID"),
		SheetsAPIKey:  os.Getenv("GOOGLE_SHEETS_API_KEY"),
		SheetsToken:   os.Getenv("GOOGLE_SHEETS_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		RedisURL: os.Getenv("REDIS_URL"),

		MapsAPIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		PlacesKeywords: getList("PLACES_KEYWORDS", []string{"ラーメン", "牛丼", "カレー", "ハンバーガー"}),
		PlacesLanguage: getString("PLACES_LANGUAGE", "ja"),

		SelectionPolicy: strings.ToLower(getString("SELECTION_POLICY", "category")),
	}

	var err error
	if c.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", 10*time.Minute); err != nil {
		errs = append(errs, err.Error())
	}
	if c.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err.Error())
	}
	if c.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err.Error())
	}
	if c.PlacesRadius, err = getInt("PLACES_RADIUS", 200); err != nil {
		errs = append(errs, err.Error())
	}
	if c.PlacesMinRating, err = getFloat("PLACES_MIN_RATING", 3.5); err != nil {
		errs = append(errs, err.Error())
	}
	if c.PlacesConcurrent, err = getBool("PLACES_CONCURRENT", false); err != nil {
		errs = append(errs, err.Error())
	}
	if c.GeocodeMissing, err = getBool("GEOCODE_MISSING", false); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// NearbyEnabled reports whether a Maps API key is configured.
func (c Config) NearbyEnabled() bool {
	return c.MapsAPIKey != ""
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, v)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}
