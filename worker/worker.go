package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"sameshi/models"
)

const (
	// PoolSize bounds concurrent geocoding requests.
	PoolSize = 8

	defaultGeocodeBaseURL = "https://maps.googleapis.com"
)

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// ResolveCoordinates fills in missing facility coordinates before the catalog
// is frozen. Facilities that fail to geocode keep no coordinates, which only
// disables their nearby lookup. The input slice is not modified.
func ResolveCoordinates(ctx context.Context, facilities []models.Facility, geocoder Geocoder, logger *zap.Logger) []models.Facility {
	out := make([]models.Facility, len(facilities))
	copy(out, facilities)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, PoolSize)
	pending := 0

	for i := range out {
		if out[i].Coordinates != nil {
			continue
		}
		pending++

		wg.Add(1)
		semaphore <- struct{}{}

		go func(f *models.Facility) {
			defer wg.Done()
			defer func() { <-semaphore }()

			c, err := geocoder.Geocode(ctx, f.Name)
			if err != nil {
				logger.Warn("geocoding failed", zap.Int64("facility_id", f.ID), zap.String("name", f.Name), zap.Error(err))
				return
			}
			f.Coordinates = &c
			logger.Info("resolved facility coordinates",
				zap.Int64("facility_id", f.ID),
				zap.Float64("lat", c.Lat),
				zap.Float64("lon", c.Lon))
		}(&out[i])
	}

	wg.Wait()
	if pending > 0 {
		logger.Info("geocoding pass finished", zap.Int("pending", pending))
	}
	return out
}

// GoogleGeocoder calls the Google Maps Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocoder creates a geocoder with a 10 second request timeout.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:     apiKey,
		baseURL:    defaultGeocodeBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the first result for address. ZERO_RESULTS is an error.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("language", "ja")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/maps/api/geocode/json?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Coordinates{}, fmt.Errorf("geocode: status %d: %s", resp.StatusCode, string(body))
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode: decode response: %w", err)
	}

	switch {
	case result.Status != "OK":
		return models.Coordinates{}, fmt.Errorf("geocode: %q: %s %s", address, result.Status, result.ErrorMessage)
	case len(result.Results) == 0:
		return models.Coordinates{}, fmt.Errorf("geocode: %q: no results", address)
	}

	loc := result.Results[0].Geometry.Location
	return models.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
