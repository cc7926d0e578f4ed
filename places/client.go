package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sameshi/models"
)

const defaultPlacesBaseURL = "https://maps.googleapis.com"

// NearbyRequest is one keyword query around a point.
type NearbyRequest struct {
	Location models.Coordinates
	Radius   int
	Keyword  string
	Language string
}

// Place is a raw candidate returned by a places service.
type Place struct {
	PlaceID        string
	Name           string
	Rating         float64
	Location       models.Coordinates
	PhotoReference string
}

// Lookup queries an external places service.
type Lookup interface {
	Nearby(ctx context.Context, req NearbyRequest) ([]Place, error)
}

// Client calls the Google Places Nearby Search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultPlacesBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another host, mostly for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type nearbySearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string  `json:"place_id"`
		Name     string  `json:"name"`
		Rating   float64 `json:"rating"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

func (c *Client) Nearby(ctx context.Context, req NearbyRequest) ([]Place, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.6f,%.6f", req.Location.Lat, req.Location.Lon))
	params.Set("radius", strconv.Itoa(req.Radius))
	params.Set("keyword", req.Keyword)
	if req.Language != "" {
		params.Set("language", req.Language)
	}
	params.Set("key", c.apiKey)

	apiURL := c.baseURL + "/maps/api/place/nearbysearch/json?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google places API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse Google Places response: %w", err)
	}

	switch result.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("google places API status %s: %s", result.Status, result.ErrorMessage)
	}

	out := make([]Place, 0, len(result.Results))
	for _, r := range result.Results {
		p := Place{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Rating:  r.Rating,
			Location: models.Coordinates{
				Lat: r.Geometry.Location.Lat,
				Lon: r.Geometry.Location.Lng,
			},
		}
		if len(r.Photos) > 0 {
			p.PhotoReference = r.Photos[0].PhotoReference
		}
		out = append(out, p)
	}
	return out, nil
}
