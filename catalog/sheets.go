package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com"

// SheetsSource reads the catalog tables from a Google Sheets spreadsheet
// through the v4 values endpoint. The first row of each sheet is the header.
type SheetsSource struct {
	SpreadsheetID string
	// APIKey works for link-shared sheets; AccessToken is an OAuth bearer
	// token for private ones. AccessToken wins when both are set.
	APIKey      string
	AccessToken string

	BaseURL    string
	HTTPClient *http.Client
}

// NewSheetsSource creates a source with a 10 second request timeout.
func NewSheetsSource(spreadsheetID, apiKey, accessToken string) *SheetsSource {
	return &SheetsSource{
		SpreadsheetID: spreadsheetID,
		APIKey:        apiKey,
		AccessToken:   accessToken,
		BaseURL:       defaultSheetsBaseURL,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

type valueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

func (s *SheetsSource) Load(ctx context.Context) (Tables, error) {
	var t Tables
	for _, sheet := range SheetNames {
		rows, err := s.fetchSheet(ctx, sheet)
		if err != nil {
			return Tables{}, fmt.Errorf("load sheet %s: %w", sheet, err)
		}
		t.Set(sheet, rows)
	}
	return t, nil
}

func (s *SheetsSource) fetchSheet(ctx context.Context, sheet string) ([]Row, error) {
	base := s.BaseURL
	if base == "" {
		base = defaultSheetsBaseURL
	}
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	apiURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s", base, url.PathEscape(s.SpreadsheetID), url.PathEscape(sheet))
	if s.AccessToken == "" && s.APIKey != "" {
		apiURL += "?key=" + url.QueryEscape(s.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	if s.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheets API error (status %d): %s", resp.StatusCode, string(body))
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode sheets response: %w", err)
	}
	if len(vr.Values) == 0 {
		return []Row{}, nil
	}

	headers := stringify(vr.Values[0])
	rows := make([]Row, 0, len(vr.Values)-1)
	for _, values := range vr.Values[1:] {
		rows = append(rows, NewRow(headers, stringify(values)))
	}
	return rows, nil
}

func stringify(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fixtureValue(v)
	}
	return out
}
