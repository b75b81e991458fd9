package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	appdash "github.com/cms/dashboard/internal/application/dashboard"
	"github.com/cms/dashboard/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client fetches forecasts from an HTTP weather service speaking a
// simple JSON protocol: GET {base}/forecast?location=..&type=..&units=..
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a weather API client
func NewClient(cfg config.DashboardConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.WeatherAPIBaseURL,
		apiKey:     cfg.WeatherAPIKey,
		logger:     logger,
	}
}

type apiResponse struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	High        int    `json:"high"`
	Low         int    `json:"low"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
}

// Fetch retrieves the current forecast for a location
func (c *Client) Fetch(ctx context.Context, query appdash.WeatherQuery) (*appdash.Forecast, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("weather API base URL is not configured")
	}

	endpoint, err := url.Parse(c.baseURL + "/forecast")
	if err != nil {
		return nil, fmt.Errorf("invalid weather API URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("location", query.Location)
	if query.LocationType != "" {
		q.Set("type", query.LocationType)
	}
	if query.Units != "" {
		q.Set("units", query.Units)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	forecast := &appdash.Forecast{
		Location:    payload.Location,
		Units:       query.Units,
		Temperature: payload.Temperature,
		High:        payload.High,
		Low:         payload.Low,
		Condition:   payload.Condition,
		Icon:        payload.Icon,
		RetrievedAt: time.Now(),
	}
	if forecast.Location == "" {
		forecast.Location = query.Location
	}
	return forecast, nil
}
