package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/shared"
	"go.uber.org/zap"
)

// WeatherQuery identifies a forecast location
type WeatherQuery struct {
	Location     string
	LocationType string // city or code
	Units        string // c or f
}

// Forecast is the weather payload a panel renders
type Forecast struct {
	Location    string    `json:"location"`
	Units       string    `json:"units"`
	Temperature int       `json:"temperature"`
	High        int       `json:"high"`
	Low         int       `json:"low"`
	Condition   string    `json:"condition"`
	Icon        string    `json:"icon,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
	// Stale marks a forecast served from the panel's last successful
	// fetch because the upstream service was unavailable.
	Stale bool `json:"stale,omitempty"`
}

// WeatherFetcher retrieves forecasts from an upstream service
type WeatherFetcher interface {
	Fetch(ctx context.Context, query WeatherQuery) (*Forecast, error)
}

// lastForecastKey is the panel state key holding the last successful
// forecast payload.
const lastForecastKey = "last_forecast"

// WeatherProvider renders weather panels. Successful fetches are cached
// on the panel itself so an upstream outage degrades to the last known
// forecast instead of an empty panel.
type WeatherProvider struct {
	fetcher WeatherFetcher
	logger  *zap.Logger
}

// NewWeatherProvider creates a weather content provider
func NewWeatherProvider(fetcher WeatherFetcher, logger *zap.Logger) *WeatherProvider {
	return &WeatherProvider{fetcher: fetcher, logger: logger}
}

func (p *WeatherProvider) VariantType() string { return VariantWeather }

// Content fetches the forecast for the panel's configured location
func (p *WeatherProvider) Content(ctx context.Context, panel *dashboard.Panel) (any, error) {
	location := panel.Settings[SettingLocation]
	if location == "" {
		return nil, shared.NewDomainError("NOT_CONFIGURED", "Weather panel has no location configured")
	}

	query := WeatherQuery{
		Location:     location,
		LocationType: panel.Settings[SettingLocationType],
		Units:        panel.Settings[SettingUnits],
	}

	forecast, err := p.fetcher.Fetch(ctx, query)
	if err != nil {
		p.logger.Warn("Weather fetch failed, serving last forecast",
			zap.String("panel_id", panel.GetID().String()),
			zap.Error(err))
		return p.lastForecast(panel, err)
	}

	if raw, merr := json.Marshal(forecast); merr == nil {
		panel.StoreVariantState(lastForecastKey, string(raw))
	}
	return forecast, nil
}

func (p *WeatherProvider) lastForecast(panel *dashboard.Panel, cause error) (any, error) {
	raw := panel.VariantState(lastForecastKey)
	if raw == "" {
		return nil, cause
	}
	var forecast Forecast
	if err := json.Unmarshal([]byte(raw), &forecast); err != nil {
		return nil, cause
	}
	forecast.Stale = true
	return &forecast, nil
}
