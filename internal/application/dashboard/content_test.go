package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	domaindash "github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	forecast *Forecast
	err      error
	queries  []WeatherQuery
}

func (f *stubFetcher) Fetch(ctx context.Context, query WeatherQuery) (*Forecast, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast, nil
}

func configuredWeatherPanel(t *testing.T) *domaindash.Panel {
	t.Helper()
	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantWeather)
	panel := domaindash.NewPanel(variant, uuid.New())
	require.NoError(t, panel.ApplySettings(variant, map[string]string{
		SettingLocation: "Oslo",
		SettingUnits:    "c",
	}))
	return panel
}

func TestWeatherProviderStoresLastForecast(t *testing.T) {
	fetcher := &stubFetcher{forecast: &Forecast{Location: "Oslo", Temperature: 12, Condition: "Cloudy"}}
	provider := NewWeatherProvider(fetcher, zap.NewNop())
	panel := configuredWeatherPanel(t)

	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	forecast := content.(*Forecast)
	assert.Equal(t, 12, forecast.Temperature)
	assert.False(t, forecast.Stale)
	assert.NotEmpty(t, panel.VariantState("last_forecast"))

	require.Len(t, fetcher.queries, 1)
	assert.Equal(t, "Oslo", fetcher.queries[0].Location)
	assert.Equal(t, "city", fetcher.queries[0].LocationType)
}

func TestWeatherProviderServesStaleForecastOnFailure(t *testing.T) {
	fetcher := &stubFetcher{forecast: &Forecast{Location: "Oslo", Temperature: 12}}
	provider := NewWeatherProvider(fetcher, zap.NewNop())
	panel := configuredWeatherPanel(t)

	_, err := provider.Content(context.Background(), panel)
	require.NoError(t, err)

	fetcher.err = errors.New("upstream timeout")
	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	forecast := content.(*Forecast)
	assert.True(t, forecast.Stale)
	assert.Equal(t, 12, forecast.Temperature)
}

func TestWeatherProviderFailsWithoutHistory(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("upstream timeout")}
	provider := NewWeatherProvider(fetcher, zap.NewNop())
	panel := configuredWeatherPanel(t)

	_, err := provider.Content(context.Background(), panel)

	assert.EqualError(t, err, "upstream timeout")
}

func TestWeatherProviderRequiresLocation(t *testing.T) {
	provider := NewWeatherProvider(&stubFetcher{}, zap.NewNop())
	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantWeather)
	panel := domaindash.NewPanel(variant, uuid.New())

	_, err := provider.Content(context.Background(), panel)

	assert.Error(t, err)
}

func testDirectory(t *testing.T, records []domaindash.ModelRecord, listErr error) *domaindash.ModelAdminDirectory {
	t.Helper()
	directory := domaindash.NewModelAdminDirectory()
	require.NoError(t, directory.Register(domaindash.AdminSection{
		Name:       "content",
		Title:      "Content",
		URLSegment: "content",
		Models: []domaindash.ManagedModel{
			{
				Name:   "Page",
				Plural: "Pages",
				List: func(ctx context.Context, limit int) ([]domaindash.ModelRecord, error) {
					if listErr != nil {
						return nil, listErr
					}
					if limit < len(records) {
						return records[:limit], nil
					}
					return records, nil
				},
			},
		},
	}))
	return directory
}

func modelAdminPanel(t *testing.T, settings map[string]string) *domaindash.Panel {
	t.Helper()
	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantModelAdmin)
	panel := domaindash.NewPanel(variant, uuid.New())
	for k, v := range settings {
		panel.Settings[k] = v
	}
	return panel
}

func TestModelAdminProviderListsRecords(t *testing.T) {
	records := []domaindash.ModelRecord{
		{ID: "1", Title: "Home", LastEdited: time.Now()},
		{ID: "2", Title: "About", LastEdited: time.Now()},
	}
	provider := NewModelAdminProvider(testDirectory(t, records, nil))
	panel := modelAdminPanel(t, map[string]string{
		SettingSection: "content",
		SettingModel:   "Page",
		SettingCount:   "1",
	})

	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	body := content.(*ModelAdminContent)
	assert.Equal(t, "Page", body.Model)
	assert.Len(t, body.Records, 1, "count setting bounds the listing")
}

func TestModelAdminProviderUnconfigured(t *testing.T) {
	provider := NewModelAdminProvider(testDirectory(t, nil, nil))
	panel := modelAdminPanel(t, nil)

	_, err := provider.Content(context.Background(), panel)

	assert.Error(t, err)
}

func TestModelAdminProviderModelsForPanelAction(t *testing.T) {
	provider := NewModelAdminProvider(testDirectory(t, nil, nil))
	panel := modelAdminPanel(t, nil)

	result, err := provider.Action(context.Background(), panel, "modelsforpanel", map[string]string{SettingSection: "content"})

	require.NoError(t, err)
	options := result.([]ModelOption)
	require.Len(t, options, 1)
	assert.Equal(t, "Page", options[0].Name)

	_, err = provider.Action(context.Background(), panel, "selfdestruct", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestActivityProviderBucketsEditsPerDay(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	records := []domaindash.ModelRecord{
		{ID: "1", LastEdited: now.Add(-2 * time.Hour)},
		{ID: "2", LastEdited: now.AddDate(0, 0, -1)},
		{ID: "3", LastEdited: now.AddDate(0, 0, -1)},
		{ID: "4", LastEdited: now.AddDate(0, 0, -30)}, // outside window
	}
	provider := NewActivityProvider(testDirectory(t, records, nil), zap.NewNop())
	provider.now = func() time.Time { return now }

	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantActivity)
	panel := domaindash.NewPanel(variant, uuid.New())
	panel.Settings[SettingDays] = "3"

	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	chart := content.(*domaindash.Chart)
	require.Len(t, chart.Points, 3)
	assert.Equal(t, 0, chart.Points[0].Y)
	assert.Equal(t, 2, chart.Points[1].Y)
	assert.Equal(t, 1, chart.Points[2].Y)
	assert.Equal(t, "2026-08-28", chart.Points[2].X)
}

func TestActivityProviderBucketsInUTCDays(t *testing.T) {
	// The clock runs in a non-UTC zone; buckets still align on UTC
	// calendar days, whatever zone the record timestamps carry.
	eastern := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 8, 29, 23, 0, 0, 0, eastern) // 2026-08-30 04:00 UTC
	records := []domaindash.ModelRecord{
		{ID: "1", LastEdited: time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)},
		{ID: "2", LastEdited: time.Date(2026, 8, 30, 12, 0, 0, 0, time.FixedZone("UTC+9", 9*3600))},
	}
	provider := NewActivityProvider(testDirectory(t, records, nil), zap.NewNop())
	provider.now = func() time.Time { return now }

	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantActivity)
	panel := domaindash.NewPanel(variant, uuid.New())
	panel.Settings[SettingDays] = "2"

	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	chart := content.(*domaindash.Chart)
	require.Len(t, chart.Points, 2)
	assert.Equal(t, "2026-08-30", chart.Points[1].X)
	assert.Equal(t, 2, chart.Points[1].Y)
}

func TestActivityProviderToleratesBrokenLister(t *testing.T) {
	provider := NewActivityProvider(testDirectory(t, nil, errors.New("connection refused")), zap.NewNop())

	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantActivity)
	panel := domaindash.NewPanel(variant, uuid.New())

	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	chart := content.(*domaindash.Chart)
	assert.Len(t, chart.Points, defaultActivityDays)
}

func TestTodoProviderCountsOpenItems(t *testing.T) {
	items := new(MockPanelItemRepository)
	provider := NewTodoProvider(items)

	registry := testRegistry(t)
	variant, _ := registry.Lookup(VariantTodo)
	panel := domaindash.NewPanel(variant, uuid.New())

	done := domaindash.NewPanelItem(panel.GetID(), map[string]string{"text": "a", "done": "true"})
	open := domaindash.NewPanelItem(panel.GetID(), map[string]string{"text": "b", "done": "false"})
	items.On("FindByPanel", mock.Anything, panel.GetID()).Return([]*domaindash.PanelItem{done, open}, nil)

	content, err := provider.Content(context.Background(), panel)

	require.NoError(t, err)
	body := content.(*TodoContent)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, 1, body.Open)
}
