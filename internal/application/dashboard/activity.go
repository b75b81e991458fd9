package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"go.uber.org/zap"
)

const (
	defaultActivityDays = 7
	// Records fetched per model when bucketing; generous enough that a
	// busy week still counts fully.
	activitySampleLimit = 200
)

// ActivityProvider renders activity panels: a per-day chart of edits
// across every managed model.
type ActivityProvider struct {
	directory *dashboard.ModelAdminDirectory
	logger    *zap.Logger
	// now is injectable for tests
	now func() time.Time
}

// NewActivityProvider creates an activity content provider
func NewActivityProvider(directory *dashboard.ModelAdminDirectory, logger *zap.Logger) *ActivityProvider {
	return &ActivityProvider{
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *ActivityProvider) VariantType() string { return VariantActivity }

// dayUTC truncates a timestamp to its UTC calendar day
func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Content buckets recent edits per UTC calendar day into a chart,
// oldest day first. Edit timestamps and the panel's "today" are both
// normalized to UTC days so the buckets line up whatever zone the
// records carry.
func (p *ActivityProvider) Content(ctx context.Context, panel *dashboard.Panel) (any, error) {
	days := defaultActivityDays
	if n, err := strconv.Atoi(panel.Settings[SettingDays]); err == nil && n > 0 {
		days = n
	}

	today := dayUTC(p.now())
	start := today.AddDate(0, 0, -(days - 1))

	counts := make(map[string]int, days)
	for _, section := range p.directory.Sections() {
		for _, model := range section.Models {
			records, err := model.List(ctx, activitySampleLimit)
			if err != nil {
				// One broken lister should not blank the whole chart
				p.logger.Warn("Activity lister failed",
					zap.String("section", section.Name),
					zap.String("model", model.Name),
					zap.Error(err))
				continue
			}
			for _, r := range records {
				day := dayUTC(r.LastEdited)
				if day.Before(start) || day.After(today) {
					continue
				}
				counts[day.Format("2006-01-02")]++
			}
		}
	}

	chart := dashboard.NewChart("Recent activity", "Date", "Edits")
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d).Format("2006-01-02")
		chart.AddPoint(day, counts[day])
	}
	return chart, nil
}
