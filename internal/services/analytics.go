package services

import (
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"admin-pulse/internal/format"
	"admin-pulse/internal/models"
)

// growthWindow is the number of trailing daily buckets in each of the two
// periods compared for the growth rate. Growth is undefined below two full
// windows worth of buckets.
const growthWindow = 7

// VisitorAnalytics buckets the visitor snapshot by calendar day in a fixed
// location and precomputes the statistics the summary cards and the line
// chart consume. The bucket sequence is always ascending by date.
type VisitorAnalytics struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	loc     *time.Location
	buckets []models.DailyBucket
	stats   models.VisitorStats
}

func NewVisitorAnalytics(loc *time.Location, logger *slog.Logger) *VisitorAnalytics {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitorAnalytics{
		logger: logger,
		loc:    loc,
		stats:  models.VisitorStats{Growth: models.GrowthNotEnoughData},
	}
}

func (a *VisitorAnalytics) SetData(visitors []models.Visitor) {
	buckets := bucketByDay(visitors, a.loc)
	stats := computeStats(len(visitors), buckets)

	a.mu.Lock()
	a.buckets = buckets
	a.stats = stats
	a.mu.Unlock()

	a.logger.Info("visitor analytics computed",
		"visits", stats.TotalVisits,
		"days", stats.DaysTracked,
		"growth", stats.Growth)
}

func bucketByDay(visitors []models.Visitor, loc *time.Location) []models.DailyBucket {
	groups := make(map[time.Time]int)
	for _, v := range visitors {
		t := v.RegistrationDate.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		groups[day]++
	}

	buckets := make([]models.DailyBucket, 0, len(groups))
	for day, count := range groups {
		buckets = append(buckets, models.DailyBucket{
			Date:  day,
			Count: count,
			Label: format.DayLabel(day),
		})
	}
	slices.SortFunc(buckets, func(a, b models.DailyBucket) int {
		return a.Date.Compare(b.Date)
	})
	return buckets
}

func computeStats(totalVisits int, buckets []models.DailyBucket) models.VisitorStats {
	stats := models.VisitorStats{
		TotalVisits: totalVisits,
		DaysTracked: len(buckets),
		Growth:      models.GrowthNotEnoughData,
	}

	if len(buckets) > 0 {
		stats.AveragePerDay = int(math.Round(float64(totalVisits) / float64(len(buckets))))
	}

	if len(buckets) >= 2*growthWindow {
		recent := sumCounts(buckets[len(buckets)-growthWindow:])
		previous := sumCounts(buckets[len(buckets)-2*growthWindow : len(buckets)-growthWindow])

		if previous > 0 {
			stats.GrowthPercent = int(math.Round(float64(recent-previous) / float64(previous) * 100))
		}
		switch {
		case stats.GrowthPercent > 0:
			stats.Growth = models.GrowthGrowing
		case stats.GrowthPercent < 0:
			stats.Growth = models.GrowthDeclining
		default:
			stats.Growth = models.GrowthStable
		}
	}

	// Earliest bucket wins a tie, so strictly-greater is the right test over
	// the ascending sequence.
	for _, b := range buckets {
		if b.Count > stats.PeakCount {
			stats.PeakCount = b.Count
			stats.PeakLabel = b.Label
		}
	}

	return stats
}

func sumCounts(buckets []models.DailyBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

func (a *VisitorAnalytics) Stats() models.VisitorStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

func (a *VisitorAnalytics) Buckets() []models.DailyBucket {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.buckets
}

// Series is the line-chart input: parallel label/value arrays in bucket
// order.
func (a *VisitorAnalytics) Series() models.ChartSeries {
	a.mu.RLock()
	defer a.mu.RUnlock()

	series := models.ChartSeries{
		Labels: make([]string, len(a.buckets)),
		Values: make([]int, len(a.buckets)),
	}
	for i, b := range a.buckets {
		series.Labels[i] = b.Label
		series.Values[i] = b.Count
	}
	return series
}
