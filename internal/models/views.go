package models

import "time"

// DailyBucket is one calendar day of visitor activity. Buckets exist only
// for days with at least one visitor; gaps are not zero-filled.
type DailyBucket struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Label string    `json:"label"`
}

type GrowthTrend string

const (
	GrowthGrowing       GrowthTrend = "growing"
	GrowthDeclining     GrowthTrend = "declining"
	GrowthStable        GrowthTrend = "stable"
	GrowthNotEnoughData GrowthTrend = "not_enough_data"
)

// VisitorStats is the summary-card payload for the analytics view.
// GrowthPercent is meaningful only when Growth is not GrowthNotEnoughData.
type VisitorStats struct {
	TotalVisits   int         `json:"total_visits"`
	AveragePerDay int         `json:"average_per_day"`
	DaysTracked   int         `json:"days_tracked"`
	Growth        GrowthTrend `json:"growth"`
	GrowthPercent int         `json:"growth_percent"`
	PeakCount     int         `json:"peak_count"`
	PeakLabel     string      `json:"peak_label,omitempty"`
}

// ChartSeries is the input contract of the line-chart collaborator:
// parallel arrays, ordered ascending by bucket date.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type CustomerSummary struct {
	Total     int `json:"total"`
	FreeCount int `json:"free_count"`
	ProCount  int `json:"pro_count"`
	MaxCount  int `json:"max_count"`
	Filtered  int `json:"filtered"`
}

// TotalAmount sums successful transactions only, in display units.
type TransactionSummary struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	PendingCount int `json:"pending_count"`
	Filtered     int `json:"filtered"`
	TotalAmount  int `json:"total_amount"`
}
