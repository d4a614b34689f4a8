package stats

import (
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// Periods accepted by the statistics endpoints.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// FetchRange returns the upstream start_date/end_date (yyyy-MM-dd) for a
// period: the last 7 days for week, the current calendar month otherwise.
func FetchRange(period string, today time.Time) (start, end string) {
	if period == PeriodWeek {
		return today.AddDate(0, 0, -6).Format("2006-01-02"), today.Format("2006-01-02")
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (start, end string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// DailySeries buckets transaction amounts per day over the trailing 7
// (week) or 30 (month) days ending today, oldest first. Days without
// transactions contribute 0. When every day is zero the series collapses
// to a single zero point, which is what the line chart component expects
// for an empty window.
func DailySeries(txns []domain.Transaction, period string, today time.Time) domain.TimeSeries {
	days := 30
	labelFormat := "02"
	if period == PeriodWeek {
		days = 7
		labelFormat = "02/01"
	}

	byDay := make(map[string]float64)
	for _, t := range txns {
		day, ok := parseDay(t.TransactionDate)
		if !ok {
			continue
		}
		byDay[day.Format("2006-01-02")] += t.Amount.Float64()
	}

	series := domain.TimeSeries{
		Labels: make([]string, 0, days),
		Values: make([]float64, 0, days),
	}
	hasData := false
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		value := byDay[date.Format("2006-01-02")]
		if value > 0 {
			hasData = true
		}
		series.Labels = append(series.Labels, date.Format(labelFormat))
		series.Values = append(series.Values, value)
	}

	if !hasData {
		series.Values = []float64{0}
	}
	return series
}
