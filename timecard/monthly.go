package timecard

import (
	"io"
	"log/slog"
	"sort"
	"time"
)

// MonthlyStatistics only counts days whose worked hours are above zero, but Days lists every day with events.
type MonthlyStatistics struct {
	Year            int
	Month           time.Month
	TotalWorkedDays int
	TotalHours      float64
	AverageHours    float64
	Remark          string
	Days            []DailySummary
}

const (
	RemarkNoRecords   = "no records"
	RemarkFewWorkDays = "few work days"
	RemarkLongHours   = "long hours"
	RemarkShortHours  = "short hours"
	RemarkNormal      = "normal"
)

type EventReader interface {
	ByMonth(year int, month time.Month) ([]ClockEvent, error)
}

type MonthlyAggregator struct {
	events     EventReader
	calculator *DailyWorkCalculator
	logger     *slog.Logger
}

func NewMonthlyAggregator(events EventReader, calculator *DailyWorkCalculator, logger *slog.Logger) *MonthlyAggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MonthlyAggregator{events: events, calculator: calculator, logger: logger}
}

func (a *MonthlyAggregator) Compute(year int, month time.Month, rests []RestPeriod) (MonthlyStatistics, error) {
	es, err := a.events.ByMonth(year, month)
	if err != nil {
		return MonthlyStatistics{}, err
	}

	byDate := make(map[Date][]ClockEvent)
	var dates []Date
	for _, e := range es {
		if _, ok := byDate[e.Date]; !ok {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	stats := MonthlyStatistics{Year: year, Month: month}
	for _, d := range dates {
		s := a.calculator.Summarize(d, byDate[d], rests)
		stats.Days = append(stats.Days, s)
		if s.WorkedHours > 0 {
			stats.TotalWorkedDays++
			stats.TotalHours += s.WorkedHours
		}
	}
	if stats.TotalWorkedDays > 0 {
		stats.AverageHours = stats.TotalHours / float64(stats.TotalWorkedDays)
	}
	stats.Remark = monthlyRemark(stats.TotalWorkedDays, stats.AverageHours)

	a.logger.Debug("computed monthly statistics",
		slog.Int("year", year),
		slog.Int("month", int(month)),
		slog.Int("events", len(es)),
		slog.Int("worked_days", stats.TotalWorkedDays),
		slog.Float64("total_hours", stats.TotalHours))
	return stats, nil
}

func monthlyRemark(workedDays int, average float64) string {
	switch {
	case workedDays == 0:
		return RemarkNoRecords
	case workedDays < 10:
		return RemarkFewWorkDays
	case average > 10:
		return RemarkLongHours
	case average < 6:
		return RemarkShortHours
	}
	return RemarkNormal
}
