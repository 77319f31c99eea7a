package view

import (
	"timecard/timecard"
	"time"
)

type Viewer interface {
	Do(yearMonth string) error
}

type ViewRepository interface {
	ListReports(yearMonth string) (monthlyReportForView, error)
}

type viewRepository struct {
	aggregator *timecard.MonthlyAggregator
	rests      []timecard.RestPeriod
}

// NewViewRepository computes reports against a fixed rest-period snapshot.
func NewViewRepository(aggregator *timecard.MonthlyAggregator, rests []timecard.RestPeriod) ViewRepository {
	return &viewRepository{aggregator: aggregator, rests: rests}
}

func (r *viewRepository) ListReports(yearMonth string) (monthlyReportForView, error) {
	year, month, err := timecard.ParseYearMonth(yearMonth, time.Now())
	if err != nil {
		return monthlyReportForView{}, err
	}
	monthStart, monthEnd, err := timecard.MonthRange(year, month)
	if err != nil {
		return monthlyReportForView{}, err
	}

	stats, err := r.aggregator.Compute(year, month, r.rests)
	if err != nil {
		return monthlyReportForView{}, err
	}

	byDate := make(map[timecard.Date]timecard.DailySummary, len(stats.Days))
	for _, s := range stats.Days {
		byDate[s.Date] = s
	}

	report := monthlyReportForView{YearMonth: monthStart.Format("2006-01"), Stats: stats}
	for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		date := timecard.DateOf(d)
		s, ok := byDate[date]
		if !ok {
			s = timecard.DailySummary{Date: date}
		}
		report.Days = append(report.Days, newDayForView(s))
	}
	return report, nil
}

type monthlyReportForView struct {
	YearMonth string
	Stats     timecard.MonthlyStatistics
	Days      []dayForView
}

type dayForView struct {
	Summary timecard.DailySummary
	In      *timecard.ClockEvent
	Out     *timecard.ClockEvent
}

func newDayForView(s timecard.DailySummary) dayForView {
	d := dayForView{Summary: s}
	for _, e := range s.Events {
		e := e
		switch e.Kind {
		case timecard.KindIn:
			if d.In == nil || e.Timestamp < d.In.Timestamp {
				d.In = &e
			}
		case timecard.KindOut:
			if d.Out == nil || e.Timestamp > d.Out.Timestamp {
				d.Out = &e
			}
		}
	}
	return d
}

func (d dayForView) Notes() string {
	note := ""
	for _, e := range []*timecard.ClockEvent{d.In, d.Out} {
		if e == nil || e.Note == "" {
			continue
		}
		if note != "" {
			note += " / "
		}
		note += e.Note
	}
	return note
}
