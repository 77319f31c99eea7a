package timecard

import (
	"io"
	"log/slog"
	"sort"
	"time"
)

// DailySummary is derived from a day's events on every request and never stored.
type DailySummary struct {
	Date        Date
	FirstIn     *time.Time
	LastOut     *time.Time
	WorkedHours float64
	RecordCount int
	InCount     int
	OutCount    int
	Events      []ClockEvent
}

type DailyWorkCalculator struct {
	policy RestOverlapPolicy
	logger *slog.Logger
}

func NewDailyWorkCalculator(policy RestOverlapPolicy, logger *slog.Logger) *DailyWorkCalculator {
	if policy == "" {
		policy = OverlapIndependent
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DailyWorkCalculator{policy: policy, logger: logger}
}

// Compute returns the hours between the first IN and the last OUT minus rest periods.
// Missing IN or OUT, or an OUT not after the IN, yields 0.
func (c *DailyWorkCalculator) Compute(date Date, events []ClockEvent, rests []RestPeriod) float64 {
	return c.Summarize(date, events, rests).WorkedHours
}

func (c *DailyWorkCalculator) Summarize(date Date, events []ClockEvent, rests []RestPeriod) DailySummary {
	s := DailySummary{Date: date, RecordCount: len(events), Events: events}

	for _, e := range events {
		at, err := e.At()
		if err != nil {
			c.logger.Warn("skip event with malformed timestamp", slog.String("date", string(date)), slog.String("kind", string(e.Kind)), slog.String("datetime", e.Timestamp))
			continue
		}
		switch e.Kind {
		case KindIn:
			s.InCount++
			if s.FirstIn == nil || at.Before(*s.FirstIn) {
				s.FirstIn = &at
			}
		case KindOut:
			s.OutCount++
			if s.LastOut == nil || at.After(*s.LastOut) {
				s.LastOut = &at
			}
		}
	}

	if s.FirstIn == nil || s.LastOut == nil {
		c.logger.Debug("not enough records", slog.String("date", string(date)), slog.Int("in", s.InCount), slog.Int("out", s.OutCount))
		return s
	}
	if !s.LastOut.After(*s.FirstIn) {
		c.logger.Debug("clock out is not after clock in", slog.String("date", string(date)))
		return s
	}

	day, err := date.Time()
	if err != nil {
		day = *s.FirstIn
	}
	worked := s.LastOut.Sub(*s.FirstIn) - c.restWithin(day, *s.FirstIn, *s.LastOut, rests)
	if worked < 0 {
		worked = 0
	}
	s.WorkedHours = worked.Hours()
	c.logger.Debug("computed worked hours", slog.String("date", string(date)), slog.Float64("hours", s.WorkedHours))
	return s
}

type interval struct {
	start, end time.Time
}

// restWithin sums the parts of the rest periods, anchored on day, that fall inside [from, to].
func (c *DailyWorkCalculator) restWithin(day, from, to time.Time, rests []RestPeriod) time.Duration {
	var overlaps []interval
	for _, p := range rests {
		start, end, err := p.anchor(day)
		if err != nil {
			c.logger.Warn("skip malformed rest period", slog.String("rest", p.String()), slog.String("err", err.Error()))
			continue
		}
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if !end.After(start) {
			continue
		}
		c.logger.Debug("rest period overlaps work", slog.String("rest", p.String()), slog.Duration("overlap", end.Sub(start)))
		overlaps = append(overlaps, interval{start, end})
	}

	if c.policy == OverlapMerge {
		overlaps = mergeIntervals(overlaps)
	}
	var total time.Duration
	for _, o := range overlaps {
		total += o.end.Sub(o.start)
	}
	return total
}

func mergeIntervals(is []interval) []interval {
	if len(is) < 2 {
		return is
	}
	sort.Slice(is, func(i, j int) bool {
		return is[i].start.Before(is[j].start)
	})
	merged := []interval{is[0]}
	for _, cur := range is[1:] {
		last := &merged[len(merged)-1]
		if cur.start.After(last.end) {
			merged = append(merged, cur)
			continue
		}
		if cur.end.After(last.end) {
			last.end = cur.end
		}
	}
	return merged
}
