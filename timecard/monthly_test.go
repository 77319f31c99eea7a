package timecard_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/timecard"
)

func TestMonthlyAggregator_Compute(t *testing.T) {
	store, _ := newTestStore(t)
	// two full days
	mustUpsert(t, store, timecard.KindIn, "2024-01-02 08:00:00", "")
	mustUpsert(t, store, timecard.KindOut, "2024-01-02 17:00:00", "")
	mustUpsert(t, store, timecard.KindIn, "2024-01-03 09:00:00", "")
	mustUpsert(t, store, timecard.KindOut, "2024-01-03 19:00:00", "")
	// only IN
	mustUpsert(t, store, timecard.KindIn, "2024-01-04 09:00:00", "forgot to clock out")
	// OUT before IN
	mustUpsert(t, store, timecard.KindIn, "2024-01-05 18:00:00", "")
	mustUpsert(t, store, timecard.KindOut, "2024-01-05 08:00:00", "")
	// other month
	mustUpsert(t, store, timecard.KindIn, "2024-02-01 08:00:00", "")
	mustUpsert(t, store, timecard.KindOut, "2024-02-01 17:00:00", "")

	calc := timecard.NewDailyWorkCalculator(timecard.OverlapIndependent, newTestLogger())
	agg := timecard.NewMonthlyAggregator(store, calc, newTestLogger())

	stats, err := agg.Compute(2024, time.January, []timecard.RestPeriod{{Start: "12:00", End: "13:00"}})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if stats.Year != 2024 || stats.Month != time.January {
		t.Errorf("period = %d-%d, want 2024-1", stats.Year, stats.Month)
	}
	if stats.TotalWorkedDays != 2 {
		t.Errorf("TotalWorkedDays = %d, want 2", stats.TotalWorkedDays)
	}
	assert.InDelta(t, 17, stats.TotalHours, 1e-9)
	assert.InDelta(t, 8.5, stats.AverageHours, 1e-9)
	if stats.Remark != timecard.RemarkFewWorkDays {
		t.Errorf("Remark = %q, want %q", stats.Remark, timecard.RemarkFewWorkDays)
	}

	wantDays := []struct {
		date  timecard.Date
		hours float64
	}{
		{"2024-01-02", 8},
		{"2024-01-03", 9},
		{"2024-01-04", 0},
		{"2024-01-05", 0},
	}
	if len(stats.Days) != len(wantDays) {
		t.Fatalf("Days len = %d, want %d", len(stats.Days), len(wantDays))
	}
	for i, w := range wantDays {
		assert.Equal(t, w.date, stats.Days[i].Date, "Days[%d]", i)
		assert.InDelta(t, w.hours, stats.Days[i].WorkedHours, 1e-9, "Days[%d]", i)
	}
	if stats.Days[2].RecordCount != 1 || stats.Days[2].Events[0].Note != "forgot to clock out" {
		t.Errorf("Days[2] events = %+v, want the lone IN event", stats.Days[2].Events)
	}
}

func TestMonthlyAggregator_NoContributingDays(t *testing.T) {
	store, _ := newTestStore(t)
	mustUpsert(t, store, timecard.KindOut, "2024-03-04 17:00:00", "")

	calc := timecard.NewDailyWorkCalculator(timecard.OverlapIndependent, newTestLogger())
	agg := timecard.NewMonthlyAggregator(store, calc, newTestLogger())

	stats, err := agg.Compute(2024, time.March, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if stats.TotalWorkedDays != 0 || stats.TotalHours != 0 || stats.AverageHours != 0 {
		t.Errorf("stats = %+v, want zero aggregates", stats)
	}
	if len(stats.Days) != 1 {
		t.Errorf("Days len = %d, want 1", len(stats.Days))
	}
	if stats.Remark != timecard.RemarkNoRecords {
		t.Errorf("Remark = %q, want %q", stats.Remark, timecard.RemarkNoRecords)
	}
}

type failingReader struct{ err error }

func (r failingReader) ByMonth(int, time.Month) ([]timecard.ClockEvent, error) {
	return nil, r.err
}

func TestMonthlyAggregator_PropagatesStorageError(t *testing.T) {
	want := &timecard.StorageError{Op: "query by month", Err: errors.New("disk gone")}
	agg := timecard.NewMonthlyAggregator(failingReader{err: want}, timecard.NewDailyWorkCalculator("", nil), newTestLogger())

	_, err := agg.Compute(2024, time.January, nil)
	var serr *timecard.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("Compute error = %v, want StorageError", err)
	}
}

func TestMonthlyAggregator_NilLogger(t *testing.T) {
	store, _ := newTestStore(t)
	mustUpsert(t, store, timecard.KindIn, "2024-01-02 08:00:00", "")
	mustUpsert(t, store, timecard.KindOut, "2024-01-02 17:00:00", "")

	agg := timecard.NewMonthlyAggregator(store, timecard.NewDailyWorkCalculator("", nil), nil)

	var stats timecard.MonthlyStatistics
	require.NotPanics(t, func() {
		var err error
		stats, err = agg.Compute(2024, time.January, nil)
		assert.NoError(t, err)
	})
	assert.InDelta(t, 9, stats.TotalHours, 1e-9)
}
