package timecard

import "testing"

func TestMonthlyRemark(t *testing.T) {
	tests := []struct {
		days    int
		average float64
		want    string
	}{
		{0, 0, RemarkNoRecords},
		{9, 8, RemarkFewWorkDays},
		{10, 10.5, RemarkLongHours},
		{20, 5.5, RemarkShortHours},
		{20, 10, RemarkNormal},
		{20, 6, RemarkNormal},
	}
	for _, tt := range tests {
		if got := monthlyRemark(tt.days, tt.average); got != tt.want {
			t.Errorf("monthlyRemark(%d, %v) = %q, want %q", tt.days, tt.average, got, tt.want)
		}
	}
}
