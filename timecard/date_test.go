package timecard_test

import (
	"errors"
	"testing"
	"time"

	"timecard/timecard"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-01 08:00:00", "2024-01-01 08:00:00", false},
		{"2024-01-01 08:00", "2024-01-01 08:00:00", false},
		{"2024-1-1 08:00", "", true},
		{"2024-01-01T08:00:00", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := timecard.ParseTimestamp(tt.in)
		if tt.wantErr {
			var verr *timecard.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("ParseTimestamp(%q) error = %v, want ValidationError", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if got.Format(timecard.TimestampLayout) != tt.want {
			t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.in, got.Format(timecard.TimestampLayout), tt.want)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	now := time.Date(2026, 2, 27, 10, 0, 0, 0, time.Local)

	y, m, err := timecard.ParseYearMonth("", now)
	if err != nil || y != 2026 || m != time.February {
		t.Errorf("ParseYearMonth(\"\") = %d, %v, %v", y, m, err)
	}
	y, m, err = timecard.ParseYearMonth("2024-03", now)
	if err != nil || y != 2024 || m != time.March {
		t.Errorf("ParseYearMonth(2024-03) = %d, %v, %v", y, m, err)
	}
	if _, _, err := timecard.ParseYearMonth("March", now); err == nil {
		t.Error("ParseYearMonth(March): expected error")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]timecard.Kind{"in": timecard.KindIn, "OUT": timecard.KindOut, " In ": timecard.KindIn} {
		got, err := timecard.ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := timecard.ParseKind("break"); err == nil {
		t.Error("ParseKind(break): expected error")
	}
}
