package timecard

import (
	"fmt"
	"time"
)

// RestPeriod is a recurring break given as time of day. End before Start means it runs past midnight.
type RestPeriod struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

func (p RestPeriod) String() string {
	return p.Start + "-" + p.End
}

func (p RestPeriod) CrossesMidnight() bool {
	s, e, err := p.clock()
	return err == nil && e < s
}

// Duration is zero for a malformed period.
func (p RestPeriod) Duration() time.Duration {
	s, e, err := p.clock()
	if err != nil {
		return 0
	}
	if e < s {
		e += 24 * time.Hour
	}
	return e - s
}

// clock returns start and end as offsets from midnight.
func (p RestPeriod) clock() (time.Duration, time.Duration, error) {
	s, err := parseClock(p.Start)
	if err != nil {
		return 0, 0, err
	}
	e, err := parseClock(p.End)
	if err != nil {
		return 0, 0, err
	}
	if s == e {
		return 0, 0, &ValidationError{Field: "rest period", Value: p.String(), Reason: "start and end must differ"}
	}
	return s, e, nil
}

// anchor places the period on the given work date.
func (p RestPeriod) anchor(day time.Time) (time.Time, time.Time, error) {
	s, e, err := p.clock()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := day.Date()
	start := time.Date(y, m, d, int(s/time.Hour), int(s%time.Hour/time.Minute), 0, 0, day.Location())
	if e < s {
		d++
	}
	end := time.Date(y, m, d, int(e/time.Hour), int(e%time.Hour/time.Minute), 0, 0, day.Location())
	return start, end, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, &ValidationError{Field: "time of day", Value: s, Reason: "must be HH:MM"}
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ValidateRestPeriod applies one rule everywhere: start == end is rejected,
// start < end is a same-day period and start > end crosses midnight.
func ValidateRestPeriod(start, end string) error {
	_, _, err := RestPeriod{Start: start, End: end}.clock()
	return err
}

// RestOverlapPolicy decides how rest periods that overlap each other are subtracted.
type RestOverlapPolicy string

const (
	// OverlapIndependent subtracts every period on its own, so shared minutes count twice.
	OverlapIndependent = RestOverlapPolicy("independent")
	// OverlapMerge subtracts the union of all periods once.
	OverlapMerge = RestOverlapPolicy("merge")
)

func ParseRestOverlapPolicy(s string) (RestOverlapPolicy, error) {
	switch p := RestOverlapPolicy(s); p {
	case OverlapIndependent, OverlapMerge:
		return p, nil
	case "":
		return OverlapIndependent, nil
	}
	return "", &ValidationError{Field: "rest_overlap", Value: s, Reason: fmt.Sprintf("must be %s or %s", OverlapIndependent, OverlapMerge)}
}

// RestPeriodSet keeps rest periods keyed by (start, end) in insertion order.
type RestPeriodSet struct {
	periods []RestPeriod
}

// NewRestPeriodSet validates every period. Use RestPeriods to carry unvalidated entries.
func NewRestPeriodSet(ps ...RestPeriod) (*RestPeriodSet, error) {
	s := &RestPeriodSet{}
	for _, p := range ps {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *RestPeriodSet) Add(p RestPeriod) error {
	if err := ValidateRestPeriod(p.Start, p.End); err != nil {
		return err
	}
	for i, cur := range s.periods {
		if cur.Start == p.Start && cur.End == p.End {
			s.periods[i] = p
			return nil
		}
	}
	s.periods = append(s.periods, p)
	return nil
}

func (s *RestPeriodSet) Remove(start, end string) bool {
	for i, cur := range s.periods {
		if cur.Start == start && cur.End == end {
			s.periods = append(s.periods[:i], s.periods[i+1:]...)
			return true
		}
	}
	return false
}

func (s *RestPeriodSet) Clear() {
	s.periods = nil
}

func (s *RestPeriodSet) Len() int {
	return len(s.periods)
}

// List returns a copy that callers may pass to calculators as a snapshot.
func (s *RestPeriodSet) List() []RestPeriod {
	out := make([]RestPeriod, len(s.periods))
	copy(out, s.periods)
	return out
}
