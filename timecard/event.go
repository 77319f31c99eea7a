package timecard

import (
	"strings"
	"time"
)

type Kind string

const (
	KindIn  = Kind("in")
	KindOut = Kind("out")
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindIn, KindOut:
		return k, nil
	}
	return "", &ValidationError{Field: "kind", Value: s, Reason: "must be in or out"}
}

func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// ClockEvent is a single IN or OUT action. At most one is stored per (Date, Kind).
type ClockEvent struct {
	Date      Date   `json:"date"`
	Time      string `json:"time"`
	Kind      Kind   `json:"kind"`
	Timestamp string `json:"datetime"`
	Note      string `json:"note,omitempty"`
}

func NewClockEvent(kind Kind, at time.Time, note string) ClockEvent {
	return ClockEvent{
		Date:      DateOf(at),
		Time:      at.Format(TimeLayout),
		Kind:      kind,
		Timestamp: at.Format(TimestampLayout),
		Note:      note,
	}
}

// At parses the stored full timestamp in local time.
func (e ClockEvent) At() (time.Time, error) {
	return ParseTimestamp(e.Timestamp)
}
