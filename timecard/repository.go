package timecard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/buntdb"
	"github.com/tidwall/gjson"
)

type RecordStore interface {
	// Upsert inserts or replaces the event for (date, kind). at must fall on date.
	Upsert(date Date, kind Kind, at time.Time, note string) error
	Delete(date Date, kind Kind) (bool, error)

	ByDate(date Date) ([]ClockEvent, error)
	ByMonth(year int, month time.Month) ([]ClockEvent, error)
	All() ([]ClockEvent, error)
	// LastOfKind returns nil when no event of the kind was ever recorded.
	LastOfKind(kind Kind) (*ClockEvent, error)
}

const (
	recordKeyPrefix = "record:"

	indexDate         = "date"
	indexDatetime     = "datetime"
	indexKindDatetime = "kind_datetime"

	maxTimestamp = "9999-12-31 23:59:59"
)

func NewRecordStore(db *buntdb.DB) (RecordStore, error) {
	pattern := recordKeyPrefix + "*"
	if err := db.ReplaceIndex(indexDate, pattern, buntdb.IndexJSON("date")); err != nil {
		return nil, &StorageError{Op: "create index", Err: err}
	}
	if err := db.ReplaceIndex(indexDatetime, pattern, buntdb.IndexJSON("datetime")); err != nil {
		return nil, &StorageError{Op: "create index", Err: err}
	}
	if err := db.ReplaceIndex(indexKindDatetime, pattern, buntdb.IndexJSON("kind"), buntdb.IndexJSON("datetime")); err != nil {
		return nil, &StorageError{Op: "create index", Err: err}
	}
	return &recordStore{db: db}, nil
}

type recordStore struct {
	db *buntdb.DB
}

func recordKey(date Date, kind Kind) string {
	return recordKeyPrefix + string(date) + ":" + string(kind)
}

func (r *recordStore) Upsert(date Date, kind Kind, at time.Time, note string) error {
	if _, err := date.Time(); err != nil {
		return err
	}
	kind, err := ParseKind(string(kind))
	if err != nil {
		return err
	}
	if DateOf(at) != date {
		return &ValidationError{Field: "timestamp", Value: at.Format(TimestampLayout), Reason: fmt.Sprintf("does not fall on %s", date)}
	}

	bs, err := json.Marshal(NewClockEvent(kind, at, note))
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}
	err = r.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(recordKey(date, kind), string(bs), nil)
		return err
	})
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}
	return nil
}

func (r *recordStore) Delete(date Date, kind Kind) (bool, error) {
	if _, err := date.Time(); err != nil {
		return false, err
	}
	kind, err := ParseKind(string(kind))
	if err != nil {
		return false, err
	}
	deleted := false
	err = r.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(recordKey(date, kind))
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, &StorageError{Op: "delete", Err: err}
	}
	return deleted, nil
}

func (r *recordStore) ByDate(date Date) ([]ClockEvent, error) {
	if _, err := date.Time(); err != nil {
		return nil, err
	}
	var es []ClockEvent
	err := r.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		if err := tx.AscendEqual(indexDate, fmt.Sprintf(`{"date":%q}`, date), decodeInto(&es, nil, &decodeErr)); err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, &StorageError{Op: "query by date", Err: err}
	}
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].Timestamp < es[j].Timestamp
	})
	return es, nil
}

func (r *recordStore) ByMonth(year int, month time.Month) ([]ClockEvent, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	prefix := start.Format("2006-01-")
	inMonth := func(e ClockEvent) bool {
		return strings.HasPrefix(string(e.Date), prefix)
	}

	var es []ClockEvent
	err = r.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendRange(indexDatetime,
			fmt.Sprintf(`{"datetime":%q}`, start.Format(TimestampLayout)),
			fmt.Sprintf(`{"datetime":%q}`, end.Format(TimestampLayout)),
			decodeInto(&es, inMonth, &decodeErr))
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, &StorageError{Op: "query by month", Err: err}
	}
	return es, nil
}

func (r *recordStore) All() ([]ClockEvent, error) {
	var es []ClockEvent
	err := r.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		if err := tx.Ascend(indexDatetime, decodeInto(&es, nil, &decodeErr)); err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, &StorageError{Op: "query all", Err: err}
	}
	return es, nil
}

func (r *recordStore) LastOfKind(kind Kind) (*ClockEvent, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	var es []ClockEvent
	err = r.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		decode := decodeInto(&es, nil, &decodeErr)
		pivot := fmt.Sprintf(`{"kind":%q,"datetime":%q}`, kind, maxTimestamp)
		err := tx.DescendLessOrEqual(indexKindDatetime, pivot, func(key, value string) bool {
			if gjson.Get(value, "kind").String() != string(kind) {
				return false
			}
			decode(key, value)
			return false
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, &StorageError{Op: "last event of kind", Err: err}
	}
	if len(es) == 0 {
		return nil, nil
	}
	return &es[0], nil
}

// decodeInto returns a buntdb iterator appending every decoded value accepted by keep.
// Iteration stops at the first corrupt value, which is reported through errp.
func decodeInto(es *[]ClockEvent, keep func(ClockEvent) bool, errp *error) func(key, value string) bool {
	return func(key, value string) bool {
		var e ClockEvent
		if err := json.Unmarshal([]byte(value), &e); err != nil {
			*errp = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		if keep == nil || keep(e) {
			*es = append(*es, e)
		}
		return true
	}
}
