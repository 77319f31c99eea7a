package timecard_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tidwall/buntdb"

	"timecard/timecard"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (timecard.RecordStore, *buntdb.DB) {
	t.Helper()
	db, err := buntdb.Open(":memory:")
	if err != nil {
		t.Fatalf("open buntdb: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := timecard.NewRecordStore(db)
	if err != nil {
		t.Fatalf("NewRecordStore: %v", err)
	}
	return store, db
}

func at(s string) time.Time {
	t, err := time.ParseInLocation(timecard.TimestampLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func event(kind timecard.Kind, ts string) timecard.ClockEvent {
	return timecard.NewClockEvent(kind, at(ts), "")
}

func mustUpsert(t *testing.T, store timecard.RecordStore, kind timecard.Kind, ts string, note string) {
	t.Helper()
	a := at(ts)
	if err := store.Upsert(timecard.DateOf(a), kind, a, note); err != nil {
		t.Fatalf("Upsert(%s, %s): %v", kind, ts, err)
	}
}
