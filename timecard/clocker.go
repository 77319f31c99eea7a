package timecard

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Locker serialises mutations across processes. *filemutex.FileMutex satisfies it.
type Locker interface {
	Lock() error
	Unlock() error
}

type Clocker interface {
	ClockIn(now time.Time, note string) (ClockEvent, error)
	ClockOut(now time.Time, note string) (ClockEvent, error)
	Punch(date Date, kind Kind, at time.Time, note string) (ClockEvent, error)
	Remove(date Date, kind Kind) (bool, error)

	LastClockIn() (*ClockEvent, error)
	LastClockOut() (*ClockEvent, error)
	Day(date Date, rests []RestPeriod) (DailySummary, error)
}

func NewClocker(store RecordStore, calculator *DailyWorkCalculator, logger *slog.Logger, notificator Notificator, mux Locker) Clocker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &clocker{
		store:       store,
		calculator:  calculator,
		logger:      logger,
		notificator: notificator,
		mux:         mux,
	}
}

type clocker struct {
	store       RecordStore
	calculator  *DailyWorkCalculator
	logger      *slog.Logger
	notificator Notificator
	mux         Locker
}

func (c *clocker) ClockIn(now time.Time, note string) (ClockEvent, error) {
	return c.Punch(DateOf(now), KindIn, now, note)
}

func (c *clocker) ClockOut(now time.Time, note string) (ClockEvent, error) {
	return c.Punch(DateOf(now), KindOut, now, note)
}

func (c *clocker) Punch(date Date, kind Kind, at time.Time, note string) (ClockEvent, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return ClockEvent{}, err
	}
	if err := c.mux.Lock(); err != nil {
		return ClockEvent{}, fmt.Errorf("acquire lock: %w", err)
	}
	defer c.unlock()

	c.logger.Debug("punch", slog.String("date", string(date)), slog.String("kind", string(kind)), slog.String("at", at.Format(TimestampLayout)))
	if err := c.store.Upsert(date, kind, at, note); err != nil {
		return ClockEvent{}, err
	}

	e := NewClockEvent(kind, at, note)
	c.notify(kind, e)
	return e, nil
}

func (c *clocker) Remove(date Date, kind Kind) (bool, error) {
	if err := c.mux.Lock(); err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	defer c.unlock()

	c.logger.Debug("remove", slog.String("date", string(date)), slog.String("kind", string(kind)))
	return c.store.Delete(date, kind)
}

func (c *clocker) LastClockIn() (*ClockEvent, error) {
	return c.store.LastOfKind(KindIn)
}

func (c *clocker) LastClockOut() (*ClockEvent, error) {
	return c.store.LastOfKind(KindOut)
}

func (c *clocker) Day(date Date, rests []RestPeriod) (DailySummary, error) {
	es, err := c.store.ByDate(date)
	if err != nil {
		return DailySummary{}, err
	}
	return c.calculator.Summarize(date, es, rests), nil
}

func (c *clocker) unlock() {
	if err := c.mux.Unlock(); err != nil {
		c.logger.Error("release lock", slog.String("err", err.Error()))
	}
}

func (c *clocker) notify(kind Kind, e ClockEvent) {
	title, message := "Clocked in", "Have a good one"
	if kind == KindOut {
		title, message = "Clocked out", "Good work today"
	}
	if err := c.notificator.Notify(title, fmt.Sprintf("%s (%s)", message, e.Time)); err != nil {
		c.logger.Warn("notify", slog.String("err", err.Error()))
	}
	c.logger.Info("clock event recorded", slog.String("kind", string(kind)), slog.String("datetime", e.Timestamp))
}
