package view

import (
	"fmt"
	"io"
	"timecard/timecard"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderDay prints one day's events followed by its worked hours.
func RenderDay(out io.Writer, s timecard.DailySummary) error {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s  in: %d  out: %d", s.Date, s.InCount, s.OutCount))
	t.AppendHeader(table.Row{"Time", "Kind", "Note"})
	for _, e := range s.Events {
		t.AppendRow(table.Row{e.Time, e.Kind.Label(), e.Note})
	}
	t.AppendFooter(table.Row{"First in", timeToString(s.FirstIn), ""})
	t.AppendFooter(table.Row{"Last out", timeToString(s.LastOut), ""})
	t.AppendFooter(table.Row{"Hours", hoursToString(s.WorkedHours), ""})
	t.SetStyle(table.StyleRounded)
	_, err := fmt.Fprintln(out, t.Render())
	return err
}

// RenderLast prints the most recent IN and OUT. Absent events print as --:--.
func RenderLast(out io.Writer, in, outEvent *timecard.ClockEvent) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Kind", "Date", "Time", "Note"})
	for _, row := range []struct {
		kind timecard.Kind
		e    *timecard.ClockEvent
	}{{timecard.KindIn, in}, {timecard.KindOut, outEvent}} {
		if row.e == nil {
			t.AppendRow(table.Row{row.kind.Label(), "", emptyTimeStr, ""})
			continue
		}
		t.AppendRow(table.Row{row.kind.Label(), row.e.Date, row.e.Time, row.e.Note})
	}
	t.SetStyle(table.StyleRounded)
	_, err := fmt.Fprintln(out, t.Render())
	return err
}
