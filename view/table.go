package view

import (
	"fmt"
	"io"
	"timecard/timecard"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

type tableViewer struct {
	repo   ViewRepository
	out    io.Writer
	format string
}

func NewTableViewer(repo ViewRepository, out io.Writer, format string) (Viewer, error) {
	if err := CheckFormat(format); err != nil {
		return nil, err
	}
	return &tableViewer{repo: repo, out: out, format: format}, nil
}

func (t *tableViewer) Do(yearMonth string) error {
	report, err := t.repo.ListReports(yearMonth)
	if err != nil {
		return err
	}
	return render(buildTableWriter(report), t.out, t.format)
}

func buildTableWriter(report monthlyReportForView) table.Writer {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s timecard", report.YearMonth))
	t.AppendHeader(table.Row{"Date", "In", "Out", "Records", "Hours", "Note"})

	for _, d := range report.Days {
		hours := ""
		if d.Summary.RecordCount > 0 {
			hours = hoursToString(d.Summary.WorkedHours)
		}
		t.AppendRow(table.Row{
			d.Summary.Date,
			eventTimeToString(d.In),
			eventTimeToString(d.Out),
			d.Summary.RecordCount,
			hours,
			d.Notes(),
		})
	}

	s := report.Stats
	t.AppendFooter(table.Row{"Worked days", s.TotalWorkedDays, "Total", hoursToString(s.TotalHours), "Average", hoursToString(s.AverageHours)})
	t.AppendFooter(table.Row{"Remark", s.Remark, "", "", "", ""})
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderEvents writes every given event as one row.
func RenderEvents(out io.Writer, es []timecard.ClockEvent, format string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Date", "Time", "Kind", "Note"})
	for _, e := range es {
		t.AppendRow(table.Row{e.Date, e.Time, e.Kind.Label(), e.Note})
	}
	t.AppendFooter(table.Row{"", "", "Records", len(es)})
	t.SetStyle(table.StyleRounded)
	return render(t, out, format)
}

func render(t table.Writer, out io.Writer, format string) error {
	var s string
	switch format {
	case FormatCSV:
		s = t.RenderCSV()
	case FormatMarkdown:
		s = t.RenderMarkdown()
	default:
		s = t.Render()
	}
	_, err := fmt.Fprintln(out, s)
	return err
}

// CheckFormat reports whether format is one the report renderers accept.
func CheckFormat(format string) error {
	switch format {
	case FormatTable, FormatCSV, FormatMarkdown:
		return nil
	}
	return fmt.Errorf("unknown format %q: use %s, %s or %s", format, FormatTable, FormatCSV, FormatMarkdown)
}

func hoursToString(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

const emptyTimeStr = "--:--"

func eventTimeToString(e *timecard.ClockEvent) string {
	if e == nil {
		return emptyTimeStr
	}
	return e.Time
}

func timeToString(t *time.Time) string {
	if t == nil {
		return emptyTimeStr
	}
	return t.Format(timecard.TimeLayout)
}
