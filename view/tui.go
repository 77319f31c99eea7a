package view

import (
	"fmt"
	"log/slog"
	"strings"
	"timecard/timecard"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rivo/tview"
)

func NewTUI(clocker timecard.Clocker, repo ViewRepository, logger *slog.Logger) Viewer {
	return &tui{
		clocker: clocker,
		repo:    repo,
		logger:  logger,
	}
}

type tui struct {
	clocker timecard.Clocker
	repo    ViewRepository

	logger *slog.Logger

	app *tview.Application
}

func (t *tui) Do(yearMonth string) error {
	t.app = tview.NewApplication()
	if err := t.refresh(yearMonth); err != nil {
		return err
	}
	return t.app.Run()
}

// refresh recomputes the month and replaces the whole screen.
func (t *tui) refresh(yearMonth string) error {
	report, err := t.repo.ListReports(yearMonth)
	if err != nil {
		return err
	}

	table, err := newReportTable(report)
	if err != nil {
		return err
	}
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(table, 0, 1, true)

	rowOffset := 1
	table.Select(rowOffset, 0).SetFixed(1, 1).SetSelectable(true, false).SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			t.app.Stop()
		}
	}).SetSelectedFunc(func(row int, column int) {
		if row < rowOffset || row-rowOffset >= len(report.Days) {
			return
		}
		d := report.Days[row-rowOffset]
		form := t.newPunchForm(d, func() {
			if err := t.refresh(yearMonth); err != nil {
				t.logger.Error("failed to refresh report", slog.String("err", err.Error()))
				t.app.Stop()
			}
		}, func(form *tview.Form) func() {
			return func() {
				t.app.SetFocus(table)
				flex.RemoveItem(form)
			}
		})
		flex.AddItem(form, 0, 1, true)
		t.app.SetFocus(form)
	})
	table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			t.app.Stop()
			return nil
		}
		return event
	})

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewTextView().SetText(fmt.Sprintf("%s timecard  [Enter] edit  [q] quit", report.YearMonth)), 1, 1, false).
		AddItem(flex, 0, 1, true).
		AddItem(tview.NewTextView().SetText(summaryLine(report.Stats)), 1, 1, false)
	t.app.SetRoot(root, true).SetFocus(table)
	return nil
}

func newReportTable(report monthlyReportForView) (*tview.Table, error) {
	table := tview.NewTable().SetBorders(true)

	table.SetCell(0, 0, tview.NewTableCell("Date").SetAlign(tview.AlignCenter).SetSelectable(false))
	table.SetCell(0, 1, tview.NewTableCell("In ~ Out").SetAlign(tview.AlignCenter).SetSelectable(false))
	table.SetCell(0, 2, tview.NewTableCell("Records").SetAlign(tview.AlignCenter).SetSelectable(false))
	table.SetCell(0, 3, tview.NewTableCell("Hours").SetAlign(tview.AlignCenter).SetSelectable(false))
	table.SetCell(0, 4, tview.NewTableCell("Note").SetAlign(tview.AlignCenter).SetSelectable(false))

	offset := 1
	for i, d := range report.Days {
		date, err := dateToCell(d.Summary.Date)
		if err != nil {
			return nil, err
		}
		hours := ""
		if d.Summary.RecordCount > 0 {
			hours = hoursToString(d.Summary.WorkedHours)
		}
		table.SetCell(i+offset, 0, date)
		table.SetCell(i+offset, 1, tview.NewTableCell(fmt.Sprintf("  %s ~ %s  ", eventTimeToString(d.In), eventTimeToString(d.Out))).SetAlign(tview.AlignCenter))
		table.SetCell(i+offset, 2, tview.NewTableCell(fmt.Sprint(d.Summary.RecordCount)).SetAlign(tview.AlignCenter))
		table.SetCell(i+offset, 3, tview.NewTableCell(hours).SetAlign(tview.AlignCenter))
		table.SetCell(i+offset, 4, tview.NewTableCell(d.Notes()))
	}
	return table, nil
}

func summaryLine(s timecard.MonthlyStatistics) string {
	return fmt.Sprintf("worked days: %d  total: %s h  average: %s h/day  (%s)",
		s.TotalWorkedDays, hoursToString(s.TotalHours), hoursToString(s.AverageHours), s.Remark)
}

func (t *tui) newPunchForm(d dayForView, handleSaved func(), handleCancel func(form *tview.Form) func()) *tview.Form {
	date := d.Summary.Date
	inAt, inNote := eventFields(d.In)
	outAt, outNote := eventFields(d.Out)

	form := tview.NewForm().
		AddInputField("In (HH:MM[:SS])", inAt, 0, nil, func(text string) {
			inAt = text
		}).
		AddInputField("In note", inNote, 0, nil, func(text string) {
			inNote = text
		}).
		AddInputField("Out (HH:MM[:SS])", outAt, 0, nil, func(text string) {
			outAt = text
		}).
		AddInputField("Out note", outNote, 0, nil, func(text string) {
			outNote = text
		}).
		AddTextView("", "", 0, 0, false, false)

	showError := func(err error) {
		form.GetFormItem(4).(*tview.TextView).
			SetLabel("Error").
			SetText(err.Error())
	}
	form.
		AddButton("Save", func() {
			if err := t.save(date, timecard.KindIn, d.In, inAt, inNote); err != nil {
				showError(err)
				return
			}
			if err := t.save(date, timecard.KindOut, d.Out, outAt, outNote); err != nil {
				showError(err)
				return
			}
			handleSaved()
		}).
		AddButton("Cancel", handleCancel(form))
	form.SetBorder(true).SetTitle(fmt.Sprintf("Clock events of %s", date)).SetTitleAlign(tview.AlignLeft)
	return form
}

// save upserts the event, or removes it when the time field was cleared.
func (t *tui) save(date timecard.Date, kind timecard.Kind, current *timecard.ClockEvent, clock, note string) error {
	clock = strings.TrimSpace(clock)
	if clock == "" || clock == emptyTimeStr {
		if current == nil {
			return nil
		}
		_, err := t.clocker.Remove(date, kind)
		return err
	}
	at, err := timecard.ParseTimestamp(string(date) + " " + clock)
	if err != nil {
		return err
	}
	if current != nil && current.Timestamp == at.Format(timecard.TimestampLayout) && current.Note == note {
		return nil
	}
	_, err = t.clocker.Punch(date, kind, at, note)
	return err
}

func eventFields(e *timecard.ClockEvent) (string, string) {
	if e == nil {
		return "", ""
	}
	return e.Time, e.Note
}

var week = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func dateToCell(d timecard.Date) (*tview.TableCell, error) {
	t, err := d.Time()
	if err != nil {
		return nil, err
	}
	color := tcell.ColorWhite
	switch t.Weekday() {
	case time.Saturday:
		color = tcell.ColorBlue
	case time.Sunday:
		color = tcell.ColorRed
	}

	s := fmt.Sprintf(" %s (%s) ", t.Format("01/02"), week[t.Weekday()])
	return tview.NewTableCell(s).SetTextColor(color).SetAlign(tview.AlignCenter), nil
}
