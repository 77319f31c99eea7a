package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"timecard/config"
	"timecard/timecard"
	"timecard/view"
	"time"

	"github.com/alexflint/go-filemutex"

	"github.com/tidwall/buntdb"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var verr *timecard.ValidationError
		if errors.As(err, &verr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &cli.App{
		Name:  "timecard",
		Usage: "clock in, clock out and see how long you actually worked",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "data directory (default ~/.timecard)",
				EnvVars: []string{"TIMECARD_DIR"},
			},
		},
		Commands: []*cli.Command{
			clockCommand("in", "clock in now", timecard.KindIn),
			clockCommand("out", "clock out now", timecard.KindOut),
			punchCommand,
			rmCommand,
			lastCommand,
			todayCommand,
			dayCommand,
			reportCommand,
			viewCommand,
			restCommand,
		},
	}
	return app.Run(args)
}

var noteFlag = &cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "free text stored with the event"}

func clockCommand(name, usage string, kind timecard.Kind) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{noteFlag},
		Action: func(c *cli.Context) error {
			now := time.Now()
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			var ev timecard.ClockEvent
			if kind == timecard.KindIn {
				ev, err = e.clocker.ClockIn(now, c.String("note"))
			} else {
				ev, err = e.clocker.ClockOut(now, c.String("note"))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s recorded at %s\n", ev.Kind.Label(), ev.Timestamp)
			return nil
		},
	}
}

var punchCommand = &cli.Command{
	Name:  "punch",
	Usage: "record a clock event at a custom time, replacing the one of the same day and kind",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "in or out", Required: true},
		&cli.StringFlag{Name: "at", Usage: `"YYYY-MM-DD HH:MM[:SS]"`, Required: true},
		&cli.StringFlag{Name: "date", Usage: "work date, defaults to the date of --at"},
		noteFlag,
	},
	Action: func(c *cli.Context) error {
		kind, err := timecard.ParseKind(c.String("kind"))
		if err != nil {
			return err
		}
		at, err := timecard.ParseTimestamp(c.String("at"))
		if err != nil {
			return err
		}
		date := timecard.DateOf(at)
		if c.IsSet("date") {
			if date, err = timecard.ParseDate(c.String("date")); err != nil {
				return err
			}
		}

		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.clocker.Punch(date, kind, at, c.String("note"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s recorded at %s\n", ev.Kind.Label(), ev.Timestamp)
		return nil
	},
}

var rmCommand = &cli.Command{
	Name:  "rm",
	Usage: "delete the clock event of a day and kind",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD", Required: true},
		&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "in or out", Required: true},
	},
	Action: func(c *cli.Context) error {
		date, err := timecard.ParseDate(c.String("date"))
		if err != nil {
			return err
		}
		kind, err := timecard.ParseKind(c.String("kind"))
		if err != nil {
			return err
		}

		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.Close()

		deleted, err := e.clocker.Remove(date, kind)
		if err != nil {
			return err
		}
		if !deleted {
			return cli.Exit(fmt.Sprintf("no %s event on %s", kind.Label(), date), 1)
		}
		fmt.Fprintf(c.App.Writer, "deleted %s event on %s\n", kind.Label(), date)
		return nil
	},
}

var lastCommand = &cli.Command{
	Name:  "last",
	Usage: "show the most recent clock in and clock out",
	Action: func(c *cli.Context) error {
		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.Close()

		in, err := e.clocker.LastClockIn()
		if err != nil {
			return err
		}
		out, err := e.clocker.LastClockOut()
		if err != nil {
			return err
		}
		return view.RenderLast(c.App.Writer, in, out)
	},
}

var todayCommand = &cli.Command{
	Name:  "today",
	Usage: "show today's events and worked hours",
	Action: func(c *cli.Context) error {
		now := time.Now()
		return showDay(c, timecard.DateOf(now))
	},
}

var dayCommand = &cli.Command{
	Name:      "day",
	Usage:     "show one day's events and worked hours",
	ArgsUsage: "YYYY-MM-DD",
	Action: func(c *cli.Context) error {
		date, err := timecard.ParseDate(c.Args().First())
		if err != nil {
			return err
		}
		return showDay(c, date)
	},
}

func showDay(c *cli.Context, date timecard.Date) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.clocker.Day(date, e.cfg.RestSnapshot())
	if err != nil {
		return err
	}
	return view.RenderDay(c.App.Writer, s)
}

var reportCommand = &cli.Command{
	Name:      "report",
	Usage:     "monthly worked hours",
	ArgsUsage: "[YYYY-MM]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: view.FormatTable, Usage: "table, csv or markdown"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to a file instead of stdout"},
		&cli.BoolFlag{Name: "all", Usage: "list every stored event instead of the monthly report"},
	},
	Action: func(c *cli.Context) error {
		yearMonth := c.Args().First()
		if yearMonth == "" {
			yearMonth = time.Now().Format("2006-01")
		}
		if err := view.CheckFormat(c.String("format")); err != nil {
			return err
		}

		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.Close()

		var out io.Writer = c.App.Writer
		if path := c.String("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if c.Bool("all") {
			es, err := e.store.All()
			if err != nil {
				return err
			}
			return view.RenderEvents(out, es, c.String("format"))
		}

		viewRepo := view.NewViewRepository(e.aggregator, e.cfg.RestSnapshot())
		v, err := view.NewTableViewer(viewRepo, out, c.String("format"))
		if err != nil {
			return err
		}
		return v.Do(yearMonth)
	},
}

var viewCommand = &cli.Command{
	Name:      "view",
	Usage:     "browse and edit a month in the terminal",
	ArgsUsage: "[YYYY-MM]",
	Action: func(c *cli.Context) error {
		yearMonth := c.Args().First()
		if yearMonth == "" {
			yearMonth = time.Now().Format("2006-01")
		}

		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.Close()

		viewRepo := view.NewViewRepository(e.aggregator, e.cfg.RestSnapshot())
		v := view.NewTUI(e.clocker, viewRepo, e.logger)

		return v.Do(yearMonth)
	},
}

// env holds everything a command needs. Every command opens and closes its own.
type env struct {
	dir string
	cfg config.Config

	db      *buntdb.DB
	logFile *os.File
	fm      *filemutex.FileMutex
	logger  *slog.Logger

	store      timecard.RecordStore
	clocker    timecard.Clocker
	aggregator *timecard.MonthlyAggregator
}

func setup(c *cli.Context) (*env, error) {
	dir, err := config.Dir(c.String("dir"))
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	e := &env{dir: dir, cfg: cfg}

	level, _ := cfg.Level()
	if e.logger, e.logFile, err = newLogger(dir, level); err != nil {
		return nil, err
	}
	if e.db, err = initDB(cfg.DatabasePath(dir)); err != nil {
		e.Close()
		return nil, err
	}
	if e.fm, err = newFileMutex(dir); err != nil {
		e.Close()
		return nil, err
	}
	if e.store, err = timecard.NewRecordStore(e.db); err != nil {
		e.Close()
		return nil, err
	}

	no := newNotificator(cfg.NotifyEnabled(), runtime.GOOS)
	policy, _ := cfg.OverlapPolicy()
	calc := timecard.NewDailyWorkCalculator(policy, e.logger)
	e.clocker = timecard.NewClocker(e.store, calc, e.logger, no, e.fm)
	e.aggregator = timecard.NewMonthlyAggregator(e.store, calc, e.logger)
	return e, nil
}

func (e *env) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Error("close db", slog.String("err", err.Error()))
		}
	}
	if e.fm != nil {
		e.fm.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// newNotificator picks osascript notifications on macOS and stays silent elsewhere.
func newNotificator(enabled bool, goos string) timecard.Notificator {
	if !enabled || goos != "darwin" {
		return timecard.NopNotificator{}
	}
	return &timecard.MacNotificator{}
}

func initDB(path string) (*buntdb.DB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, &timecard.StorageError{Op: "open", Err: err}
	}
	return db, nil
}

func newLogger(dir string, level slog.Level) (*slog.Logger, *os.File, error) {
	logFile, err := os.OpenFile(filepath.Join(dir, "timecard.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	return slog.New(
		slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: level,
		}),
	), logFile, nil
}

func newFileMutex(dir string) (*filemutex.FileMutex, error) {
	return filemutex.New(filepath.Join(dir, "timecard.lock"))
}
