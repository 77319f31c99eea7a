package main

import (
	"fmt"
	"timecard/config"
	"timecard/timecard"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/urfave/cli/v2"
)

var restCommand = &cli.Command{
	Name:  "rest",
	Usage: "manage the daily rest periods subtracted from worked time",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "show the configured rest periods",
			Action: func(c *cli.Context) error {
				dir, cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(c.App.Writer)
				t.SetTitle(fmt.Sprintf("rest periods (%s, overlap: %s)", dir, cfg.RestOverlap))
				t.AppendHeader(table.Row{"Start", "End", "Minutes", ""})
				for _, p := range cfg.RestPeriods {
					status := ""
					if err := timecard.ValidateRestPeriod(p.Start, p.End); err != nil {
						status = "ignored: " + err.Error()
					} else if p.CrossesMidnight() {
						status = "crosses midnight"
					}
					t.AppendRow(table.Row{p.Start, p.End, int(p.Duration().Minutes()), status})
				}
				t.SetStyle(table.StyleRounded)
				t.Render()
				return nil
			},
		},
		{
			Name:      "add",
			Usage:     "add a rest period",
			ArgsUsage: "HH:MM HH:MM",
			Action: func(c *cli.Context) error {
				return editRests(c, func(set *timecard.RestPeriodSet) error {
					return set.Add(timecard.RestPeriod{Start: c.Args().Get(0), End: c.Args().Get(1)})
				})
			},
		},
		{
			Name:      "rm",
			Usage:     "remove a rest period",
			ArgsUsage: "HH:MM HH:MM",
			Action: func(c *cli.Context) error {
				return editRests(c, func(set *timecard.RestPeriodSet) error {
					if !set.Remove(c.Args().Get(0), c.Args().Get(1)) {
						return cli.Exit(fmt.Sprintf("no rest period %s-%s", c.Args().Get(0), c.Args().Get(1)), 1)
					}
					return nil
				})
			},
		},
		{
			Name:  "clear",
			Usage: "remove every rest period",
			Action: func(c *cli.Context) error {
				return editRests(c, func(set *timecard.RestPeriodSet) error {
					set.Clear()
					return nil
				})
			},
		},
	},
}

func loadConfig(c *cli.Context) (string, config.Config, error) {
	dir, err := config.Dir(c.String("dir"))
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return "", config.Config{}, err
	}
	return dir, cfg, nil
}

// editRests applies edit to the valid rest periods and saves them. Malformed entries are dropped.
func editRests(c *cli.Context, edit func(set *timecard.RestPeriodSet) error) error {
	dir, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	set, invalid := cfg.RestSet()
	for _, p := range invalid {
		fmt.Fprintf(c.App.ErrWriter, "dropping malformed rest period %s\n", p)
	}
	if err := edit(set); err != nil {
		return err
	}
	cfg.RestPeriods = set.List()
	if err := cfg.Save(dir); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d rest period(s) configured\n", set.Len())
	return nil
}
