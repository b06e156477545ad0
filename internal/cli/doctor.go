package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/cache"
	"worktrack-cli/internal/config"
	"worktrack-cli/internal/model"
)

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type doctorReport struct {
	Checks []doctorCheck `json:"checks"`
}

func (r doctorReport) hasErrors() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return true
		}
	}
	return false
}

var errDoctorIssuesFound = errors.New("doctor found issues")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, API reachability and the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := app.runDoctor(cmd.Context())

			meta := map[string]any{
				"issues":    countIssues(report),
				"hasErrors": report.hasErrors(),
			}
			hints := []string{
				"worktrack config show",
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.hasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}

func countIssues(r doctorReport) int {
	n := 0
	for _, c := range r.Checks {
		if !c.OK {
			n++
		}
	}
	return n
}

func (a *App) runDoctor(ctx context.Context) doctorReport {
	var report doctorReport
	add := func(name string, ok bool, detail string) {
		report.Checks = append(report.Checks, doctorCheck{Name: name, OK: ok, Detail: detail})
	}

	// Config: a resolvable profile with an API URL.
	if dir, err := config.Dir(); err != nil {
		add("config", false, err.Error())
	} else if a.res.APIURL == "" {
		add("config", false, "no API URL configured (run `worktrack config set-profile`)")
		_ = dir
	} else {
		add("config", true, "profile resolves to "+a.res.APIURL)
	}

	// Cache: the sqlite file opens and answers a query.
	if path, err := cache.DefaultPath(); err != nil {
		add("cache", false, err.Error())
	} else if db, err := cache.Open(ctx, path); err != nil {
		add("cache", false, err.Error())
	} else {
		_ = db.Close()
		add("cache", true, path)
	}

	// API: one cheap request with a short deadline.
	if a.res.APIURL == "" {
		add("api", false, "skipped: no API URL")
		return report
	}
	c, err := a.apiClient()
	if err != nil {
		add("api", false, err.Error())
		return report
	}
	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := c.Children(rctx, model.LevelClient, ""); err != nil {
		add("api", false, err.Error())
	} else {
		add("api", true, "reachable")
	}
	return report
}
