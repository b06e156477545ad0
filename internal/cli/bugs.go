package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/api"
	"worktrack-cli/internal/config"
	"worktrack-cli/internal/filter"
	"worktrack-cli/internal/model"
)

type bugList struct {
	Data []model.Bug `json:"data"`

	// ActiveFilters echoes how many predicates narrowed the list.
	ActiveFilters int `json:"activeFilters,omitempty"`
}

func (l bugList) TableHeader() []string {
	return []string{"ID", "TITLE", "STATUS", "SEVERITY", "ASSIGNEE", "CREATED"}
}

func (l bugList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, b := range l.Data {
		created := ""
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{b.ID, b.Title, b.Status, string(b.Severity), b.Assignee, created})
	}
	return rows
}

func newBugsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bugs",
		Short: "Bug commands",
	}
	cmd.AddCommand(newBugsListCmd(app))
	cmd.AddCommand(newBugsShowCmd(app))
	cmd.AddCommand(newBugsCreateCmd(app))
	cmd.AddCommand(newBugsUpdateCmd(app))
	return cmd
}

func newBugsListCmd(app *App) *cobra.Command {
	var (
		projectID string
		statuses  []string
		sevs      []string
		assignee  string
		search    string
		from, to  string
		preset    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bugs, filtered client-side",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			bugs, err := c.Bugs(cmd.Context(), projectID)
			if err != nil {
				return writeErr(cmd, err)
			}

			if from, err = normalizeDateFlag(from); err != nil {
				return writeErr(cmd, err)
			}
			if to, err = normalizeDateFlag(to); err != nil {
				return writeErr(cmd, err)
			}

			set := filter.Set{
				Values:   map[string]string{"assignee": assignee},
				Multi:    map[string][]string{"status": statuses, "severity": sevs},
				Search:   search,
				DateFrom: from,
				DateTo:   to,
			}
			if preset != "" {
				path, err := config.PresetsPath()
				if err != nil {
					return writeErr(cmd, err)
				}
				presets, err := filter.LoadPresets(path)
				if err != nil {
					return writeErr(cmd, err)
				}
				p, ok := filter.FindPreset(presets, preset)
				if !ok {
					return writeErr(cmd, fmt.Errorf("unknown preset: %q", preset))
				}
				set = p.Filters
			}

			filtered := filter.Apply(bugs, set, filter.BugFields())
			return writeOut(cmd, app, bugList{Data: filtered, ActiveFilters: set.ActiveCount()})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (server-side scope)")
	cmd.Flags().StringArrayVar(&statuses, "status", nil, "Keep bugs in any of these statuses (repeatable)")
	cmd.Flags().StringArrayVar(&sevs, "severity", nil, "Keep bugs at any of these severities (repeatable)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Keep bugs assigned to this user")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search over title/description/id")
	cmd.Flags().StringVar(&from, "from", "", "Created on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Created on or before (YYYY-MM-DD)")
	cmd.Flags().StringVar(&preset, "preset", "", "Use a named filter preset instead of the flags above")
	return cmd
}

func newBugsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <bug-id>",
		Short: "Show one bug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			bug, err := c.Bug(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": bug})
		},
	}
	return cmd
}

func bugDraftFlags(cmd *cobra.Command, d *api.BugDraft) {
	cmd.Flags().StringVar(&d.ProjectID, "project", "", "Project id")
	cmd.Flags().StringVar(&d.Title, "title", "", "Bug title")
	cmd.Flags().StringVar(&d.ShortDesc, "short", "", "Short description")
	cmd.Flags().StringVar(&d.LongDesc, "long", "", "Long description (markdown)")
	cmd.Flags().StringVar(&d.Status, "status", "", "Status")
	cmd.Flags().StringVar((*string)(&d.Severity), "severity", "", "Severity (Critical|Major|Minor|Trivial)")
	cmd.Flags().StringVar(&d.Assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&d.StoryID, "userstory", "", "User story the bug was filed against")
}

func newBugsCreateCmd(app *App) *cobra.Command {
	var draft api.BugDraft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "File a bug",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			bug, err := c.CreateBug(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": bug})
		},
	}
	bugDraftFlags(cmd, &draft)
	return cmd
}

func newBugsUpdateCmd(app *App) *cobra.Command {
	var draft api.BugDraft

	cmd := &cobra.Command{
		Use:   "update <bug-id>",
		Short: "Update a bug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			bug, err := c.UpdateBug(cmd.Context(), args[0], draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": bug})
		},
	}
	bugDraftFlags(cmd, &draft)
	return cmd
}
