package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/api"
	"worktrack-cli/internal/filter"
	"worktrack-cli/internal/model"
)

type decisionList struct {
	Data []model.Decision `json:"data"`
}

func (l decisionList) TableHeader() []string {
	return []string{"ID", "TITLE", "STATUS", "DECIDED BY", "CREATED"}
}

func (l decisionList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, d := range l.Data {
		created := ""
		if !d.CreatedAt.IsZero() {
			created = d.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{d.ID, d.Title, d.Status, d.DecidedBy, created})
	}
	return rows
}

func newDecisionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Decision log commands",
	}
	cmd.AddCommand(newDecisionsListCmd(app))
	cmd.AddCommand(newDecisionsCreateCmd(app))
	return cmd
}

func newDecisionsListCmd(app *App) *cobra.Command {
	var (
		projectID string
		statuses  []string
		search    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			decs, err := c.Decisions(cmd.Context(), projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			set := filter.Set{
				Multi:  map[string][]string{"status": statuses},
				Search: search,
			}
			decs = filter.Apply(decs, set, filter.DecisionFields())
			return writeOut(cmd, app, decisionList{Data: decs})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringArrayVar(&statuses, "status", nil, "Keep decisions in any of these statuses (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search")
	return cmd
}

func newDecisionsCreateCmd(app *App) *cobra.Command {
	var draft api.DecisionDraft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			dec, err := c.CreateDecision(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": dec})
		},
	}
	cmd.Flags().StringVar(&draft.ProjectID, "project", "", "Project id")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Decision title")
	cmd.Flags().StringVar(&draft.Rationale, "rationale", "", "Why this was decided")
	cmd.Flags().StringVar(&draft.Status, "status", "", "Status (Proposed|Accepted|Superseded|Rejected)")
	return cmd
}

type testRunList struct {
	Data []model.TestRun `json:"data"`
}

func (l testRunList) TableHeader() []string {
	return []string{"ID", "NAME", "OUTCOME", "PASS", "FAIL", "SKIP", "EXECUTED"}
}

func (l testRunList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, r := range l.Data {
		executed := ""
		if !r.ExecutedAt.IsZero() {
			executed = r.ExecutedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			r.ID, r.Name, r.Outcome,
			strconv.Itoa(r.Passed), strconv.Itoa(r.Failed), strconv.Itoa(r.Skipped),
			executed,
		})
	}
	return rows
}

func newTestRunsCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "testruns",
		Short: "Test run commands",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List test runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			runs, err := c.TestRuns(cmd.Context(), projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, testRunList{Data: runs})
		},
	}
	list.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.AddCommand(list)
	return cmd
}

type auditList struct {
	Data []model.AuditEvent `json:"data"`
}

func (l auditList) TableHeader() []string {
	return []string{"AT", "ACTOR", "ACTION", "FIELD", "OLD", "NEW"}
}

func (l auditList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, ev := range l.Data {
		rows = append(rows, []string{
			ev.At.Format("2006-01-02 15:04:05"),
			ev.ActorID, ev.Action, ev.Field, ev.OldValue, ev.NewValue,
		})
	}
	return rows
}

func newAuditCmd(app *App) *cobra.Command {
	var entityID string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit history commands",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the change history of one entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			events, err := c.AuditTrail(cmd.Context(), entityID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, auditList{Data: events})
		},
	}
	list.Flags().StringVar(&entityID, "entity", "", "Entity id")
	_ = list.MarkFlagRequired("entity")
	cmd.AddCommand(list)
	return cmd
}

type chatHistory struct {
	Data []model.ChatMessage `json:"data"`
}

func (l chatHistory) TableHeader() []string {
	return []string{"AT", "AUTHOR", "MESSAGE"}
}

func (l chatHistory) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, m := range l.Data {
		rows = append(rows, []string{m.SentAt.Format("15:04"), m.Author, m.Body})
	}
	return rows
}

func newChatCmd(app *App) *cobra.Command {
	var (
		channel string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat commands",
	}
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recent chat messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			msgs, err := c.ChatHistory(cmd.Context(), channel, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, chatHistory{Data: msgs})
		},
	}
	history.Flags().StringVar(&channel, "channel", "", "Channel id")
	history.Flags().IntVar(&limit, "limit", 50, "Max messages")
	_ = history.MarkFlagRequired("channel")
	cmd.AddCommand(history)
	return cmd
}
