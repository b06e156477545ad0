package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"worktrack-cli/internal/api"
	"worktrack-cli/internal/cache"
	"worktrack-cli/internal/config"
	"worktrack-cli/internal/format"
	"worktrack-cli/internal/tui"
)

type App struct {
	APIURL     string
	Token      string
	Profile    string
	Offline    bool
	Verbose    bool
	PrettyJSON bool
	Format     string

	cfg *config.File
	res config.Resolved
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "worktrack",
		Short:        "Terminal front-end for the worktrack API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  worktrack

  # Scriptable commands
  worktrack clients list
  worktrack bugs list --project pr-12 --status Open --status New --search login

  # Walk the whole hierarchy under one client
  worktrack tree --client cl-7
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Base URL of the tracking API (overrides profile)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", "", "Bearer token (overrides profile and WORKTRACK_TOKEN)")
	cmd.PersistentFlags().StringVar(&app.Profile, "profile", "", "Config profile name (default: currentProfile in config.json)")
	cmd.PersistentFlags().BoolVar(&app.Offline, "offline", false, "Serve lists from the local cache only")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log API traffic to stderr")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("WORKTRACK_FORMAT", "json"), "Output format (json|table)")

	for _, level := range hierarchyLevels() {
		cmd.AddCommand(newLevelCmd(app, level))
	}
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newBugsCmd(app))
	cmd.AddCommand(newDecisionsCmd(app))
	cmd.AddCommand(newTestRunsCmd(app))
	cmd.AddCommand(newAuditCmd(app))
	cmd.AddCommand(newChatCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves config and builds the logger. Called once per invocation.
func (a *App) setup() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	res, err := config.Resolve(cfg, config.Flags{
		APIURL:  a.APIURL,
		Token:   a.Token,
		Profile: a.Profile,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.res = res

	if a.Verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.log = log
	} else {
		a.log = zap.NewNop()
	}
	return nil
}

// apiClient builds the REST client. Commands that need the network get an
// actionable error when no API URL is configured.
func (a *App) apiClient() (*api.Client, error) {
	if a.res.APIURL == "" && !a.Offline {
		return nil, fmt.Errorf("no API URL configured; run `worktrack config set-profile` or pass --api-url")
	}
	return api.New(a.res.APIURL, a.res.Token, a.log), nil
}

// fetcher layers the local cache over the API client. The returned func
// closes the cache.
func (a *App) fetcher(ctx context.Context) (*cache.FallbackFetcher, func(), error) {
	c, err := a.apiClient()
	if err != nil {
		return nil, nil, err
	}
	path, err := cache.DefaultPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := cache.Open(ctx, path)
	if err != nil {
		if a.Offline {
			return nil, nil, fmt.Errorf("offline mode needs the local cache: %w", err)
		}
		// The cache is an optimization; run without it rather than fail.
		a.log.Warn("cache unavailable", zap.Error(err))
		return &cache.FallbackFetcher{API: c, Log: a.log}, func() {}, nil
	}
	return &cache.FallbackFetcher{API: c, Cache: db, Offline: a.Offline, Log: a.log},
		func() { _ = db.Close() }, nil
}

func runTUI(app *App) error {
	ctx := context.Background()
	f, done, err := app.fetcher(ctx)
	if err != nil {
		return err
	}
	defer done()
	c, err := app.apiClient()
	if err != nil {
		return err
	}
	return tui.Run(tui.Deps{
		Fetcher:       f,
		API:           c,
		Log:           app.log,
		APIURL:        app.res.APIURL,
		Token:         app.res.Token,
		DefaultClient: app.res.DefaultClient,
		Glyphs:        app.res.TUI.Glyphs,
		ChatChannel:   app.res.TUI.ChatChannel,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}
