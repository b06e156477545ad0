package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Profile and config commands",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigUseCmd(app))
	cmd.AddCommand(newConfigSetProfileCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Never echo the token itself.
			masked := ""
			if app.res.Token != "" {
				masked = "(set)"
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"profile":       app.res.ProfileName,
				"apiUrl":        app.res.APIURL,
				"token":         masked,
				"defaultClient": app.res.DefaultClient,
				"profiles":      app.cfg.ProfileNames(),
			}})
		},
	}
}

func newConfigUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := app.cfg.Profiles[name]; !ok {
				return writeErr(cmd, fmt.Errorf("unknown profile: %q", name))
			}
			app.cfg.CurrentProfile = name
			if err := app.cfg.Save(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"currentProfile": name}})
		},
	}
}

func newConfigSetProfileCmd(app *App) *cobra.Command {
	var (
		name          string
		apiURL        string
		token         string
		defaultClient string
		use           bool
	)

	cmd := &cobra.Command{
		Use:   "set-profile",
		Short: "Create or update a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Profiles == nil {
				app.cfg.Profiles = map[string]config.Profile{}
			}
			p := app.cfg.Profiles[name]
			if apiURL != "" {
				p.APIURL = apiURL
			}
			if token != "" {
				p.Token = token
			}
			if defaultClient != "" {
				p.DefaultClient = defaultClient
			}
			app.cfg.Profiles[name] = p
			if use {
				app.cfg.CurrentProfile = name
			}
			if err := app.cfg.Save(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"profile": name}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	cmd.Flags().StringVar(&apiURL, "url", "", "Base URL of the tracking API")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&defaultClient, "default-client", "", "Client preselected when the TUI opens")
	cmd.Flags().BoolVar(&use, "use", false, "Also switch to this profile")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
