package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/webtui"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal UI in your browser (PTY + WebSocket, experimental)",
		Long: strings.TrimSpace(`
Run the interactive TUI over the web via a server-side PTY and a browser
terminal emulator.

Notes:
- Experimental; no auth.
- Each browser tab starts a TUI subprocess on the server.
`),
		Example: strings.TrimSpace(`
# Serve the TUI on localhost
worktrack webtui --addr 127.0.0.1:4281

# Serve a specific profile
worktrack --profile work webtui --addr :4281
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:    strings.TrimSpace(addr),
				Profile: app.Profile,
				Offline: app.Offline,
			}, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "worktrack webtui running at http://%s\n", srv.Addr())
			return http.ListenAndServe(srv.Addr(), srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4281", "Bind address (host:port or :port)")
	return cmd
}
