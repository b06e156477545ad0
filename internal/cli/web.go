package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var authToken string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve a read-only live board in the browser",
		Long: strings.TrimSpace(`
Serve a server-rendered hierarchy board over HTTP. Selections made in the
browser cascade exactly like the TUI: picking a client loads its programs,
and so on down to subtasks. Updates stream over SSE; no page reloads.
`),
		Example: strings.TrimSpace(`
# Serve the board on localhost
worktrack web --addr 127.0.0.1:4280

# Require a shared token (?auth=... on first visit)
worktrack web --addr :4280 --auth-token s3cret
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			f, done, err := app.fetcher(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			srv := web.NewServer(web.ServerConfig{
				AuthToken: authToken,
			}, f, app.log)

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"
			fmt.Fprintf(cmd.ErrOrStderr(), "worktrack web running at %s\n", url)
			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4280", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "Require this shared token for access")
	return cmd
}
