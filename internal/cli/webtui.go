package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"curio-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebtuiCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the Curio TUI in your browser (PTY + WebSocket, experimental)",
		Long: strings.TrimSpace(`
Run the interactive TUI over the web via a server-side PTY and a browser
terminal emulator.

Notes:
- Experimental demo mode (no auth).
- Each browser tab starts a TUI subprocess on the server.
`),
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
curio webtui --addr 127.0.0.1:4736

# Serve a registered workspace
curio --workspace inventory webtui --addr :4736
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:      strings.TrimSpace(addr),
				Dir:       s.Root,
				Workspace: strings.TrimSpace(app.Workspace),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"root":      s.Root,
					"workspace": strings.TrimSpace(app.Workspace),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"meta": map[string]any{
					"hints": []string{"open http://" + listenAddr},
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Curio webtui running at http://%s (root=%s)\n", listenAddr, s.Root)
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4736", "Bind address (host:port or :port)")
	return cmd
}
