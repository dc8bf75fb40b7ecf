package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meysamhadeli/wsengine/constants/lipgloss"
	"github.com/meysamhadeli/wsengine/http_server"
	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/mcp_server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a workspace to an orchestrator over MCP or HTTP.",
}

var serveMCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the workspace tools over MCP on stdio.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return err
		}
		return mcp_server.NewWorkspaceMCPServer(ws, deps.Config.Version).Serve()
	},
}

var serveHTTPCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the workspace operations as a JSON HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = deps.Config.HTTPAddr
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		srv := &http.Server{
			Addr:              addr,
			Handler:           http_server.NewRouter(ws, deps.Config.AccessToken),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		fmt.Fprintln(os.Stderr, lipgloss.Info.Render(fmt.Sprintf("Serving %s on http://%s", ws.Root(), addr)))

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("http: shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveMCPCmd.Flags().String("root", "", "Workspace root directory.")

	serveHTTPCmd.Flags().String("root", "", "Workspace root directory.")
	serveHTTPCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8765).")

	serveCmd.AddCommand(serveMCPCmd, serveHTTPCmd)
	rootCmd.AddCommand(serveCmd)
}
