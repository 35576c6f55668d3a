package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	Long:  "Serve the quit-plan JSON API over HTTP until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := wire.Config()
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set to serve the API")
		}

		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = c.Port
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           wire.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server listening", "addr", srv.Addr, "env", c.AppEnv)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	serveCmd.Flags().String("port", "", "Port to listen on (default from PORT)")
	return serveCmd
}
