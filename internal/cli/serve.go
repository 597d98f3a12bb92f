package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/agenthands/ppimap/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve provenance records and run reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port, _ := cmd.Flags().GetInt("port")
			if port == 0 {
				port = app.Config.Server.Port
			}
			gin.SetMode(app.Config.Server.GinMode)

			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           server.NewServer(app.Config, st, app.Logger).SetupRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return app.listen(cmd.Context(), srv)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "listen port (default from config or PORT)")
	return cmd
}

// listen serves until ctx is cancelled, then shuts srv down gracefully.
func (a *App) listen(ctx context.Context, srv *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.Logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}
