package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/actai/internal/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Issuer == nil {
				return fmt.Errorf("serve requires a JWT secret (set ACTAI_JWT_SECRET)")
			}
			if addr == "" {
				addr = app.Server.Addr
			}

			srv := api.NewServer(api.Deps{
				Planner:         app.Planner,
				Plans:           app.Plans,
				Tasks:           app.Tasks,
				Checkins:        app.Checkins,
				Issuer:          app.Issuer,
				Logger:          app.Logger,
				AllowedOrigins:  app.Server.AllowedOrigins,
				GenerateTimeout: app.Server.GenerateTimeout(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, app.logger(), &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr from config)")
	return cmd
}

// serve runs hs until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, logger *zap.Logger, hs *http.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http_listen", zap.String("addr", hs.Addr))
		if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logger.Info("http_shutdown")
		return hs.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
