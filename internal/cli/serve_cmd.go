package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/arbor/internal/server"
	"github.com/alexanderramin/arbor/internal/telemetry"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", app.Config.HTTP.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", app.Config.HTTP.Addr, err)
			}
			return app.serve(ctx, ln)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")

	return cmd
}

// serve runs the API on ln until ctx is done, then drains in-flight
// requests and flushes telemetry.
func (a *App) serve(ctx context.Context, ln net.Listener) error {
	providers, err := telemetry.Init(ctx, a.Config.Telemetry, telemetry.Options{})
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler: server.New(server.Config{
			Projects:  a.Projects,
			Tasks:     a.Tasks,
			Reports:   a.Reports,
			Imports:   a.Imports,
			BasePath:  a.Config.HTTP.BasePath,
			JWTSecret: a.Config.HTTP.JWTSecret,
			Logger:    a.Logger,
			Metrics:   providers.MetricsHandler(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("api listening",
			"addr", ln.Addr().String(),
			"base_path", a.Config.HTTP.BasePath,
			"auth", a.Config.HTTP.JWTSecret != "",
		)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		a.Logger.Info("api shutting down")
		return errors.Join(srv.Shutdown(shutdownCtx), providers.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
