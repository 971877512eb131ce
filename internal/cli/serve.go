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

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/httpapi"
	"github.com/roach88/storefront/internal/session"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown.
const shutdownTimeout = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront JSON API",
		Long: `Serve the storefront over HTTP.

All requests are applied in order by a single session loop. Search input
posted to /api/search-input is debounced before it filters the catalog.

Examples:
  storefront serve
  storefront serve --addr :9090 --config storefront.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(cmd.ErrOrStderr(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}
	return serve(ctx, opts.RootOptions, ln, cmd)
}

// serve runs the API on ln until ctx is cancelled. It owns ln.
func serve(ctx context.Context, opts *RootOptions, ln net.Listener, cmd *cobra.Command) error {
	return withApp(ctx, opts, func(a *app) error {
		loop := session.NewLoop(a.openSession(ctx), a.cfg.SearchDebounce, session.WithObserver(
			func(c session.Command, _ session.Result, err error) {
				if err != nil {
					a.logger.Debug("command rejected", "intent", c.Intent, "error", err)
				}
			}))

		loopDone := make(chan error, 1)
		go func() { loopDone <- loop.Run(ctx) }()

		srv := &http.Server{
			Handler:           httpapi.NewRouter(httpapi.NewHandler(loop, a.logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}
		serveErr := make(chan error, 1)
		go func() { serveErr <- srv.Serve(ln) }()

		a.logger.Info("storefront listening", "addr", ln.Addr().String(), "products", a.products.Name())
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", ln.Addr())

		var runErr error
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if !errors.Is(err, http.ErrServerClosed) {
				runErr = WrapExitError(ExitCommandError, "server failed", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("server shutdown incomplete", "error", err)
		}

		loop.Stop()
		if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("session loop stopped with error", "error", err)
		}
		return runErr
	})
}
