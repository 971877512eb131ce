package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/config"
	"github.com/roach88/storefront/internal/session"
	"github.com/roach88/storefront/internal/store"
)

// app is the wired storefront for one CLI invocation.
//
// The cart always lives in the local SQLite store. Products go through the
// Fallback strategy: the configured remote when reachable, local otherwise.
type app struct {
	cfg       config.Config
	local     *store.Store
	products  *store.Fallback
	inventory *catalog.Inventory
	source    *catalog.Source
	logger    *slog.Logger

	closeRemote func(context.Context) error
}

func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	logger := slog.Default()

	local, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	logger.Debug("database ready", "path", cfg.Database)

	remote, closeRemote, err := store.DialRemote(ctx, cfg.RemoteOptions())
	if err != nil {
		logger.Warn("remote store unavailable, using local only", "driver", cfg.Remote.Driver, "error", err)
		remote = nil
	}

	products := store.NewFallback(remote, local, logger)
	return &app{
		cfg:         cfg,
		local:       local,
		products:    products,
		inventory:   catalog.NewInventory(products, catalog.UUIDv7Generator{}, catalog.SystemClock{}, logger),
		source:      catalog.NewSource(products, cfg.SampleSeed, logger),
		logger:      logger,
		closeRemote: closeRemote,
	}, nil
}

// openSession opens the cart and builds a session over the product source.
func (a *app) openSession(ctx context.Context) *session.Session {
	engine := cart.Open(ctx, store.NewList[cart.LineItem](a.local, a.logger), cart.WithLogger(a.logger))
	return session.New(ctx, engine, a.source, session.Config{
		PageSize: a.cfg.PageSize,
		Locale:   a.cfg.LocaleTag(),
		Checkout: a.cfg.Checkout,
		Logger:   a.logger,
	})
}

func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.closeRemote != nil {
		if err := a.closeRemote(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close remote: %w", err))
		}
	}
	if err := a.local.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, opts *RootOptions, fn func(a *app) error) error {
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			a.logger.Error("error closing storefront", "error", err)
		}
	}()
	return fn(a)
}

// dispatchAll applies cmds in order and stops at the first rejection.
func dispatchAll(ctx context.Context, s *session.Session, cmds []session.Command) (session.Result, error) {
	var last session.Result
	for _, c := range cmds {
		res, err := s.Dispatch(ctx, c)
		if err != nil {
			return session.Result{}, err
		}
		last = res
	}
	return last, nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
