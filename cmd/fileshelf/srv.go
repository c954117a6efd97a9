package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fileshelf/internal/app"
	"fileshelf/internal/config"
	"fileshelf/internal/importer"
	"fileshelf/internal/server"
	"fileshelf/internal/watch"
)

const reloadTimeout = 30 * time.Second

func newSrvCmd(cfg *config.Config) *cobra.Command {
	var watchCatalog bool

	cmd := &cobra.Command{
		Use:   "srv",
		Short: "Run the fileshelf API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			if cfg.CatalogPath == "" {
				return fmt.Errorf("catalog path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			policy, ok := importer.PolicyByName(cfg.Import.OrphanPolicy, logger.With("component", "import"))
			if !ok {
				return fmt.Errorf("invalid import.orphan_policy %q (allowed: keep, remove)", cfg.Import.OrphanPolicy)
			}

			a := app.New(app.Options{
				DBPath:       cfg.DBPath,
				CatalogPath:  cfg.CatalogPath,
				IDLength:     cfg.Import.IDLength,
				OrphanPolicy: policy,
				Logger:       slog.Default().With("component", "app"),
			})
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("loading catalog", "path", cfg.CatalogPath, "db", cfg.DBPath)
			if err := a.Bootstrap(ctx); err != nil {
				logger.Error("catalog not loaded; waiting for a snapshot", "error", err)
			}

			if watchCatalog || cfg.Watch.Enabled {
				cw, err := startCatalogWatcher(ctx, a, cfg)
				if err != nil {
					return err
				}
				defer cw.Stop()
			}

			return server.New(addr, a, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().BoolVar(&watchCatalog, "watch", false, "reload the catalog document when it changes on disk")
	return cmd
}

func startCatalogWatcher(ctx context.Context, a *app.App, cfg *config.Config) (*watch.CatalogWatcher, error) {
	logger := slog.Default().With("component", "watch")
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond

	cw, err := watch.NewCatalogWatcher(a.CatalogPath(), debounce, func() {
		reloadCtx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()
		res, applied, err := a.ReloadCatalog(reloadCtx)
		if err != nil {
			logger.Error("catalog reload failed", "error", err)
			return
		}
		if !applied {
			logger.Debug("catalog unchanged")
			return
		}
		logger.Info("catalog reloaded",
			"mutations", res.Mutations(),
			"warnings", len(res.Warnings))
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := cw.Start(); err != nil {
		return nil, err
	}
	logger.Info("watching catalog", "path", cw.Path())
	return cw, nil
}
