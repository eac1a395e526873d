// @title AutoMed Dashboard API
// @version 1.0
// @description API del dashboard del dispensador AutoMed.
// @BasePath /
// @securityDefinitions.basic BasicAuth
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"automed-dashboard/internal/adapters/auth/credentials"
	"automed-dashboard/internal/adapters/storage"
	"automed-dashboard/internal/adapters/storage/docrepo"
	"automed-dashboard/internal/config"
	"automed-dashboard/internal/domain/dashboard"
	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/platform/realtime"
	"automed-dashboard/internal/router"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "automed",
		Short:         "AutoMed dashboard API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func exportHistoryCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-history",
		Short: "Export medication history as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default medication_history_YYYY-MM-DD.csv, - for stdout)")
	return cmd
}

// bootstrap carga config, logger y store; compartido por los subcomandos.
func bootstrap(ctx context.Context) (*config.Config, logger.Logger, storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	for _, w := range cfg.Warnings {
		log.Warn("config fallback", map[string]any{"detail": w})
	}

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	log.Info("store ready", map[string]any{"driver": cfg.StoreDriver})
	return cfg, log, store, nil
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, store, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close store failed", map[string]any{"err": err})
		}
	}()

	dir, err := credentials.NewDirectory(credentials.DefaultUsers(cfg.PatientID), 0)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(log)
	mirror := dashboard.NewMirror(docrepo.NewFeeds(store, cfg.Location), dashboard.Options{
		Location:          cfg.Location,
		CountdownInterval: cfg.CountdownInterval,
		Publisher:         hub,
		Logger:            log,
	})
	if err := mirror.Start(ctx); err != nil {
		return fmt.Errorf("start dashboard mirror: %w", err)
	}
	defer mirror.Stop()

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Config:        cfg,
			Store:         store,
			Authenticator: dir,
			Logger:        log,
			Mirror:        mirror,
			Hub:           hub,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped", nil)
	return nil
}

func runExport(ctx context.Context, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, store, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := history.NewService(docrepo.NewHistoryRepo(store, cfg.Location), cfg.Location)
	data, name, err := svc.ExportCSV(ctx)
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info("history exported", map[string]any{"file": out, "bytes": len(data)})
	return nil
}
