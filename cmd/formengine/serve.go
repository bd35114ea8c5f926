package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/logging"
	"github.com/goliatone/go-formengine/internal/server"
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	ff := registerFormFlags(fs)
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ff.resolve()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		logger.Error("failed to load descriptor document", zap.String("spec", cfg.Form.SpecPath), zap.Error(err))
		return err
	}
	opts, err := formOptions(cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := server.New(doc,
		server.WithLogger(logger),
		server.WithRegistry(registry),
		server.WithBasePath(cfg.Server.BasePath),
		server.WithTitle(cfg.Form.Title),
		server.WithSessionTTL(cfg.Server.SessionTTL),
		server.WithFormOptions(opts...),
	)
	if err != nil {
		return err
	}
	defer srv.Close()

	sweepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.Sessions().Run(sweepCtx, cfg.Server.SessionTTL/2)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			zap.String("addr", httpServer.Addr),
			zap.String("spec", cfg.Form.SpecPath),
			zap.Int("fields", doc.Len()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("formengine stopped")
	return nil
}
