package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hsuehlab/shopline-middleware/internal/archive"
	"github.com/hsuehlab/shopline-middleware/internal/config"
	"github.com/hsuehlab/shopline-middleware/internal/events"
	"github.com/hsuehlab/shopline-middleware/internal/server"
	"github.com/hsuehlab/shopline-middleware/internal/service"
	"github.com/hsuehlab/shopline-middleware/internal/shopline"
	"github.com/hsuehlab/shopline-middleware/internal/store"
	"github.com/hsuehlab/shopline-middleware/internal/store/memory"
	"github.com/hsuehlab/shopline-middleware/internal/store/postgres"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the middleware server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't build an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Pick the event store: Postgres when configured, in-memory otherwise.
		var eventStore store.Store
		if cfg.DatabaseURL != "" {
			pg, err := postgres.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			eventStore = pg
			logger.Info("using postgres store")
		} else {
			eventStore = memory.New()
			logger.Info("using in-memory store (SLMW_DATABASE_URL not set)")
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				eventStore.Close()
				return err
			}
			publisher = pub
			logger.Info("event bus enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("event bus disabled (SLMW_NATS_URL not set)")
		}

		svc := service.New(eventStore, publisher, logger)
		shop := shopline.New(cfg.ShoplineBaseURL)

		srv := server.New(svc, shop, logger, server.Options{
			Environment:    cfg.Environment,
			AuthToken:      cfg.AuthToken,
			AllowedOrigins: cfg.CORSOrigins,
			RateLimit:      cfg.RateLimit,
			RateBurst:      cfg.RateBurst,
			EventsEnabled:  cfg.NATSURL != "",
		})

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.Handler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr, "environment", cfg.Environment)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the archive scheduler if any destinations are configured.
		var scheduler *archive.Scheduler
		if cfg.ArchiveInterval > 0 {
			var dests []archive.Destination

			if cfg.ArchiveS3Bucket != "" {
				s3Dest, err := archive.NewS3Destination(
					context.Background(),
					cfg.ArchiveS3Bucket,
					cfg.ArchiveS3Key,
					cfg.ArchiveS3Region,
					cfg.ArchiveS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 archive destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("archive S3 destination enabled", "bucket", cfg.ArchiveS3Bucket, "key", cfg.ArchiveS3Key)
				}
			}

			if cfg.ArchiveFile != "" {
				dests = append(dests, archive.NewFileDestination(cfg.ArchiveFile))
				logger.Info("archive file destination enabled", "path", cfg.ArchiveFile)
			}

			if len(dests) > 0 {
				scheduler = archive.NewScheduler(eventStore, dests, cfg.ArchiveInterval, logger)
				scheduler.Start()
				logger.Info("archive scheduler started", "interval", cfg.ArchiveInterval)
			}
		}

		logger.Info("middleware server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("archive scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := eventStore.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
