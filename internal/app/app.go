// Package app wires configuration into the showcase pipeline. Both the HTTP
// server and showcasectl build their services here.
package app

import (
	"fmt"

	"github.com/phambaophuc/showcase/internal/config"
	"github.com/phambaophuc/showcase/internal/services/dataurl"
	"github.com/phambaophuc/showcase/internal/services/events"
	"github.com/phambaophuc/showcase/internal/services/processor"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"github.com/phambaophuc/showcase/internal/services/storage"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Store    *storage.RecordStore
	Queue    *events.QueueService // nil when RABBITMQ_URL is unset or unreachable
	Showcase *showcase.Service
	logger   *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	namespace, err := storage.NewNamespace(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	store := storage.NewRecordStore(namespace, cfg.Store.Backend, cfg.Store.ProbeBytes, logger)

	queue := connectQueue(cfg, logger)

	opts := []showcase.Option{}
	if queue != nil {
		opts = append(opts, showcase.WithPublisher(queue))
	}

	validator := processor.NewValidator(cfg.Image.MaxFileSize, cfg.Image.AllowedTypes)
	transcoder := processor.NewImageProcessor(processor.WithMaxPixels(cfg.Image.MaxPixels))
	encoder := dataurl.NewEncoder(cfg.Image.EncodeTimeout)

	svc := showcase.NewService(
		validator,
		transcoder,
		encoder,
		store,
		showcase.Policy{
			MaxDimension: cfg.Image.MaxDimension,
			Quality:      cfg.Image.Quality,
			ExportDelay:  cfg.Export.StaggerDelay,
		},
		logger,
		opts...,
	)

	logger.Info("Showcase pipeline ready",
		zap.String("store_backend", cfg.Store.Backend),
		zap.Int64("quota_bytes", cfg.Store.QuotaBytes),
		zap.Int64("max_file_size", validator.MaxSize()),
		zap.Int64("max_pixels", transcoder.MaxPixels()),
		zap.Duration("encode_timeout", encoder.Timeout()),
		zap.Bool("events", queue != nil))

	return &App{
		Config:   cfg,
		Store:    store,
		Queue:    queue,
		Showcase: svc,
		logger:   logger,
	}, nil
}

// connectQueue returns nil when events are disabled. A broker that cannot be
// reached only costs the events, never the service.
func connectQueue(cfg *config.Config, logger *zap.Logger) *events.QueueService {
	if cfg.RabbitMQ.URL == "" {
		return nil
	}

	queue, err := events.NewQueueService(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
		return nil
	}
	return queue
}

func (a *App) Close() error {
	if err := a.Queue.Close(); err != nil {
		a.logger.Warn("Failed to close queue", zap.Error(err))
	}
	return a.Store.Close()
}
