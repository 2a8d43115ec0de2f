package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/phambaophuc/image-transform/internal/http/handlers"
	"github.com/phambaophuc/image-transform/internal/http/routes"
	"github.com/phambaophuc/image-transform/internal/presets"
	"github.com/phambaophuc/image-transform/internal/services/pipeline"
	"github.com/phambaophuc/image-transform/internal/services/processor"
	"github.com/phambaophuc/image-transform/internal/services/queue"
	"github.com/phambaophuc/image-transform/internal/services/storage"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	imageProcessor := processor.NewImageProcessor(processor.Options{
		AutoOrient:  cfg.Pipeline.AutoOrient,
		MaxFileSize: cfg.Storage.MaxFileSize,
	})

	pipe := pipeline.New(imageProcessor, logger, pipeline.Options{
		RemoveMetadata:  cfg.Pipeline.RemoveMetadata,
		Progressive:     cfg.Pipeline.Progressive,
		ProcessOriginal: cfg.Pipeline.ProcessOriginal,
		DefaultQuality:  cfg.Pipeline.DefaultQuality,
		Workers:         cfg.Pipeline.Workers,
	})

	presetStore := loadPresets(ctx, cfg.Presets, logger)

	storageService, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Warn("Failed to initialize storage service", zap.Error(err))
		storageService = nil
	} else {
		defer storageService.Close()
	}

	// Continue without queue service for basic functionality
	var queueService *queue.QueueService
	if storageService != nil {
		queueService, err = queue.NewQueueService(cfg.RabbitMQ, pipe, storageService, cfg.Storage.MaxFileSize, logger)
		if err != nil {
			logger.Warn("Failed to initialize queue service", zap.Error(err))
			queueService = nil
		} else {
			defer queueService.Close()
			startWorkers(ctx, queueService, cfg.RabbitMQ.Workers, logger)
		}
	}

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(pipe, storageService, queueService, presetStore, logger, cfg)

	router := routes.NewRouter(imageHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func loadPresets(ctx context.Context, cfg config.PresetsConfig, logger *zap.Logger) *presets.Store {
	if cfg.File == "" {
		return presets.NewStore()
	}

	store, err := presets.Load(cfg.File)
	if err != nil {
		logger.Warn("Failed to load presets", zap.String("file", cfg.File), zap.Error(err))
		return presets.NewStore()
	}
	logger.Info("Presets loaded", zap.Strings("names", store.Names()))

	if cfg.Watch {
		if err := store.Watch(ctx, logger); err != nil {
			logger.Warn("Failed to watch presets file", zap.Error(err))
		}
	}
	return store
}

func startWorkers(ctx context.Context, q *queue.QueueService, n int, logger *zap.Logger) {
	if n <= 0 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		if err := q.StartWorker(ctx, i); err != nil {
			logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
		}
	}
}
