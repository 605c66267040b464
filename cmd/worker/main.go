package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/seed-engine/internal/config"
	"github.com/jwebster45206/seed-engine/internal/logger"
	"github.com/jwebster45206/seed-engine/internal/services/events"
	"github.com/jwebster45206/seed-engine/internal/services/queue"
	"github.com/jwebster45206/seed-engine/internal/storage"
	"github.com/jwebster45206/seed-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Seed Engine Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL,
		"max_attempts", cfg.MaxAttempts)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer startupCancel()

	queueClient, err := queue.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()

	generateQueue := queue.NewGenerateQueue(queueClient)
	log.Info("Queue service initialized successfully")

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.SeedTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	if err := store.WaitForConnection(startupCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	broadcaster := events.NewBroadcaster(queueClient.Redis(), log)

	processor := worker.NewProcessor(store, broadcaster, cfg.MaxAttempts, log)
	w := worker.New(generateQueue, processor, log, os.Getenv("WORKER_ID"))

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker stopped with error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Worker is shutting down...")
	w.Stop()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Worker exited")
}
