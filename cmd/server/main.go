package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wordjourney/internal/api"
	"github.com/vytor/wordjourney/internal/config"
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/db"
	"github.com/vytor/wordjourney/internal/events"
	"github.com/vytor/wordjourney/internal/jobs"
	"github.com/vytor/wordjourney/internal/journey"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/repository/sqlite"
	"github.com/vytor/wordjourney/internal/services"
	"github.com/vytor/wordjourney/internal/worker"
)

const (
	recentEvents  = 1000
	sweepInterval = time.Minute
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("WordJourney Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("event_worker_count=%d", cfg.EventWorkerCount)
	log.Debug("event_queue_size=%d", cfg.EventQueueSize)
	log.Debug("record_worker_count=%d", cfg.RecordWorkerCount)
	log.Debug("record_queue_size=%d", cfg.RecordQueueSize)
	log.Debug("amqp_enabled=%t", cfg.AMQPURL != "")
	log.Debug("delays: success=%s, reveal=%s, acknowledge=%s", cfg.SuccessDelay, cfg.RevealDelay, cfg.AcknowledgeDelay)
	log.Debug("idle_timeout=%s", cfg.IdleTimeout)

	cat, err := content.Load()
	if err != nil {
		log.Error("failed to load content: %v", err)
		os.Exit(1)
	}
	log.Info("content loaded: %d frameworks, %d words", len(cat.Frameworks()), len(cat.Words()))

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	eventRepo := sqlite.NewEventRepository(database.DB)
	journeyRepo := sqlite.NewJourneyRepository(database.DB)
	feedbackRepo := sqlite.NewFeedbackRepository(database.DB)

	// Events go to RabbitMQ when configured and fall back to the local table.
	store := events.NewFallback()
	var amqpStore *events.AMQPStore
	if cfg.AMQPURL != "" {
		amqpStore, err = events.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			log.Warn("RabbitMQ unavailable, events stay local: %v", err)
		} else {
			store.Then("amqp", events.NewResilient("amqp", amqpStore, events.DefaultResilientConfig()))
		}
	}
	store.Then("sqlite", eventRepo)

	// Initialize worker pools
	eventPool := worker.NewPool("events", cfg.EventWorkerCount, cfg.EventQueueSize)
	recordPool := worker.NewPool("records", cfg.RecordWorkerCount, cfg.RecordQueueSize)
	queue := jobs.NewWorkerQueue(eventPool, recordPool, store, journeyRepo)

	ctx, cancel := context.WithCancel(context.Background())
	eventPool.Start(ctx)
	recordPool.Start(ctx)

	// Initialize services
	sink := events.Tee(events.NewMemory(recentEvents), events.NewAsync(queue))
	journeyService := services.NewJourneyService(cat, sink, queue, services.JourneyConfig{
		Delays: journey.Delays{
			Success:     cfg.SuccessDelay,
			Reveal:      cfg.RevealDelay,
			Acknowledge: cfg.AcknowledgeDelay,
		},
		IdleTimeout: cfg.IdleTimeout,
	})
	statsService := services.NewStatsService(cat, eventRepo, journeyRepo)
	feedbackService := services.NewFeedbackService(cat, feedbackRepo)

	go journeyService.RunSweeper(ctx, sweepInterval)

	srv := &api.Server{
		Catalogue:       cat,
		JourneyService:  journeyService,
		StatsService:    statsService,
		FeedbackService: feedbackService,
		Ready:           database.Ready,
		SecureCookies:   cfg.SecureCookies,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Closing live journeys emits their last events, so the pools stop after.
	log.Debug("closing live journeys")
	journeyService.Shutdown(shutdownCtx)

	log.Debug("stopping event pool")
	eventPool.Stop()
	log.Debug("stopping record pool")
	recordPool.Stop()
	cancel()

	if amqpStore != nil {
		if err := amqpStore.Close(); err != nil {
			log.Warn("closing RabbitMQ connection: %v", err)
		}
	}

	log.Info("===========================================")
	log.Info("WordJourney Server Stopped")
	log.Info("===========================================")
}
