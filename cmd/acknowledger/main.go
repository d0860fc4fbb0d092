package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"order_acknowledgement_service/internal/app"
	"order_acknowledgement_service/internal/infra/clock"
	"order_acknowledgement_service/internal/infra/config"
	idb "order_acknowledgement_service/internal/infra/database"
	"order_acknowledgement_service/internal/infra/email"
	"order_acknowledgement_service/internal/infra/httpapi"
	"order_acknowledgement_service/internal/infra/logger"
	"order_acknowledgement_service/internal/infra/pdf"
	"order_acknowledgement_service/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	orderRepo := idb.NewPostgresOrderRepository(db)
	historyRepo := idb.NewPostgresHistoryRepository(db)
	scheduleRepo := idb.NewPostgresScheduleRepository(db)
	log.Info("Repositories initialized.")

	// Initialize collaborators
	utcClock := clock.NewUTCClock()
	renderer := pdf.NewAcknowledgementRenderer()
	sender := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, log)

	// Initialize Acknowledger and Poller
	acknowledger := app.NewAcknowledger(orderRepo, renderer, sender, historyRepo, scheduleRepo, utcClock, log, cfg.EmailSubjectFmt)
	poller := app.NewSchedulePoller(scheduleRepo, acknowledger, utcClock, log)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	// Initialize History Retention Scheduler
	retention := scheduler.NewRetentionScheduler(historyRepo, log, cfg.CronSpecHistoryPurge, cfg.HistoryRetentionDays)
	if err := retention.Start(); err != nil {
		log.Fatalf("FATAL: Could not start history retention scheduler: %v", err)
	}

	// Initialize HTTP API
	handler := httpapi.NewHandler(historyRepo, scheduleRepo, acknowledger, utcClock, log)
	router := httpapi.NewRouter(handler, cfg.Environment)
	server := &http.Server{Addr: cfg.HTTPListenAddr, Handler: router}
	go func() {
		log.Infof("HTTP API listening on %s", cfg.HTTPListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	log.Info("Application setup complete. Poller and HTTP API are running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	// Stop the poller: interrupts its sleep immediately; a run already
	// underway finishes before Run returns.
	stopPoller()
	wg.Wait()

	retention.Stop()
	log.Info("Application shut down gracefully.")
}
