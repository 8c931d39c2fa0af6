package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/customer-analytics/internal/api"
	"github.com/example/customer-analytics/internal/config"
	"github.com/example/customer-analytics/internal/infrastructure/store"
	"github.com/example/customer-analytics/internal/query"
	"github.com/example/customer-analytics/internal/ranking"
	"github.com/example/customer-analytics/internal/segmentation"
)

func main() {
	cfg := config.Load()

	log.Println("[API] ========================================")
	log.Println("[API] Customer Analytics - Lookup Service")
	log.Println("[API] ========================================")
	log.Printf("[API] Store driver: %s", cfg.Store.Driver)

	db, err := store.Connect(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("[API] Failed to connect to record store: %v", err)
	}
	defer db.Close()
	log.Println("[API] Connected to record store")

	recordStore := store.NewSQLRecordStore(db)

	params := query.DefaultParams()
	params.RevenueThreshold = cfg.Metrics.RevenueThreshold
	metrics := query.NewHandler(recordStore, params)

	ranker := ranking.NewRanker(ranking.Weights{
		Frequency: cfg.Ranking.FrequencyWeight,
		Recency:   cfg.Ranking.RecencyWeight,
	})

	handlers := api.NewHandlers(recordStore, metrics, segmentation.ClusterRule{}, ranker, cfg.Ranking.DefaultN)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}
