package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orderstream/notifier/internal/config"
	"github.com/orderstream/notifier/internal/consumer"
	"github.com/orderstream/notifier/internal/db"
	"github.com/orderstream/notifier/internal/dedup"
	mw "github.com/orderstream/notifier/internal/middleware"
	"github.com/orderstream/notifier/internal/stream"
	"github.com/orderstream/notifier/internal/ws"
)

func main() {
	cfg := config.Load()

	// Database
	ctx := context.Background()
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("WARNING: database connection failed: %v (continuing without DB)", err)
		} else {
			defer database.Close()
			if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				log.Printf("WARNING: migrations failed: %v", err)
			}
			pool = database.Pool
		}
	}

	// Idempotency store (Redis, then Postgres, then in-memory)
	store, err := dedup.NewStore(cfg, pool)
	if err != nil {
		log.Fatalf("Failed to create idempotency store: %v", err)
	}
	defer store.Close()
	guard := dedup.NewGuard(store)

	// Session hub
	hub := ws.NewHub()

	// Event stream (Kafka when brokers are configured, in-memory otherwise)
	source, err := stream.NewSource(cfg)
	if err != nil {
		log.Fatalf("Failed to create event source: %v", err)
	}

	// Consumer: one worker per partition
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	cons := consumer.New(source, guard, hub)
	if err := cons.Start(consumerCtx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	// Router
	r := mux.NewRouter()
	r.Use(mw.RateLimitMiddleware(100, 200))
	r.HandleFunc("/healthz", healthzHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	wsHandler := ws.NewHandler(hub, cfg.SessionQueueSize)
	wsHandler.RegisterRoutes(r)

	// HTTP Server — CORS wraps the entire router so OPTIONS preflight
	// requests are handled before mux routing (which would 404 on OPTIONS).
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        corsMiddleware(r),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("Starting server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	// Drain the pipeline before dropping sessions: stop fetching, wait for
	// in-flight records, then close every session queue.
	stopConsumer()
	if err := source.Close(); err != nil {
		log.Printf("WARNING: event source close failed: %v", err)
	}
	cons.Wait()
	hub.Shutdown()

	log.Println("Server stopped")
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	origins := make(map[string]bool)
	for _, o := range strings.Split(allowedOrigins, ",") {
		origins[strings.TrimSpace(o)] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(origins) == 1 {
			// Single origin mode: always set it (for dev convenience)
			for o := range origins {
				w.Header().Set("Access-Control-Allow-Origin", o)
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
