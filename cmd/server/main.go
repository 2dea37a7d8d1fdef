package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/livetagus/fertagus-go/api/handlers"
	"github.com/livetagus/fertagus-go/pkg/livetagus"
)

func main() {
	_ = godotenv.Load()

	defaults := livetagus.DefaultConfig()
	var (
		port           = flag.String("port", envDefault("PORT", "3000"), "Server port")
		baseURL        = flag.String("base-url", os.Getenv("UPSTREAM_BASE_URL"), "Upstream API base URL")
		dataDir        = flag.String("data-dir", envDefault("DATA_DIR", defaults.DataDir), "Schedule data directory")
		updateInterval = flag.Duration("update-interval", defaults.UpdateInterval, "Main cycle cadence")
		futureInterval = flag.Duration("future-interval", defaults.FutureInterval, "Future-status probe cadence")
	)
	flag.Parse()

	cfg := defaults
	cfg.BaseURL = *baseURL
	cfg.DataDir = *dataDir
	cfg.UpdateInterval = *updateInterval
	cfg.FutureInterval = *futureInterval

	client, err := livetagus.NewLocal(cfg)
	if err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	defer client.Close()

	r := mux.NewRouter()
	h := handlers.NewHandler(client)
	h.RegisterRoutes(r)
	r.Handle("/metrics", client.MetricsHandler()).Methods("GET")

	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", *port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
