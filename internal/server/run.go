package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/store"
)

// Run loads the engine and serves the API until ctx is cancelled, then
// drains in-flight requests.
func Run(ctx context.Context, cfg config.Config) error {
	engine, err := LoadEngine(cfg)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	hub := NewHub()
	go hub.Run(ctx)

	srv := NewServer(engine.Session, engine.Matcher, db, hub)
	workers := cfg.Server.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	srv.WakeWorkers(ctx, workers)

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on: %s", cfg.Server.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
