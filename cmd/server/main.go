// Server relays event records posted to /v1/track into FPTI beacons.
// Set HTTP_ADDR and the FPTI_* identity keys; KAFKA_BROKERS, LOKI_URL and OTEL_EXPORTER_OTLP_ENDPOINT enable mirror sinks.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopping-fpti/internal/app"
	"shopping-fpti/internal/config"
	"shopping-fpti/internal/telemetry"
	"shopping-fpti/internal/telemetry/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("app: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.LogRequests(handler.NewServer(a.Client, a.Registry).Handler(), map[string]bool{"/healthz": true, "/metrics": true}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), max(telemetry.ShutdownDrainDuration, cfg.BeaconTimeout())+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := a.Close(ctx); err != nil {
		log.Printf("close: %v", err)
	}
	log.Println("HTTP server stopped")
}
