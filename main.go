package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"

	"glasscockpit/internal/config"
	"glasscockpit/internal/log"
	"glasscockpit/internal/metrics"
)

func main() {
	// Command line flags
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := log.New(cfg.LogLevel, cfg.LogDir)
	logger.Info("Glass Cockpit",
		"window", fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight),
		"fullscreen", cfg.Fullscreen,
		"log_file", logger.LogFile)

	collector, err := metrics.NewFrameCollector(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}
	srv := serveMetrics(cfg.MetricsAddr, collector, logger)

	// Initialize components
	app, err := NewApp(cfg, logger, collector)
	if err != nil {
		logger.Error("Failed to build panel", "error", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Shutting down...", "signal", sig.String())
		app.Shutdown()
		shutdown(srv, logger)
		os.Exit(0)
	}()

	// Run the application
	if err := app.Run(); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("Application error", "error", err)
		app.Shutdown()
		shutdown(srv, logger)
		os.Exit(1)
	}
	app.Shutdown()
	shutdown(srv, logger)
}

// serveMetrics starts the Prometheus endpoint when addr is set
func serveMetrics(addr string, collector *metrics.FrameCollector, logger *log.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdown(srv *http.Server, logger *log.Logger) {
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Metrics server shutdown", "error", err)
		}
	}
	logger.Info("Goodbye", "uptime", time.Since(logger.Start).Round(time.Second).String())
	_ = logger.Close()
}
