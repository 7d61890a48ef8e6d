package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MacMoment/ac/internal/bootstrap"
	"github.com/MacMoment/ac/internal/commands"
	"github.com/MacMoment/ac/internal/logging"
)

func main() {
	fmt.Println("Starting anti-cheat detection engine")

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	b := bootstrap.New(configPath)
	if err := b.Initialize(nil, nil); err != nil {
		panic(err)
	}

	if err := b.Start(); err != nil {
		panic(err)
	}

	go serveAdminHTTP(b)

	logging.Info("engine started, admin surface on :8090")
	waitForShutdown()

	if err := b.Shutdown(); err != nil {
		logging.Warn("shutdown error: %v", err)
	}
	logging.Info("shutdown complete")
}

func serveAdminHTTP(b *bootstrap.Bootstrap) {
	mux := http.NewServeMux()
	mux.Handle("/", commands.Router(b.Components.AdminHandler))
	mux.Handle("/metrics", b.Components.Metrics.Handler())

	server := &http.Server{
		Addr:         ":8090",
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Warn("admin HTTP server exited: %v", err)
	}
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("shutdown signal received")
}
