package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RafalekS/MCP-Search/internal/infrastructure/config"
	"github.com/RafalekS/MCP-Search/internal/server"
)

func main() {
	catalogPath := flag.String("config", "sources.toml", "Source catalog file (.toml or .yaml)")
	port := flag.String("port", "", "HTTP port (overrides PORT)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}

	srv, err := server.New(cfg, *catalogPath)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
