// Package server wires the search engine behind an HTTP API.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (CORS, rate limiting, recovery, metrics)
//   - Fetch client with circuit breakers and outbound rate limiting
//   - Extraction strategy registry and the result cache
//   - Search orchestration across catalog categories
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Load the source catalog (TOML or YAML)
//  4. Build fetch client, strategies, cache, orchestrator
//  5. Setup HTTP routes and middleware
//  6. Start HTTP server
//  7. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg, "sources.toml")
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
