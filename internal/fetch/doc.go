// Package fetch owns the outbound HTTP transport for the engine.
//
// The client layers resty on a retryablehttp transport, adds a global
// rate limiter, and guards each destination host with its own circuit
// breaker. Every request carries the configured User-Agent and a fixed
// per-request timeout; strategies inject bearer tokens per request via
// headers. Failures are classified into the engine's error taxonomy
// (network, status, auth) so callers can decide how to degrade.
package fetch
