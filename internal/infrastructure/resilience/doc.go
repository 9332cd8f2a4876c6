// Package resilience provides a circuit breaker for outbound fetches.
//
// The engine talks to many third-party sites of varying reliability, so
// breakers are grouped per host: a flaky source trips its own circuit
// without affecting the rest of a category search. A tripped host fails
// fast with ErrCircuitOpen, which the extraction layer treats like any
// other network failure (empty result, eligible for the retry pass).
package resilience
