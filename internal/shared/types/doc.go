// Package types provides shared data structures for the MCP-Search engine.
//
// This package defines the plain, JSON-serializable records that cross the
// engine boundary, ensuring no internal types leak to callers.
//
// Core Types:
//   - ResultRecord: canonical search result entity
//   - SourceConfig: read-only description of a configured source
//   - Category: named group of source ids
//   - RetrievalMode: how a source is queried (api, url_param, ...)
//
// Example Usage:
//
//	rec := types.ResultRecord{
//	    Name:   "Memory Server",
//	    URL:    "https://example.com/servers/memory",
//	    Source: "pulsemcp.com",
//	}
//	if !rec.Valid() {
//	    // dropped at extraction time
//	}
package types
