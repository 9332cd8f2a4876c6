// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Engine components obtain named sub-loggers so that extraction noise can
// be filtered per source:
//
//	logger := logging.NewDefault().Named("extract")
//	logger.Info("parsed catalog", zap.String("source", "pulsemcp.com"),
//	    zap.Int("records", len(records)))
package logging
