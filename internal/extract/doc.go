// Package extract implements the engine's extraction strategies: the
// polymorphic fetch+parse units that turn heterogeneous source responses
// into canonical ResultRecords.
//
// Five strategies ship, one per retrieval mode:
//   - DirectAPI (api): templated JSON endpoints with alias field mapping
//     and a line-based plain-text fallback
//   - URLParameterHTML (url_param): templated search URLs handed to the
//     HTML pipeline
//   - RepositoryCodeSearch (github_api): authenticated code search,
//     one coarse record per repository
//   - CuratedListMarkdown (awesome_list): markdown catalogs fetched via
//     the repository contents API
//   - GenericHTMLFallback (scrape): the generic half of the HTML pipeline
//     against a source's base page
//
// The HTML pipeline dispatches by host to site-aware extractors before
// falling back to generic structural heuristics. Noise vocabularies and
// selector priority lists live in tables.go as ordered data, so tuning
// them does not touch extraction logic.
//
// Strategies never propagate errors: an unrecoverable failure yields an
// empty record slice, logged but invisible to callers.
package extract
