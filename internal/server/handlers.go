package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "mcp-search",
		"endpoints": []string{
			"/health",
			"/search/:categoryID?q=",
			"/search/source/:sourceID?q=",
			"/sources",
			"/categories",
			"/validate/:sourceID",
			"/validate/category/:categoryID",
			"/metrics",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(s.metrics.Uptime().Seconds()),
		"sources":        len(s.catalog.Sources()),
		"categories":     len(s.catalog.Categories()),
		"cache_entries":  s.store.Len(),
	})
}

// searchCategory fans the query out across every source in a category.
func (s *Server) searchCategory(c *gin.Context) {
	query, ok := requireQuery(c)
	if !ok {
		return
	}

	categoryID := c.Param("categoryID")
	srcs, ok := s.catalog.CategorySources(categoryID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + categoryID})
		return
	}

	result := s.orchestrator.Search(c.Request.Context(), categoryID, srcs, query)
	c.JSON(http.StatusOK, gin.H{
		"trace_id":          result.TraceID,
		"query":             result.Query,
		"category":          result.Category,
		"records":           result.Records,
		"results_by_source": result.BySource,
		"sources":           result.Outcomes,
		"elapsed_ms":        result.Elapsed.Milliseconds(),
	})
}

// searchSource queries a single source, mainly for catalog debugging.
func (s *Server) searchSource(c *gin.Context) {
	query, ok := requireQuery(c)
	if !ok {
		return
	}

	sourceID := c.Param("sourceID")
	src, ok := s.catalog.Source(sourceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source: " + sourceID})
		return
	}

	// live=true skips the cache read so a stale cached empty cannot
	// mask a source that has since recovered.
	var records []types.ResultRecord
	if c.Query("live") == "true" {
		records = s.sources.SearchLive(c.Request.Context(), src, query)
	} else {
		records = s.sources.Search(c.Request.Context(), src, query)
	}
	c.JSON(http.StatusOK, gin.H{
		"source_id": sourceID,
		"query":     query,
		"records":   records,
	})
}

func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.catalog.Sources()})
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.catalog.Categories()})
}

func (s *Server) validateSource(c *gin.Context) {
	sourceID := c.Param("sourceID")
	src, ok := s.catalog.Source(sourceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source: " + sourceID})
		return
	}
	c.JSON(http.StatusOK, s.validator.Validate(c.Request.Context(), src))
}

func (s *Server) validateCategory(c *gin.Context) {
	categoryID := c.Param("categoryID")
	srcs, ok := s.catalog.CategorySources(categoryID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + categoryID})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": categoryID,
		"reports":  s.validator.ValidateAll(c.Request.Context(), srcs),
	})
}

func (s *Server) purgeCache(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"purged": s.store.Purge()})
}

func requireQuery(c *gin.Context) (string, bool) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return "", false
	}
	return query, true
}
