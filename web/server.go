// Package web serves the cached sheet records over HTTP.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/krisalay/sheets-cache/api"
)

// DefaultPageSize is the number of records per page when none is configured.
const DefaultPageSize = 20

// Server is the sheetcache web server
type Server struct {
	cache    api.RecordCache
	router   *gin.Engine
	pageSize int
}

// Options tunes a Server. Zero values pick the defaults.
type Options struct {
	PageSize int

	// Gatherer backs /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// NewServer creates a new web server
func NewServer(cache api.RecordCache, opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog())

	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	s := &Server{
		cache:    cache,
		router:   router,
		pageSize: opts.PageSize,
	}

	router.GET("/healthz", s.handleHealth)
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// API routes
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/records", s.handleRecords)
		apiGroup.GET("/status", s.handleStatus)
		apiGroup.POST("/refresh", s.handleRefresh)
	}

	return s
}

// Handler exposes the router, mainly for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
