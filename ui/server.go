// Package ui exposes the analysis service over a JSON HTTP API.
package ui

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chanstat/app"
	"chanstat/domain/core"
	"chanstat/domain/sample"
	"chanstat/domain/stats"
	"chanstat/internal"
	"chanstat/ports"
)

// Server wires the analysis service into a gin router.
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	store   ports.ResultStorePort
	log     *internal.Logger
}

// NewServer creates the API server. The store may be nil; run retrieval
// endpoints then report 503.
func NewServer(service *app.AnalysisService, store ports.ResultStorePort, log *internal.Logger) *Server {
	s := &Server{
		router:  gin.New(),
		service: service,
		store:   store,
		log:     log,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.POST("/compute", s.handleCompute)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	api.GET("/runs/:id/report", s.handleRunReport)
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	s.log.Info("API server listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// computeRequest is the JSON body of POST /api/v1/compute.
type computeRequest struct {
	Matrix     [][]float64      `json:"matrix" binding:"required"`
	Groups     []float64        `json:"groups,omitempty"`
	Replicates []float64        `json:"replicates,omitempty"`
	Contrast   []float64        `json:"contrast,omitempty"`
	Features   []string         `json:"features,omitempty"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
	Test       stats.TestKind   `json:"test" binding:"required"`
	Output     stats.OutputKind `json:"output,omitempty"`
	Persist    bool             `json:"persist,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCompute(c *gin.Context) {
	var req computeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var keys []core.FeatureKey
	for _, name := range req.Features {
		keys = append(keys, core.FeatureKey(name))
	}

	b := sample.NewBundle(req.Matrix, keys)
	if req.Groups != nil {
		b.Groups = req.Groups
	}
	if req.Replicates != nil {
		b.Replicates = req.Replicates
	}
	b.Contrast = req.Contrast
	b.Metadata = req.Metadata

	result, err := s.service.Run(c.Request.Context(), app.AnalysisRequest{
		Bundle:  b,
		Test:    req.Test,
		Output:  req.Output,
		Persist: req.Persist,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result store not configured"})
		return
	}
	manifests, err := s.store.ListRuns(c.Request.Context(), 50)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": manifests})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result store not configured"})
		return
	}
	runID, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	manifest, result, err := s.store.GetRun(c.Request.Context(), runID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manifest": manifest, "result": result})
}

func (s *Server) handleRunReport(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result store not configured"})
		return
	}
	runID, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	manifest, result, err := s.store.GetRun(c.Request.Context(), runID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	md := s.service.ReportFor(manifest, result)
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.service.RenderHTML(md))
}

// renderError maps domain errors to HTTP statuses: invalid inputs and
// unsupported requests are client errors, anything else is a 500.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidationError(err) || core.IsDesignError(err) || core.IsUnsupportedError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrResultNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("compute failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
