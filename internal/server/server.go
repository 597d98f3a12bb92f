package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agenthands/ppimap/internal/config"
	"github.com/agenthands/ppimap/internal/core"
	"github.com/agenthands/ppimap/internal/core/model"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/output"
	"github.com/agenthands/ppimap/internal/store"
)

type Server struct {
	Store   store.ProvenanceStore
	Config  *config.Config
	logger  zerolog.Logger
	metrics *metrics
}

func NewServer(cfg *config.Config, st store.ProvenanceStore, logger zerolog.Logger) *Server {
	return &Server{
		Store:   st,
		Config:  cfg,
		logger:  logger.With().Str("component", "server").Logger(),
		metrics: newMetrics(),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	r.GET("/metrics", s.metrics.handler())
	r.GET("/provenance", s.ListProvenance)
	r.GET("/provenance/:id", s.GetProvenance)
	r.POST("/provenance", s.AddProvenance)
	r.GET("/report", s.GetReport)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		s.metrics.observe(c, elapsed)
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", elapsed).
			Msg("request")
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetProvenance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid provenance id"})
		return
	}

	p, err := s.Store.GetByID(c.Request.Context(), id)
	s.metrics.provenance("get", err)
	if err != nil {
		s.fail(c, err, "Failed to load provenance")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListProvenance requires a name query parameter.
func (s *Server) ListProvenance(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	records, err := s.Store.GetByName(c.Request.Context(), name)
	s.metrics.provenance("list", err)
	if err != nil {
		s.fail(c, err, "Failed to list provenance")
		return
	}
	if records == nil {
		records = []model.Provenance{}
	}
	c.JSON(http.StatusOK, gin.H{"results": records})
}

type AddProvenanceRequest struct {
	Name             string `json:"name" binding:"required"`
	URL              string `json:"url"`
	Category         string `json:"category"`
	BiologicalEntity string `json:"biological_entity"`
}

func (s *Server) AddProvenance(c *gin.Context) {
	var req AddProvenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	p, err := s.Store.AddOrGetExisting(c.Request.Context(), model.Provenance{
		Name:             req.Name,
		URL:              req.URL,
		Category:         req.Category,
		BiologicalEntity: req.BiologicalEntity,
	})
	s.metrics.provenance("add", err)
	if err != nil {
		s.fail(c, err, "Failed to store provenance")
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetReport returns the last report written by a pipeline. pipeline is
// human (the default, which needs a configured species) or overlap.
func (s *Server) GetReport(c *gin.Context) {
	pipeline := c.DefaultQuery("pipeline", core.HumanPipeline)
	species := strings.ToUpper(c.Query("species"))
	switch pipeline {
	case core.OverlapPipeline:
	case core.HumanPipeline:
		if species == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "species is required for the human pipeline"})
			return
		}
		sp, ok := s.Config.LookupSpecies(species)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "species is not configured"})
			return
		}
		species = strings.ToUpper(sp.Name)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pipeline"})
		return
	}

	report, err := output.ReadReport(core.ReportPath(s.Config, pipeline, species))
	if err != nil {
		if ppierrors.IsFileAccess(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No report for this pipeline"})
			return
		}
		s.fail(c, err, "Failed to read report")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) fail(c *gin.Context, err error, msg string) {
	switch {
	case ppierrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case ppierrors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
