// pkg/server/server.go
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
	"github.com/halilanisa/ecommerce-insights/pkg/pipeline"
)

// Server exposes the summary tables over a JSON API. Every request runs
// the pipeline against the immutable dataset, so responses never observe a
// half-updated state.
type Server struct {
	router  *gin.Engine
	pipe    *pipeline.Pipeline
	dataset *model.Dataset
	logger  *zap.Logger
}

// NewServer creates a server bound to a loaded dataset.
func NewServer(pipe *pipeline.Pipeline, dataset *model.Dataset, logger *zap.Logger) (*Server, error) {
	if pipe == nil {
		return nil, errors.New("pipeline cannot be nil")
	}
	if dataset == nil {
		return nil, errors.New("dataset cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	s := &Server{
		router:  gin.Default(),
		pipe:    pipe,
		dataset: dataset,
		logger:  logger.Named("server"),
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/overview", s.overview)
		api.GET("/summary", s.summary)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ecommerce-insights",
		"orders":  len(s.dataset.Orders),
	})
}

// overview returns only the headline totals for the requested filter.
func (s *Server) overview(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":  res.RunID,
		"totals":  res.Totals,
		"filter":  res.Filter,
		"elapsed": res.Duration.String(),
	})
}

// summary returns every summary table plus the geo-customer table.
func (s *Server) summary(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) run(c *gin.Context) (*pipeline.Result, bool) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	res, err := s.pipe.Run(s.dataset, filter)
	if err != nil {
		s.logger.Error("Pipeline run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pipeline run failed"})
		return nil, false
	}
	return res, true
}

// parseFilter reads the filter from query parameters: start and end as
// YYYY-MM-DD (inclusive), or one or more state values. The two forms are
// mutually exclusive.
func parseFilter(c *gin.Context) (model.Filter, error) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	states := c.QueryArray("state")

	if (startStr != "" || endStr != "") && len(states) > 0 {
		return model.Filter{}, errors.New("date range and state filter cannot be combined")
	}

	if len(states) > 0 {
		return model.StateSet(states...), nil
	}

	if startStr == "" && endStr == "" {
		return model.NoFilter(), nil
	}
	if startStr == "" || endStr == "" {
		return model.Filter{}, errors.New("both start and end are required for a date range")
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return model.Filter{}, errors.New("start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return model.Filter{}, errors.New("end must be YYYY-MM-DD")
	}

	filter := model.DateRange(start, end)
	if err := filter.Validate(); err != nil {
		return model.Filter{}, err
	}
	return filter, nil
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.router.Run(addr)
}
