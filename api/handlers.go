package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/cot-bench/internal/store"
)

func (s *Server) registerRoutes() {
	if s == nil || s.router == nil {
		return
	}

	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/latest/metrics", s.handleLatestMetrics)
	api.GET("/runs/:id", s.handleGetRun)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("api: invalid limit"))
			return
		}
		limit = n
	}

	runs, err := s.runs.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errors.New("api: invalid run id"))
		return
	}

	run, err := s.runs.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleLatestMetrics(c *gin.Context) {
	run, err := s.runs.Latest(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, run.Result)
}

func respondError(c *gin.Context, status int, err error) {
	msg := "internal error"
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
