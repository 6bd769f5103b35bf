package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/thai-eval/internal/benchmark"
)

const maxLeaderboardLimit = 100

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListDatasets(c *gin.Context) {
	type datasetInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	datasets := benchmark.All(0)
	out := make([]datasetInfo, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, datasetInfo{Name: d.Name(), Description: d.Description()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetLeaderboard(c *gin.Context) {
	if s == nil || s.lbStore == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	dataset := strings.TrimSpace(c.Query("dataset"))
	if dataset == "" {
		respondError(c, http.StatusBadRequest, errors.New("dataset is required"))
		return
	}

	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		if n > maxLeaderboardLimit {
			n = maxLeaderboardLimit
		}
		limit = n
	}

	entries, err := s.lbStore.GetLeaderboard(c.Request.Context(), dataset, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleLeaderboardDatasets(c *gin.Context) {
	if s == nil || s.lbStore == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	names, err := s.lbStore.Datasets(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, names)
}

func (s *Server) handleGetModelHistory(c *gin.Context) {
	if s == nil || s.lbStore == nil {
		respondError(c, http.StatusInternalServerError, errors.New("leaderboard store not configured"))
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	dataset := strings.TrimSpace(c.Query("dataset"))
	if model == "" || dataset == "" {
		respondError(c, http.StatusBadRequest, errors.New("model and dataset are required"))
		return
	}

	entries, err := s.lbStore.GetModelHistory(c.Request.Context(), model, dataset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
