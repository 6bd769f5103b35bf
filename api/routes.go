package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("THAI_EVAL_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("THAI_EVAL_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set THAI_EVAL_API_KEY or set THAI_EVAL_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)
	api.GET("/datasets", s.handleListDatasets)

	api.GET("/leaderboard", s.handleGetLeaderboard)
	api.GET("/leaderboard/datasets", s.handleLeaderboardDatasets)
	api.GET("/leaderboard/history", s.handleGetModelHistory)

	return nil
}
