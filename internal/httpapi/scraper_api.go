package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/pipeline"
	"github.com/skimmerhq/skimmer/internal/store"
)

func (s *Server) handleRunScraper(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	run, err := s.pipe.Run(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		s.writeError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	if err != nil {
		s.logger.Error("Manual run failed", logging.WithField("error", err.Error()))
		if run != nil {
			s.writeJSON(w, http.StatusInternalServerError, run)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := s.store.RecentRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list runs", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}

	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/scraper/session/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to fetch run", logging.WithFields(map[string]interface{}{
			"run_id": id,
			"error":  err.Error(),
		}))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch session")
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}
