package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/store"
)

const defaultPostLimit = 50

func (s *Server) handleGetPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	params := models.SearchParams{
		Author:    query.Get("author"),
		Category:  query.Get("category"),
		Sentiment: query.Get("sentiment"),
		Limit:     defaultPostLimit,
	}

	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			params.Limit = parsed
		}
	}
	if o := query.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			params.Offset = parsed
		}
	}
	if h := query.Get("has_media"); h != "" {
		if parsed, err := strconv.ParseBool(h); err == nil {
			params.HasMedia = &parsed
		}
	}

	items, err := s.store.QueryItems(r.Context(), params)
	if err != nil {
		s.logger.Error("Failed to query posts", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch posts")
		return
	}

	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var params models.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid search parameters")
		return
	}
	if params.Limit <= 0 {
		params.Limit = defaultPostLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	items, err := s.store.QueryItems(r.Context(), params)
	if err != nil {
		s.logger.Error("Search failed", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusBadRequest, "post id is required")
		return
	}

	item, err := s.store.GetItem(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to fetch post", logging.WithFields(map[string]interface{}{
			"post_id": id,
			"error":   err.Error(),
		}))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cached, ok := s.cache.Get(store.AnalyticsCacheKey); ok {
		if analytics, ok := cached.(*models.Analytics); ok {
			s.writeJSON(w, http.StatusOK, analytics)
			return
		}
	}

	analytics, err := s.store.Analytics(r.Context())
	if err != nil {
		s.logger.Error("Failed to compute analytics", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch analytics")
		return
	}
	s.cache.Set(store.AnalyticsCacheKey, analytics)

	s.writeJSON(w, http.StatusOK, analytics)
}
