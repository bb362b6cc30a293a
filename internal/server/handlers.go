package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/catalog"
	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/storage"
)

const (
	defaultMovieLimit = 10
	maxMovieLimit     = 100
	suggestionCount   = 5
)

type recommendRequest struct {
	Title string `json:"title"`
}

type moviesResponse struct {
	Items []models.CatalogEntry `json:"items"`
	Total int                   `json:"total"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	resp := map[string]any{
		"movies":      store.Size(),
		"fingerprint": store.Fingerprint(),
		"sessions":    s.sessions.Len(),
	}

	provider := map[string]any{
		"base_url":     s.config.Provider.BaseURL,
		"language":     s.config.Provider.Language,
		"max_attempts": s.config.Provider.MaxAttempts,
		"retry_delay":  s.config.Provider.RetryDelay.String(),
		"timeout":      s.config.Provider.Timeout.String(),
	}
	if s.breaker != nil {
		provider["circuit"] = s.breaker.State()
	}
	resp["provider"] = provider
	resp["config"] = map[string]any{
		"movies_path":     s.config.Catalog.MoviesPath,
		"similarity_path": s.config.Catalog.SimilarityPath,
		"watch":           s.config.Catalog.Watch,
		"k":               s.config.Recommend.K,
		"cache_capacity":  s.config.Cache.Capacity,
		"session_ttl":     s.config.Cache.SessionTTL.String(),
	}
	if diskBytes, err := storage.DiskUsageBytes(s.config.Catalog.MoviesPath, s.config.Catalog.SimilarityPath); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultMovieLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxMovieLimit)
	}
	fuzzy, _ := strconv.ParseBool(q.Get("fuzzy"))

	store := s.engine.Store()
	items := []models.CatalogEntry{}
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		for i := 0; i < store.Size() && i < limit; i++ {
			e, _ := store.EntryAt(i)
			items = append(items, e)
		}
		s.respondJSON(w, http.StatusOK, moviesResponse{Items: items, Total: store.Size()})
		return
	}

	hits, err := s.titles.Load().Search(query, limit, fuzzy)
	if err != nil {
		s.logger.Error("title search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, h := range hits {
		e, err := store.EntryAt(h.Position)
		if err != nil {
			continue
		}
		items = append(items, e)
	}
	s.respondJSON(w, http.StatusOK, moviesResponse{Items: items, Total: len(items)})
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "position must be an integer")
		return
	}
	entry, err := s.engine.Store().EntryAt(pos)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "movie not found")
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	// Titles match exactly, surrounding whitespace included.
	title := req.Title
	sess := sessionFrom(r.Context())
	s.logger.Debug("recommend request", zap.String("title", title), zap.String("session_id", sess.ID))

	result, err := s.engine.Recommend(r.Context(), sess.Resolver, title)
	s.respondRecommendation(w, sess.ID, title, result, err)
}

func (s *Server) handleRecommendRandom(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	title, result, err := s.engine.RecommendRandom(r.Context(), sess.Resolver)
	s.logger.Debug("random recommend request", zap.String("title", title), zap.String("session_id", sess.ID))
	s.respondRecommendation(w, sess.ID, title, result, err)
}

func (s *Server) respondRecommendation(w http.ResponseWriter, sessionID, title string, result *models.RecommendationResult, err error) {
	switch {
	case errors.Is(err, catalog.ErrMovieNotFound):
		result.Session = sessionID
		suggestions, serr := s.titles.Load().Suggest(title, suggestionCount)
		if serr != nil {
			s.logger.Warn("title suggestions failed", zap.Error(serr))
		}
		result.Suggestions = suggestions
		s.respondJSON(w, http.StatusNotFound, result)
	case err != nil:
		s.logger.Error("recommendation failed", zap.String("title", title), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		result.Session = sessionID
		s.respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		s.respondError(w, http.StatusBadRequest, SessionHeader+" header is required")
		return
	}
	if !s.sessions.Reset(id) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.Header().Set(SessionHeader, id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
