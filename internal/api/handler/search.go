package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/usecase"
)

// SearchHandler handles search, video, and history requests.
type SearchHandler struct {
	svc usecase.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc usecase.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /api/search?query=...&maxResults=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	maxResults := model.DefaultMaxResults
	if raw := params.Get("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_max_results", "maxResults must be an integer")
			return
		}
		maxResults = n
	}

	videos, err := h.svc.Search(r.Context(), params.Get("query"), maxResults)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]SearchResultResponse, len(videos))
	for i, v := range videos {
		resp[i] = toSearchResultResponse(v)
	}
	JSON(w, http.StatusOK, resp)
}

// GetVideo handles GET /api/video/{id}
func (h *SearchHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.svc.GetVideoDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toSearchResultResponse(*video))
}

// Routes mounts the search endpoints on r, normally under /api.
func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Get("/video/{id}", h.GetVideo)
	// An empty id segment is answered as an invalid id, not an unknown route.
	r.Get("/video/", h.GetVideo)
	r.Get("/history", h.History)
}

// NotFound answers unrouted paths in the API error shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, "not_found", "No route for "+r.URL.Path)
}

// History handles GET /api/history
func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.GetHistory(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]HistoryResponse, len(records))
	for i, rec := range records {
		resp[i] = toHistoryResponse(rec)
	}
	JSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyQuery):
		Error(w, http.StatusBadRequest, "invalid_query", "Query parameter 'query' is required")
	case errors.Is(err, model.ErrMaxResultsOutOfRange):
		Error(w, http.StatusBadRequest, "invalid_max_results", "maxResults must be between 1 and 50")
	case errors.Is(err, model.ErrEmptyVideoID):
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID cannot be empty")
	case errors.Is(err, model.ErrInvalidArgument):
		Error(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrUpstreamFailure):
		slog.Error("video platform request failed", "path", r.URL.Path, "error", err)
		Error(w, http.StatusBadGateway, "upstream_failure", "Video platform request failed")
	case errors.Is(err, repository.ErrStoreUnavailable):
		slog.Error("store unavailable", "path", r.URL.Path, "error", err)
		Error(w, http.StatusServiceUnavailable, "store_unavailable", "Storage is temporarily unavailable")
	default:
		slog.Error("unexpected error", "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
