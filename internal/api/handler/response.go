package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// SearchResultResponse is the wire form of one video.
type SearchResultResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublishedAt  string `json:"published_at"`
	ChannelTitle string `json:"channel_title"`
}

// HistoryResponse is the wire form of one history record.
type HistoryResponse struct {
	ID          int64  `json:"id"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	ResultCount int    `json:"result_count"`
	CreatedAt   string `json:"created_at"`
}

func toSearchResultResponse(v model.Video) SearchResultResponse {
	return SearchResultResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
		PublishedAt:  v.PublishedAt.UTC().Format(time.RFC3339),
		ChannelTitle: v.ChannelTitle,
	}
}

func toHistoryResponse(r *model.HistoryRecord) HistoryResponse {
	return HistoryResponse{
		ID:          r.ID,
		Query:       r.Query,
		MaxResults:  r.MaxResults,
		ResultCount: r.ResultCount,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
