package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/webutil"
)

// ProgressReader は進捗ページが必要とする参照操作
type ProgressReader interface {
	ListProgress(ctx context.Context, ownerID uint) ([]*model.ProgressRecord, error)
	Summary(ctx context.Context, ownerID uint) (*model.ProgressSummary, error)
}

type ProgressHandler struct {
	service ProgressReader
}

func NewProgressHandler(s ProgressReader) *ProgressHandler {
	return &ProgressHandler{service: s}
}

// GetProgress は回答履歴を作成順に返します
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetProgress"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	records, err := h.service.ListProgress(r.Context(), ownerID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if records == nil {
		records = []*model.ProgressRecord{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, records, logger)
}

func (h *ProgressHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetSummary"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), ownerID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}
