package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/webutil"

	"github.com/go-chi/chi/v5"
)

// requireOwner はコンテキストの所有者IDを返します。無ければ 401 を書いて false
func requireOwner(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uint, *slog.Logger, bool) {
	ownerID, err := middleware.GetOwnerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return 0, logger, false
	}
	return ownerID, logger.With(slog.Uint64("owner_id", uint64(ownerID))), true
}

func parseVocabID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uint, bool) {
	raw := chi.URLParam(r, "vocab_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("Invalid vocab ID format in URL", slog.String("vocab_id_str", raw))
		appErr := model.NewAppError("INVALID_URL_PARAM", "vocab_id must be a positive integer.", "vocab_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return 0, false
	}
	middleware.AnnotateRequest(r.Context(), slog.Uint64("vocab_id", id))
	return uint(id), true
}
