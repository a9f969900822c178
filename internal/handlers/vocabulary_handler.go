package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/service"
	"go_vocab_quiz/internal/webutil"
)

type VocabularyHandler struct {
	service service.VocabularyService
}

func NewVocabularyHandler(s service.VocabularyService) *VocabularyHandler {
	return &VocabularyHandler{service: s}
}

// PostVocabulary は単語エントリを作成します
func (h *VocabularyHandler) PostVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PostVocabulary"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	var req model.PostVocabularyRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid vocabulary request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	vocab, err := h.service.CreateVocabulary(r.Context(), ownerID, model.VocabularyFields{
		Prefix:      req.Prefix,
		Suffix:      req.Suffix,
		English:     req.English,
		Translation: req.Translation,
	})
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Vocabulary posted successfully", slog.Uint64("vocab_id", uint64(vocab.ID)))
	webutil.RespondWithJSON(w, http.StatusCreated, vocab, logger)
}

// GetVocabularies は表示順に並べた一覧を返します
func (h *VocabularyHandler) GetVocabularies(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetVocabularies"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	vocabs, err := h.service.ListVocabulary(r.Context(), ownerID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if vocabs == nil {
		vocabs = []*model.Vocabulary{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, vocabs, logger)
}

func (h *VocabularyHandler) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetVocabulary"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}
	vocabID, ok := parseVocabID(w, r, logger)
	if !ok {
		return
	}

	vocab, err := h.service.GetVocabulary(r.Context(), ownerID, vocabID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Vocabulary not found", slog.Uint64("vocab_id", uint64(vocabID)))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, vocab, logger)
}

// PutVocabulary は4項目すべてを置き換えます
func (h *VocabularyHandler) PutVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PutVocabulary"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}
	vocabID, ok := parseVocabID(w, r, logger)
	if !ok {
		return
	}

	var req model.PutVocabularyRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid vocabulary request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	vocab, err := h.service.UpdateVocabulary(r.Context(), ownerID, vocabID, model.VocabularyFields{
		Prefix:      req.Prefix,
		Suffix:      req.Suffix,
		English:     req.English,
		Translation: req.Translation,
	})
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Vocabulary put successfully", slog.Uint64("vocab_id", uint64(vocabID)))
	webutil.RespondWithJSON(w, http.StatusOK, vocab, logger)
}

// DeleteVocabulary はエントリと関連する回答履歴を削除します
func (h *VocabularyHandler) DeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "DeleteVocabulary"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}
	vocabID, ok := parseVocabID(w, r, logger)
	if !ok {
		return
	}

	if err := h.service.DeleteVocabulary(r.Context(), ownerID, vocabID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Vocabulary deleted successfully", slog.Uint64("vocab_id", uint64(vocabID)))
	w.WriteHeader(http.StatusNoContent)
}
