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

type QuizHandler struct {
	service     service.QuizService
	maxAttempts int
}

// NewQuizHandler の maxAttempts は穴埋め問題1リクエストあたりの出題試行回数の上限
func NewQuizHandler(s service.QuizService, maxAttempts int) *QuizHandler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &QuizHandler{service: s, maxAttempts: maxAttempts}
}

// GetWordQuiz は単語クイズを1問出題します。direction 省略時は英→中
func (h *QuizHandler) GetWordQuiz(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetWordQuiz"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	direction := model.Direction(r.URL.Query().Get("direction"))
	if direction == "" {
		direction = model.DirectionEngToChi
	}

	prompt, err := h.service.IssueWordPrompt(r.Context(), ownerID, direction)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	middleware.AnnotateRequest(r.Context(), slog.Uint64("vocab_id", uint64(prompt.VocabID)), slog.String("direction", string(prompt.Direction)))
	webutil.RespondWithJSON(w, http.StatusOK, prompt, logger)
}

func (h *QuizHandler) PostWordAnswer(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.ModeWordQuiz)
}

// GetSentenceQuiz は穴埋め問題を出題します。
// 例文が使えなかった場合は新しい単語で引き直す (キャンセル時は除く)。
func (h *QuizHandler) GetSentenceQuiz(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetSentenceQuiz"))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	var lastErr error
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := r.Context().Err(); err != nil {
			logger.Info("Sentence quiz request cancelled", slog.Int("attempt", attempt))
			return
		}
		prompt, err := h.service.IssueSentencePrompt(r.Context(), ownerID)
		if err == nil {
			middleware.AnnotateRequest(r.Context(), slog.Uint64("vocab_id", uint64(prompt.VocabID)), slog.Int("attempts", attempt))
			webutil.RespondWithJSON(w, http.StatusOK, prompt, logger)
			return
		}
		lastErr = err
		if !errors.Is(err, model.ErrPromptGenerationFailed) {
			break
		}
		logger.Info("Sentence prompt unusable, drawing again", slog.Int("attempt", attempt), slog.Any("error", err))
	}
	webutil.HandleError(w, logger, lastErr)
}

func (h *QuizHandler) PostSentenceAnswer(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.ModeSentenceQuiz)
}

func (h *QuizHandler) submit(w http.ResponseWriter, r *http.Request, mode model.QuizMode) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "SubmitAnswer"), slog.String("mode", string(mode)))
	ownerID, logger, ok := requireOwner(w, r, logger)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid answer request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), ownerID, model.SubmitAnswer{
		PromptToken: req.PromptToken,
		Mode:        mode,
		Answer:      req.Answer,
	})
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	middleware.AnnotateRequest(r.Context(), slog.Uint64("vocab_id", uint64(result.VocabID)), slog.Bool("correct", result.Correct))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
