// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go_vocab_quiz/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: appErr.Detail}
	} else if detail, ok := sentinelDetail(err); ok {
		errResp = model.APIErrorResponse{Error: detail}
	} else {
		// 予期せぬエラーは詳細をログにだけ残す
		logger.Error("Unhandled error", slog.Any("error", err))
		errResp = model.APIErrorResponse{
			Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "An internal server error occurred.",
			},
		}
	}

	RespondWithJSON(w, statusCode, errResp, logger)
}

// sentinelDetail は AppError に包まれていないセンチネルエラーのメッセージを作ります
func sentinelDetail(err error) (model.ErrorDetail, bool) {
	switch {
	case errors.Is(err, model.ErrEmptyVocabulary):
		return model.ErrorDetail{Code: "EMPTY_VOCABULARY", Message: "Please add vocabulary first!"}, true
	case errors.Is(err, model.ErrDuplicateEnglish):
		return model.ErrorDetail{Code: "DUPLICATE_ENGLISH", Message: "This English word already exists in your vocabulary!", Field: "english"}, true
	case errors.Is(err, model.ErrConflict):
		return model.ErrorDetail{Code: "CONFLICT", Message: "The resource already exists."}, true
	case errors.Is(err, model.ErrStalePrompt):
		return model.ErrorDetail{Code: "STALE_PROMPT", Message: "Invalid vocabulary selection! Please request a new question."}, true
	case errors.Is(err, model.ErrPromptGenerationFailed):
		return model.ErrorDetail{Code: "PROMPT_GENERATION_FAILED", Message: "Error generating sentence. Try again."}, true
	case errors.Is(err, model.ErrNotFound):
		return model.ErrorDetail{Code: "NOT_FOUND", Message: "Vocabulary not found or not authorized!"}, true
	case errors.Is(err, model.ErrInvalidInput):
		return model.ErrorDetail{Code: "INVALID_INPUT", Message: "The request is invalid."}, true
	case errors.Is(err, model.ErrForbidden):
		return model.ErrorDetail{Code: "UNAUTHORIZED", Message: "Authentication required."}, true
	}
	return model.ErrorDetail{}, false
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrEmptyVocabulary):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrStalePrompt):
		return http.StatusConflict
	case errors.Is(err, model.ErrPromptGenerationFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrForbidden):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger != nil {
			logger.Error("Error marshaling JSON response", slog.Any("error", err))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to build response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// NewValidationErrorResponse はバリデーションエラーを1つの AppError にまとめます
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string

	for _, err := range errs {
		fields = append(fields, err.Field())
		if Trans != nil {
			messages = append(messages, err.Translate(Trans))
		} else {
			messages = append(messages, fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag()))
		}
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
