// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found or not authorized") // 存在しない/他人の所有を区別しない
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict")

	// クイズ・単語帳ドメインのエラー
	ErrEmptyVocabulary        = errors.New("vocabulary is empty")
	ErrDuplicateEnglish       = fmt.Errorf("duplicate english word: %w", ErrConflict)
	ErrPromptGenerationFailed = errors.New("prompt generation failed")
	ErrStalePrompt            = errors.New("prompt is stale")
)

// ErrorDetail はクライアントに返すエラー情報
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はユーザー向けの詳細と、判定用のセンチネルエラーをまとめたもの
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Code, e.Detail.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
