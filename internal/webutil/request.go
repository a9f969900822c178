package webutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"go_vocab_quiz/internal/model"

	"github.com/go-playground/validator/v10"
)

// DecodeJSONBody はリクエストボディをデコードします
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
	}
	return nil
}

// DecodeAndValidate はデコードとバリデーションをまとめて行います。
// 返すエラーはそのまま HandleError に渡せます。
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return err
	}
	if err := Validator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationErrorResponse(validationErrors)
		}
		return err
	}
	return nil
}
