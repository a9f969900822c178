// internal/service/prompt_token.go
package service

import (
	"errors"
	"strconv"
	"time"

	"go_vocab_quiz/internal/config"
	"go_vocab_quiz/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const promptAudience = "quiz-prompt"

// PromptClaims は出題時に確定した問題の中身。回答時はこれだけを信用する
type PromptClaims struct {
	VocabID   uint            `json:"vid"`
	Mode      model.QuizMode  `json:"mode"`
	Direction model.Direction `json:"dir,omitempty"`
	jwt.RegisteredClaims
}

// PromptSigner は出題トークンの署名と検証を行います。
// アクセストークンと取り違えないよう鍵を分けている。
type PromptSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewPromptSigner は secret が空ならプロセス内だけで有効な鍵を作ります
func NewPromptSigner(secret string, ttl time.Duration) *PromptSigner {
	if secret == "" {
		secret = uuid.NewString()
	}
	if ttl <= 0 {
		ttl = config.DefaultPromptTTL
	}
	return &PromptSigner{
		key: []byte(secret + "#" + promptAudience),
		ttl: ttl,
		now: time.Now,
	}
}

// Sign は prompt の単語ID・モード・方向を所有者に紐づけて署名します
func (s *PromptSigner) Sign(ownerID uint, prompt *model.BoundPrompt) (string, error) {
	now := s.now()
	claims := &PromptClaims{
		VocabID:   prompt.VocabID,
		Mode:      prompt.Mode,
		Direction: prompt.Direction,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.AppName,
			Subject:   strconv.FormatUint(uint64(ownerID), 10),
			Audience:  jwt.ClaimStrings{promptAudience},
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify は署名と期限を確認し、ownerID 宛てのトークンかを確かめます。
// 期限切れと他人宛ては STALE_PROMPT、改ざんや形式不正は INVALID_PROMPT_TOKEN。
func (s *PromptSigner) Verify(tokenString string, ownerID uint) (*PromptClaims, error) {
	claims := &PromptClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(promptAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, stalePromptError()
		}
		return nil, model.NewAppError("INVALID_PROMPT_TOKEN", "The question token is invalid.", "prompt_token", model.ErrInvalidInput)
	}
	if claims.Subject != strconv.FormatUint(uint64(ownerID), 10) {
		return nil, stalePromptError()
	}
	if claims.VocabID == 0 {
		return nil, model.NewAppError("INVALID_PROMPT_TOKEN", "The question token is invalid.", "prompt_token", model.ErrInvalidInput)
	}
	return claims, nil
}

func stalePromptError() error {
	return model.NewAppError("STALE_PROMPT", "This question is no longer valid. Please start a new one.", "prompt_token", model.ErrStalePrompt)
}
