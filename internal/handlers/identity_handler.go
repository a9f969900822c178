package handlers

import (
	"net/http"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/service"
	"go_vocab_quiz/internal/webutil"
)

type IdentityHandler struct {
	service     service.IdentityService
	issueTokens bool
}

// NewIdentityHandler は issueTokens が true の場合のみログイン応答にアクセストークンを含めます
func NewIdentityHandler(s service.IdentityService, issueTokens bool) *IdentityHandler {
	return &IdentityHandler{service: s, issueTokens: issueTokens}
}

// Login は名前で所有者を特定し、初回なら作成します
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.LoginRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid login request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	identity, created, err := h.service.Login(r.Context(), req.Name)
	if err != nil {
		logger.Error("Login failed in service", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	resp := model.LoginResponse{
		OwnerID: identity.ID,
		Name:    identity.Name,
		Created: created,
	}
	if h.issueTokens {
		token, err := h.service.IssueToken(r.Context(), identity)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		resp.AccessToken = token
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	webutil.RespondWithJSON(w, status, resp, logger)
}
