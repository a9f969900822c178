// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/webutil"
)

// DevOwnerContextMiddleware は開発時用ミドルウェアです。
// X-Owner-ID ヘッダーの値をそのまま所有者IDとしてコンテキストに設定します。
func DevOwnerContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		ownerIDStr := r.Header.Get("X-Owner-ID")
		if ownerIDStr == "" {
			logger.Warn("[DEV AUTH] Failed: X-Owner-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] Missing X-Owner-ID header.", "", model.ErrForbidden))
			return
		}

		ownerID, err := parseOwnerID(ownerIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-Owner-ID format", "value", ownerIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] Invalid X-Owner-ID format.", "", model.ErrForbidden))
			return
		}

		logger.Debug("[DEV AUTH] Owner ID set to context (no validation)", "owner_id", ownerID)
		ctx := context.WithValue(r.Context(), model.OwnerIDKey, ownerID)
		ctx = WithLogger(ctx, logger.With("owner_id", ownerID))
		AnnotateRequest(ctx, slog.Uint64("owner_id", uint64(ownerID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
