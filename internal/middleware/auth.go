package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthMiddleware は Authorization: Bearer トークンから所有者IDを取り出してコンテキストに入れます。
// トークンは IdentityService.IssueToken が発行したもの (sub = 所有者ID)。
func JWTAuthMiddleware(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrForbidden))
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header format must be 'Bearer {token}'.", "", model.ErrForbidden))
				return
			}

			ownerID, err := ParseOwnerToken(headerParts[1], secretKey)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "The token is invalid.", "", model.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), model.OwnerIDKey, ownerID)
			ctx = WithLogger(ctx, logger.With("owner_id", ownerID))
			AnnotateRequest(ctx, slog.Uint64("owner_id", uint64(ownerID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseOwnerToken は署名と有効期限を検証し、sub から所有者IDを返します。
func ParseOwnerToken(tokenString, secretKey string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return parseOwnerID(subject)
}

func parseOwnerID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid owner id")
	}
	return uint(id), nil
}

// GetOwnerIDFromContext はミドルウェアがセットした所有者IDを取り出します。
func GetOwnerIDFromContext(ctx context.Context) (uint, error) {
	value, ok := ctx.Value(model.OwnerIDKey).(uint)
	if !ok || value == 0 {
		return 0, model.NewAppError("UNAUTHORIZED", "Owner information was not found in the request.", "", model.ErrForbidden)
	}
	return value, nil
}
