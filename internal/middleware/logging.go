package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type logCtxKey struct{}

type requestAttrsKey struct{}

// maskedHeaders はデバッグログで値を伏せるヘッダー (小文字)。
// x-goog-api-key は例文生成APIのキー
var maskedHeaders = map[string]bool{
	"authorization":  true,
	"cookie":         true,
	"set-cookie":     true,
	"x-api-key":      true,
	"x-goog-api-key": true,
}

// requestAttrs は処理中に分かった所有者IDや単語IDを完了ログまで運びます
type requestAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// AnnotateRequest は完了ログに載せる属性を追加します。
// LoggingMiddleware の外で呼ばれた場合は何もしない。
func AnnotateRequest(ctx context.Context, attrs ...slog.Attr) {
	ra, ok := ctx.Value(requestAttrsKey{}).(*requestAttrs)
	if !ok {
		return
	}
	ra.mu.Lock()
	ra.attrs = append(ra.attrs, attrs...)
	ra.mu.Unlock()
}

func (ra *requestAttrs) snapshot() []any {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	out := make([]any, 0, len(ra.attrs))
	for _, a := range ra.attrs {
		out = append(out, a)
	}
	return out
}

// LoggingMiddleware はリクエスト単位のロガーをコンテキストに入れ、開始/完了ログを出します。
// 完了ログにはルートパターンと AnnotateRequest で追加された属性 (owner_id, vocab_id など) が付く。
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			debug := logger.Enabled(r.Context(), slog.LevelDebug)

			requestLogger := logger.With("req_id", middleware.GetReqID(r.Context()))
			ra := &requestAttrs{}
			ctx := context.WithValue(r.Context(), requestAttrsKey{}, ra)
			r = r.WithContext(WithLogger(ctx, requestLogger))

			requestLogger.Info("Request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			var reqBody []byte
			if debug && r.Body != nil {
				reqBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var respBody *bytes.Buffer
			if debug {
				respBody = new(bytes.Buffer)
				ww.Tee(respBody)
			}

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			fields := []any{
				"status", status,
				"latency_ms", float64(time.Since(start).Nanoseconds()) / 1e6,
				"bytes_out", ww.BytesWritten(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields = append(fields, "route", rctx.RoutePattern())
			}
			fields = append(fields, ra.snapshot()...)
			requestLogger.Log(r.Context(), level, "Request completed", fields...)

			if debug {
				requestLogger.Debug("Request detail",
					"headers", maskHeaders(r.Header),
					"body", string(reqBody),
				)
				requestLogger.Debug("Response detail",
					"headers", maskHeaders(ww.Header()),
					"body", respBody.String(),
				)
			}
		})
	}
}

// WithLogger はロガーを格納したコンテキストを返します。
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

// GetLogger はコンテキストから slog.Logger を取得します。
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func maskHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if maskedHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
			continue
		}
		result[key] = strings.Join(values, ", ")
	}
	return result
}
