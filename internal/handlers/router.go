package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_vocab_quiz/internal/config"
	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Services はルーターが呼び出すサービス群
type Services struct {
	Identity   service.IdentityService
	Vocabulary service.VocabularyService
	Quiz       service.QuizService
	Progress   ProgressReader
}

type RouterOptions struct {
	Logger            *slog.Logger
	Auth              config.AuthConfig
	CORS              config.CORSConfig
	MaxPromptAttempts int
	RequestTimeout    time.Duration
	// HealthCheck は /health で呼ばれる (nil なら常に OK)
	HealthCheck func(ctx context.Context) error
}

// NewRouter は /api/v1 以下のルートを組み立てます
func NewRouter(svcs Services, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	identityHandler := NewIdentityHandler(svcs.Identity, opts.Auth.Enabled)
	vocabularyHandler := NewVocabularyHandler(svcs.Vocabulary)
	quizHandler := NewQuizHandler(svcs.Quiz, opts.MaxPromptAttempts)
	progressHandler := NewProgressHandler(svcs.Progress)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   opts.CORS.AllowedOrigins,
		AllowedMethods:   opts.CORS.AllowedMethods,
		AllowedHeaders:   opts.CORS.AllowedHeaders,
		ExposedHeaders:   opts.CORS.ExposedHeaders,
		AllowCredentials: opts.CORS.AllowCredentials,
		MaxAge:           opts.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/login", identityHandler.Login)

		// --- Protected routes (require owner ID) ---
		r.Group(func(r chi.Router) {
			if opts.Auth.Enabled {
				logger.Info("Applying JWT authentication middleware")
				r.Use(middleware.JWTAuthMiddleware(opts.Auth.SecretKey))
			} else {
				logger.Warn("Authentication disabled: applying development X-Owner-ID middleware")
				r.Use(middleware.DevOwnerContextMiddleware)
			}

			r.Route("/vocabularies", func(r chi.Router) {
				r.Post("/", vocabularyHandler.PostVocabulary)
				r.Get("/", vocabularyHandler.GetVocabularies)
				r.Get("/{vocab_id}", vocabularyHandler.GetVocabulary)
				r.Put("/{vocab_id}", vocabularyHandler.PutVocabulary)
				r.Delete("/{vocab_id}", vocabularyHandler.DeleteVocabulary)
			})

			r.Route("/quiz", func(r chi.Router) {
				r.Get("/word", quizHandler.GetWordQuiz)
				r.Post("/word/answer", quizHandler.PostWordAnswer)
				r.Get("/sentence", quizHandler.GetSentenceQuiz)
				r.Post("/sentence/answer", quizHandler.PostSentenceAnswer)
			})

			r.Get("/progress", progressHandler.GetProgress)
			r.Get("/progress/summary", progressHandler.GetSummary)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(r.Context()); err != nil {
				middleware.GetLogger(r.Context()).Error("Health check failed", slog.Any("error", err))
				http.Error(w, "Health check failed", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
