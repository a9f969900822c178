package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"go_vocab_quiz/internal/generator"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB はテストごとに独立したインメモリ sqlite を用意します
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB(repository.DriverSQLite, dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fixedPicker は常に同じ位置 (範囲外なら末尾) を選ぶ
type fixedPicker int

func (p fixedPicker) Intn(n int) int {
	if int(p) >= n {
		return n - 1
	}
	return int(p)
}

// stubGenerator は決まった結果を返す SentenceGenerator
type stubGenerator struct {
	sentence generator.Sentence
	words    []string
}

func (g *stubGenerator) Generate(ctx context.Context, word string) generator.Sentence {
	g.words = append(g.words, word)
	return g.sentence
}

type testServices struct {
	db        *gorm.DB
	vocabRepo repository.VocabularyRepository
	progRepo  repository.ProgressRepository
	vocab     VocabularyService
	progress  ProgressService
	quiz      QuizService
	identity  IdentityService
	sentences *stubGenerator
	signer    *PromptSigner
}

func newTestServices(t *testing.T, picker Picker) *testServices {
	t.Helper()
	db := setupTestDB(t)
	vocabRepo := repository.NewGormVocabularyRepository()
	progRepo := repository.NewGormProgressRepository()
	identityRepo := repository.NewGormIdentityRepository()
	sentences := &stubGenerator{}

	progress := NewProgressService(db, progRepo, vocabRepo)
	signer := NewPromptSigner(testAuthConfig.SecretKey, time.Minute)
	return &testServices{
		db:        db,
		vocabRepo: vocabRepo,
		progRepo:  progRepo,
		vocab:     NewVocabularyService(db, vocabRepo, progRepo),
		progress:  progress,
		quiz:      NewQuizService(db, vocabRepo, progress, sentences, picker, signer),
		identity:  NewIdentityService(db, identityRepo, vocabRepo, testAuthConfig),
		sentences: sentences,
		signer:    signer,
	}
}

func (s *testServices) addVocab(t *testing.T, ownerID uint, english, translation string) *model.Vocabulary {
	t.Helper()
	v, err := s.vocab.CreateVocabulary(context.Background(), ownerID, model.VocabularyFields{English: english, Translation: translation})
	require.NoError(t, err)
	return v
}

// answerFor は vocab に対する出題トークン付きの回答を作ります
func (s *testServices) answerFor(t *testing.T, ownerID uint, vocab *model.Vocabulary, mode model.QuizMode, direction model.Direction, answer string) model.SubmitAnswer {
	t.Helper()
	token, err := s.signer.Sign(ownerID, &model.BoundPrompt{VocabID: vocab.ID, Mode: mode, Direction: direction})
	require.NoError(t, err)
	return model.SubmitAnswer{PromptToken: token, Mode: mode, Answer: answer}
}
