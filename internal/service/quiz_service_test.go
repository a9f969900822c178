package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go_vocab_quiz/internal/generator"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr), "expected *model.AppError, got %v", err)
	return appErr.Detail.Code
}

func Test_quizService_IssueWordPrompt(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, fixedPicker(1))

	_, err := svcs.quiz.IssueWordPrompt(ctx, 1, model.DirectionEngToChi)
	assert.ErrorIs(t, err, model.ErrEmptyVocabulary)

	svcs.addVocab(t, 1, "predict", "預測")
	undo := svcs.addVocab(t, 1, "undo", "撤銷")

	t.Run("英→中は英単語を出題", func(t *testing.T) {
		prompt, err := svcs.quiz.IssueWordPrompt(ctx, 1, model.DirectionEngToChi)
		require.NoError(t, err)
		assert.Equal(t, undo.ID, prompt.VocabID)
		assert.Equal(t, "undo", prompt.Question)
		assert.Equal(t, model.ModeWordQuiz, prompt.Mode)
		assert.Equal(t, model.DirectionEngToChi, prompt.Direction)
		assert.NotEmpty(t, prompt.Token)
	})

	t.Run("中→英は翻訳を出題", func(t *testing.T) {
		prompt, err := svcs.quiz.IssueWordPrompt(ctx, 1, model.DirectionChiToEng)
		require.NoError(t, err)
		assert.Equal(t, undo.ID, prompt.VocabID)
		assert.Equal(t, "撤銷", prompt.Question)
	})

	t.Run("不明な方向", func(t *testing.T) {
		_, err := svcs.quiz.IssueWordPrompt(ctx, 1, model.Direction("sideways"))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("他人の単語帳は空として扱う", func(t *testing.T) {
		_, err := svcs.quiz.IssueWordPrompt(ctx, 2, model.DirectionEngToChi)
		assert.ErrorIs(t, err, model.ErrEmptyVocabulary)
	})
}

func Test_quizService_IssueSentencePrompt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		english  string
		sentence generator.Sentence
		want     string
		wantCode string
	}{
		{
			name:     "正常系: 単語を空欄にする",
			english:  "predict",
			sentence: generator.Sentence{Text: "Experts Predict rain tomorrow.", Status: generator.StatusOK},
			want:     "Experts ____ rain tomorrow.",
		},
		{
			name:     "異常系: 単語単位の出現が無い",
			english:  "undo",
			sentence: generator.Sentence{Text: "The damage was undone quickly.", Status: generator.StatusOK},
			wantCode: "SENTENCE_INVALID",
		},
		{
			name:     "異常系: 検証で不合格",
			english:  "predict",
			sentence: generator.Sentence{Text: generator.InvalidPlaceholder("predict"), Status: generator.StatusInvalid},
			wantCode: "SENTENCE_INVALID",
		},
		{
			name:     "異常系: 生成失敗",
			english:  "predict",
			sentence: generator.Sentence{Text: generator.FailedPlaceholder("predict"), Status: generator.StatusFailed},
			wantCode: "SENTENCE_FAILED",
		},
		{
			name:     "正常系: 非ASCIIの単語",
			english:  "café",
			sentence: generator.Sentence{Text: "We met at the Café today.", Status: generator.StatusOK},
			want:     "We met at the ____ today.",
		},
		{
			name:     "正常系: 未設定ならテンプレート文で出題",
			english:  "predict",
			sentence: generator.Sentence{Text: generator.NotConfiguredPlaceholder("predict"), Status: generator.StatusNotConfigured},
			want:     "Placeholder sentence with ____.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs := newTestServices(t, fixedPicker(0))
			vocab := svcs.addVocab(t, 1, tt.english, "x")
			svcs.sentences.sentence = tt.sentence

			prompt, err := svcs.quiz.IssueSentencePrompt(ctx, 1)
			assert.Equal(t, []string{tt.english}, svcs.sentences.words)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrPromptGenerationFailed)
				assert.Equal(t, tt.wantCode, appErrorCode(t, err))
				assert.Nil(t, prompt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, vocab.ID, prompt.VocabID)
			assert.Equal(t, tt.want, prompt.Question)
			assert.Equal(t, model.ModeSentenceQuiz, prompt.Mode)
			assert.NotContains(t, prompt.Question, tt.english)

			claims, err := svcs.signer.Verify(prompt.Token, 1)
			require.NoError(t, err)
			assert.Equal(t, vocab.ID, claims.VocabID)
			assert.Equal(t, model.ModeSentenceQuiz, claims.Mode)
		})
	}
}

func Test_quizService_IssueSentencePrompt_NilGenerator(t *testing.T) {
	db := setupTestDB(t)
	vocabRepo := repository.NewGormVocabularyRepository()
	progress := NewProgressService(db, repository.NewGormProgressRepository(), vocabRepo)
	quiz := NewQuizService(db, vocabRepo, progress, nil, fixedPicker(0), nil)
	require.NoError(t, vocabRepo.Create(context.Background(), db, &model.Vocabulary{OwnerID: 1, English: "undo", Translation: "撤銷"}))

	prompt, err := quiz.IssueSentencePrompt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Placeholder sentence with ____.", prompt.Question)
}

func Test_quizService_IssueSentencePrompt_Empty(t *testing.T) {
	svcs := newTestServices(t, nil)
	_, err := svcs.quiz.IssueSentencePrompt(context.Background(), 1)
	assert.ErrorIs(t, err, model.ErrEmptyVocabulary)
	assert.Empty(t, svcs.sentences.words, "generator must not be called for an empty vocabulary")
}

func TestBlankWord(t *testing.T) {
	got, n := BlankWord("Undo it, then UNDO again.", "undo")
	assert.Equal(t, "____ it, then ____ again.", got)
	assert.Equal(t, 2, n)

	got, n = BlankWord("It was undone.", "undo")
	assert.Equal(t, "It was undone.", got)
	assert.Zero(t, n)

	got, n = BlankWord("We met at the CAFÉ, then another café.", "café")
	assert.Equal(t, "We met at the ____, then another ____.", got)
	assert.Equal(t, 2, n)

	got, n = BlankWord("Naïve readers", "naïve")
	assert.Equal(t, "____ readers", got)
	assert.Equal(t, 1, n)

	got, n = BlankWord("cafés are open", "café")
	assert.Zero(t, n, "a trailing non-ASCII letter still belongs to the word")
	assert.Equal(t, "cafés are open", got)

	got, n = BlankWord("Is c++ (really) hard?", "(really)")
	assert.Zero(t, n, "no word boundary around punctuation-only edges")
	assert.Equal(t, "Is c++ (really) hard?", got)
}

func Test_quizService_SubmitAnswer(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, fixedPicker(0))
	vocab := svcs.addVocab(t, 1, "Predict", "預測")

	tests := []struct {
		name         string
		answer       model.SubmitAnswer
		wantCorrect  bool
		wantExpected string
	}{
		{"英→中 正解", svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionEngToChi, " 預測 "), true, "預測"},
		{"英→中 不正解", svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionEngToChi, "預言"), false, "預測"},
		{"英→中 英単語をそのまま答えても不正解", svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionEngToChi, "Predict"), false, "預測"},
		{"中→英 大文字小文字を無視", svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionChiToEng, "pREDICT"), true, "Predict"},
		{"中→英 不正解", svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionChiToEng, "predicts"), false, "Predict"},
		{"穴埋め 大文字小文字を無視", svcs.answerFor(t, 1, vocab, model.ModeSentenceQuiz, "", " predict"), true, "Predict"},
		{"穴埋め 空回答", svcs.answerFor(t, 1, vocab, model.ModeSentenceQuiz, "", ""), false, "Predict"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svcs.quiz.SubmitAnswer(ctx, 1, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCorrect, result.Correct)
			assert.Equal(t, tt.wantExpected, result.Expected)
			assert.Equal(t, vocab.ID, result.VocabID)
			assert.NotZero(t, result.EventID)

			records, err := svcs.progress.ListProgress(ctx, 1)
			require.NoError(t, err)
			require.Len(t, records, i+1, "exactly one event per answer")
			last := records[len(records)-1]
			assert.Equal(t, result.EventID, last.ID)
			assert.Equal(t, tt.wantCorrect, last.Correct)
			assert.Equal(t, tt.answer.Mode, last.Mode)
		})
	}
}

func Test_quizService_SubmitAnswer_Invalid(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, nil)
	vocab := svcs.addVocab(t, 1, "undo", "撤銷")

	wordToken := svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionEngToChi, "撤銷").PromptToken
	noDirection := svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, "", "撤銷")
	expired := NewPromptSigner(testAuthConfig.SecretKey, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, err := expired.Sign(1, &model.BoundPrompt{VocabID: vocab.ID, Mode: model.ModeWordQuiz, Direction: model.DirectionEngToChi})
	require.NoError(t, err)
	foreignKey, err := NewPromptSigner("another-secret", time.Minute).Sign(1, &model.BoundPrompt{VocabID: vocab.ID, Mode: model.ModeWordQuiz, Direction: model.DirectionEngToChi})
	require.NoError(t, err)
	accessToken, err := svcs.identity.IssueToken(ctx, &model.Identity{ID: 1, Name: "alice"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		answer   model.SubmitAnswer
		wantErr  error
		wantCode string
	}{
		{"不明なモード", model.SubmitAnswer{PromptToken: wordToken, Mode: "listening", Answer: "撤銷"}, model.ErrInvalidInput, "INVALID_MODE"},
		{"トークン無し", model.SubmitAnswer{Mode: model.ModeWordQuiz, Answer: "撤銷"}, model.ErrInvalidInput, "INVALID_PROMPT_TOKEN"},
		{"改ざん", model.SubmitAnswer{PromptToken: wordToken + "x", Mode: model.ModeWordQuiz, Answer: "撤銷"}, model.ErrInvalidInput, "INVALID_PROMPT_TOKEN"},
		{"別の鍵で署名", model.SubmitAnswer{PromptToken: foreignKey, Mode: model.ModeWordQuiz, Answer: "撤銷"}, model.ErrInvalidInput, "INVALID_PROMPT_TOKEN"},
		{"アクセストークンは出題トークンではない", model.SubmitAnswer{PromptToken: accessToken, Mode: model.ModeWordQuiz, Answer: "撤銷"}, model.ErrInvalidInput, "INVALID_PROMPT_TOKEN"},
		{"方向の無い単語クイズ", noDirection, model.ErrInvalidInput, "INVALID_PROMPT_TOKEN"},
		{"別モードのエンドポイント", model.SubmitAnswer{PromptToken: wordToken, Mode: model.ModeSentenceQuiz, Answer: "undo"}, model.ErrInvalidInput, "PROMPT_MODE_MISMATCH"},
		{"期限切れ", model.SubmitAnswer{PromptToken: expiredToken, Mode: model.ModeWordQuiz, Answer: "撤銷"}, model.ErrStalePrompt, "STALE_PROMPT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svcs.quiz.SubmitAnswer(ctx, 1, tt.answer)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, appErrorCode(t, err))
		})
	}

	records, err := svcs.progress.ListProgress(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// 英→中で出題された問題は、中→英として採点させることができない
func Test_quizService_SubmitAnswer_DirectionIsBoundToPrompt(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, fixedPicker(0))
	svcs.addVocab(t, 1, "predict", "預測")

	prompt, err := svcs.quiz.IssueWordPrompt(ctx, 1, model.DirectionEngToChi)
	require.NoError(t, err)
	require.Equal(t, "predict", prompt.Question)

	result, err := svcs.quiz.SubmitAnswer(ctx, 1, model.SubmitAnswer{PromptToken: prompt.Token, Mode: model.ModeWordQuiz, Answer: "predict"})
	require.NoError(t, err)
	assert.False(t, result.Correct, "echoing the displayed word is not the translation")
	assert.Equal(t, model.DirectionEngToChi, result.Direction)
	assert.Equal(t, "預測", result.Expected)

	summary, err := svcs.progress.Summary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Zero(t, summary.Correct)
}

func Test_quizService_BindingIntegrity(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, fixedPicker(0))
	vocab := svcs.addVocab(t, 1, "predict", "預測")

	prompt, err := svcs.quiz.IssueWordPrompt(ctx, 1, model.DirectionEngToChi)
	require.NoError(t, err)
	require.Equal(t, vocab.ID, prompt.VocabID)

	// 出題後に削除され、同じ英単語で別エントリが作られても元のIDでは採点しない
	require.NoError(t, svcs.vocab.DeleteVocabulary(ctx, 1, vocab.ID))
	replacement := svcs.addVocab(t, 1, "predict", "預測")
	assert.NotEqual(t, vocab.ID, replacement.ID, "ids are never reused")

	_, err = svcs.quiz.SubmitAnswer(ctx, 1, model.SubmitAnswer{PromptToken: prompt.Token, Mode: prompt.Mode, Answer: "預測"})
	assert.ErrorIs(t, err, model.ErrStalePrompt)
	assert.Equal(t, "STALE_PROMPT", appErrorCode(t, err))

	records, err := svcs.progress.ListProgress(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, records, "stale answers are not recorded")
}

func Test_quizService_SubmitAnswer_ForeignOwnerIsStale(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, nil)
	vocab := svcs.addVocab(t, 1, "predict", "預測")

	// owner 1 宛てのトークンを owner 2 が使う
	_, err := svcs.quiz.SubmitAnswer(ctx, 2, svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionEngToChi, "預測"))
	assert.ErrorIs(t, err, model.ErrStalePrompt)

	// owner 2 宛てでも単語が owner 1 のものなら見つからない
	_, err = svcs.quiz.SubmitAnswer(ctx, 2, svcs.answerFor(t, 2, vocab, model.ModeWordQuiz, model.DirectionEngToChi, "預測"))
	assert.ErrorIs(t, err, model.ErrStalePrompt)
}

func Test_quizService_ConcurrentAnswers(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, NewPicker(42))
	vocab := svcs.addVocab(t, 1, "predict", "預測")

	const n = 10
	answer := svcs.answerFor(t, 1, vocab, model.ModeWordQuiz, model.DirectionEngToChi, "預測")
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svcs.quiz.SubmitAnswer(ctx, 1, answer)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	records, err := svcs.progress.ListProgress(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, n)
	seen := map[uint]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "progress ids are unique")
		seen[r.ID] = true
	}
}

func TestNewPicker_Deterministic(t *testing.T) {
	a := NewPicker(7)
	b := NewPicker(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(12), b.Intn(12))
	}
}
