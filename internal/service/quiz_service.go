// internal/service/quiz_service.go
package service

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"go_vocab_quiz/internal/generator"
	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/repository"

	"gorm.io/gorm"
)

// Picker は [0, n) から一様に1つ選びます
type Picker interface {
	Intn(n int) int
}

type randPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker は seed が0なら現在時刻で初期化します
func NewPicker(seed int64) Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randPicker{rnd: rand.New(rand.NewSource(seed))}
}

func (p *randPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}

// SentenceGenerator は例文生成アダプタ
type SentenceGenerator interface {
	Generate(ctx context.Context, word string) generator.Sentence
}

type QuizService interface {
	IssueWordPrompt(ctx context.Context, ownerID uint, direction model.Direction) (*model.BoundPrompt, error)
	IssueSentencePrompt(ctx context.Context, ownerID uint) (*model.BoundPrompt, error)
	SubmitAnswer(ctx context.Context, ownerID uint, answer model.SubmitAnswer) (*model.AnswerResult, error)
}

type quizService struct {
	db          *gorm.DB
	vocabRepo   repository.VocabularyRepository
	progressSvc ProgressService
	sentences   SentenceGenerator
	picker      Picker
	signer      *PromptSigner
}

func NewQuizService(db *gorm.DB, vocabRepo repository.VocabularyRepository, progressSvc ProgressService, sentences SentenceGenerator, picker Picker, signer *PromptSigner) QuizService {
	if picker == nil {
		picker = NewPicker(0)
	}
	if signer == nil {
		signer = NewPromptSigner("", 0)
	}
	return &quizService{
		db:          db,
		vocabRepo:   vocabRepo,
		progressSvc: progressSvc,
		sentences:   sentences,
		picker:      picker,
		signer:      signer,
	}
}

// bind は出題内容に署名済みトークンを付けます
func (s *quizService) bind(ctx context.Context, ownerID uint, prompt *model.BoundPrompt) (*model.BoundPrompt, error) {
	token, err := s.signer.Sign(ownerID, prompt)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to sign prompt token", "error", err, "owner_id", ownerID, "vocab_id", prompt.VocabID)
		return nil, model.ErrInternalServer
	}
	prompt.Token = token
	return prompt, nil
}

func (s *quizService) pick(ctx context.Context, ownerID uint) (*model.Vocabulary, error) {
	vocabs, err := s.vocabRepo.FindByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, model.ErrInternalServer
	}
	if len(vocabs) == 0 {
		return nil, model.NewAppError("EMPTY_VOCABULARY", "Your vocabulary is empty. Add a word first.", "", model.ErrEmptyVocabulary)
	}
	return vocabs[s.picker.Intn(len(vocabs))], nil
}

func (s *quizService) IssueWordPrompt(ctx context.Context, ownerID uint, direction model.Direction) (*model.BoundPrompt, error) {
	if !direction.Valid() {
		return nil, model.NewAppError("INVALID_DIRECTION", "direction must be one of [eng_to_chi chi_to_eng]", "direction", model.ErrInvalidInput)
	}
	vocab, err := s.pick(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	question := vocab.English
	if direction == model.DirectionChiToEng {
		question = vocab.Translation
	}
	middleware.GetLogger(ctx).Debug("Word prompt issued", "owner_id", ownerID, "vocab_id", vocab.ID, "direction", direction)
	return s.bind(ctx, ownerID, &model.BoundPrompt{
		VocabID:   vocab.ID,
		Question:  question,
		Mode:      model.ModeWordQuiz,
		Direction: direction,
	})
}

// IssueSentencePrompt は生成した例文の単語を空欄にして返します。
// APIキー未設定ならテンプレート文をそのまま出題する。外部呼び出し中はトランザクションを開かない。
func (s *quizService) IssueSentencePrompt(ctx context.Context, ownerID uint) (*model.BoundPrompt, error) {
	logger := middleware.GetLogger(ctx).With("owner_id", ownerID)

	vocab, err := s.pick(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	logger = logger.With("vocab_id", vocab.ID)

	var sentence generator.Sentence
	if s.sentences == nil {
		sentence = generator.Sentence{Text: generator.NotConfiguredPlaceholder(vocab.English), Status: generator.StatusNotConfigured}
	} else {
		sentence = s.sentences.Generate(ctx, vocab.English)
	}

	switch sentence.Status {
	case generator.StatusOK:
	case generator.StatusNotConfigured:
		logger.Debug("Sentence service not configured, using template sentence")
	case generator.StatusInvalid:
		logger.Info("Sentence rejected by validation")
		return nil, model.NewAppError("SENTENCE_INVALID", sentence.Text, "", model.ErrPromptGenerationFailed)
	default:
		logger.Warn("Sentence generation failed", "status", sentence.Status.String())
		return nil, model.NewAppError("SENTENCE_FAILED", sentence.Text, "", model.ErrPromptGenerationFailed)
	}

	blanked, n := BlankWord(sentence.Text, vocab.English)
	if n == 0 {
		// 部分一致だけで単語単位の出現が無い (例: "undo" in "undone")
		logger.Info("Sentence has no whole-word occurrence", "sentence", sentence.Text)
		return nil, model.NewAppError("SENTENCE_INVALID", generator.InvalidPlaceholder(vocab.English), "", model.ErrPromptGenerationFailed)
	}

	return s.bind(ctx, ownerID, &model.BoundPrompt{
		VocabID:  vocab.ID,
		Question: blanked,
		Mode:     model.ModeSentenceQuiz,
	})
}

// BlankWord は大文字小文字を無視した単語単位の出現をすべて空欄にし、置換数を返します。
// 単語文字は Unicode の文字・数字と '_'。
func BlankWord(sentence, word string) (string, int) {
	if word == "" {
		return sentence, 0
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))

	var b strings.Builder
	last, n := 0, 0
	for _, loc := range re.FindAllStringIndex(sentence, -1) {
		if !isWordBoundary(sentence, loc[0], loc[1]) {
			continue
		}
		b.WriteString(sentence[last:loc[0]])
		b.WriteString(model.BlankMarker)
		last = loc[1]
		n++
	}
	if n == 0 {
		return sentence, 0
	}
	b.WriteString(sentence[last:])
	return b.String(), n
}

func isWordBoundary(s string, start, end int) bool {
	return atBoundary(s, start) && atBoundary(s, end)
}

// atBoundary は位置 i の前後で単語文字かどうかが切り替わるかを返します (Unicode 版の \b)
func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// SubmitAnswer は出題トークンの単語IDで再取得して採点し、同じトランザクションで結果を記録します。
// モードと方向はトークンに署名された値を使い、送信側の指定は信用しない。
func (s *quizService) SubmitAnswer(ctx context.Context, ownerID uint, answer model.SubmitAnswer) (*model.AnswerResult, error) {
	logger := middleware.GetLogger(ctx).With("owner_id", ownerID, "mode", answer.Mode)

	if answer.Mode != model.ModeWordQuiz && answer.Mode != model.ModeSentenceQuiz {
		return nil, model.NewAppError("INVALID_MODE", "unknown quiz mode", "mode", model.ErrInvalidInput)
	}
	claims, err := s.signer.Verify(answer.PromptToken, ownerID)
	if err != nil {
		logger.Info("Prompt token rejected", "error", err)
		return nil, err
	}
	if claims.Mode != answer.Mode {
		logger.Info("Prompt token used for another quiz mode", "token_mode", claims.Mode)
		return nil, model.NewAppError("PROMPT_MODE_MISMATCH", "This question belongs to a different quiz.", "prompt_token", model.ErrInvalidInput)
	}
	if claims.Mode == model.ModeWordQuiz && !claims.Direction.Valid() {
		return nil, model.NewAppError("INVALID_PROMPT_TOKEN", "The question token is invalid.", "prompt_token", model.ErrInvalidInput)
	}
	logger = logger.With("vocab_id", claims.VocabID)

	var result *model.AnswerResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vocab, err := s.vocabRepo.FindByID(ctx, tx, ownerID, claims.VocabID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return stalePromptError()
			}
			return err
		}

		expected, correct := grade(vocab, claims.Mode, claims.Direction, answer.Answer)
		event, err := s.progressSvc.RecordTx(ctx, tx, ownerID, vocab.ID, claims.Mode, correct)
		if err != nil {
			return err
		}

		result = &model.AnswerResult{
			VocabID:   vocab.ID,
			Mode:      claims.Mode,
			Direction: claims.Direction,
			Answer:    answer.Answer,
			Expected:  expected,
			Correct:   correct,
			EventID:   event.ID,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrStalePrompt) || errors.Is(err, model.ErrInvalidInput) {
			logger.Info("Answer rejected", "error", err)
			return nil, err
		}
		logger.Error("Transaction failed for SubmitAnswer", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Answer graded", "correct", result.Correct)
	return result, nil
}

// grade は期待される答えと正誤を返します。
// 英→中は大文字小文字を区別し、中→英と穴埋めは区別しない。
func grade(vocab *model.Vocabulary, mode model.QuizMode, direction model.Direction, answer string) (string, bool) {
	given := strings.TrimSpace(answer)
	if mode == model.ModeWordQuiz && direction == model.DirectionEngToChi {
		return vocab.Translation, given == vocab.Translation
	}
	return vocab.English, strings.EqualFold(given, vocab.English)
}
