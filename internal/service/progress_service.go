// internal/service/progress_service.go
package service

import (
	"context"
	"time"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/repository"

	"gorm.io/gorm"
)

// ProgressService は回答イベントの追記と参照を担います
type ProgressService interface {
	Record(ctx context.Context, ownerID, vocabID uint, mode model.QuizMode, correct bool) (*model.ProgressEvent, error)
	RecordTx(ctx context.Context, tx *gorm.DB, ownerID, vocabID uint, mode model.QuizMode, correct bool) (*model.ProgressEvent, error)
	ListProgress(ctx context.Context, ownerID uint) ([]*model.ProgressRecord, error)
	Summary(ctx context.Context, ownerID uint) (*model.ProgressSummary, error)
}

type progressService struct {
	db        *gorm.DB
	progRepo  repository.ProgressRepository
	vocabRepo repository.VocabularyRepository
	now       func() time.Time
}

func NewProgressService(db *gorm.DB, progRepo repository.ProgressRepository, vocabRepo repository.VocabularyRepository) ProgressService {
	return &progressService{
		db:        db,
		progRepo:  progRepo,
		vocabRepo: vocabRepo,
		now:       time.Now,
	}
}

func (s *progressService) Record(ctx context.Context, ownerID, vocabID uint, mode model.QuizMode, correct bool) (*model.ProgressEvent, error) {
	return s.RecordTx(ctx, s.db, ownerID, vocabID, mode, correct)
}

// RecordTx は呼び出し側のトランザクション内でイベントを1件追記します
func (s *progressService) RecordTx(ctx context.Context, tx *gorm.DB, ownerID, vocabID uint, mode model.QuizMode, correct bool) (*model.ProgressEvent, error) {
	if mode != model.ModeWordQuiz && mode != model.ModeSentenceQuiz {
		return nil, model.NewAppError("INVALID_MODE", "unknown quiz mode", "mode", model.ErrInvalidInput)
	}
	event := &model.ProgressEvent{
		OwnerID:   ownerID,
		VocabID:   vocabID,
		Correct:   correct,
		Mode:      mode,
		Timestamp: s.now().UTC(),
	}
	if err := s.progRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Debug("Progress recorded",
		"owner_id", ownerID,
		"vocab_id", vocabID,
		"mode", mode,
		"correct", correct,
	)
	return event, nil
}

// ListProgress は作成順に返します。参照先の単語が無いイベントは "Deleted Word" で表示する
func (s *progressService) ListProgress(ctx context.Context, ownerID uint) ([]*model.ProgressRecord, error) {
	events, err := s.progRepo.FindByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, model.ErrInternalServer
	}

	ids := make([]uint, 0, len(events))
	seen := make(map[uint]struct{}, len(events))
	for _, e := range events {
		if _, ok := seen[e.VocabID]; ok {
			continue
		}
		seen[e.VocabID] = struct{}{}
		ids = append(ids, e.VocabID)
	}

	vocabs, err := s.vocabRepo.FindByIDs(ctx, s.db, ownerID, ids)
	if err != nil {
		return nil, model.ErrInternalServer
	}
	byID := make(map[uint]*model.Vocabulary, len(vocabs))
	for _, v := range vocabs {
		byID[v.ID] = v
	}

	records := make([]*model.ProgressRecord, 0, len(events))
	for _, e := range events {
		record := &model.ProgressRecord{
			ID:        e.ID,
			VocabID:   e.VocabID,
			Correct:   e.Correct,
			Mode:      e.Mode,
			Timestamp: e.Timestamp,
		}
		if v, ok := byID[e.VocabID]; ok {
			record.English = v.English
			record.Translation = v.Translation
		} else {
			record.English = model.DeletedWordEnglish
			record.Deleted = true
		}
		records = append(records, record)
	}
	return records, nil
}

// Summary は全体とモード別の正答数・正答率を返します
func (s *progressService) Summary(ctx context.Context, ownerID uint) (*model.ProgressSummary, error) {
	events, err := s.progRepo.FindByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, model.ErrInternalServer
	}

	word := &model.ModeSummary{Mode: model.ModeWordQuiz}
	sentence := &model.ModeSummary{Mode: model.ModeSentenceQuiz}
	summary := &model.ProgressSummary{ByMode: []*model.ModeSummary{word, sentence}}
	for _, e := range events {
		m := word
		if e.Mode == model.ModeSentenceQuiz {
			m = sentence
		}
		m.Total++
		summary.Total++
		if e.Correct {
			m.Correct++
			summary.Correct++
		}
	}

	summary.Accuracy = accuracy(summary.Correct, summary.Total)
	for _, m := range summary.ByMode {
		m.Accuracy = accuracy(m.Correct, m.Total)
	}
	return summary, nil
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
