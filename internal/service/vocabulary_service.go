// internal/service/vocabulary_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/ordering"
	"go_vocab_quiz/internal/repository"

	"gorm.io/gorm"
)

type VocabularyService interface {
	CreateVocabulary(ctx context.Context, ownerID uint, fields model.VocabularyFields) (*model.Vocabulary, error)
	GetVocabulary(ctx context.Context, ownerID, vocabID uint) (*model.Vocabulary, error)
	ListVocabulary(ctx context.Context, ownerID uint) ([]*model.Vocabulary, error)
	UpdateVocabulary(ctx context.Context, ownerID, vocabID uint, fields model.VocabularyFields) (*model.Vocabulary, error)
	DeleteVocabulary(ctx context.Context, ownerID, vocabID uint) error
}

type vocabularyService struct {
	db        *gorm.DB // トランザクション用にDB接続を持つ
	vocabRepo repository.VocabularyRepository
	progRepo  repository.ProgressRepository
}

func NewVocabularyService(db *gorm.DB, vocabRepo repository.VocabularyRepository, progRepo repository.ProgressRepository) VocabularyService {
	return &vocabularyService{
		db:        db,
		vocabRepo: vocabRepo,
		progRepo:  progRepo,
	}
}

// normalizeFields は前後の空白を除き、必須項目を確認します
func normalizeFields(fields model.VocabularyFields) (model.VocabularyFields, error) {
	normalized := model.VocabularyFields{
		Prefix:      strings.TrimSpace(fields.Prefix),
		Suffix:      strings.TrimSpace(fields.Suffix),
		English:     strings.TrimSpace(fields.English),
		Translation: strings.TrimSpace(fields.Translation),
	}
	if normalized.English == "" {
		return normalized, model.NewAppError("VALIDATION_ERROR", "english is required!", "english", model.ErrInvalidInput)
	}
	if normalized.Translation == "" {
		return normalized, model.NewAppError("VALIDATION_ERROR", "translation is required!", "translation", model.ErrInvalidInput)
	}
	return normalized, nil
}

func (s *vocabularyService) CreateVocabulary(ctx context.Context, ownerID uint, fields model.VocabularyFields) (*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx).With("owner_id", ownerID)

	normalized, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	var created *model.Vocabulary
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 重複チェック
		exists, err := s.vocabRepo.CheckEnglishExists(ctx, tx, ownerID, normalized.English, nil)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrDuplicateEnglish
		}

		// 2. 作成 (一意制約違反もここで ErrDuplicateEnglish になる)
		vocab := &model.Vocabulary{
			OwnerID:     ownerID,
			Prefix:      normalized.Prefix,
			Suffix:      normalized.Suffix,
			English:     normalized.English,
			Translation: normalized.Translation,
		}
		if err := s.vocabRepo.Create(ctx, tx, vocab); err != nil {
			return err
		}
		created = vocab
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEnglish) {
			logger.Warn("Duplicate english word", "english", normalized.English)
			return nil, model.NewAppError("DUPLICATE_ENGLISH", "This English word already exists in your vocabulary.", "english", model.ErrDuplicateEnglish)
		}
		logger.Error("Transaction failed for CreateVocabulary", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Vocabulary created", "vocab_id", created.ID)
	return created, nil
}

func (s *vocabularyService) GetVocabulary(ctx context.Context, ownerID, vocabID uint) (*model.Vocabulary, error) {
	vocab, err := s.vocabRepo.FindByID(ctx, s.db, ownerID, vocabID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, model.ErrInternalServer
	}
	return vocab, nil
}

// ListVocabulary は表示順 (接頭辞・接尾辞グループ順) に並べて返します
func (s *vocabularyService) ListVocabulary(ctx context.Context, ownerID uint) ([]*model.Vocabulary, error) {
	vocabs, err := s.vocabRepo.FindByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, model.ErrInternalServer
	}
	return ordering.Order(vocabs), nil
}

// UpdateVocabulary は4項目すべてを置き換えます
func (s *vocabularyService) UpdateVocabulary(ctx context.Context, ownerID, vocabID uint, fields model.VocabularyFields) (*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx).With("owner_id", ownerID, "vocab_id", vocabID)

	normalized, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	var updated *model.Vocabulary
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 存在確認 (他人のエントリも ErrNotFound)
		if _, err := s.vocabRepo.FindByID(ctx, tx, ownerID, vocabID); err != nil {
			return err
		}

		// 2. 自分以外との重複チェック
		exists, err := s.vocabRepo.CheckEnglishExists(ctx, tx, ownerID, normalized.English, &vocabID)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrDuplicateEnglish
		}

		updates := map[string]interface{}{
			"prefix":      normalized.Prefix,
			"suffix":      normalized.Suffix,
			"english":     normalized.English,
			"translation": normalized.Translation,
		}
		if err := s.vocabRepo.Update(ctx, tx, ownerID, vocabID, updates); err != nil {
			return err
		}

		updated, err = s.vocabRepo.FindByID(ctx, tx, ownerID, vocabID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return nil, model.ErrNotFound
		case errors.Is(err, model.ErrDuplicateEnglish):
			logger.Warn("Duplicate english word on update", "english", normalized.English)
			return nil, model.NewAppError("DUPLICATE_ENGLISH", "This English word already exists in your vocabulary.", "english", model.ErrDuplicateEnglish)
		}
		logger.Error("Transaction failed for UpdateVocabulary", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Vocabulary updated")
	return updated, nil
}

// DeleteVocabulary はエントリと、それを参照する回答イベントを同じトランザクションで削除します
func (s *vocabularyService) DeleteVocabulary(ctx context.Context, ownerID, vocabID uint) error {
	logger := middleware.GetLogger(ctx).With("owner_id", ownerID, "vocab_id", vocabID)

	var removedEvents int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.vocabRepo.Delete(ctx, tx, ownerID, vocabID); err != nil {
			return err
		}
		n, err := s.progRepo.DeleteByVocabulary(ctx, tx, vocabID)
		if err != nil {
			return err
		}
		removedEvents = n
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		logger.Error("Transaction failed for DeleteVocabulary", "error", err)
		return model.ErrInternalServer
	}

	logger.Info("Vocabulary deleted", "removed_progress_events", removedEvents)
	return nil
}
