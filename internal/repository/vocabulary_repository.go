package repository

import (
	"context"
	"errors"
	"fmt"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"

	"gorm.io/gorm"
)

// VocabularyRepository は単語エントリの永続化を担います。
// 検索・更新・削除は常に所有者IDで絞り込み、他人のエントリは「存在しない」と同じ扱いにする。
type VocabularyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, vocab *model.Vocabulary) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, vocabID uint) (*model.Vocabulary, error)
	FindByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]*model.Vocabulary, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ownerID uint, vocabIDs []uint) ([]*model.Vocabulary, error)
	Update(ctx context.Context, tx *gorm.DB, ownerID, vocabID uint, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, ownerID, vocabID uint) error
	CheckEnglishExists(ctx context.Context, db *gorm.DB, ownerID uint, english string, excludeID *uint) (bool, error)
}

type gormVocabularyRepository struct{}

func NewGormVocabularyRepository() VocabularyRepository {
	return &gormVocabularyRepository{}
}

func (r *gormVocabularyRepository) Create(ctx context.Context, tx *gorm.DB, vocab *model.Vocabulary) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(vocab)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrDuplicateEnglish
		}
		logger.Error("Error creating vocabulary in DB",
			"error", result.Error,
			"owner_id", vocab.OwnerID,
			"english", vocab.English,
		)
		return fmt.Errorf("gormVocabularyRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormVocabularyRepository) FindByID(ctx context.Context, db *gorm.DB, ownerID, vocabID uint) (*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx)
	var vocab model.Vocabulary
	result := db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, vocabID).First(&vocab)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding vocabulary by ID in DB",
			"error", result.Error,
			"owner_id", ownerID,
			"vocab_id", vocabID,
		)
		return nil, fmt.Errorf("gormVocabularyRepository.FindByID: %w", result.Error)
	}
	return &vocab, nil
}

// FindByOwner は作成順 (ID昇順) で返します
func (r *gormVocabularyRepository) FindByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx)
	var vocabs []*model.Vocabulary
	result := db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&vocabs)
	if result.Error != nil {
		logger.Error("Error finding vocabularies by owner in DB", "error", result.Error, "owner_id", ownerID)
		return nil, fmt.Errorf("gormVocabularyRepository.FindByOwner: %w", result.Error)
	}
	return vocabs, nil
}

func (r *gormVocabularyRepository) FindByIDs(ctx context.Context, db *gorm.DB, ownerID uint, vocabIDs []uint) ([]*model.Vocabulary, error) {
	logger := middleware.GetLogger(ctx)
	if len(vocabIDs) == 0 {
		return []*model.Vocabulary{}, nil
	}
	var vocabs []*model.Vocabulary
	result := db.WithContext(ctx).Where("owner_id = ? AND id IN ?", ownerID, vocabIDs).Find(&vocabs)
	if result.Error != nil {
		logger.Error("Error finding vocabularies by IDs in DB", "error", result.Error, "owner_id", ownerID)
		return nil, fmt.Errorf("gormVocabularyRepository.FindByIDs: %w", result.Error)
	}
	return vocabs, nil
}

func (r *gormVocabularyRepository) Update(ctx context.Context, tx *gorm.DB, ownerID, vocabID uint, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Vocabulary{}).Where("owner_id = ? AND id = ?", ownerID, vocabID).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrDuplicateEnglish
		}
		logger.Error("Error updating vocabulary in DB",
			"error", result.Error,
			"owner_id", ownerID,
			"vocab_id", vocabID,
		)
		return fmt.Errorf("gormVocabularyRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormVocabularyRepository) Delete(ctx context.Context, tx *gorm.DB, ownerID, vocabID uint) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, vocabID).Delete(&model.Vocabulary{})
	if result.Error != nil {
		logger.Error("Error deleting vocabulary in DB",
			"error", result.Error,
			"owner_id", ownerID,
			"vocab_id", vocabID,
		)
		return fmt.Errorf("gormVocabularyRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CheckEnglishExists は所有者内で同じ英単語 (大文字小文字を区別) があるかを返します
func (r *gormVocabularyRepository) CheckEnglishExists(ctx context.Context, db *gorm.DB, ownerID uint, english string, excludeID *uint) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	query := db.WithContext(ctx).Model(&model.Vocabulary{}).Where("owner_id = ? AND english = ?", ownerID, english)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if result := query.Count(&count); result.Error != nil {
		logger.Error("Error checking english existence in DB",
			"error", result.Error,
			"owner_id", ownerID,
			"english", english,
		)
		return false, fmt.Errorf("gormVocabularyRepository.CheckEnglishExists: %w", result.Error)
	}
	return count > 0, nil
}
