// internal/repository/progress_repository.go
package repository

import (
	"context"
	"fmt"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository は回答イベントを追記のみで保存します。
// 削除は単語削除に伴う DeleteByVocabulary だけ。
type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *model.ProgressEvent) error
	FindByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]*model.ProgressEvent, error)
	DeleteByVocabulary(ctx context.Context, tx *gorm.DB, vocabID uint) (int64, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, event *model.ProgressEvent) error {
	logger := middleware.GetLogger(ctx)
	if result := tx.WithContext(ctx).Create(event); result.Error != nil {
		logger.Error("Error creating progress event in DB",
			"error", result.Error,
			"owner_id", event.OwnerID,
			"vocab_id", event.VocabID,
		)
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

// FindByOwner は作成順 (ID昇順) で返します
func (r *gormProgressRepository) FindByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]*model.ProgressEvent, error) {
	logger := middleware.GetLogger(ctx)
	var events []*model.ProgressEvent
	result := db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&events)
	if result.Error != nil {
		logger.Error("Error finding progress events by owner in DB", "error", result.Error, "owner_id", ownerID)
		return nil, fmt.Errorf("gormProgressRepository.FindByOwner: %w", result.Error)
	}
	return events, nil
}

func (r *gormProgressRepository) DeleteByVocabulary(ctx context.Context, tx *gorm.DB, vocabID uint) (int64, error) {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("vocab_id = ?", vocabID).Delete(&model.ProgressEvent{})
	if result.Error != nil {
		logger.Error("Error deleting progress events in DB", "error", result.Error, "vocab_id", vocabID)
		return 0, fmt.Errorf("gormProgressRepository.DeleteByVocabulary: %w", result.Error)
	}
	return result.RowsAffected, nil
}
