package repository

import (
	"context"
	"errors"
	"fmt"

	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"

	"gorm.io/gorm"
)

type IdentityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, identity *model.Identity) error
	FindByName(ctx context.Context, db *gorm.DB, name string) (*model.Identity, error)
	FindByID(ctx context.Context, db *gorm.DB, ownerID uint) (*model.Identity, error)
}

type gormIdentityRepository struct{}

func NewGormIdentityRepository() IdentityRepository {
	return &gormIdentityRepository{}
}

func (r *gormIdentityRepository) Create(ctx context.Context, tx *gorm.DB, identity *model.Identity) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(identity)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating identity in DB", "error", result.Error, "name", identity.Name)
		return fmt.Errorf("gormIdentityRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormIdentityRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*model.Identity, error) {
	logger := middleware.GetLogger(ctx)
	var identity model.Identity
	result := db.WithContext(ctx).Where("name = ?", name).First(&identity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding identity by name in DB", "error", result.Error, "name", name)
		return nil, fmt.Errorf("gormIdentityRepository.FindByName: %w", result.Error)
	}
	return &identity, nil
}

func (r *gormIdentityRepository) FindByID(ctx context.Context, db *gorm.DB, ownerID uint) (*model.Identity, error) {
	logger := middleware.GetLogger(ctx)
	var identity model.Identity
	result := db.WithContext(ctx).First(&identity, ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding identity by ID in DB", "error", result.Error, "owner_id", ownerID)
		return nil, fmt.Errorf("gormIdentityRepository.FindByID: %w", result.Error)
	}
	return &identity, nil
}
