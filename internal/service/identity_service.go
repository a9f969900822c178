// internal/service/identity_service.go
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go_vocab_quiz/internal/config"
	"go_vocab_quiz/internal/middleware"
	"go_vocab_quiz/internal/model"
	"go_vocab_quiz/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityService は名前によるログインと初期単語の配布を担います
type IdentityService interface {
	Login(ctx context.Context, name string) (*model.Identity, bool, error)
	IssueToken(ctx context.Context, identity *model.Identity) (string, error)
	GetIdentity(ctx context.Context, ownerID uint) (*model.Identity, error)
}

type identityService struct {
	db           *gorm.DB
	identityRepo repository.IdentityRepository
	vocabRepo    repository.VocabularyRepository
	authCfg      config.AuthConfig
}

func NewIdentityService(db *gorm.DB, identityRepo repository.IdentityRepository, vocabRepo repository.VocabularyRepository, authCfg config.AuthConfig) IdentityService {
	return &identityService{
		db:           db,
		identityRepo: identityRepo,
		vocabRepo:    vocabRepo,
		authCfg:      authCfg,
	}
}

// Login は既存の名前ならその所有者を返し、初回なら作成して初期単語を配布します。
// 2つ目の戻り値は新規作成したかどうか。
func (s *identityService) Login(ctx context.Context, name string) (*model.Identity, bool, error) {
	name = strings.TrimSpace(name)
	logger := middleware.GetLogger(ctx).With("name", name)
	if name == "" {
		return nil, false, model.NewAppError("VALIDATION_ERROR", "name is required!", "name", model.ErrInvalidInput)
	}

	var identity *model.Identity
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.identityRepo.FindByName(ctx, tx, name)
		if err == nil {
			identity = existing
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		newIdentity := &model.Identity{Name: name}
		if err := s.identityRepo.Create(ctx, tx, newIdentity); err != nil {
			return err
		}
		for _, seed := range model.SeedVocabulary {
			vocab := &model.Vocabulary{
				OwnerID:     newIdentity.ID,
				Prefix:      seed.Prefix,
				Suffix:      seed.Suffix,
				English:     seed.English,
				Translation: seed.Chinese,
			}
			if err := s.vocabRepo.Create(ctx, tx, vocab); err != nil {
				return err
			}
		}
		identity = newIdentity
		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			// 同名の同時ログインに負けた場合は作成済みのものを返す
			existing, findErr := s.identityRepo.FindByName(ctx, s.db, name)
			if findErr == nil {
				return existing, false, nil
			}
		}
		logger.Error("Transaction failed for Login", "error", err)
		return nil, false, model.ErrInternalServer
	}

	if created {
		logger.Info("Identity created with seed vocabulary", "owner_id", identity.ID, "seed_count", len(model.SeedVocabulary))
	} else {
		logger.Info("Login successful", "owner_id", identity.ID)
	}
	return identity, created, nil
}

// IssueToken は所有者IDを sub に持つ HS256 トークンを発行します
func (s *identityService) IssueToken(ctx context.Context, identity *model.Identity) (string, error) {
	ttl := s.authCfg.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    config.AppName,
		Subject:   strconv.FormatUint(uint64(identity.ID), 10),
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authCfg.SecretKey))
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to sign JWT", "error", err, "owner_id", identity.ID)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to issue access token.", "", err)
	}
	return signed, nil
}

func (s *identityService) GetIdentity(ctx context.Context, ownerID uint) (*model.Identity, error) {
	identity, err := s.identityRepo.FindByID(ctx, s.db, ownerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, model.ErrInternalServer
	}
	return identity, nil
}
