package repository

import (
	"errors"

	"github.com/inhaeval/inhaeval-backend/internal/app/model"
	"github.com/inhaeval/inhaeval-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrAlreadyConsumed is returned by Consume when the token row was flipped by
// a concurrent caller first.
var ErrAlreadyConsumed = errors.New("verification token already consumed")

type EmailVerificationRepository interface {
	Create(verification *model.EmailVerification) error
	FindByToken(token string) (*model.EmailVerification, error)
	FindLatestByEmail(email string) (*model.EmailVerification, error)
	Consume(id uint) error
}

type emailVerificationRepository struct {
	db *gorm.DB
}

func NewEmailVerificationRepository(db *gorm.DB) EmailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

func (r *emailVerificationRepository) Create(verification *model.EmailVerification) error {
	logger.Debug("Creating email verification in database", map[string]interface{}{
		"email": verification.Email,
	})

	if err := r.db.Create(verification).Error; err != nil {
		logger.Error("Failed to create email verification in database", err, map[string]interface{}{
			"email": verification.Email,
		})
		return err
	}

	logger.Debug("Email verification created in database", map[string]interface{}{
		"id":    verification.ID,
		"email": verification.Email,
	})
	return nil
}

func (r *emailVerificationRepository) FindByToken(token string) (*model.EmailVerification, error) {
	logger.Debug("Finding email verification by token in database")

	var verification model.EmailVerification
	if err := r.db.Where("token = ?", token).First(&verification).Error; err != nil {
		logger.Error("Failed to find email verification by token in database", err)
		return nil, err
	}
	return &verification, nil
}

// FindLatestByEmail returns the most recently issued token for the email
// regardless of its used/expired state. 재발송 흐름 지원용.
func (r *emailVerificationRepository) FindLatestByEmail(email string) (*model.EmailVerification, error) {
	var verification model.EmailVerification
	if err := r.db.Where("email = ?", email).
		Order("created_at DESC, id DESC").
		First(&verification).Error; err != nil {
		logger.Error("Failed to find latest email verification in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &verification, nil
}

// Consume flips is_used with a compare-and-set guarded by is_used = false.
// 동시에 두 요청이 같은 토큰을 소비하면 정확히 하나만 성공하고 나머지는
// ErrAlreadyConsumed를 받는다.
func (r *emailVerificationRepository) Consume(id uint) error {
	logger.Debug("Consuming email verification in database", map[string]interface{}{
		"id": id,
	})

	result := r.db.Model(&model.EmailVerification{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if result.Error != nil {
		logger.Error("Failed to consume email verification in database", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Email verification was already consumed", map[string]interface{}{
			"id": id,
		})
		return ErrAlreadyConsumed
	}

	logger.Debug("Email verification consumed in database", map[string]interface{}{
		"id": id,
	})
	return nil
}
