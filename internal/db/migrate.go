package db

import (
	"github.com/inhaeval/inhaeval-backend/internal/app/model"
	"github.com/inhaeval/inhaeval-backend/pkg/logger"
)

// Migrate runs database migrations. 이메일/학번/토큰 unique index가 중복
// 가입과 토큰 충돌의 최종 방어선이므로 반드시 스키마에 반영되어야 한다.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Member{},
		&model.EmailVerification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
