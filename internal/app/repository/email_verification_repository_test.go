package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/inhaeval/inhaeval-backend/internal/app/model"
	"github.com/inhaeval/inhaeval-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVerificationTest(t *testing.T) EmailVerificationRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewEmailVerificationRepository(testDB)
}

func TestEmailVerificationRepository_Create(t *testing.T) {
	repo := setupVerificationTest(t)

	verification := model.NewEmailVerification("a@inha.ac.kr", "token-1")
	require.NoError(t, repo.Create(verification))
	assert.NotZero(t, verification.ID)

	// 토큰 문자열은 전역 unique
	duplicate := model.NewEmailVerification("b@inha.ac.kr", "token-1")
	assert.Error(t, repo.Create(duplicate))

	// 같은 이메일로 여러 토큰은 허용된다
	second := model.NewEmailVerification("a@inha.ac.kr", "token-2")
	assert.NoError(t, repo.Create(second))
}

func TestEmailVerificationRepository_FindByToken(t *testing.T) {
	repo := setupVerificationTest(t)

	verification := model.NewEmailVerification("a@inha.ac.kr", "token-1")
	require.NoError(t, repo.Create(verification))

	found, err := repo.FindByToken("token-1")
	require.NoError(t, err)
	assert.Equal(t, "a@inha.ac.kr", found.Email)
	assert.False(t, found.IsUsed)

	_, err = repo.FindByToken("nonexistent")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEmailVerificationRepository_FindLatestByEmail(t *testing.T) {
	repo := setupVerificationTest(t)

	first := model.NewEmailVerification("a@inha.ac.kr", "token-1")
	first.CreatedAt = time.Now().Add(-10 * time.Minute)
	require.NoError(t, repo.Create(first))

	second := model.NewEmailVerification("a@inha.ac.kr", "token-2")
	require.NoError(t, repo.Create(second))

	// 사용된 토큰도 최신이면 그대로 반환된다
	require.NoError(t, repo.Consume(second.ID))

	latest, err := repo.FindLatestByEmail("a@inha.ac.kr")
	require.NoError(t, err)
	assert.Equal(t, "token-2", latest.Token)
	assert.True(t, latest.IsUsed)

	_, err = repo.FindLatestByEmail("none@inha.ac.kr")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEmailVerificationRepository_Consume(t *testing.T) {
	repo := setupVerificationTest(t)

	verification := model.NewEmailVerification("a@inha.ac.kr", "token-1")
	require.NoError(t, repo.Create(verification))

	require.NoError(t, repo.Consume(verification.ID))

	found, err := repo.FindByToken("token-1")
	require.NoError(t, err)
	assert.True(t, found.IsUsed)

	// 두 번째 소비는 compare-and-set에 걸려 실패한다
	assert.ErrorIs(t, repo.Consume(verification.ID), ErrAlreadyConsumed)
}

func TestEmailVerificationRepository_ConsumeConcurrent(t *testing.T) {
	repo := setupVerificationTest(t)

	verification := model.NewEmailVerification("a@inha.ac.kr", "token-1")
	require.NoError(t, repo.Create(verification))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = repo.Consume(verification.ID)
		}(i)
	}
	wg.Wait()

	// 정확히 하나만 성공해야 한다
	success, alreadyUsed := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrAlreadyConsumed):
			alreadyUsed++
		default:
			t.Fatalf("unexpected consume error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, alreadyUsed)
}
