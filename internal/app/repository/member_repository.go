package repository

import (
	"github.com/inhaeval/inhaeval-backend/internal/app/model"
	"github.com/inhaeval/inhaeval-backend/pkg/logger"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(member *model.Member) error
	FindByID(id uint) (*model.Member, error)
	FindByEmail(email string) (*model.Member, error)
	FindByStudentID(studentID string) (*model.Member, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByStudentID(studentID string) (bool, error)
	MarkVerified(email string) error
	Deactivate(id uint) error
	AdjustPoints(id uint, delta int) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(member *model.Member) error {
	logger.Debug("Creating member in database", map[string]interface{}{
		"email": member.Email,
	})

	if err := r.db.Create(member).Error; err != nil {
		logger.Error("Failed to create member in database", err, map[string]interface{}{
			"email": member.Email,
		})
		return err
	}

	logger.Debug("Member created in database", map[string]interface{}{
		"member_id": member.ID,
		"email":     member.Email,
	})
	return nil
}

func (r *memberRepository) FindByID(id uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.First(&member, id).Error; err != nil {
		logger.Error("Failed to find member by ID in database", err, map[string]interface{}{
			"member_id": id,
		})
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByEmail(email string) (*model.Member, error) {
	var member model.Member
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		logger.Error("Failed to find member by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByStudentID(studentID string) (*model.Member, error) {
	var member model.Member
	if err := r.db.Where("student_id = ?", studentID).First(&member).Error; err != nil {
		logger.Error("Failed to find member by student ID in database", err, map[string]interface{}{
			"student_id": studentID,
		})
		return nil, err
	}
	return &member, nil
}

// ExistsByEmail reports whether any member, active or deactivated, holds the
// email. 탈퇴한 회원의 이메일도 재사용할 수 없다.
func (r *memberRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Member{}).Where("email = ?", email).Count(&count).Error; err != nil {
		logger.Error("Failed to count members by email in database", err, map[string]interface{}{
			"email": email,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *memberRepository) ExistsByStudentID(studentID string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Member{}).Where("student_id = ?", studentID).Count(&count).Error; err != nil {
		logger.Error("Failed to count members by student ID in database", err, map[string]interface{}{
			"student_id": studentID,
		})
		return false, err
	}
	return count > 0, nil
}

// MarkVerified flips is_verified for the member owning the email. The update
// is conditional so repeated calls are idempotent.
func (r *memberRepository) MarkVerified(email string) error {
	logger.Debug("Marking member as verified in database", map[string]interface{}{
		"email": email,
	})

	if err := r.db.Model(&model.Member{}).
		Where("email = ? AND is_verified = ?", email, false).
		Update("is_verified", true).Error; err != nil {
		logger.Error("Failed to mark member as verified in database", err, map[string]interface{}{
			"email": email,
		})
		return err
	}
	return nil
}

func (r *memberRepository) Deactivate(id uint) error {
	logger.Debug("Deactivating member in database", map[string]interface{}{
		"member_id": id,
	})

	if err := r.db.Model(&model.Member{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		logger.Error("Failed to deactivate member in database", err, map[string]interface{}{
			"member_id": id,
		})
		return err
	}
	return nil
}

func (r *memberRepository) AdjustPoints(id uint, delta int) error {
	logger.Debug("Adjusting member points in database", map[string]interface{}{
		"member_id": id,
		"delta":     delta,
	})

	if err := r.db.Model(&model.Member{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", delta)).Error; err != nil {
		logger.Error("Failed to adjust member points in database", err, map[string]interface{}{
			"member_id": id,
		})
		return err
	}
	return nil
}
