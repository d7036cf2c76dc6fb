package model

import (
	"time"
)

// VerificationTokenExpiry is the validity window of a verification token.
// 메일 본문의 만료 안내 문구도 이 값에서 파생된다.
const VerificationTokenExpiry = 30 * time.Minute

type EmailVerification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // 인증 레코드 ID
	Email     string    `gorm:"size:255;not null;index" json:"email"`       // 인증 대상 이메일
	Token     string    `gorm:"size:128;not null;uniqueIndex" json:"-"`     // 인증 토큰 (노출 금지)
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`                 // 만료 시각 (생성 후 고정)
	IsUsed    bool      `gorm:"not null" json:"is_used"`                    // 사용 여부
	CreatedAt time.Time `gorm:"not null" json:"created_at"`                 // 생성 시각
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

// NewEmailVerification creates an unused verification record whose expiry is
// fixed at creation time. 같은 이메일로 여러 토큰이 동시에 존재할 수 있으며
// 각 토큰은 자신의 ExpiresAt/IsUsed로만 판정된다.
func NewEmailVerification(email, token string) *EmailVerification {
	now := time.Now()
	return &EmailVerification{
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(VerificationTokenExpiry),
		IsUsed:    false,
		CreatedAt: now,
	}
}

// Expired reports whether the token's validity window has passed.
func (v *EmailVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
