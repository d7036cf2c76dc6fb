package model

import (
	"time"
)

type MemberRole string // 회원 권한 타입

const (
	RoleUser  MemberRole = "USER"  // 일반 회원
	RoleAdmin MemberRole = "ADMIN" // 관리자
)

type Member struct {
	ID           uint       `gorm:"primaryKey" json:"id"`                         // 회원 ID
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`   // 학교 이메일
	PasswordHash string     `gorm:"not null" json:"-"`                            // 비밀번호 해시
	Nickname     string     `gorm:"size:30;not null" json:"nickname"`             // 닉네임
	Department   string     `gorm:"size:100;not null" json:"department"`          // 학과
	StudentID    string     `gorm:"size:20;uniqueIndex;not null" json:"student_id"` // 학번
	Role         MemberRole `gorm:"type:varchar(20);not null" json:"role"`        // 권한
	IsActive     bool       `gorm:"not null" json:"is_active"`                    // 탈퇴 여부 (soft delete, 강의평 데이터 보존)
	Points       int        `gorm:"not null" json:"points"`                       // 포인트
	IsVerified   bool       `gorm:"not null" json:"is_verified"`                  // 이메일 인증 여부
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`                   // 가입 시각
}

func (Member) TableName() string {
	return "members"
}

// NewMember creates a member with signup defaults applied.
// 탈퇴한 회원의 이메일/학번도 unique index 자리를 유지해야 하므로
// IsActive는 gorm soft delete가 아닌 일반 컬럼으로 관리한다.
func NewMember(email, passwordHash, nickname, department, studentID string) *Member {
	return &Member{
		Email:        email,
		PasswordHash: passwordHash,
		Nickname:     nickname,
		Department:   department,
		StudentID:    studentID,
		Role:         RoleUser,
		IsActive:     true,
		Points:       0,
		IsVerified:   false,
		CreatedAt:    time.Now(),
	}
}

// Verify marks the email as verified. Already-verified members are left as is.
func (m *Member) Verify() {
	m.IsVerified = true
}

// Deactivate soft-deletes the member. 강의평 등 기존 데이터는 유지된다.
func (m *Member) Deactivate() {
	m.IsActive = false
}

func (m *Member) AddPoints(amount int) {
	m.Points += amount
}

func (m *Member) DeductPoints(amount int) {
	m.Points -= amount
}
