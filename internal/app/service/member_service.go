package service

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inhaeval/inhaeval-backend/internal/app/model"
	"github.com/inhaeval/inhaeval-backend/internal/app/repository"
	apperrors "github.com/inhaeval/inhaeval-backend/internal/errors"
	"github.com/inhaeval/inhaeval-backend/pkg/logger"
	"github.com/inhaeval/inhaeval-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrStudentIDAlreadyExists = errors.New("student id already exists")
	ErrMemberNotFound         = errors.New("member not found")
	ErrAlreadyVerified        = errors.New("member already verified")
	ErrTokenNotFound          = errors.New("verification token not found")
	ErrTokenExpired           = errors.New("verification token expired")
	ErrTokenAlreadyUsed       = errors.New("verification token already used")
)

// ValidationError 필드 단위 입력 검증 실패.
// 컨트롤러의 binding 검증과 별개로 서비스도 자신의 불변식을 방어한다.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

const (
	emailDomainSuffix = "@inha.ac.kr"
	minPasswordLen    = 8
	minNicknameLen    = 2
	maxNicknameLen    = 10

	// 토큰 unique 충돌 시 재생성 한도. 256비트 토큰이 충돌할 확률은
	// 천문학적으로 낮으므로 사실상 첫 시도에서 끝난다.
	maxTokenIssueAttempts = 3
)

var studentIDPattern = regexp.MustCompile(`^[0-9]{8}$`)

type SignupInput struct {
	Email      string
	StudentID  string
	Password   string
	Department string
	Nickname   string
}

type MemberService interface {
	Signup(input SignupInput) (*model.Member, error)
	Verify(token string) error
	ResendVerification(email string) error
	LatestVerification(email string) (*model.EmailVerification, error)
	GetMemberByID(id uint) (*model.Member, error)
}

type memberService struct {
	memberRepo       repository.MemberRepository
	verificationRepo repository.EmailVerificationRepository
	mailService      MailService
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	verificationRepo repository.EmailVerificationRepository,
	mailService MailService,
) MemberService {
	return &memberService{
		memberRepo:       memberRepo,
		verificationRepo: verificationRepo,
		mailService:      mailService,
	}
}

// Signup provisions a member and issues a verification token for the email.
//
// 사전 중복 검사와 insert 사이에는 경쟁이 있을 수 있으므로 최종 판정은
// 스토리지 unique 제약이 담당하고, 여기서는 그 충돌을 사전 검사와 동일한
// 도메인 에러로 변환한다. 인증 메일 발송 실패는 이미 커밋된 회원/토큰을
// 되돌리지 않는다(재발송으로 복구).
func (s *memberService) Signup(input SignupInput) (*model.Member, error) {
	logger.Info("Attempting member signup", map[string]interface{}{
		"email":      input.Email,
		"student_id": input.StudentID,
	})

	if err := validateSignupInput(input); err != nil {
		logger.Warn("Signup rejected: invalid input", map[string]interface{}{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByEmail(input.Email)
	if err != nil {
		logger.Error("Failed to check existing email", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}
	if exists {
		logger.Warn("Signup failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailAlreadyExists
	}

	exists, err = s.memberRepo.ExistsByStudentID(input.StudentID)
	if err != nil {
		logger.Error("Failed to check existing student ID", err, map[string]interface{}{
			"student_id": input.StudentID,
		})
		return nil, err
	}
	if exists {
		logger.Warn("Signup failed: student ID already exists", map[string]interface{}{
			"student_id": input.StudentID,
		})
		return nil, ErrStudentIDAlreadyExists
	}

	passwordHash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	member := model.NewMember(input.Email, passwordHash, input.Nickname, input.Department, input.StudentID)
	if err := s.memberRepo.Create(member); err != nil {
		// 동시 가입 경쟁의 패자: unique 제약 위반을 중복 에러로 변환
		switch apperrors.ClassifyDuplicate(err) {
		case apperrors.DuplicateEmail:
			logger.Warn("Signup lost duplicate-email race", map[string]interface{}{
				"email": input.Email,
			})
			return nil, ErrEmailAlreadyExists
		case apperrors.DuplicateStudentID:
			logger.Warn("Signup lost duplicate-student-id race", map[string]interface{}{
				"student_id": input.StudentID,
			})
			return nil, ErrStudentIDAlreadyExists
		}
		logger.Error("Failed to create member", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	verification, err := s.issueVerification(member.Email)
	if err != nil {
		logger.Error("Failed to issue verification token", err, map[string]interface{}{
			"email": member.Email,
		})
		return nil, err
	}

	if err := s.mailService.SendVerificationMail(member.Email, verification.Token); err != nil {
		// 회원과 토큰은 이미 커밋됨. 발송 실패는 재발송으로 복구한다.
		logger.Error("Verification mail dispatch failed after signup", err, map[string]interface{}{
			"member_id": member.ID,
			"email":     member.Email,
		})
	}

	logger.Info("Member signed up successfully", map[string]interface{}{
		"member_id": member.ID,
		"email":     member.Email,
	})
	return member, nil
}

// Verify consumes a verification token and flips the member's verified flag.
// 같은 토큰에 대한 동시 호출은 compare-and-set으로 정확히 하나만 성공한다.
func (s *memberService) Verify(token string) error {
	verification, err := s.verificationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Verification failed: token not found")
			return ErrTokenNotFound
		}
		return err
	}

	if verification.IsUsed {
		logger.Warn("Verification failed: token already used", map[string]interface{}{
			"email": verification.Email,
		})
		return ErrTokenAlreadyUsed
	}

	if verification.Expired(time.Now()) {
		logger.Warn("Verification failed: token expired", map[string]interface{}{
			"email":      verification.Email,
			"expires_at": verification.ExpiresAt,
		})
		return ErrTokenExpired
	}

	if err := s.verificationRepo.Consume(verification.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyConsumed) {
			return ErrTokenAlreadyUsed
		}
		return err
	}

	// 토큰은 single-use지만 회원 플래그 갱신은 멱등이다.
	if err := s.memberRepo.MarkVerified(verification.Email); err != nil {
		logger.Error("Failed to mark member as verified", err, map[string]interface{}{
			"email": verification.Email,
		})
		return err
	}

	logger.Info("Member email verified", map[string]interface{}{
		"email": verification.Email,
	})
	return nil
}

// ResendVerification issues a fresh token for an unverified member. 이전에
// 발급된 유효 토큰은 그대로 남으며 각자 독립적으로 검증된다.
func (s *memberService) ResendVerification(email string) error {
	member, err := s.memberRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Resend failed: member not found", map[string]interface{}{
				"email": email,
			})
			return ErrMemberNotFound
		}
		return err
	}

	if member.IsVerified {
		logger.Warn("Resend failed: member already verified", map[string]interface{}{
			"email": email,
		})
		return ErrAlreadyVerified
	}

	verification, err := s.issueVerification(email)
	if err != nil {
		logger.Error("Failed to issue verification token for resend", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	if err := s.mailService.SendVerificationMail(email, verification.Token); err != nil {
		return err
	}

	logger.Info("Verification mail resent", map[string]interface{}{
		"email": email,
	})
	return nil
}

// LatestVerification returns the most recently issued token for the email,
// used or expired included.
func (s *memberService) LatestVerification(email string) (*model.EmailVerification, error) {
	verification, err := s.verificationRepo.FindLatestByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return verification, nil
}

func (s *memberService) GetMemberByID(id uint) (*model.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// issueVerification generates and persists a verification token, regenerating
// on the astronomically unlikely token collision instead of failing the caller.
func (s *memberService) issueVerification(email string) (*model.EmailVerification, error) {
	var lastErr error
	for attempt := 0; attempt < maxTokenIssueAttempts; attempt++ {
		token, err := util.GenerateVerificationToken()
		if err != nil {
			return nil, err
		}

		verification := model.NewEmailVerification(email, token)
		err = s.verificationRepo.Create(verification)
		if err == nil {
			return verification, nil
		}
		if apperrors.ClassifyDuplicate(err) != apperrors.DuplicateToken {
			return nil, err
		}

		logger.Warn("Verification token collision, regenerating", map[string]interface{}{
			"email":   email,
			"attempt": attempt + 1,
		})
		lastErr = err
	}
	return nil, lastErr
}

func validateSignupInput(input SignupInput) error {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "이메일을 입력해주세요"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: "이메일 형식이 올바르지 않습니다"}
	}
	if !strings.HasSuffix(email, emailDomainSuffix) {
		return &ValidationError{Field: "email", Message: "인하대 이메일만 가입 가능합니다"}
	}

	if strings.TrimSpace(input.StudentID) == "" {
		return &ValidationError{Field: "studentId", Message: "학번을 입력해주세요"}
	}
	if !studentIDPattern.MatchString(input.StudentID) {
		return &ValidationError{Field: "studentId", Message: "학번은 8자리 숫자입니다"}
	}

	if input.Password == "" {
		return &ValidationError{Field: "password", Message: "비밀번호를 입력해주세요"}
	}
	if len(input.Password) < minPasswordLen {
		return &ValidationError{Field: "password", Message: "비밀번호는 8자 이상이어야 합니다"}
	}

	if strings.TrimSpace(input.Department) == "" {
		return &ValidationError{Field: "department", Message: "학과를 입력해주세요"}
	}

	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return &ValidationError{Field: "nickname", Message: "닉네임을 입력해주세요"}
	}
	if n := utf8.RuneCountInString(nickname); n < minNicknameLen || n > maxNicknameLen {
		return &ValidationError{Field: "nickname", Message: "닉네임은 2~10자로 입력해주세요"}
	}

	return nil
}
