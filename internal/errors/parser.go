package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// DuplicateKey 분류: 어떤 unique 컬럼이 충돌했는지
type DuplicateKey int

const (
	DuplicateNone DuplicateKey = iota
	DuplicateEmail
	DuplicateStudentID
	DuplicateToken
	DuplicateOther
)

// ClassifyDuplicate inspects a storage error and reports which unique column
// was violated, if any. PostgreSQL과 sqlite(테스트)의 에러 문자열을 모두
// 인식한다. 서비스 계층은 이 분류로 insert 시점의 제약 충돌을 사전 검사와
// 동일한 도메인 에러로 변환한다.
func ClassifyDuplicate(err error) DuplicateKey {
	if err == nil {
		return DuplicateNone
	}
	if !isUniqueViolation(err) {
		return DuplicateNone
	}

	// 토큰 인덱스 이름(email_verifications.token)에도 "email"이 들어가므로
	// email 매칭은 마지막에 해야 한다.
	errLower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errLower, "student_id"):
		return DuplicateStudentID
	case strings.Contains(errLower, "token"):
		return DuplicateToken
	case strings.Contains(errLower, "email"):
		return DuplicateEmail
	default:
		return DuplicateOther
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "duplicate key") || // postgres 23505
		strings.Contains(errLower, "unique constraint") // sqlite "UNIQUE constraint failed"
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    AuthMemberNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	switch ClassifyDuplicate(err) {
	case DuplicateEmail:
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "이미 사용 중인 이메일입니다"}
	case DuplicateStudentID:
		return ErrorInfo{Code: AuthStudentIDAlreadyExists, Message: "이미 사용 중인 학번입니다"}
	case DuplicateToken, DuplicateOther:
		return ErrorInfo{Code: InternalDatabaseError, Message: "이미 존재하는 데이터입니다. 다시 시도해주세요"}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "null value") && strings.Contains(errLower, "not-null constraint") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "필수 항목이 누락되었습니다"}
	}

	// 그 외는 내부 오류로 감춘다
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "member") || strings.Contains(contextLower, "회원") {
		return "회원을 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "token") || strings.Contains(contextLower, "토큰") {
		return "유효하지 않은 인증 토큰입니다"
	}
	return "데이터를 찾을 수 없습니다"
}
