package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증/가입 (AUTH_) ====================
	AuthEmailAlreadyExists     = "AUTH_EMAIL_EXISTS"      // 이메일 중복
	AuthStudentIDAlreadyExists = "AUTH_STUDENT_ID_EXISTS" // 학번 중복
	AuthAlreadyVerified        = "AUTH_ALREADY_VERIFIED"  // 이미 인증됨
	AuthMemberNotFound         = "AUTH_MEMBER_NOT_FOUND"  // 회원 없음

	// ==================== 인증 토큰 (TOKEN_) ====================
	TokenNotFound    = "TOKEN_NOT_FOUND"    // 토큰 없음
	TokenExpired     = "TOKEN_EXPIRED"      // 토큰 만료
	TokenAlreadyUsed = "TOKEN_ALREADY_USED" // 토큰 이미 사용됨

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력

	// ==================== 메일 (MAIL_) ====================
	MailSendFailed = "MAIL_SEND_FAILED" // 인증 메일 발송 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
)
