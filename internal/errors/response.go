package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error   string `json:"error"`   // 에러 코드 (프론트엔드에서 매핑용)
	Message string `json:"message"` // 사용자 친화적 메시지 (한글)
}

// RespondWithError 에러 응답 헬퍼
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func BadGateway(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadGateway, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ParseAndRespond 에러를 파싱해 적절한 상태 코드와 함께 응답
func ParseAndRespond(c *gin.Context, defaultStatus int, err error, context string) {
	info := ParseError(err, context)

	status := defaultStatus
	switch info.Code {
	case AuthEmailAlreadyExists, AuthStudentIDAlreadyExists:
		status = http.StatusConflict
	case AuthMemberNotFound, TokenNotFound:
		status = http.StatusNotFound
	case ValidationInvalidInput:
		status = http.StatusBadRequest
	}

	RespondWithError(c, status, info.Code, info.Message)
}
