package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inhaeval/inhaeval-backend/internal/app/service"
	apperrors "github.com/inhaeval/inhaeval-backend/internal/errors"
	"github.com/inhaeval/inhaeval-backend/internal/middleware"
)

type AuthController struct {
	memberService service.MemberService
}

func NewAuthController(memberService service.MemberService) *AuthController {
	return &AuthController{memberService: memberService}
}

type SignupRequest struct {
	Email      string `json:"email" binding:"required,email"`
	StudentID  string `json:"student_id" binding:"required,len=8,numeric"`
	Password   string `json:"password" binding:"required,min=8"`
	Department string `json:"department" binding:"required"`
	Nickname   string `json:"nickname" binding:"required,min=2,max=10"`
}

type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Signup handles member registration
// POST /api/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	member, err := ctrl.memberService.Signup(service.SignupInput{
		Email:      req.Email,
		StudentID:  req.StudentID,
		Password:   req.Password,
		Department: req.Department,
		Nickname:   req.Nickname,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, validationErr.Message)
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "이미 사용 중인 이메일입니다")
		case errors.Is(err, service.ErrStudentIDAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthStudentIDAlreadyExists, "이미 사용 중인 학번입니다")
		default:
			log.Error("Signup failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "signup member")
		}
		return
	}

	log.Info("Member signed up", map[string]interface{}{
		"member_id": member.ID,
		"email":     member.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"email":    member.Email,
		"nickname": member.Nickname,
		"message":  "인증 메일이 발송되었습니다. 30분 안에 인증을 완료해주세요",
	})
}

// Verify consumes a verification token from the mailed link
// GET /api/auth/verify?token=...
func (ctrl *AuthController) Verify(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.Query("token")
	if token == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "인증 토큰이 필요합니다")
		return
	}

	if err := ctrl.memberService.Verify(token); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			apperrors.NotFound(c, apperrors.TokenNotFound, "유효하지 않은 인증 토큰입니다")
		case errors.Is(err, service.ErrTokenExpired):
			apperrors.BadRequest(c, apperrors.TokenExpired, "인증 토큰이 만료되었습니다. 메일을 다시 요청해주세요")
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			apperrors.BadRequest(c, apperrors.TokenAlreadyUsed, "이미 사용된 인증 토큰입니다")
		default:
			log.Error("Verification failed", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verify token")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "이메일 인증이 완료되었습니다",
	})
}

// ResendVerification issues and mails a fresh verification token
// POST /api/auth/resend
func (ctrl *AuthController) ResendVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.memberService.ResendVerification(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			apperrors.NotFound(c, apperrors.AuthMemberNotFound, "가입되지 않은 이메일입니다")
		case errors.Is(err, service.ErrAlreadyVerified):
			apperrors.Conflict(c, apperrors.AuthAlreadyVerified, "이미 인증이 완료된 계정입니다")
		case errors.Is(err, service.ErrMailSendFailed):
			apperrors.BadGateway(c, apperrors.MailSendFailed, "인증 메일 발송에 실패했습니다. 잠시 후 다시 시도해주세요")
		default:
			log.Error("Resend verification failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resend verification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "인증 메일이 재발송되었습니다",
	})
}
