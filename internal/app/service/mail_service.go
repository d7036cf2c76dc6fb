package service

import (
	"errors"
	"fmt"

	"github.com/inhaeval/inhaeval-backend/config"
	"github.com/inhaeval/inhaeval-backend/internal/app/model"
	"github.com/inhaeval/inhaeval-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// ErrMailSendFailed indicates the verification mail could not be delivered.
var ErrMailSendFailed = errors.New("failed to send verification email")

type MailService interface {
	SendVerificationMail(toEmail, token string) error
}

type mailService struct {
	cfg config.SMTPConfig
}

func NewMailService(cfg config.SMTPConfig) MailService {
	return &mailService{cfg: cfg}
}

// SendVerificationMail delivers the verification link. SMTP 설정이 없으면
// 개발 모드로 간주하고 링크를 로그로만 출력한다.
func (s *mailService) SendVerificationMail(toEmail, token string) error {
	verifyURL := fmt.Sprintf("%s/api/auth/verify?token=%s", s.cfg.PublicBaseURL, token)
	expiryMinutes := int(model.VerificationTokenExpiry.Minutes())

	if s.cfg.Username == "" || s.cfg.Password == "" {
		logger.Info("[DEV MODE] Verification mail not sent, logging link instead", map[string]interface{}{
			"to":         toEmail,
			"verify_url": verifyURL,
		})
		return nil
	}

	body := fmt.Sprintf(`
<h2>인하대 강의평가 이메일 인증</h2>
<p>아래 버튼을 클릭하면 인증이 완료됩니다.</p>
<a href='%s' style='padding:10px 20px; background:#0055A4; color:white; text-decoration:none; border-radius:5px;'>이메일 인증하기</a>
<p>링크는 %d분 후 만료됩니다.</p>
`, verifyURL, expiryMinutes)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "[인하평] 이메일 인증을 완료해주세요")
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		logger.Error("Failed to send verification mail", err, map[string]interface{}{
			"to": toEmail,
		})
		return fmt.Errorf("%w: %v", ErrMailSendFailed, err)
	}

	logger.Info("Verification mail sent", map[string]interface{}{
		"to": toEmail,
	})
	return nil
}
