package service

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/pageza/linkbio/backend/internal/models"
)

// EmailConfig holds SMTP settings. When Host is empty, messages are logged
// instead of sent.
type EmailConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	From        string
	FromName    string
	FrontendURL string

	// ResetTokenTTL is quoted in the reset email. Zero means DefaultResetTokenTTL.
	ResetTokenTTL time.Duration
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService delivers account emails over SMTP.
type EmailService struct {
	cfg      EmailConfig
	logger   *slog.Logger
	sendMail sendMailFunc
}

func NewEmailService(cfg EmailConfig, logger *slog.Logger) *EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	return &EmailService{cfg: cfg, logger: logger.With("component", "email"), sendMail: smtp.SendMail}
}

// SendEmail sends an HTML message to a single recipient.
func (s *EmailService) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if s.cfg.Host == "" || s.cfg.Port == "" {
		s.logger.Info("smtp not configured, email not sent", "to", to, "subject", subject)
		return nil
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	from := fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendResetPasswordEmail(user *models.User, token string) error {
	link := s.frontendLink("/reset-password", token)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your password. The link below is valid for %s.</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not ask for this, you can ignore this email.</p>`, user.Username, describeDuration(s.cfg.ResetTokenTTL), link)
	return s.SendEmail(user.Email, "Reset your password", body)
}

func (s *EmailService) SendVerificationEmail(user *models.User, token string) error {
	link := s.frontendLink("/verify-email", token)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Please confirm your email address.</p>
<p><a href="%s">Verify email</a></p>`, user.Username, link)
	return s.SendEmail(user.Email, "Verify your email", body)
}

func (s *EmailService) frontendLink(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", strings.TrimRight(s.cfg.FrontendURL, "/"), path, url.QueryEscape(token))
}

// describeDuration renders d as whole hours or minutes, e.g. "1 hour" or
// "90 minutes".
func describeDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return plural(minutes, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
