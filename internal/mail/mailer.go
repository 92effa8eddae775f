package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers one-time codes. Implementations must be safe for
// concurrent use; the event bus calls SendCode from multiple goroutines.
type Mailer interface {
	SendCode(to, username, code, purpose string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends codes over plain SMTP with AUTH.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendCode(to, username, code, purpose string) error {
	subject, intro := subjectFor(purpose)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n%s\r\n\r\nYour code: %s\r\n\r\nThe code expires in 10 minutes. If you did not request it, ignore this email.\r\n", username, intro, code)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func subjectFor(purpose string) (subject, intro string) {
	switch purpose {
	case "register":
		return "Verify your account", "Use this code to finish creating your account."
	case "login":
		return "Your login code", "Use this code to complete your login."
	case "forgot_password":
		return "Reset your password", "Use this code to reset your password."
	default:
		return "Your verification code", "Use this code to continue."
	}
}

// LogMailer writes codes to the log instead of sending mail. Used in
// development and tests when no SMTP server is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(lg *slog.Logger) *LogMailer {
	if lg == nil {
		lg = slog.Default()
	}
	return &LogMailer{logger: lg}
}

func (m *LogMailer) SendCode(to, username, code, purpose string) error {
	m.logger.Info("one-time code (mail disabled)",
		"to", to,
		"username", username,
		"purpose", purpose,
		"code", code)
	return nil
}
