package mailer

import (
	"fmt"
	"html"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/roeeblo/smart-job-tracker/config"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
)

// Mailer delivers account emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendVerification(to, name, link string) error
}

// NewMailer returns an SMTP mailer when SMTP_HOST is configured and a
// log-only mailer otherwise, so local development works without a mail
// server.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.SMTPHost == "" {
		return &devMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) SendVerification(to, name, link string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject("Verify your email")
	msg.SetBodyString(gomail.TypeTextHTML, verificationBody(name, link))

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.SMTPUser),
		gomail.WithPassword(m.cfg.SMTPPass),
	}
	if m.cfg.UseTLS {
		opts = append(opts, gomail.WithSSLPort(false))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	logger.GetLogger().Info("Verification email sent",
		zap.String("to", to),
	)
	return nil
}

// verificationBody escapes the registration-supplied name so it cannot
// inject markup into the email.
func verificationBody(name, link string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Please verify your email by clicking the link below:</p>
<p><a href="%s">Verify email</a></p>
<p>The link expires in 24 hours. If you did not sign up, you can ignore this message.</p>`,
		html.EscapeString(name), html.EscapeString(link),
	)
}

// devMailer logs the verification link instead of sending anything.
type devMailer struct{}

func (m *devMailer) SendVerification(to, _, link string) error {
	logger.GetLogger().Info("SMTP not configured, logging verification link",
		zap.String("to", to),
		zap.String("link", link),
	)
	return nil
}
