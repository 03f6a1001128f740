package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roeeblo/smart-job-tracker/config"
)

func TestVerificationBodyEscapesName(t *testing.T) {
	body := verificationBody(`<img src=x onerror=alert(1)>`, "http://localhost:4000/verify?token=abc")

	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt;")
	assert.Contains(t, body, `href="http://localhost:4000/verify?token=abc"`)
}

func TestNewMailerFallsBackWithoutSMTPHost(t *testing.T) {
	m := NewMailer(config.MailConfig{})
	_, isDev := m.(*devMailer)
	assert.True(t, isDev)

	m = NewMailer(config.MailConfig{SMTPHost: "smtp.example.com"})
	_, isSMTP := m.(*smtpMailer)
	assert.True(t, isSMTP)
}
