package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends plain-text mail through a single SMTP endpoint.
type SMTPMailer struct {
	addr        string // host:port
	auth        smtp.Auth
	from        string
	frontendURL string
}

// NewSMTPMailer constructs a mailer for the given SMTP endpoint. user may
// be empty for unauthenticated relays.
func NewSMTPMailer(addr, user, password, from, frontendURL string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPMailer{
		addr:        addr,
		auth:        auth,
		from:        from,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, destination string, purpose Purpose, token string) error {
	subject, body := m.compose(purpose, token)

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + destination,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{destination}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}

// Link returns the frontend URL the recipient follows to redeem the token.
func (m *SMTPMailer) Link(purpose Purpose, token string) string {
	switch purpose {
	case PurposeReset:
		return fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	default:
		return fmt.Sprintf("%s/verify?token=%s", m.frontendURL, token)
	}
}

func (m *SMTPMailer) compose(purpose Purpose, token string) (subject, body string) {
	link := m.Link(purpose, token)
	switch purpose {
	case PurposeReset:
		return "Reset your password",
			"A password reset was requested for your account.\r\n\r\n" +
				"Follow this link to choose a new password:\r\n" + link + "\r\n\r\n" +
				"If you didn't request this, you can ignore this email."
	default:
		return "Verify your email",
			"Thanks for registering! Follow this link to verify your email address:\r\n" +
				link + "\r\n\r\n" +
				"If you didn't create an account, you can ignore this email."
	}
}
