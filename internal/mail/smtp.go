// Package mail delivers transactional email over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPMailer implements domain.Mailer over plain SMTP with AUTH.
type SMTPMailer struct {
	cfg       Config
	templates *template.Template
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	templates, err := template.New("mail").Parse(mailTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &SMTPMailer{cfg: cfg, templates: templates}, nil
}

// Send renders the named template and delivers the message. There are no
// retries; a delivery failure fails the request that triggered it.
func (m *SMTPMailer) Send(ctx context.Context, mail domain.Mail) error {
	body := &bytes.Buffer{}
	if err := m.templates.ExecuteTemplate(body, mail.Template, mail.Data); err != nil {
		return fmt.Errorf("unknown mail template %q: %w", mail.Template, err)
	}

	msg := &bytes.Buffer{}
	fmt.Fprintf(msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(msg, "To: %s\r\n", mail.To)
	fmt.Fprintf(msg, "Subject: %s\r\n", mail.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	// net/smtp has no context support; the deadline on the surrounding
	// request is the only cancellation we get.
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{mail.To}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// One template block per flow; the OTP codes only ever travel through these
// bodies, never through API responses.
const mailTemplates = `
{{define "activation"}}
<html><body>
<h2>Welcome to LearnHub, {{.Name}}!</h2>
<p>Your activation code is:</p>
<h1>{{.Code}}</h1>
<p>The code expires in 5 minutes. If you did not create an account, ignore this email.</p>
</body></html>
{{end}}

{{define "reset-password"}}
<html><body>
<h2>Hi {{.Name}},</h2>
<p>Your password reset code is:</p>
<h1>{{.Code}}</h1>
<p>The code expires in 5 minutes. If you did not request a reset, ignore this email.</p>
</body></html>
{{end}}

{{define "update-email"}}
<html><body>
<h2>Verify your new email address</h2>
<p>Your verification code is:</p>
<h1>{{.Code}}</h1>
<p>The code expires in 5 minutes. If you did not request this change, ignore this email.</p>
</body></html>
{{end}}

{{define "order-confirmation"}}
<html><body>
<h2>Thanks for your purchase, {{.Name}}!</h2>
<p>You now have full access to <strong>{{.Course}}</strong>.</p>
<p>Order reference: {{.OrderID}}</p>
</body></html>
{{end}}
`
