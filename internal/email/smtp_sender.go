package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Hi {{.FirstName}} {{.SecondName}},</h2>
    <p>Thanks for signing up to {{.AppName}} with <strong>{{.Email}}</strong>.</p>
    <p>Please confirm your email address by clicking the button below. The link expires soon.</p>
    <p>
      <a href="{{.Link}}" style="background: #2d6cdf; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Verify email</a>
    </p>
    <p>If the button does not work, copy this link into your browser:<br/>{{.Link}}</p>
  </body>
</html>
`))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envia correos via SMTP.
type SMTPSender struct {
	dialer   dialer
	from     string
	fromName string
	appName  string
}

func NewSMTPSender(host string, port int, username, password, from, fromName, appName string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
		appName:  appName,
	}, nil
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, msg VerificationMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("to email is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildVerificationMessage(msg)
	if err != nil {
		return err
	}
	return s.dialer.DialAndSend(m)
}

func (s *SMTPSender) renderVerificationBody(msg VerificationMessage) (string, error) {
	var body bytes.Buffer
	err := verificationTemplate.Execute(&body, map[string]string{
		"AppName":    s.appName,
		"FirstName":  msg.FirstName,
		"SecondName": msg.SecondName,
		"Email":      msg.To,
		"Link":       msg.Link,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute verification template: %w", err)
	}
	return body.String(), nil
}

func (s *SMTPSender) buildVerificationMessage(msg VerificationMessage) (*gomail.Message, error) {
	body, err := s.renderVerificationBody(msg)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	if strings.TrimSpace(s.fromName) != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", fmt.Sprintf("%s | Verify Your Email", s.appName))
	m.SetBody("text/plain", "Verify your email address by clicking on this link: "+msg.Link)
	m.AddAlternative("text/html", body)
	return m, nil
}
