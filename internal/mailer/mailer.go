package mailer

import (
	"bytes"
	"context"
	"html/template"

	gomail "github.com/wneessen/go-mail"
	"github.com/rs/zerolog"
)

// Mailer delivers outbound transactional email. The services treat delivery
// failure as an internal error; they never surface SMTP detail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
  <body style="font-family: Arial, sans-serif; background: #f8f9fa; padding: 20px;">
    <div style="background: white; border-radius: 8px; padding: 24px; max-width: 480px; margin: auto;">
      <h1 style="color: #222; font-size: 20px;">Reset Your Password</h1>
      <p style="color: #444; line-height: 1.6;">Hi {{.Name}}, you recently requested to reset your password.</p>
      <p style="color: #444; line-height: 1.6;">Copy the token below. It is valid for 10 minutes and can be used once.</p>
      <blockquote>{{.Token}}</blockquote>
    </div>
  </body>
</html>`))

type smtpMailer struct {
	client *gomail.Client
	from   string
	logger zerolog.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, logger zerolog.Logger) (Mailer, error) {
	opts := []gomail.Option{gomail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &smtpMailer{client: client, from: from, logger: logger}, nil
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, struct {
		Name  string
		Token string
	}{Name: name, Token: token}); err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.AddToFormat(name, to); err != nil {
		return err
	}
	msg.Subject("Password Reset")
	msg.SetBodyString(gomail.TypeTextHTML, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("failed to send password reset email")
		return err
	}

	m.logger.Info().Str("to", to).Msg("password reset email sent")
	return nil
}
