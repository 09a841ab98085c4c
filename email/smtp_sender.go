package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPSender delivers email over a plain or STARTTLS SMTP connection.
type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	if config.Port == 0 {
		config.Port = 587
	}
	if config.FromName == "" {
		config.FromName = "PatentVault"
	}
	return &SMTPSender{config: config}
}

func (s *SMTPSender) SendLoginLink(ctx context.Context, data LoginLinkData) error {
	app := data.AppName
	if app == "" {
		app = s.config.FromName
	}
	subject := fmt.Sprintf("Your %s sign-in link", app)
	body := fmt.Sprintf(
		"Click the link below to sign in to %s.\r\n\r\n%s\r\n\r\nThe link expires in %d minutes. If you did not request it, ignore this email.\r\n",
		app, data.Link, data.ExpiresInMin,
	)
	return s.send(ctx, data.To, subject, body)
}

func (s *SMTPSender) SendNotification(ctx context.Context, data NotificationData) error {
	body := data.TextBody
	if body == "" {
		body = data.HTMLBody
	}
	return s.send(ctx, data.To, data.Subject, body)
}

func (s *SMTPSender) Health(ctx context.Context) error {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", s.addr())
	if err != nil {
		return fmt.Errorf("smtp unreachable: %w", err)
	}
	return conn.Close()
}

func (s *SMTPSender) ProviderType() ProviderType { return ProviderTypeSMTP }

func (s *SMTPSender) addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.addr(), auth, s.config.FromAddress, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
