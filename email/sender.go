package email

import (
	"context"
	"fmt"
)

// ProviderType identifies an email delivery backend.
type ProviderType string

const (
	ProviderTypeConsole ProviderType = "console"
	ProviderTypeSMTP    ProviderType = "smtp"
	ProviderTypeNoOp    ProviderType = "noop"
)

// LoginLinkData is the payload for a magic-link sign-in email.
type LoginLinkData struct {
	To           string
	Link         string
	ExpiresInMin int
	AppName      string
}

// NotificationData is a generic notification email.
type NotificationData struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
	FromName string
}

// Sender delivers application email. Implementations must be safe for
// concurrent use.
type Sender interface {
	// SendLoginLink delivers the passwordless sign-in link.
	SendLoginLink(ctx context.Context, data LoginLinkData) error

	// SendNotification delivers a generic notification email.
	SendNotification(ctx context.Context, data NotificationData) error

	// Health checks whether the backend is reachable.
	Health(ctx context.Context) error

	// ProviderType identifies the backend.
	ProviderType() ProviderType
}

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	FromAddress string `koanf:"from_address"`
	FromName    string `koanf:"from_name"`
}

// Config selects and configures the provider.
type Config struct {
	Provider string     `koanf:"provider"`
	SMTP     SMTPConfig `koanf:"smtp"`
}

// New builds a Sender from configuration. An empty provider falls back to
// console delivery, which is what local development wants.
func New(cfg Config) (Sender, error) {
	switch ProviderType(cfg.Provider) {
	case ProviderTypeConsole, "":
		return NewConsoleSender(), nil
	case ProviderTypeSMTP:
		return NewSMTPSender(cfg.SMTP), nil
	case ProviderTypeNoOp:
		return NewNoOpSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
