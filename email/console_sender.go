package email

import (
	"context"
	"log"
)

// ConsoleSender logs emails to console (for development/testing).
type ConsoleSender struct{}

func NewConsoleSender() Sender { return &ConsoleSender{} }

func (c *ConsoleSender) SendLoginLink(ctx context.Context, data LoginLinkData) error {
	log.Printf("[EMAIL] Magic Sign-In Link")
	log.Printf("  To: %s", data.To)
	log.Printf("  Link: %s", data.Link)
	log.Printf("  Expires in: %d minutes", data.ExpiresInMin)
	return nil
}

func (c *ConsoleSender) SendNotification(ctx context.Context, data NotificationData) error {
	log.Printf("[EMAIL] Notification")
	log.Printf("  To: %s", data.To)
	log.Printf("  Subject: %s", data.Subject)
	log.Printf("  Body: %s", data.TextBody)
	return nil
}

func (c *ConsoleSender) Health(ctx context.Context) error { return nil }

func (c *ConsoleSender) ProviderType() ProviderType { return ProviderTypeConsole }

// NoOpSender discards emails silently.
type NoOpSender struct{}

func NewNoOpSender() Sender { return &NoOpSender{} }

func (n *NoOpSender) SendLoginLink(ctx context.Context, data LoginLinkData) error { return nil }

func (n *NoOpSender) SendNotification(ctx context.Context, data NotificationData) error { return nil }

func (n *NoOpSender) Health(ctx context.Context) error { return nil }

func (n *NoOpSender) ProviderType() ProviderType { return ProviderTypeNoOp }
