package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/vantrung/equipment-site/cmd/mainconfig"
	appconfig "github.com/vantrung/equipment-site/internal/config"
	"github.com/vantrung/equipment-site/internal/notify"
	"github.com/vantrung/equipment-site/pkg/logging"
)

// Email providers accepted by EMAIL_PROVIDER.
const (
	EmailProviderAuto     = "auto"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
	EmailProviderStub     = "stub"
)

// BuildEmailSender picks the lead notification transport. With "auto",
// SendGrid wins when it has a key and sender, then SES, then the stub.
// It returns the sender and the name of the provider that was chosen.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	if provider == "" {
		provider = EmailProviderAuto
	}
	sendGridReady := cfg.SendGridAPIKey != "" && cfg.SendGridFromEmail != ""
	sesReady := cfg.SESFromEmail != ""

	switch provider {
	case EmailProviderAuto:
		switch {
		case sendGridReady:
			provider = EmailProviderSendGrid
		case sesReady:
			provider = EmailProviderSES
		default:
			provider = EmailProviderStub
		}
	case EmailProviderSendGrid:
		if !sendGridReady {
			return nil, "", fmt.Errorf("bootstrap: EMAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY and SENDGRID_FROM_EMAIL")
		}
	case EmailProviderSES:
		if !sesReady {
			return nil, "", fmt.Errorf("bootstrap: EMAIL_PROVIDER=ses requires SES_FROM_EMAIL")
		}
	case EmailProviderStub:
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}

	fromName := cfg.SendGridFromName
	if fromName == "" {
		fromName = cfg.BrandName
	}

	switch provider {
	case EmailProviderSendGrid:
		logger.Info("sendgrid email sender initialized for lead notifications")
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  fromName,
		}, logger), provider, nil
	case EmailProviderSES:
		client, err := mainconfig.NewSESClient(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: ses client: %w", err)
		}
		logger.Info("ses email sender initialized for lead notifications", "region", cfg.AWSRegion)
		return notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  fromName,
		}, logger), provider, nil
	default:
		logger.Warn("lead email notifications disabled; using stub sender")
		return notify.NewStubEmailSender(logger), provider, nil
	}
}
