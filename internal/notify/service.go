package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vantrung/equipment-site/internal/leads"
	"github.com/vantrung/equipment-site/pkg/logging"
)

var notifyTracer = otel.Tracer("equipment/notify")

// ErrNoRecipients is returned when the service has nobody to notify.
var ErrNoRecipients = errors.New("notify: no recipients configured")

// NotificationError reports recipients that could not be reached.
type NotificationError struct {
	Failed []string
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify: %d notification(s) failed: %v", len(e.Failed), e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Config controls who gets lead alerts and how they are rendered.
type Config struct {
	Recipients []string
	Brand      string
	Timezone   string
}

// Service sends new-lead alerts to staff.
type Service struct {
	email      EmailSender
	recipients []string
	brand      string
	loc        *time.Location
	logger     *logging.Logger
	now        func() time.Time
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	brand := strings.TrimSpace(cfg.Brand)
	if brand == "" {
		brand = DefaultFromName
	}
	recipients := make([]string, 0, len(cfg.Recipients))
	for _, r := range cfg.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return &Service{
		email:      email,
		recipients: recipients,
		brand:      brand,
		loc:        LoadLocation(cfg.Timezone),
		logger:     logger,
		now:        time.Now,
	}
}

// NotifyNewLead emails every recipient about a stored lead. It makes a single
// attempt per recipient and never modifies the lead.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead, productName string) error {
	ctx, span := notifyTracer.Start(ctx, "notify.new_lead")
	defer span.End()
	span.SetAttributes(
		attribute.String("lead.id", lead.ID),
		attribute.String("lead.action", string(lead.Action)),
	)

	if s.email == nil || len(s.recipients) == 0 {
		span.SetStatus(codes.Error, "not configured")
		return ErrNoRecipients
	}

	rendered, err := Render(NewPayload(lead, productName, s.now()), s.brand, s.loc)
	if err != nil {
		span.RecordError(err)
		return err
	}

	var (
		failed  []string
		errs    []error
		skipped int
	)
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: rendered.Subject,
			Body:    rendered.Text,
			HTML:    rendered.HTML,
		}
		err := s.email.Send(ctx, msg)
		if errors.Is(err, ErrNotDelivered) {
			skipped++
			continue
		}
		if err != nil {
			s.logger.Error("notify: failed to send email", "error", err, "to", recipient, "lead_id", lead.ID)
			failed = append(failed, recipient)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: lead email sent", "to", recipient, "lead_id", lead.ID)
	}

	if len(failed) > 0 {
		nerr := &NotificationError{Failed: failed, Err: errors.Join(errs...)}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, "send failed")
		return nerr
	}
	if skipped == len(s.recipients) {
		span.SetAttributes(attribute.Bool("notify.delivered", false))
		return leads.ErrNotificationSkipped
	}
	return nil
}

var _ leads.Notifier = (*Service)(nil)
