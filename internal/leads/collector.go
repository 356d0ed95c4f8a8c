package leads

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vantrung/equipment-site/internal/observability/metrics"
	"github.com/vantrung/equipment-site/pkg/logging"
)

var leadsTracer = otel.Tracer("equipment/leads")

const defaultNotifyTimeout = 10 * time.Second

// Notifier alerts staff about a stored lead. productName is empty when the
// lead is not tied to a product or the product could not be resolved.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *Lead, productName string) error
}

// ProductResolver looks up a product's display name.
type ProductResolver interface {
	ProductName(ctx context.Context, productID string) (string, error)
}

// SubmitResult carries the persist outcome and the notify outcome separately.
// NotifyErr never turns a stored lead into a failed submission.
type SubmitResult struct {
	Lead      *Lead
	Notified  bool
	NotifyErr error
}

// Collector runs the validate -> save -> notify pipeline for lead forms.
type Collector struct {
	repo          Repository
	notifier      Notifier
	products      ProductResolver
	metrics       *metrics.SiteMetrics
	logger        *logging.Logger
	notifyTimeout time.Duration
	now           func() time.Time
}

// CollectorOption customizes a Collector.
type CollectorOption func(*Collector)

// WithProductResolver enables product name lookups for notifications.
func WithProductResolver(r ProductResolver) CollectorOption {
	return func(c *Collector) { c.products = r }
}

// WithMetrics records submission outcomes.
func WithMetrics(m *metrics.SiteMetrics) CollectorOption {
	return func(c *Collector) { c.metrics = m }
}

// WithNotifyTimeout bounds how long a notification may take.
func WithNotifyTimeout(d time.Duration) CollectorOption {
	return func(c *Collector) {
		if d > 0 {
			c.notifyTimeout = d
		}
	}
}

// NewCollector wires the persister and the dispatcher. notifier may be nil.
func NewCollector(repo Repository, notifier Notifier, logger *logging.Logger, opts ...CollectorOption) *Collector {
	if repo == nil {
		panic("leads: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	c := &Collector{
		repo:          repo,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: defaultNotifyTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates the form, stores one lead and then notifies staff.
//
// A *ValidationError means nothing was written. A *PersistenceError means the
// insert failed and no notification was attempted. Notification failures are
// logged and reported only through SubmitResult.NotifyErr.
func (c *Collector) Submit(ctx context.Context, fields Fields, action Action, source string, productID *string) (*SubmitResult, error) {
	ctx, span := leadsTracer.Start(ctx, "leads.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("lead.action", string(action)),
		attribute.String("lead.source", source),
	)

	lead, err := buildLead(fields, action, source, productID)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.logger.Info("lead rejected", "fields", verr.Fields, "source", source)
		}
		c.metrics.ObserveLead(string(action), "invalid")
		span.SetStatus(codes.Error, "validation")
		return nil, err
	}

	start := c.now()
	saved, err := c.repo.Save(ctx, lead)
	c.metrics.ObservePersistLatency(c.now().Sub(start).Seconds())
	if err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			err = &PersistenceError{Err: err}
		}
		c.logger.Error("failed to save lead", "error", err, "action", lead.Action, "source", lead.Source)
		c.metrics.ObserveLead(string(lead.Action), "store_error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		return nil, err
	}

	c.metrics.ObserveLead(string(saved.Action), "saved")
	c.logger.Info("lead created", "id", saved.ID, "action", saved.Action, "source", saved.Source)
	span.SetAttributes(attribute.String("lead.id", saved.ID))

	result := c.notifyAfterSave(ctx, saved)
	if result.NotifyErr != nil {
		span.RecordError(result.NotifyErr)
	}
	return result, nil
}

// notifyAfterSave dispatches the staff alert for an already stored lead. A
// caller that goes away must not cut the notification short.
func (c *Collector) notifyAfterSave(ctx context.Context, saved *Lead) *SubmitResult {
	result := &SubmitResult{Lead: saved}
	if c.notifier == nil {
		c.metrics.ObserveNotification("skipped")
		return result
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.notifyTimeout)
	defer cancel()

	productName := c.resolveProductName(nctx, saved.ProductID)
	err := c.notifier.NotifyNewLead(nctx, saved, productName)
	if errors.Is(err, ErrNotificationSkipped) {
		c.logger.Info("lead notification not delivered", "lead_id", saved.ID)
		c.metrics.ObserveNotification("skipped")
		return result
	}
	if err != nil {
		result.NotifyErr = err
		c.logger.Warn("lead notification failed", "error", err, "lead_id", saved.ID)
		c.metrics.ObserveNotification("failed")
		return result
	}

	result.Notified = true
	c.metrics.ObserveNotification("sent")
	return result
}

func (c *Collector) resolveProductName(ctx context.Context, productID *string) string {
	if productID == nil || c.products == nil {
		return ""
	}
	name, err := c.products.ProductName(ctx, *productID)
	if err != nil {
		c.logger.Warn("could not resolve product for notification", "error", err, "product_id", *productID)
		return ""
	}
	return name
}
