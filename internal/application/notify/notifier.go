// Package notify emits role-facing notifications after business operations
// commit. Emission is fire-and-forget: it runs strictly after the financial
// transaction and a failure here is logged, never propagated back.
package notify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

// Event types emitted by the core use cases.
const (
	EventOrderCreated     = "order_created"
	EventOrderUpdated     = "order_updated"
	EventOrderDeleted     = "order_deleted"
	EventInvoiceCreated   = "invoice_created"
	EventInvoiceSent      = "invoice_sent"
	EventInvoiceDownload  = "invoice_downloaded"
	EventLowStockCreated  = "lowstock_created"
	EventLowStockGenerate = "lowstock_generated"
	EventLowStockSent     = "lowstock_status_sent"
	EventProductCreated   = "product_created"
	EventProductUpdated   = "product_updated"
	EventPriceSet         = "product_price_set"
	EventPODeleted        = "po_deleted"
	EventPOCompleted      = "po_completed"
)

const timestampLayout = "02 Jan 2006, 03:04 PM"

// amounts render with Indian digit grouping (₹12,34,567.89).
var inr = message.NewPrinter(language.MustParse("en-IN"))

// Notifier renders templated messages and persists them.
type Notifier struct {
	repo repository.NotificationRepository
	log  *logger.Logger
}

// New builds the notifier.
func New(repo repository.NotificationRepository, log *logger.Logger) *Notifier {
	return &Notifier{repo: repo, log: log}
}

// Emit renders the template with the given replacements plus the defaults
// (performer_name, performer_id, timestamp) and stores the notification for
// the acting user. Must be called only after the reported operation has
// committed; errors are swallowed after logging.
func (n *Notifier) Emit(ctx context.Context, actor entity.Actor, eventType, title, template string, replacements map[string]string) {
	msg := Render(template, actor, time.Now(), replacements)

	notification := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		Type:      eventType,
		Title:     title,
		Message:   msg,
		Icon:      iconFor(eventType),
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	// The request context may already be cancelled by the time we get here;
	// the business transaction committed, so the record is written anyway.
	if err := n.repo.Create(context.WithoutCancel(ctx), notification); err != nil {
		n.log.Error().Err(err).
			Str("event", eventType).
			Int64("actor_id", actor.ID).
			Msg("store notification")
		return
	}
	n.log.Info().
		Str("event", eventType).
		Str("notification_id", notification.ID).
		Msg("notification emitted")
}

// Render substitutes {{placeholder}} occurrences in template. Default
// placeholders come from the actor and clock; explicit replacements win.
func Render(template string, actor entity.Actor, now time.Time, replacements map[string]string) string {
	merged := map[string]string{
		"performer_name": actor.Name,
		"performer_id":   strconv.FormatInt(actor.ID, 10),
		"timestamp":      now.Format(timestampLayout),
	}
	for k, val := range replacements {
		merged[k] = val
	}
	msg := template
	for k, val := range merged {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", val)
	}
	return msg
}

// FormatAmount renders a money value with Indian digit grouping and two
// decimals, for use inside notification messages.
func FormatAmount(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return inr.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func iconFor(eventType string) string {
	switch eventType {
	case EventInvoiceCreated:
		return "FileText"
	case EventInvoiceSent:
		return "Mail"
	case EventInvoiceDownload:
		return "Download"
	case EventLowStockCreated, EventProductCreated:
		return "Plus"
	case EventLowStockGenerate:
		return "RefreshCw"
	case EventLowStockSent:
		return "Mail"
	case EventProductUpdated:
		return "Edit"
	case EventPriceSet:
		return "DollarSign"
	case EventPODeleted:
		return "Trash"
	default:
		return "Bell"
	}
}
