// Package mail delivers invoices and purchase orders over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	gomail "gopkg.in/gomail.v2"

	appbilling "github.com/pharmstock/pharmstock-api/internal/application/billing"
	appinventory "github.com/pharmstock/pharmstock-api/internal/application/inventory"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/pkg/config"
)

var (
	_ appbilling.Mailer   = (*GomailMailer)(nil)
	_ appinventory.Mailer = (*GomailMailer)(nil)
)

// GomailMailer sends mail through a plain SMTP dialer. One dialer is built
// at startup; gomail opens a fresh connection per send, which is fine at
// back-office volume.
type GomailMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailMailer builds the mailer from SMTP configuration.
func NewGomailMailer(cfg config.SMTPConfig) *GomailMailer {
	return &GomailMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendInvoice mails the rendered invoice PDF to the customer.
func (m *GomailMailer) SendInvoice(ctx context.Context, to string, inv *entity.Invoice, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Invoice %s", inv.InvoiceNumber))

	var body strings.Builder
	fmt.Fprintf(&body, "Please find attached invoice %s for %s %s.\n",
		inv.InvoiceNumber, inv.Currency, inv.TotalAmount.StringFixed(2))
	if inv.DueDate != nil {
		fmt.Fprintf(&body, "Payment is due by %s.\n", inv.DueDate.Format("02 Jan 2006"))
	}
	msg.SetBody("text/plain", body.String())

	msg.Attach(inv.InvoiceNumber+".pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(pdf))
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

// SendPurchaseOrder mails a purchase order with its requested lines to a
// supplier.
func (m *GomailMailer) SendPurchaseOrder(
	ctx context.Context,
	to string,
	supplier *entity.Supplier,
	po *entity.PurchaseOrder,
	items []*entity.PurchaseOrderItem,
	productNames map[int64]string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Purchase Order %s", po.PONumber))

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\nPlease supply the following items against purchase order %s:\n\n",
		supplier.Name, po.PONumber)
	for _, it := range items {
		name := productNames[it.ProductID]
		if name == "" {
			name = fmt.Sprintf("product #%d", it.ProductID)
		}
		fmt.Fprintf(&body, "  - %s: qty %s at %s each\n",
			name, it.RequestedQty.String(), it.BuyPrice.StringFixed(2))
	}
	if po.DeliveryDeadline != nil {
		fmt.Fprintf(&body, "\nDelivery is expected by %s.\n", po.DeliveryDeadline.Format("02 Jan 2006"))
	}
	body.WriteString("\nRegards,\nPharmStock Procurement\n")
	msg.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send purchase order %s: %w", po.PONumber, err)
	}
	return nil
}
