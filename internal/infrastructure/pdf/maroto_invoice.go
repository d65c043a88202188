// Package pdf renders the printable GST tax invoice.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Company name + GSTIN  │  Invoice no + dates         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SELLER: address                                             │
//	│  BUYER: name + GSTIN + contact                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qty | Description | HSN | Rate | CGST | SGST | Total │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Taxable value / CGST / SGST / Discount / GRAND      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: notes, terms, legend                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/pharmstock/pharmstock-api/internal/application/billing"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/gst"
)

var (
	colorPrimary = &props.Color{Red: 13, Green: 71, Blue: 99}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appbilling.PDFGenerator = (*MarotoInvoiceGenerator)(nil)

// MarotoInvoiceGenerator implements billing.PDFGenerator with Maroto v2.
type MarotoInvoiceGenerator struct{}

// NewMarotoInvoiceGenerator builds the generator.
func NewMarotoInvoiceGenerator() *MarotoInvoiceGenerator { return &MarotoInvoiceGenerator{} }

// InvoicePDF renders the invoice and returns its bytes.
func (g *MarotoInvoiceGenerator) InvoicePDF(
	_ context.Context,
	inv *entity.Invoice,
	items []*entity.InvoiceItem,
	customer *entity.Customer,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+inv.InvoiceNumber, true).
		WithAuthor(inv.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(inv))
	m.AddRows(buyerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, items))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(inv) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

// headerRow: company name (left), invoice number and dates (right).
func headerRow(inv *entity.Invoice) core.Row {
	issued := inv.IssueDate.Format("02/01/2006")
	due := "—"
	if inv.DueDate != nil {
		due = inv.DueDate.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(inv.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("TAX INVOICE", props.Text{
				Size: 9, Top: 9, Color: colorGray, Style: fontstyle.Bold,
			}),
		),
		col.New(5).Add(
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Issued: "+issued, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Due: "+due, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// sellerRow: the issuing company as frozen on the invoice.
func sellerRow(inv *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("SELLER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(inv.CompanyAddress, "—"), props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
		),
	)
}

// buyerRow: the customer being billed.
func buyerRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("GSTIN: %s   |   Email: %s   |   Phone: %s",
				nonEmpty(customer.GSTIN, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Description", 4, align.Left),
		h("HSN", 1, align.Center),
		h("Rate", 2, align.Right),
		h("CGST", 1, align.Right),
		h("SGST", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: one row per frozen line. Component amounts are re-derived
// from the frozen rates with the same rounding that priced them.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		ln := gst.ComputeLine(gst.LineInput{
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			GSTRate:   it.TaxRate,
		})
		cell := func(size int, s string, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
			}))
		}
		result = append(result, row.New(7).Add(
			cell(1, it.Quantity.String(), align.Center),
			cell(4, it.Description, align.Left),
			cell(1, nonEmpty(it.HSNCode, "—"), align.Center),
			cell(2, money(it.UnitPrice), align.Right),
			cell(1, money(ln.CGSTAmount), align.Right),
			cell(1, money(ln.SGSTAmount), align.Right),
			cell(2, money(it.LineTotal), align.Right),
		))
	}
	return result
}

// totalsRow: right-aligned totals block.
func totalsRow(inv *entity.Invoice, items []*entity.InvoiceItem) core.Row {
	cgst, sgst := componentTotals(items)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	labels := []core.Component{label("Taxable value:"), label("CGST:"), label("SGST:")}
	values := []core.Component{value(money(inv.SubTotal)), value(money(cgst)), value(money(sgst))}
	if !inv.DiscountAmount.IsZero() {
		labels = append(labels, label("Discount:"))
		values = append(values, value("-"+money(inv.DiscountAmount)))
	}
	if !inv.ShippingAmount.IsZero() {
		labels = append(labels, label("Shipping:"))
		values = append(values, value(money(inv.ShippingAmount)))
	}
	labels = append(labels, grandLabel("GRAND TOTAL:"))
	values = append(values, grandValue(inv.Currency+" "+money(inv.TotalAmount)))

	return row.New(32).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

// footerRows: notes, terms and the closing legend.
func footerRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row

	if inv.Notes != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Notes:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
			)),
			row.New(5).Add(col.New(12).Add(
				text.New(inv.Notes, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
			)),
		)
	}
	if inv.Terms != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Terms:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
			)),
			row.New(5).Add(col.New(12).Add(
				text.New(inv.Terms, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
			)),
		)
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"This is a computer generated invoice. CGST and SGST are charged on "+
				"intra-state supply; amounts per component are rounded to two decimals.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// componentTotals sums the per-line CGST and SGST amounts re-derived from
// the frozen rates.
func componentTotals(items []*entity.InvoiceItem) (cgst, sgst decimal.Decimal) {
	for _, it := range items {
		ln := gst.ComputeLine(gst.LineInput{
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			GSTRate:   it.TaxRate,
		})
		cgst = cgst.Add(ln.CGSTAmount)
		sgst = sgst.Add(ln.SGSTAmount)
	}
	return cgst, sgst
}
