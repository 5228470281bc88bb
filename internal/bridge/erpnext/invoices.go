package erpnext

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/service/invoice"
)

// InvoiceInput is the validated local draft plus posting options.
type InvoiceInput struct {
	CustomerName        string
	Draft               invoice.Draft
	DiscountPct         decimal.Decimal
	PaymentTermsName    string
	CostCenterCode      string
	Remarks             string
}

// InvoiceResult is what a successful remote post yields.
type InvoiceResult struct {
	InvoiceName string          `json:"invoice_name"`
	PDFURL      string          `json:"pdf_url,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Customer    string          `json:"customer"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
}

// CreateSalesInvoice posts the draft as a remote Sales Invoice: lines
// grouped by (service_name, rate), one On Net Total tax row at the
// configured VAT rate, optional discount and payment terms. Not
// idempotent; the caller prevents duplicates per (contract, period).
func (c *Client) CreateSalesInvoice(ctx context.Context, in InvoiceInput) (InvoiceResult, error) {
	customer, err := c.EnsureCustomer(ctx, in.CustomerName, nil)
	if err != nil {
		return InvoiceResult{}, err
	}
	itemCode, err := c.EnsureServiceItem(ctx)
	if err != nil {
		return InvoiceResult{}, err
	}

	items := groupLines(in.Draft.Lines, itemCode)
	payload := map[string]any{
		"customer": customer,
		"items":    items,
		"taxes": []map[string]any{{
			"charge_type":  "On Net Total",
			"account_head": c.settings.VATAccountHead,
			"description":  fmt.Sprintf("ضريبة القيمة المضافة %.0f%%", c.settings.VATRate()),
			"rate":         c.settings.VATRate(),
		}},
		"remarks": in.Remarks,
	}
	if c.settings.DefaultCompany != "" {
		payload["company"] = c.settings.DefaultCompany
	}
	if in.DiscountPct.IsPositive() {
		payload["apply_discount_on"] = "Grand Total"
		payload["additional_discount_percentage"], _ = in.DiscountPct.Float64()
	}
	if in.CostCenterCode != "" {
		if remote, ok := c.settings.CostCenterMapping[in.CostCenterCode]; ok {
			payload["cost_center"] = remote
		}
	}
	if in.PaymentTermsName != "" {
		exists, err := c.docExists(ctx, "Payment Terms Template", in.PaymentTermsName)
		if err == nil && exists {
			payload["payment_terms_template"] = in.PaymentTermsName
		}
	}

	doc, err := c.createDoc(ctx, "Sales Invoice", payload)
	if err != nil {
		return InvoiceResult{}, err
	}

	name := stringField(doc, "name")
	result := InvoiceResult{
		InvoiceName: name,
		Customer:    customer,
		TotalAmount: in.Draft.TotalAmount,
		Year:        in.Draft.Year,
		Month:       in.Draft.Month,
	}
	if name != "" {
		result.PDFURL = c.PrintViewURL(name)
	}
	return result, nil
}

// groupLines merges draft lines sharing (service_name, rate) into one
// invoice item, keeping Labor and Labor-OT apart.
func groupLines(lines []invoice.Line, itemCode string) []map[string]any {
	type key struct {
		service string
		rate    string
	}
	order := []key{}
	grouped := map[key]*struct {
		qty          decimal.Decimal
		rate         decimal.Decimal
		descriptions []string
	}{}

	for _, l := range lines {
		k := key{service: l.ServiceName, rate: l.Rate.String()}
		g, ok := grouped[k]
		if !ok {
			g = &struct {
				qty          decimal.Decimal
				rate         decimal.Decimal
				descriptions []string
			}{rate: l.Rate}
			grouped[k] = g
			order = append(order, k)
		}
		g.qty = g.qty.Add(l.Qty)
		g.descriptions = append(g.descriptions, l.Description)
	}

	items := make([]map[string]any, 0, len(order))
	for _, k := range order {
		g := grouped[k]
		qty, _ := g.qty.Float64()
		rate, _ := g.rate.Float64()
		items = append(items, map[string]any{
			"item_code":   itemCode,
			"item_name":   k.service,
			"description": strings.Join(g.descriptions, "\n"),
			"qty":         qty,
			"rate":        rate,
		})
	}
	return items
}

// PrintViewURL renders the remote print view link for an invoice.
func (c *Client) PrintViewURL(invoiceName string) string {
	format := c.settings.PrintFormat
	if format == "" {
		format = "Standard"
	}
	lang := c.settings.PrintLang
	if lang == "" {
		lang = "ar"
	}
	noLetterhead := "1"
	if c.settings.LetterHead != "" {
		noLetterhead = "0"
	}

	q := url.Values{}
	q.Set("doctype", "Sales Invoice")
	q.Set("name", invoiceName)
	q.Set("format", format)
	q.Set("no_letterhead", noLetterhead)
	q.Set("_lang", lang)
	if c.settings.LetterHead != "" {
		q.Set("letterhead", c.settings.LetterHead)
	}
	return fmt.Sprintf("%s/printview?%s", c.transport.BaseURL(), q.Encode())
}

// RemoteInvoice is one row of the remote invoice list, grand total
// formatted for display.
type RemoteInvoice struct {
	Name                string  `json:"name"`
	Customer            string  `json:"customer"`
	PostingDate         string  `json:"posting_date"`
	Status              string  `json:"status"`
	GrandTotal          float64 `json:"grand_total"`
	GrandTotalFormatted string  `json:"grand_total_formatted"`
	PDFURL              string  `json:"pdf_url"`
}

// ListSalesInvoices fetches the latest remote invoices.
func (c *Client) ListSalesInvoices(ctx context.Context, limit int) ([]RemoteInvoice, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.getList(ctx, "Sales Invoice",
		[]string{"name", "customer", "posting_date", "status", "grand_total"}, nil, limit)
	if err != nil {
		return nil, err
	}

	out := make([]RemoteInvoice, 0, len(rows))
	for _, row := range rows {
		inv := RemoteInvoice{
			Name:        stringField(row, "name"),
			Customer:    stringField(row, "customer"),
			PostingDate: stringField(row, "posting_date"),
			Status:      stringField(row, "status"),
			GrandTotal:  numberField(row, "grand_total"),
		}
		inv.GrandTotalFormatted = formatAmount(inv.GrandTotal)
		inv.PDFURL = c.PrintViewURL(inv.Name)
		out = append(out, inv)
	}
	return out, nil
}

// formatAmount renders 1234567.5 as "1,234,567.50".
func formatAmount(v float64) string {
	d := decimal.NewFromFloat(v).RoundBank(2)
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
