// internal/resolvers/facilities.go
package resolvers

import (
	"fmt"
	"strings"

	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
)

// WorkingCapital always renders the full facility; it has no sub-types.
func WorkingCapital(rec record.Record, _ Request) DomainResult {
	wc, ok := rec.Sub(record.SectionWorkingCapital)
	if !ok || len(wc) == 0 {
		return missing(intent.TypeWorkingCapital, "", "No working capital facility information available.")
	}
	cur := currencyOf(rec, wc)

	b := &format.Block{Title: "Working Capital Facility"}
	b.AddOr("Facility Type", firstOf(wc, "Facility_Type", "Type"), format.NotAvailable)
	b.AddOr("Sanctioned Limit", compactMoney(wc, cur, "Sanctioned_Limit"), format.NotAvailable)
	b.AddOr("Utilized Amount", compactMoney(wc, cur, "Utilized_Amount"), format.NotAvailable)
	b.AddOr("Available Limit", compactMoney(wc, cur, "Available_Limit"), format.NotAvailable)
	b.AddOr("Drawing Power", compactMoney(wc, cur, "Drawing_Power"), format.NotAvailable)
	b.AddOr("Interest Rate", percent(wc, "Interest_Rate"), format.NotAvailable)
	b.AddOr("Last Review Date", date(wc, "Last_Review_Date"), format.NotAvailable)
	b.AddOr("Next Review Date", date(wc, "Next_Review_Date"), format.NotAvailable)
	b.AddOr("Relationship Manager", contactLine(wc, "Relationship_Manager"), format.NotAvailable)

	if limit, ok := wc.Number("Sanctioned_Limit"); ok && limit > 0 {
		if used, ok := wc.Number("Utilized_Amount"); ok {
			b.Add("Utilization", format.Percent(used/limit*100))
		}
	}
	return found(intent.TypeWorkingCapital, "", blockData([]*format.Block{b}), b.Render())
}

// contactLine renders a {Name, Phone, Email} mapping as one line, or a
// plain string value as is.
func contactLine(r record.Record, path ...string) string {
	if s, ok := r.String(path...); ok {
		return s
	}
	c, ok := r.Sub(path...)
	if !ok {
		return ""
	}
	name := firstOf(c, "Name", "Full_Name")
	var extra []string
	if p := str(c, "Phone"); p != "" {
		extra = append(extra, p)
	}
	if e := str(c, "Email"); e != "" {
		extra = append(extra, e)
	}
	switch {
	case len(extra) == 0:
		return name
	case name == "":
		return strings.Join(extra, ", ")
	default:
		return name + " (" + strings.Join(extra, ", ") + ")"
	}
}

type tradeSection struct {
	subType string
	key     string
	noun    string
	render  func(b *format.Block, item record.Record, cur string)
}

var tradeSections = []tradeSection{
	{intent.SubTypeLettersOfCredit, "Letters_of_Credit", "Letter of Credit", renderLC},
	{intent.SubTypeBankGuarantees, "Bank_Guarantees", "Bank Guarantee", renderBG},
	{intent.SubTypeInvoiceFinancing, "Invoice_Financing", "Invoice", renderInvoice},
}

// TradeFinance renders letters of credit, bank guarantees and invoice
// financing, one block per item. Without a specific sub-type every section
// present is rendered.
func TradeFinance(rec record.Record, req Request) DomainResult {
	subType := req.SubType
	if subType == "" {
		subType = intent.SubTypeAll
	}
	tf, ok := rec.Sub(record.SectionTradeFinance)
	if !ok || len(tf) == 0 {
		return missing(intent.TypeTradeFinance, subType, "No trade finance information available.")
	}

	var blocks []*format.Block
	var empty []string
	for _, sec := range tradeSections {
		if subType != intent.SubTypeAll && subType != sec.subType {
			continue
		}
		items, _ := tf.Items(sec.key)
		if len(items) == 0 {
			empty = append(empty, sec.noun)
			continue
		}
		for i, item := range items {
			b := &format.Block{Title: format.Indexed(sec.noun, i)}
			sec.render(b, item, currencyOf(rec, item))
			blocks = append(blocks, b)
		}
	}

	if len(blocks) == 0 {
		msg := "No trade finance facilities found."
		if len(empty) == 1 {
			msg = fmt.Sprintf("No %s records found.", empty[0])
		}
		return missing(intent.TypeTradeFinance, subType, msg)
	}
	return found(intent.TypeTradeFinance, subType, blockData(blocks), format.Join(blocks...))
}

func renderLC(b *format.Block, lc record.Record, cur string) {
	b.Add("LC Number", firstOf(lc, "LC_Number", "Reference"))
	b.Add("Type", str(lc, "Type"))
	b.Add("Beneficiary", str(lc, "Beneficiary"))
	b.AddOr("Amount", money(lc, cur, "Amount"), format.NotAvailable)
	b.Add("Issue Date", date(lc, "Issue_Date"))
	b.Add("Expiry Date", date(lc, "Expiry_Date"))
	b.Add("Status", str(lc, "Status"))
}

func renderBG(b *format.Block, bg record.Record, cur string) {
	b.Add("BG Number", firstOf(bg, "BG_Number", "Reference"))
	b.Add("Type", str(bg, "Type"))
	b.Add("Beneficiary", str(bg, "Beneficiary"))
	b.AddOr("Amount", money(bg, cur, "Amount"), format.NotAvailable)
	b.Add("Issue Date", date(bg, "Issue_Date"))
	b.Add("Expiry Date", date(bg, "Expiry_Date"))
	b.Add("Status", str(bg, "Status"))
}

func renderInvoice(b *format.Block, inv record.Record, cur string) {
	b.Add("Invoice Number", str(inv, "Invoice_Number"))
	b.Add("Buyer", str(inv, "Buyer"))
	b.AddOr("Invoice Amount", money(inv, cur, "Invoice_Amount"), format.NotAvailable)
	b.Add("Financed Amount", money(inv, cur, "Financed_Amount"))
	b.Add("Due Date", date(inv, "Due_Date"))
	b.Add("Status", str(inv, "Status"))
}
