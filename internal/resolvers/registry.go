// internal/resolvers/registry.go
package resolvers

import (
	"errors"
	"fmt"
	"time"

	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
)

var ErrUnknownType = errors.New("unknown intent type")

// Metadata echoes the intent a result was produced for.
type Metadata struct {
	Type    string `json:"type"`
	SubType string `json:"subType,omitempty"`
}

// DomainResult is what every resolver hands back to the orchestrator.
// Context is the rendered answer when HasData is true and the explanation
// passed to the generative fallback otherwise.
type DomainResult struct {
	HasData  bool        `json:"hasData"`
	Data     interface{} `json:"data,omitempty"`
	Context  string      `json:"context"`
	Metadata Metadata    `json:"metadata"`
}

// Request carries the intent fields and the clock a resolver runs against.
type Request struct {
	SubType   string
	Timeframe string
	Category  string
	Now       time.Time
	Location  *time.Location
}

// RequestFor builds a Request from a classified intent.
func RequestFor(in intent.Intent, now time.Time) Request {
	return Request{
		SubType:   in.SubType,
		Timeframe: in.Timeframe,
		Category:  in.Category,
		Now:       now,
		Location:  now.Location(),
	}
}

// Func resolves one intent type against a customer record.
type Func func(rec record.Record, req Request) DomainResult

type entry struct {
	typ   string
	label string
	fn    Func
}

// Registry dispatches intent types to resolvers. Registration order is the
// order the help menu lists domains in.
type Registry struct {
	entries []entry
	byType  map[string]Func
}

// NewRegistry returns a Registry with every domain resolver registered.
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Func)}
	r.Register(intent.TypeAccount, "Account balances, joint holders and branch details", Account)
	r.Register(intent.TypeTransaction, "Transactions and spending by period or category", Transactions)
	r.Register(intent.TypeLoan, "Loans, EMIs and outstanding amounts", Loan)
	r.Register(intent.TypeWorkingCapital, "Working capital limits and utilisation", WorkingCapital)
	r.Register(intent.TypeTradeFinance, "Letters of credit, bank guarantees and invoice financing", TradeFinance)
	r.Register(intent.TypeKYC, "KYC status and submitted documents", KYC)
	r.Register(intent.TypeCredit, "Credit score and credit profile", Credit)
	r.Register(intent.TypeCompany, "Company details", Company)
	r.Register(intent.TypePersonal, "Personal details", Personal)
	r.Register(intent.TypeAuthorizedSignatory, "Authorised signatories", AuthorizedSignatories)
	r.Register(intent.TypeDigitalAccess, "Net banking, mobile banking and UPI access", DigitalAccess)
	r.Register(intent.TypeSupport, "Support contacts and open service requests", Support)
	r.Register(intent.TypeAadhaarNumber, "Your registered Aadhaar number (masked)", Aadhaar)
	return r
}

// Register adds or replaces the resolver for typ.
func (r *Registry) Register(typ, label string, fn Func) {
	if _, exists := r.byType[typ]; !exists {
		r.entries = append(r.entries, entry{typ: typ, label: label, fn: fn})
	} else {
		for i := range r.entries {
			if r.entries[i].typ == typ {
				r.entries[i] = entry{typ: typ, label: label, fn: fn}
			}
		}
	}
	r.byType[typ] = fn
}

// Lookup returns the resolver for typ.
func (r *Registry) Lookup(typ string) (Func, bool) {
	fn, ok := r.byType[intent.Canonical(typ)]
	return fn, ok
}

// Resolve dispatches in to its resolver.
func (r *Registry) Resolve(rec record.Record, in intent.Intent, now time.Time) (DomainResult, error) {
	fn, ok := r.Lookup(in.Type)
	if !ok {
		return DomainResult{}, fmt.Errorf("%w: %s", ErrUnknownType, in.Type)
	}
	res := fn(rec, RequestFor(in, now))
	if res.Metadata.Type == "" {
		res.Metadata = Metadata{Type: intent.Canonical(in.Type), SubType: in.SubType}
	}
	return res, nil
}

// Types lists registered intent types in registration order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.typ)
	}
	return out
}

// MenuLines lists the human-readable label of every registered domain.
func (r *Registry) MenuLines() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.label)
	}
	return out
}

func found(typ, subType string, data interface{}, context string) DomainResult {
	return DomainResult{
		HasData:  true,
		Data:     data,
		Context:  context,
		Metadata: Metadata{Type: typ, SubType: subType},
	}
}

func missing(typ, subType, context string) DomainResult {
	return DomainResult{
		Context:  context,
		Metadata: Metadata{Type: typ, SubType: subType},
	}
}

// currencyOf returns the currency an item is denominated in, falling back to
// the record-level currency and then the default.
func currencyOf(rec, item record.Record) string {
	if item != nil {
		if c, ok := item.String("Currency"); ok {
			return c
		}
	}
	if c, ok := rec.String(record.SectionDefaultCurrency); ok {
		return c
	}
	return format.DefaultCurrency()
}
