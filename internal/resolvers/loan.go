// internal/resolvers/loan.go
package resolvers

import (
	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
)

// Loan renders one block per entry of Loans, projected by sub-type.
func Loan(rec record.Record, req Request) DomainResult {
	subType := req.SubType
	if subType == "" {
		subType = intent.SubTypeSummary
	}
	loans, ok := rec.Items(record.SectionLoans)
	if !ok || len(loans) == 0 {
		return missing(intent.TypeLoan, subType, "No loan information available.")
	}

	blocks := make([]*format.Block, 0, len(loans))
	for i, loan := range loans {
		cur := currencyOf(rec, loan)
		b := &format.Block{Title: format.Indexed("Loan", i)}
		b.Add("Loan Type", firstOf(loan, "Loan_Type", "Type"))
		b.Add("Loan Account", masked(loan, format.MaskAccount, "Loan_Account_Number"))

		switch subType {
		case intent.SubTypeEMIDetails:
			loanEMI(b, loan, cur)
		case intent.SubTypeOutstanding:
			loanOutstanding(b, loan, cur)
		case intent.SubTypeStatus:
			loanStatus(b, loan, cur)
		default:
			loanSummary(b, loan, cur)
		}
		blocks = append(blocks, b)
	}
	return found(intent.TypeLoan, subType, blockData(blocks), format.Join(blocks...))
}

// loanEMI adds due dates only for loans that carry an EMI.
func loanEMI(b *format.Block, loan record.Record, cur string) {
	if _, ok := loan.Number("EMI_Amount"); !ok {
		b.Text("This loan has no EMI schedule.")
		return
	}
	b.Add("EMI Amount", money(loan, cur, "EMI_Amount"))
	b.Add("Next EMI Date", date(loan, "Next_EMI_Date"))
	b.Add("Last EMI Paid On", date(loan, "Last_EMI_Date"))
	b.Add("EMIs Remaining", str(loan, "Remaining_EMIs"))
}

func loanOutstanding(b *format.Block, loan record.Record, cur string) {
	b.AddOr("Outstanding Principal", money(loan, cur, "Outstanding_Principal"), format.NotAvailable)
	b.Add("Outstanding Interest", money(loan, cur, "Outstanding_Interest"))
	b.Add("Total Outstanding", money(loan, cur, "Total_Outstanding"))
	if overdue, ok := loan.Number("Overdue_Amount"); ok && overdue > 0 {
		b.Add("Overdue Amount", format.CurrencyFloat(overdue, cur))
	} else {
		b.Text("No amount is overdue.")
	}
}

func loanStatus(b *format.Block, loan record.Record, cur string) {
	b.AddOr("Status", str(loan, "Status"), format.NotAvailable)
	b.Add("Sanctioned Amount", money(loan, cur, "Sanctioned_Amount"))
	b.Add("Sanctioned On", date(loan, "Sanction_Date"))
	b.Add("Disbursed Amount", money(loan, cur, "Disbursed_Amount"))
	b.Add("Disbursed On", date(loan, "Disbursement_Date"))
	b.Add("Purpose", str(loan, "Purpose"))
}

func loanSummary(b *format.Block, loan record.Record, cur string) {
	b.Add("Sanctioned Amount", compactMoney(loan, cur, "Sanctioned_Amount"))
	b.Add("Outstanding", compactMoney(loan, cur, "Total_Outstanding"))
	b.Add("Interest Rate", percent(loan, "Interest_Rate"))
	b.Add("Tenure (months)", str(loan, "Tenure_Months"))
	b.Add("EMI Amount", money(loan, cur, "EMI_Amount"))
	b.Add("Status", str(loan, "Status"))
	b.Add("Maturity Date", date(loan, "Maturity_Date"))
}
