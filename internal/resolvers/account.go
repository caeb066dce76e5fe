// internal/resolvers/account.go
package resolvers

import (
	"strings"

	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
)

// Account answers balance, joint holder, branch and summary questions over
// BankAccounts. Account numbers are masked in every view except balance.
func Account(rec record.Record, req Request) DomainResult {
	subType := req.SubType
	if subType == "" {
		subType = intent.SubTypeSummary
	}
	accounts, ok := rec.Items(record.SectionBankAccounts)
	if !ok || len(accounts) == 0 {
		return missing(intent.TypeAccount, subType, "No bank account information available.")
	}

	blocks := make([]*format.Block, 0, len(accounts))
	for i, acc := range accounts {
		cur := currencyOf(rec, acc)
		var b *format.Block
		switch subType {
		case intent.SubTypeBalance:
			b = accountBalance(acc, cur)
		case intent.SubTypeJointHolders:
			b = accountHolders(acc)
		case intent.SubTypeBankDetails, "branch":
			b = accountBranch(acc)
		default:
			b = accountSummary(acc, cur, i)
		}
		blocks = append(blocks, b)
	}
	return found(intent.TypeAccount, subType, blockData(blocks), format.Join(blocks...))
}

func accountTitle(acc record.Record, number string) string {
	typ := firstOf(acc, "Account_Type", "Type")
	if typ == "" {
		typ = "Account"
	} else if !strings.Contains(strings.ToLower(typ), "account") {
		typ += " Account"
	}
	if number == "" {
		return typ
	}
	return typ + " " + number
}

func accountNumber(acc record.Record) string {
	return firstOf(acc, "Account_Number", "Account_No")
}

func accountBalance(acc record.Record, cur string) *format.Block {
	b := &format.Block{Title: accountTitle(acc, accountNumber(acc))}
	b.AddOr("Current Balance", money(acc, cur, "Current_Balance"), format.NotAvailable)
	b.Add("Available Balance", money(acc, cur, "Available_Balance"))
	b.Add("As Of", date(acc, "Balance_As_Of"))
	return b
}

func accountHolders(acc record.Record) *format.Block {
	number := format.Mask(accountNumber(acc), format.MaskAccount)
	b := &format.Block{Title: accountTitle(acc, number)}
	b.AddOr("Primary Holder", firstOf(acc, "Primary_Holder", "Account_Holder_Name"), format.NotAvailable)
	b.Add("Mode of Operation", firstOf(acc, "Mode_of_Operation", "Operation_Mode"))

	holders := joined(acc, "Joint_Holder_Names")
	if holders == "" {
		b.Text("This is not a joint account.")
		return b
	}
	b.Add("Joint Holders", holders)
	return b
}

func accountBranch(acc record.Record) *format.Block {
	number := format.Mask(accountNumber(acc), format.MaskAccount)
	b := &format.Block{Title: accountTitle(acc, number)}
	b.AddOr("Branch", firstOf(acc, "Branch_Name", "Branch"), format.NotAvailable)
	b.AddOr("IFSC Code", firstOf(acc, "IFSC_Code", "IFSC"), format.NotAvailable)
	b.Add("MICR Code", str(acc, "MICR_Code"))
	b.Add("SWIFT Code", str(acc, "SWIFT_Code"))
	b.Add("Branch Address", address(acc, "Branch_Address"))
	return b
}

func accountSummary(acc record.Record, cur string, i int) *format.Block {
	b := &format.Block{Title: format.Indexed("Account", i)}
	b.Add("Account Type", firstOf(acc, "Account_Type", "Type"))
	b.AddOr("Account Number", format.Mask(accountNumber(acc), format.MaskAccount), format.NotAvailable)
	b.Add("Status", str(acc, "Status"))
	b.Add("Current Balance", money(acc, cur, "Current_Balance"))
	b.Add("Branch", firstOf(acc, "Branch_Name", "Branch"))
	b.Add("Opened On", date(acc, "Opening_Date"))
	b.Add("Currency", cur)
	return b
}

// blockData projects rendered blocks into label/value maps for callers that
// want structured output alongside the text.
func blockData(blocks []*format.Block) []map[string]string {
	out := make([]map[string]string, 0, len(blocks))
	for _, b := range blocks {
		m := make(map[string]string, len(b.Lines)+1)
		if b.Title != "" {
			m["title"] = b.Title
		}
		for _, l := range b.Lines {
			if l.Label == "" {
				m["note"] = l.Value
				continue
			}
			m[l.Label] = l.Value
		}
		out = append(out, m)
	}
	return out
}
