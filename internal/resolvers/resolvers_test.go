package resolvers

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
	"customer-query-service/internal/transactions"
)

var (
	ist = time.FixedZone("IST", 5*3600+1800)
	now = time.Date(2025, time.March, 5, 14, 30, 0, 0, ist)
)

func loadFixture(t *testing.T) record.Record {
	t.Helper()
	raw, err := os.ReadFile("testdata/customer.json")
	require.NoError(t, err)
	var rec record.Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	return rec
}

func req(subType, timeframe, category string) Request {
	return Request{SubType: subType, Timeframe: timeframe, Category: category, Now: now, Location: ist}
}

func TestAccount_BalanceShowsFullNumbers(t *testing.T) {
	res := Account(loadFixture(t), req(intent.SubTypeBalance, "", ""))

	require.True(t, res.HasData)
	assert.Contains(t, res.Context, "Current Account 50100234567890")
	assert.Contains(t, res.Context, "Current Balance: ₹12,45,000.50")
	assert.Contains(t, res.Context, "Available Balance: ₹12,00,000.00")
	assert.Contains(t, res.Context, "Savings Account 50100987654321\nCurrent Balance: ₹85,000.00")
	assert.Equal(t, Metadata{Type: intent.TypeAccount, SubType: intent.SubTypeBalance}, res.Metadata)
}

func TestAccount_OtherViewsMaskNumbers(t *testing.T) {
	rec := loadFixture(t)
	for _, sub := range []string{intent.SubTypeJointHolders, intent.SubTypeBankDetails, intent.SubTypeSummary, ""} {
		res := Account(rec, req(sub, "", ""))
		require.True(t, res.HasData, sub)
		assert.NotContains(t, res.Context, "50100234567890", sub)
		assert.NotContains(t, res.Context, "50100987654321", sub)
		assert.Contains(t, res.Context, "XXXXXX7890", sub)
	}
}

func TestAccount_JointHolders(t *testing.T) {
	res := Account(loadFixture(t), req(intent.SubTypeJointHolders, "", ""))

	assert.Contains(t, res.Context, "Current Account XXXXXX7890\nPrimary Holder: Asha Menon\nMode of Operation: Single\nThis is not a joint account.")
	assert.Contains(t, res.Context, "Joint Holders: Ravi Menon")
}

func TestAccount_EmptyJointHolderListSaysNotJoint(t *testing.T) {
	rec := record.Record{
		record.SectionBankAccounts: []interface{}{
			map[string]interface{}{"Account_Number": "1234567890", "Joint_Holder_Names": []interface{}{}},
		},
	}
	res := Account(rec, req(intent.SubTypeJointHolders, "", ""))

	assert.True(t, res.HasData)
	assert.Contains(t, res.Context, "not a joint account")
	assert.Contains(t, res.Context, "Primary Holder: Not available")
}

func TestAccount_BankDetails(t *testing.T) {
	res := Account(loadFixture(t), req(intent.SubTypeBankDetails, "", ""))
	assert.Contains(t, res.Context, "Branch: Kochi MG Road\nIFSC Code: HDFC0000123")
}

func TestAccount_MissingSection(t *testing.T) {
	res := Account(record.Record{}, req("", "", ""))
	assert.False(t, res.HasData)
	assert.Equal(t, "No bank account information available.", res.Context)
}

func TestLoan_MissingSection(t *testing.T) {
	for _, rec := range []record.Record{{}, {record.SectionLoans: []interface{}{}}, {record.SectionLoans: "n/a"}} {
		res := Loan(rec, req("", "", ""))
		assert.False(t, res.HasData)
		assert.Equal(t, "No loan information available.", res.Context)
		assert.Equal(t, intent.TypeLoan, res.Metadata.Type)
	}
}

func TestLoan_EMIDetailsOnlyWhenPresent(t *testing.T) {
	res := Loan(loadFixture(t), req(intent.SubTypeEMIDetails, "", ""))

	require.True(t, res.HasData)
	assert.Contains(t, res.Context, "Loan 1 Details\nLoan Type: Term Loan\nLoan Account: XXXXXX8877\nEMI Amount: ₹1,05,000.00\nNext EMI Date: 10 March 2025\nLast EMI Paid On: 10 February 2025")
	assert.Contains(t, res.Context, "Loan 2 Details\nLoan Type: Bullet Loan\nLoan Account: XXXXXX2233\nThis loan has no EMI schedule.")
}

func TestLoan_Outstanding(t *testing.T) {
	res := Loan(loadFixture(t), req(intent.SubTypeOutstanding, "", ""))

	assert.Contains(t, res.Context, "Total Outstanding: ₹32,24,000.00\nNo amount is overdue.")
	assert.Contains(t, res.Context, "Outstanding Principal: Not available")
	assert.Contains(t, res.Context, "Overdue Amount: ₹25,000.00")
}

func TestLoan_StatusAndSummary(t *testing.T) {
	rec := loadFixture(t)

	status := Loan(rec, req(intent.SubTypeStatus, "", ""))
	assert.Contains(t, status.Context, "Purpose: Warehouse expansion")
	assert.Contains(t, status.Context, "Sanctioned On: 1 March 2022")

	summary := Loan(rec, req("", "", ""))
	assert.Equal(t, intent.SubTypeSummary, summary.Metadata.SubType)
	assert.Contains(t, summary.Context, "Sanctioned Amount: ₹50.00 L")
	assert.Contains(t, summary.Context, "Interest Rate: 9.50%")
}

func TestWorkingCapital_FullFieldSet(t *testing.T) {
	res := WorkingCapital(loadFixture(t), req("ignored", "", ""))

	require.True(t, res.HasData)
	for _, want := range []string{
		"Facility Type: Cash Credit",
		"Sanctioned Limit: ₹2.00 Cr",
		"Utilized Amount: ₹1.25 Cr",
		"Available Limit: ₹75.00 L",
		"Drawing Power: ₹1.80 Cr",
		"Interest Rate: 10.25%",
		"Last Review Date: 30 September 2024",
		"Next Review Date: 30 September 2025",
		"Relationship Manager: Vikram Nair (+91 98470 11223, vikram.nair@bank.example)",
		"Utilization: 62.50%",
	} {
		assert.Contains(t, res.Context, want)
	}
}

func TestWorkingCapital_PartialSection(t *testing.T) {
	rec := record.Record{record.SectionWorkingCapital: map[string]interface{}{"Sanctioned_Limit": 1000000}}
	res := WorkingCapital(rec, req("", "", ""))

	assert.True(t, res.HasData)
	assert.Contains(t, res.Context, "Sanctioned Limit: ₹10.00 L")
	assert.Contains(t, res.Context, "Drawing Power: Not available")
}

func TestTradeFinance(t *testing.T) {
	rec := loadFixture(t)

	lc := TradeFinance(rec, req(intent.SubTypeLettersOfCredit, "", ""))
	require.True(t, lc.HasData)
	assert.Contains(t, lc.Context, "Letter of Credit 1 Details\nLC Number: LC2025-001")
	assert.Contains(t, lc.Context, "Amount: €250,000.00")
	assert.NotContains(t, lc.Context, "Bank Guarantee")

	all := TradeFinance(rec, req("", "", ""))
	assert.Equal(t, intent.SubTypeAll, all.Metadata.SubType)
	assert.Contains(t, all.Context, "Letter of Credit 1 Details")
	assert.Contains(t, all.Context, "Bank Guarantee 1 Details\nBG Number: BG-7781")
	assert.Contains(t, all.Context, "Amount: ₹10,00,000.00")

	inv := TradeFinance(rec, req(intent.SubTypeInvoiceFinancing, "", ""))
	assert.False(t, inv.HasData)
	assert.Equal(t, "No Invoice records found.", inv.Context)

	none := TradeFinance(record.Record{}, req("", "", ""))
	assert.False(t, none.HasData)
}

func TestKYC(t *testing.T) {
	rec := loadFixture(t)

	status := KYC(rec, req(intent.SubTypeStatus, "", ""))
	assert.Contains(t, status.Context, "KYC Status: Verified")
	assert.NotContains(t, status.Context, "Passport")

	docs := KYC(rec, req(intent.SubTypeDocuments, "", ""))
	assert.Equal(t, "KYC Documents Submitted\n- PAN Card (Verified), submitted 20 May 2023\n- Passport (Pending)\n- Utility Bill", docs.Context)

	all := KYC(rec, req("", "", ""))
	assert.Contains(t, all.Context, "Risk Category: Low")
	assert.Contains(t, all.Context, "- Passport (Pending)")

	noDocs := KYC(record.Record{record.SectionKYCCompliance: map[string]interface{}{"KYC_Status": "Pending"}}, req(intent.SubTypeDocuments, "", ""))
	assert.False(t, noDocs.HasData)
	assert.Equal(t, "No KYC documents have been recorded.", noDocs.Context)
}

func TestAadhaar_AlwaysMasked(t *testing.T) {
	res := Aadhaar(loadFixture(t), req("", "", ""))

	require.True(t, res.HasData)
	assert.Equal(t, "Your registered Aadhaar number is XXXX XXXX 9012.", res.Context)
	assert.NotContains(t, res.Context, "5678")

	assert.False(t, Aadhaar(record.Record{}, req("", "", "")).HasData)
}

func TestPersonal(t *testing.T) {
	rec := loadFixture(t)

	contact := Personal(rec, req(intent.SubTypeContact, "", ""))
	assert.Equal(t, "Personal Details\nMobile: +XX XXXXX X3210\nEmail: as****@example.com", contact.Context)

	addr := Personal(rec, req(intent.SubTypeAddress, "", ""))
	assert.Contains(t, addr.Context, "Address: 14 Lake View Road, Kochi, Kerala, 682016, India")

	partial := Personal(record.Record{record.SectionPersonal: map[string]interface{}{"Full_Name": "Asha"}}, req("", "", ""))
	assert.True(t, partial.HasData)
	assert.Contains(t, partial.Context, "Name: Asha\nDate of Birth: Not available")
}

func TestCompanyCreditSupport(t *testing.T) {
	rec := loadFixture(t)

	company := Company(rec, req("", "", ""))
	assert.Contains(t, company.Context, "Company Name: Menon Exports Pvt Ltd")
	assert.Contains(t, company.Context, "Annual Turnover: ₹18.50 Cr")
	assert.Contains(t, company.Context, "GSTIN: 32ABCDE1234F1Z5")
	assert.NotContains(t, company.Context, "PAN:")

	credit := Credit(rec, req("", "", ""))
	assert.Contains(t, credit.Context, "Credit Score: 782")
	assert.Contains(t, credit.Context, "Credit Utilization: 34.50%")

	support := Support(rec, req("", "", ""))
	assert.Contains(t, support.Context, "Relationship Manager: Vikram Nair (+91 98470 11223)")
	assert.Contains(t, support.Context, "Service Request 1 Details\nTicket: SR-4410")
}

func TestSignatoriesAndDigitalAccess(t *testing.T) {
	rec := loadFixture(t)

	sig := AuthorizedSignatories(rec, req("", "", ""))
	assert.Contains(t, sig.Context, "Signatory 1 Details\nName: Asha Menon\nDesignation: Managing Director")
	assert.Contains(t, sig.Context, "Mobile: XXXXXX3210")
	assert.Contains(t, sig.Context, "Email: ra****@example.com")

	dig := DigitalAccess(rec, req("", "", ""))
	assert.Contains(t, dig.Context, "Net Banking: Yes\nNet Banking User ID: XXXXXX1986\nLast Login: 4 March 2025")
	assert.Contains(t, dig.Context, "Mobile Banking: No")
	assert.Contains(t, dig.Context, "UPI ID: asha@hdfc")
}

func TestProfileResolvers_MissingSections(t *testing.T) {
	empty := record.Record{}
	for name, fn := range map[string]Func{
		"personal":    Personal,
		"company":     Company,
		"credit":      Credit,
		"support":     Support,
		"signatory":   AuthorizedSignatories,
		"digital":     DigitalAccess,
		"kyc":         KYC,
		"working":     WorkingCapital,
		"trade":       TradeFinance,
		"aadhaar":     Aadhaar,
		"transaction": Transactions,
	} {
		res := fn(empty, req("", "", ""))
		assert.False(t, res.HasData, name)
		assert.NotEmpty(t, res.Context, name)
	}
}

func TestTransactions_LastMonthBreakdown(t *testing.T) {
	res := Transactions(loadFixture(t), req("", "last month", ""))

	require.True(t, res.HasData)
	agg, ok := res.Data.(transactions.Result)
	require.True(t, ok)
	assert.Equal(t, 3, agg.Count)
	assert.Equal(t, "4500", agg.Total.String())

	assert.Contains(t, res.Context, "Your spending for last month:\nTotal Spent: ₹4,500.00\nTransactions: 3\nBy category:")
	assert.Contains(t, res.Context, "- Online Shopping: ₹2,000.00 (44.44%)\n- Food: ₹1,500.00 (33.33%)\n- Travel: ₹1,000.00 (22.22%)")
	assert.Contains(t, res.Context, "Most Recent: ₹1,000.00 at Uber on 27 February 2025")
}

func TestTransactions_CategoryListUsesDefaultWindow(t *testing.T) {
	res := Transactions(loadFixture(t), req("", "", "shopping"))

	require.True(t, res.HasData)
	assert.Equal(t, "Your shopping transactions for the last 30 days:\n- 14 February 2025: Amazon, ₹2,000.00 (Online Shopping)\nTotal: ₹2,000.00 across 1 transaction", res.Context)
}

func TestTransactions_RemarksMatch(t *testing.T) {
	res := Transactions(loadFixture(t), req("", "last month", "dinner"))

	require.True(t, res.HasData)
	assert.Contains(t, res.Context, "Swiggy")
	assert.Equal(t, 1, res.Data.(transactions.Result).Count)
}

func TestTransactions_EmptyResult(t *testing.T) {
	res := Transactions(loadFixture(t), req("", "last month", "fuel"))

	assert.False(t, res.HasData)
	assert.Equal(t, "No transactions found for fuel in last month.", res.Context)
	assert.Equal(t, 0, res.Data.(transactions.Result).Count)

	res = Transactions(loadFixture(t), req("", "today", ""))
	assert.False(t, res.HasData)
	assert.Equal(t, "No transactions found for today.", res.Context)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Len(t, r.Types(), 13)
	assert.Len(t, r.MenuLines(), 13)

	_, ok := r.Lookup("transactions")
	assert.True(t, ok)

	_, err := r.Resolve(record.Record{}, intent.Intent{Type: intent.TypeGeneral}, now)
	assert.True(t, errors.Is(err, ErrUnknownType))

	res, err := r.Resolve(loadFixture(t), intent.Intent{Type: "transactions", Timeframe: "last month"}, now)
	require.NoError(t, err)
	assert.True(t, res.HasData)
	assert.Equal(t, intent.TypeTransaction, res.Metadata.Type)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(intent.TypeLoan, "Loans", func(record.Record, Request) DomainResult {
		return DomainResult{HasData: true, Context: "stub"}
	})

	assert.Len(t, r.Types(), 13)
	res, err := r.Resolve(record.Record{}, intent.Intent{Type: intent.TypeLoan}, now)
	require.NoError(t, err)
	assert.Equal(t, "stub", res.Context)
	assert.Equal(t, intent.TypeLoan, res.Metadata.Type)
}
