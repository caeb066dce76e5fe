package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-query-service/internal/common/logger"
)

type fakeExternal struct {
	cls   *Classification
	err   error
	calls int
	got   string
}

func (f *fakeExternal) ClassifyIntent(_ context.Context, q string) (*Classification, error) {
	f.calls++
	f.got = q
	return f.cls, f.err
}

func newTestClassifier(t *testing.T, ext ExternalClassifier) *Classifier {
	return NewClassifier(ext, logger.NewTestLogger(t))
}

func TestRules_PerEntry(t *testing.T) {
	tests := []struct {
		query   string
		typ     string
		subType string
	}{
		{"what is my working capital limit", TypeWorkingCapital, ""},
		{"show drawing power on my cash credit", TypeWorkingCapital, ""},
		{"list my letters of credit", TypeTradeFinance, SubTypeLettersOfCredit},
		{"any bank guarantee expiring", TypeTradeFinance, SubTypeBankGuarantees},
		{"invoice financing details under trade finance", TypeTradeFinance, SubTypeInvoiceFinancing},
		{"trade finance overview", TypeTradeFinance, SubTypeAll},
		{"what is my aadhaar number", TypeAadhaarNumber, ""},
		{"is my kyc complete", TypeKYC, SubTypeAll},
		{"kyc status", TypeKYC, SubTypeStatus},
		{"which kyc documents did i submit", TypeKYC, SubTypeDocuments},
		{"is my pan verified", TypeKYC, SubTypeStatus},
		{"do i have net banking", TypeDigitalAccess, ""},
		{"who are the authorised signatories", TypeAuthorizedSignatory, ""},
		{"show my loans", TypeLoan, SubTypeSummary},
		{"when is my next emi", TypeLoan, SubTypeEMIDetails},
		{"how much is outstanding on my loan", TypeLoan, SubTypeOutstanding},
		{"what is the loan status", TypeLoan, SubTypeStatus},
		{"what is my cibil score", TypeCredit, ""},
		{"show my transactions for last month", TypeTransaction, ""},
		{"how much did i spend on food", TypeTransaction, ""},
		{"what is my account balance", TypeAccount, SubTypeBalance},
		{"what is my joint holder", TypeAccount, SubTypeJointHolders},
		{"is this a jo account", TypeAccount, SubTypeJointHolders},
		{"what is my branch ifsc", TypeAccount, SubTypeBankDetails},
		{"list my accounts", TypeAccount, SubTypeSummary},
		{"tell me about my company", TypeCompany, ""},
		{"what is our gst number", TypeCompany, ""},
		{"who is my relationship manager", TypeSupport, ""},
		{"i want to raise a complaint", TypeSupport, ""},
		{"what is my email", TypePersonal, SubTypeContact},
		{"what address do you have for me", TypePersonal, SubTypeAddress},
		{"what is my date of birth", TypePersonal, SubTypeIdentity},
		{"show my personal details", TypePersonal, SubTypeSummary},
	}
	c := newTestClassifier(t, nil)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.ClassifyLocal(tt.query)
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, tt.subType, got.SubType)
			assert.Equal(t, SourceRules, got.Source)
		})
	}
}

func TestRules_OrderIsLoadBearing(t *testing.T) {
	c := newTestClassifier(t, nil)

	// "working capital" shares vocabulary with credit facilities.
	assert.Equal(t, TypeWorkingCapital, c.ClassifyLocal("working capital credit facility").Type)
	// Letters of credit are trade finance, not credit profile.
	assert.Equal(t, TypeTradeFinance, c.ClassifyLocal("letter of credit amount").Type)
	// Spending from an account is a transaction question.
	assert.Equal(t, TypeTransaction, c.ClassifyLocal("spending from my savings account").Type)
	// A personal loan is a loan.
	assert.Equal(t, TypeLoan, c.ClassifyLocal("personal loan details").Type)
	// Aadhaar in a KYC question stays with KYC.
	assert.Equal(t, TypeKYC, c.ClassifyLocal("was aadhaar accepted for kyc").Type)
	// Bank details belong to the account, not the personal profile.
	assert.Equal(t, TypeAccount, c.ClassifyLocal("show my bank details").Type)
	assert.Equal(t, SubTypeBankDetails, c.ClassifyLocal("show my bank details").SubType)

	// Card spending and credits to an account are transactions; only the
	// credit profile vocabulary reaches the credit resolver.
	spending := []struct {
		query     string
		timeframe string
	}{
		{"how much did i spend on my credit card last month", "last month"},
		{"show my credit card transactions", ""},
		{"how much was credited to my account last month", "last month"},
	}
	for _, tc := range spending {
		in := c.ClassifyLocal(tc.query)
		assert.Equal(t, TypeTransaction, in.Type, tc.query)
		assert.Equal(t, tc.timeframe, in.Timeframe, tc.query)
	}
	assert.Equal(t, TypeCredit, c.ClassifyLocal("what is my credit card limit").Type)
	assert.Equal(t, TypeCredit, c.ClassifyLocal("show my credit score").Type)
}

func TestRules_ShortTokensMatchWholeWords(t *testing.T) {
	c := newTestClassifier(t, nil)

	assert.NotEqual(t, TypeKYC, c.ClassifyLocal("company name").Type, "pan inside company")
	assert.Equal(t, TypeCompany, c.ClassifyLocal("company name").Type)
	assert.NotEqual(t, TypeSupport, c.ClassifyLocal("inform me").Type, "rm inside inform")
	assert.NotEqual(t, TypeAccount, c.ClassifyLocal("enjoy").Type, "jo inside enjoy")
}

func TestRules_EveryTypeHasAnEntry(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Rules {
		require.NotNil(t, r.Match, r.Type)
		assert.False(t, seen[r.Type], "duplicate rule for %s", r.Type)
		seen[r.Type] = true
	}
	for _, typ := range []string{
		TypeAccount, TypeLoan, TypeWorkingCapital, TypeTradeFinance, TypeKYC, TypePersonal,
		TypeCompany, TypeCredit, TypeSupport, TypeTransaction, TypeAuthorizedSignatory,
		TypeDigitalAccess, TypeAadhaarNumber,
	} {
		assert.True(t, seen[typ], typ)
	}
}

func TestClassify_TransactionExtractsTimeframeAndCategory(t *testing.T) {
	c := newTestClassifier(t, nil)

	got := c.Classify(context.Background(), "  How much did I SPEND on dining in the last 3 months?")
	assert.Equal(t, TypeTransaction, got.Type)
	assert.Equal(t, "last 3 months", got.Timeframe)
	assert.Equal(t, "food", got.Category)
}

func TestClassify_UnmatchedQueryFallsBackToTransaction(t *testing.T) {
	c := newTestClassifier(t, &fakeExternal{err: errors.New("connection refused")})

	got := c.Classify(context.Background(), "asdkjasd")
	assert.Equal(t, Intent{Type: TypeTransaction, Source: SourceDefault}, got)

	got = c.Classify(context.Background(), "groceries yesterday")
	assert.Equal(t, TypeTransaction, got.Type)
	assert.Equal(t, "yesterday", got.Timeframe)
	assert.Equal(t, "groceries", got.Category)
}

func TestClassify_IsTotal(t *testing.T) {
	c := newTestClassifier(t, nil)
	for _, q := range []string{"", "   ", "\t\n", "?!", "💸", "12345"} {
		got := c.Classify(context.Background(), q)
		assert.NotEmpty(t, got.Type, "%q", q)
	}
	assert.Equal(t, TypeGeneral, c.Classify(context.Background(), "").Type)
	assert.Equal(t, TypeGeneral, c.Classify(context.Background(), "   ").Type)
}

func TestClassify_ExternalAdopted(t *testing.T) {
	ext := &fakeExternal{cls: &Classification{Type: "Transactions", AccountType: "Travel", Timeframe: "last week"}}
	c := newTestClassifier(t, ext)

	got := c.Classify(context.Background(), "Where did my money go on trips?")
	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, "where did my money go on trips?", ext.got)
	assert.Equal(t, Intent{Type: TypeTransaction, Timeframe: "last week", Category: "travel", Source: SourceExternal}, got)
}

func TestClassify_ExternalKeepsSubType(t *testing.T) {
	ext := &fakeExternal{cls: &Classification{Type: "loan", SubType: "emi_details"}}
	c := newTestClassifier(t, ext)

	got := c.Classify(context.Background(), "anything")
	assert.Equal(t, TypeLoan, got.Type)
	assert.Equal(t, SubTypeEMIDetails, got.SubType)
}

func TestClassify_ExternalFailuresFallThrough(t *testing.T) {
	tests := []struct {
		name string
		ext  *fakeExternal
	}{
		{"error", &fakeExternal{err: context.DeadlineExceeded}},
		{"nil payload", &fakeExternal{}},
		{"blank type", &fakeExternal{cls: &Classification{Type: "  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, tt.ext)
			got := c.Classify(context.Background(), "show my loans")
			assert.Equal(t, TypeLoan, got.Type)
			assert.Equal(t, SourceRules, got.Source)
			assert.Equal(t, 1, tt.ext.calls)
		})
	}
}

func TestClassify_BlankQuerySkipsExternal(t *testing.T) {
	ext := &fakeExternal{cls: &Classification{Type: "loan"}}
	c := newTestClassifier(t, ext)

	assert.Equal(t, TypeGeneral, c.Classify(context.Background(), " ").Type)
	assert.Zero(t, ext.calls)
}

func TestExtractTimeframe(t *testing.T) {
	tests := map[string]string{
		"spent in the past 2 weeks":      "past 2 weeks",
		"transactions 6 months":          "6 months",
		"last month on food":             "last month",
		"what did i buy yesterday":       "yesterday",
		"this year so far":               "this year",
		"show everything for all time":   "all time",
		"what did i buy":                 "",
		"spending over the last quarter": "quarter",
	}
	for q, want := range tests {
		assert.Equal(t, want, ExtractTimeframe(q), q)
	}
}

func TestExtractCategory(t *testing.T) {
	tests := map[string]string{
		"shopping last month":        "shopping",
		"online shopping":            "shopping",
		"restaurants this week":      "food",
		"electricity and water bill": "utilities",
		"movies":                     "entertainment",
		"flights to delhi":           "travel",
		"petrol":                     "fuel",
		"current account":            "",
		"nothing here":               "",
	}
	for q, want := range tests {
		assert.Equal(t, want, ExtractCategory(q), q)
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, TypeTransaction, Canonical("transactions"))
	assert.Equal(t, TypeAuthorizedSignatory, Canonical("authorised_signatory"))
	assert.Equal(t, "mystery", Canonical("mystery"))
}
