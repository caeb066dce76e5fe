// internal/intent/rules.go
package intent

import (
	"regexp"
	"strings"
)

// SubTypeAll asks a multi-part resolver to render every part.
const SubTypeAll = "all"

// Matcher reports whether a normalised query belongs to a rule.
type Matcher func(q string) bool

// Rule binds an intent type to its keyword predicate and an optional sub-type
// selector.
type Rule struct {
	Type    string
	Match   Matcher
	SubType func(q string) string
}

// Rules is evaluated top to bottom and the first match wins. Order matters:
// facility types go before the generic loan and credit buckets, and
// transactions before accounts so "spending from my savings account" is a
// spending question.
var Rules = []Rule{
	{
		Type: TypeWorkingCapital,
		Match: keywords("working capital", "cash credit", "overdraft", "drawing power",
			"wc limit", "cc limit", "od limit", "od", "cc account"),
	},
	{
		Type: TypeTradeFinance,
		Match: keywords("trade finance", "letter of credit", "letters of credit", "lc", "lcs",
			"bank guarantee", "bg", "bgs", "invoice financ", "invoice discount", "bill discount"),
		SubType: tradeFinanceSubType,
	},
	{
		Type:  TypeAadhaarNumber,
		Match: all(keywords("aadhaar", "aadhar", "uidai"), not(keywords("kyc"))),
	},
	{
		Type: TypeKYC,
		Match: keywords("kyc", "know your customer", "compliance", "pan", "re-kyc", "ckyc",
			"verification", "documents submitted", "id proof", "address proof"),
		SubType: kycSubType,
	},
	{
		Type: TypeDigitalAccess,
		Match: keywords("net banking", "netbanking", "internet banking", "mobile banking",
			"mobile app", "digital", "online banking", "login", "upi", "2fa", "two factor"),
	},
	{
		Type: TypeAuthorizedSignatory,
		Match: keywords("signatory", "signatories", "authorised", "authorized",
			"signing authority", "mandate holder", "who can sign"),
	},
	{
		Type: TypeLoan,
		Match: keywords("loan", "loans", "emi", "emis", "borrow", "mortgage", "repayment",
			"outstanding", "disburs", "sanction", "instalment", "installment"),
		SubType: loanSubType,
	},
	{
		Type: TypeCredit,
		Match: keywords("credit score", "cibil", "credit rating", "credit report", "credit history",
			"credit profile", "credit limit", "card limit", "credit utili"),
	},
	{
		Type: TypeTransaction,
		Match: keywords("transaction", "spent", "spend", "spending", "expense", "expenditure",
			"purchase", "purchases", "paid", "payments", "debited", "credited", "bought",
			"credit card"),
	},
	{
		Type: TypeAccount,
		Match: keywords("account", "accounts", "balance", "joint", "jo", "ifsc", "branch",
			"savings", "a/c", "holder", "holders", "operation mode", "micr", "bank details"),
		SubType: accountSubType,
	},
	{
		Type: TypeCompany,
		Match: keywords("company", "business", "firm", "gst", "gstin", "cin", "incorporat",
			"registered office", "industry", "turnover", "annual revenue", "directors"),
	},
	{
		Type: TypeSupport,
		Match: keywords("support", "relationship manager", "rm", "customer care", "helpline",
			"help desk", "complaint", "ticket", "grievance", "service request", "escalat"),
	},
	{
		Type: TypePersonal,
		Match: keywords("personal", "my name", "date of birth", "dob", "birthday", "address",
			"phone", "mobile number", "email", "contact", "profile", "who am i", "age",
			"nationality", "occupation", "details"),
		SubType: personalSubType,
	},
}

// shortTokenLen is the length at or below which a keyword must match on word
// boundaries; "pan" must not fire on "company" nor "rm" on "form".
const shortTokenLen = 4

// keywords builds a Matcher that fires when any term appears in the query.
// Terms of up to shortTokenLen characters match whole words only.
func keywords(terms ...string) Matcher {
	var long []string
	var short []string
	for _, t := range terms {
		if len(t) <= shortTokenLen && !strings.ContainsAny(t, " /-") {
			short = append(short, regexp.QuoteMeta(t))
			continue
		}
		long = append(long, t)
	}
	var word *regexp.Regexp
	if len(short) > 0 {
		word = regexp.MustCompile(`\b(?:` + strings.Join(short, "|") + `)\b`)
	}
	return func(q string) bool {
		for _, t := range long {
			if strings.Contains(q, t) {
				return true
			}
		}
		return word != nil && word.MatchString(q)
	}
}

func all(ms ...Matcher) Matcher {
	return func(q string) bool {
		for _, m := range ms {
			if !m(q) {
				return false
			}
		}
		return true
	}
}

func not(m Matcher) Matcher {
	return func(q string) bool { return !m(q) }
}

// subRule is one entry of a sub-type table; the first match wins.
type subRule struct {
	subType string
	match   Matcher
}

func pick(q string, table []subRule, fallback string) string {
	for _, r := range table {
		if r.match(q) {
			return r.subType
		}
	}
	return fallback
}

var accountSubRules = []subRule{
	{SubTypeJointHolders, keywords("joint", "jo", "co-holder", "second holder")},
	{SubTypeBalance, keywords("balance", "how much money", "funds available")},
	{SubTypeBankDetails, keywords("branch", "ifsc", "micr", "bank details", "swift", "routing")},
}

func accountSubType(q string) string { return pick(q, accountSubRules, SubTypeSummary) }

var loanSubRules = []subRule{
	{SubTypeEMIDetails, keywords("emi", "emis", "instalment", "installment", "monthly payment", "next due")},
	{SubTypeOutstanding, keywords("outstanding", "overdue", "owe", "pending amount", "remaining", "principal", "how much left")},
	{SubTypeStatus, keywords("status", "sanction", "disburs", "purpose", "approved")},
}

func loanSubType(q string) string { return pick(q, loanSubRules, SubTypeSummary) }

var tradeFinanceSubRules = []subRule{
	{SubTypeLettersOfCredit, keywords("letter of credit", "letters of credit", "lc", "lcs")},
	{SubTypeBankGuarantees, keywords("guarantee", "bg", "bgs")},
	{SubTypeInvoiceFinancing, keywords("invoice", "bill discount", "receivable")},
}

func tradeFinanceSubType(q string) string { return pick(q, tradeFinanceSubRules, SubTypeAll) }

var kycSubRules = []subRule{
	{SubTypeDocuments, keywords("document", "documents", "submitted", "proof", "pan card", "uploaded")},
	{SubTypeStatus, keywords("status", "expiry", "expire", "due", "compliant", "verified", "pending", "risk")},
}

func kycSubType(q string) string { return pick(q, kycSubRules, SubTypeAll) }

var personalSubRules = []subRule{
	{SubTypeContact, keywords("phone", "mobile", "email", "contact")},
	{SubTypeAddress, keywords("address", "live", "residence", "city")},
	{SubTypeIdentity, keywords("date of birth", "dob", "birthday", "age", "nationality", "pan", "identity")},
}

func personalSubType(q string) string { return pick(q, personalSubRules, SubTypeSummary) }
