// internal/intent/intent.go
package intent

// Intent types. The transaction type is also the classifier's default for
// non-empty queries that match no rule.
const (
	TypeAccount             = "account"
	TypeLoan                = "loan"
	TypeWorkingCapital      = "working_capital"
	TypeTradeFinance        = "trade_finance"
	TypeKYC                 = "kyc"
	TypePersonal            = "personal"
	TypeCompany             = "company"
	TypeCredit              = "credit"
	TypeSupport             = "support"
	TypeTransaction         = "transaction"
	TypeAuthorizedSignatory = "authorized_signatory"
	TypeDigitalAccess       = "digital_access"
	TypeAadhaarNumber       = "aadhaar_number"
	TypeGeneral             = "general"
)

// Types lists every intent type the classifiers may produce.
var Types = []string{
	TypeAccount, TypeTransaction, TypeLoan, TypeWorkingCapital, TypeTradeFinance,
	TypeKYC, TypeCredit, TypeCompany, TypePersonal, TypeAuthorizedSignatory,
	TypeDigitalAccess, TypeSupport, TypeAadhaarNumber, TypeGeneral,
}

// Sub-types the local rules assign.
const (
	SubTypeSummary          = "summary"
	SubTypeBalance          = "balance"
	SubTypeJointHolders     = "joint_holders"
	SubTypeBankDetails      = "bank_details"
	SubTypeEMIDetails       = "emi_details"
	SubTypeOutstanding      = "outstanding"
	SubTypeStatus           = "status"
	SubTypeDocuments        = "documents"
	SubTypeLettersOfCredit  = "letters_of_credit"
	SubTypeBankGuarantees   = "bank_guarantees"
	SubTypeInvoiceFinancing = "invoice_financing"
	SubTypeAddress          = "address"
	SubTypeContact          = "contact"
	SubTypeIdentity         = "identity"
)

// Source records which tier produced an intent.
type Source string

const (
	SourceExternal Source = "external"
	SourceRules    Source = "rules"
	SourceDefault  Source = "default"
)

// Intent is the structured form of a free-text query.
type Intent struct {
	Type      string `json:"type"`
	SubType   string `json:"subType,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Category  string `json:"category,omitempty"`
	Source    Source `json:"source,omitempty"`
}

// Classification is the payload returned by the external classifier.
type Classification struct {
	Type        string `json:"type"`
	SubType     string `json:"subType,omitempty"`
	AccountType string `json:"accountType,omitempty"`
	Timeframe   string `json:"timeframe,omitempty"`
	Entity      string `json:"entity,omitempty"`
}

// typeAliases maps spellings the external classifier is known to return onto
// canonical types.
var typeAliases = map[string]string{
	"transactions":           TypeTransaction,
	"spending":               TypeTransaction,
	"accounts":               TypeAccount,
	"bank_account":           TypeAccount,
	"loans":                  TypeLoan,
	"workingcapital":         TypeWorkingCapital,
	"working-capital":        TypeWorkingCapital,
	"tradefinance":           TypeTradeFinance,
	"trade-finance":          TypeTradeFinance,
	"authorised_signatory":   TypeAuthorizedSignatory,
	"authorized_signatories": TypeAuthorizedSignatory,
	"digital":                TypeDigitalAccess,
	"aadhaar":                TypeAadhaarNumber,
	"aadhar_number":          TypeAadhaarNumber,
	"credit_score":           TypeCredit,
	"personal_details":       TypePersonal,
	"company_details":        TypeCompany,
}

// Canonical normalises an intent type name.
func Canonical(t string) string {
	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}
