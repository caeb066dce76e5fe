// internal/common/validation/schemas.go
package validation

// ClassificationSchema is the shape the external intent classifier must
// return before its answer is trusted.
var ClassificationSchema = MustCompile("classification", `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type":        {"type": "string", "minLength": 1},
		"subType":     {"type": ["string", "null"]},
		"accountType": {"type": ["string", "null"]},
		"timeframe":   {"type": ["string", "null"]},
		"entity":      {"type": ["string", "null"]}
	}
}`)

// RecordSchema guards the sections whose shape the resolvers depend on.
// Everything else in a customer document is free-form.
var RecordSchema = MustCompile("customer record", `{
	"type": "object",
	"minProperties": 1,
	"properties": {
		"Currency":              {"type": "string"},
		"PersonalDetails":       {"type": "object"},
		"CompanyDetails":        {"type": "object"},
		"BankAccounts":          {"type": ["array", "object"]},
		"Loans":                 {"type": ["array", "object"]},
		"AuthorizedSignatories": {"type": ["array", "object"]},
		"Transactions": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`)

// QueryInputSchema validates job and request input.
var QueryInputSchema = MustCompile("query input", `{
	"type": "object",
	"required": ["customerId", "question"],
	"properties": {
		"customerId": {"type": "string", "minLength": 1},
		"sessionId":  {"type": "string"},
		"question":   {"type": "string"},
		"refresh":    {"type": "boolean"}
	}
}`)

// ValidateClassification checks a raw classifier payload.
func ValidateClassification(raw []byte) error {
	return ClassificationSchema.ValidateJSON(raw).Err()
}

// ValidateRecord checks a decoded customer record.
func ValidateRecord(rec map[string]interface{}) error {
	return RecordSchema.Validate(rec).Err()
}

// ValidateQueryInput checks decoded job or request variables.
func ValidateQueryInput(input map[string]interface{}) *ValidationResult {
	return QueryInputSchema.Validate(input)
}
