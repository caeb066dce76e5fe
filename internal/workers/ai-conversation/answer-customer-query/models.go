// internal/workers/ai-conversation/answer-customer-query/models.go
package answercustomerquery

type Input struct {
	CustomerID string `json:"customerId"`
	SessionID  string `json:"sessionId,omitempty"`
	Question   string `json:"question"`
	Refresh    bool   `json:"refresh,omitempty"`
}

type Output struct {
	Answer       string `json:"answer"`
	SessionID    string `json:"sessionId"`
	IntentType   string `json:"intentType"`
	SubType      string `json:"subType,omitempty"`
	HasData      bool   `json:"hasData"`
	UsedFallback bool   `json:"usedFallback"`
}
