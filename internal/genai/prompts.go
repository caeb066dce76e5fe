// internal/genai/prompts.go
package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"customer-query-service/internal/common/validation"
	"customer-query-service/internal/intent"
)

var classifierSystemPrompt = "You classify a bank customer's question about their own financial record.\n" +
	"Reply with ONE JSON object and nothing else, shaped as\n" +
	`{"type": "...", "subType": "...", "accountType": "...", "timeframe": "...", "entity": "..."}` + "\n" +
	"type must be one of: " + strings.Join(intent.Types, ", ") + ".\n" +
	"Use accountType for a spending category (food, travel, shopping, utilities, ...) when the question names one.\n" +
	"Use timeframe for a period such as \"last month\" or \"last 90 days\" when the question names one.\n" +
	"Use entity for a specific account, loan, facility or merchant the question names.\n" +
	"Omit fields you cannot determine. Do NOT wrap the JSON in code fences."

const fallbackSystemPrompt = "You are a banking assistant answering a customer's question about their own accounts. " +
	"Be brief and factual. If the data below does not answer the question, say so plainly and suggest " +
	"contacting the relationship manager. Never invent balances, amounts or dates."

func fallbackPrompt(resolverContext, query string) string {
	var b strings.Builder
	if strings.TrimSpace(resolverContext) != "" {
		b.WriteString("What the records show:\n")
		b.WriteString(resolverContext)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Customer question: %s", query)
	return b.String()
}

// cleanModelJSON strips code fences and any prose around the first JSON
// object in raw.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// decodeClassification validates and decodes a classifier reply.
func decodeClassification(raw string) (*intent.Classification, error) {
	clean := []byte(cleanModelJSON(raw))
	if err := validation.ValidateClassification(clean); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	var cls intent.Classification
	if err := json.Unmarshal(clean, &cls); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrClassificationFailed, err)
	}
	return &cls, nil
}
