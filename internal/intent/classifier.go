// internal/intent/classifier.go
package intent

import (
	"context"
	"strings"

	"customer-query-service/internal/common/logger"
)

// ExternalClassifier asks a generative model to classify a query. It is best
// effort: any error means "no opinion".
type ExternalClassifier interface {
	ClassifyIntent(ctx context.Context, query string) (*Classification, error)
}

// Classifier maps free-text queries to intents, trying the external
// classifier first and the ordered rule table second.
type Classifier struct {
	external ExternalClassifier
	rules    []Rule
	logger   logger.Logger
}

// NewClassifier builds a Classifier over Rules. external may be nil.
func NewClassifier(external ExternalClassifier, log logger.Logger) *Classifier {
	return &Classifier{
		external: external,
		rules:    Rules,
		logger:   log.With(map[string]interface{}{"component": "intent-classifier"}),
	}
}

// Normalize lowercases q and collapses whitespace.
func Normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// Classify always returns a well-formed Intent. Blank queries are general;
// any other query that nothing recognises is treated as a spending question.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	q := Normalize(query)
	if q == "" {
		return Intent{Type: TypeGeneral, Source: SourceDefault}
	}

	if in, ok := c.classifyExternally(ctx, q); ok {
		c.logger.Debug("intent classified externally", map[string]interface{}{
			"type":    in.Type,
			"subType": in.SubType,
		})
		return in
	}

	in := c.ClassifyLocal(q)
	c.logger.Debug("intent classified locally", map[string]interface{}{
		"type":    in.Type,
		"subType": in.SubType,
		"source":  string(in.Source),
	})
	return in
}

// ClassifyLocal runs only the rule table and the spending fallback.
func (c *Classifier) ClassifyLocal(q string) Intent {
	q = Normalize(q)
	if q == "" {
		return Intent{Type: TypeGeneral, Source: SourceDefault}
	}
	for _, r := range c.rules {
		if !r.Match(q) {
			continue
		}
		in := Intent{Type: r.Type, Source: SourceRules}
		if r.SubType != nil {
			in.SubType = r.SubType(q)
		}
		if r.Type == TypeTransaction {
			in.Timeframe = ExtractTimeframe(q)
			in.Category = ExtractCategory(q)
		}
		return in
	}

	return Intent{
		Type:      TypeTransaction,
		Timeframe: ExtractTimeframe(q),
		Category:  ExtractCategory(q),
		Source:    SourceDefault,
	}
}

// classifyExternally converts the collaborator's answer into an Intent. The
// second result is false whenever the collaborator is absent, fails or
// returns no type.
func (c *Classifier) classifyExternally(ctx context.Context, q string) (Intent, bool) {
	if c.external == nil {
		return Intent{}, false
	}
	cls, err := c.external.ClassifyIntent(ctx, q)
	if err != nil {
		c.logger.WithError(err).Warn("external classifier unavailable, using rules", nil)
		return Intent{}, false
	}
	if cls == nil || strings.TrimSpace(cls.Type) == "" {
		return Intent{}, false
	}

	in := Intent{
		Type:      Canonical(strings.ToLower(strings.TrimSpace(cls.Type))),
		SubType:   strings.TrimSpace(cls.SubType),
		Timeframe: strings.TrimSpace(cls.Timeframe),
		Category:  strings.ToLower(strings.TrimSpace(cls.AccountType)),
		Source:    SourceExternal,
	}
	if in.Type == TypeTransaction {
		if in.Timeframe == "" {
			in.Timeframe = ExtractTimeframe(q)
		}
		if in.Category == "" {
			in.Category = ExtractCategory(q)
		}
	}
	return in, true
}
