// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "customer-query-service/internal/common/errors"
	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/common/metrics"
	"customer-query-service/internal/common/observability"
	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
	"customer-query-service/internal/resolvers"
)

// Generator produces a free-text answer when the rule-based path found no
// data. It is best effort.
type Generator interface {
	GenerateFallback(ctx context.Context, context, query string) (string, error)
}

// Exchange is one question and its answer.
type Exchange struct {
	SessionID     string    `json:"sessionId"`
	CustomerID    string    `json:"customerId"`
	UserText      string    `json:"userText"`
	AssistantText string    `json:"assistantText"`
	IntentType    string    `json:"intentType"`
	HasData       bool      `json:"hasData"`
	UsedFallback  bool      `json:"usedFallback"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ExchangeSink records exchanges for audit and history.
type ExchangeSink interface {
	PersistExchange(ctx context.Context, ex Exchange) error
}

// Answer is what the orchestrator returns for one query.
type Answer struct {
	Text         string                  `json:"answer"`
	Intent       intent.Intent           `json:"intent"`
	Result       *resolvers.DomainResult `json:"result,omitempty"`
	HasData      bool                    `json:"hasData"`
	UsedFallback bool                    `json:"usedFallback"`
}

const menuHeader = "I can help with:"

// Config tunes the orchestrator.
type Config struct {
	// PersistTimeout bounds each background exchange write.
	PersistTimeout time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Orchestrator runs the query pipeline: record, classify, resolve, and the
// generative fallback when no data was found.
type Orchestrator struct {
	classifier *intent.Classifier
	registry   *resolvers.Registry
	generator  Generator
	sink       ExchangeSink
	obs        *observability.Observability
	tracer     trace.Tracer
	logger     logger.Logger
	cfg        Config

	pending sync.WaitGroup
}

// New wires an Orchestrator. generator, sink and obs may be nil.
func New(classifier *intent.Classifier, registry *resolvers.Registry, generator Generator, sink ExchangeSink, obs *observability.Observability, cfg Config, log logger.Logger) *Orchestrator {
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		classifier: classifier,
		registry:   registry,
		generator:  generator,
		sink:       sink,
		obs:        obs,
		tracer:     obs.Tracer(),
		logger:     log.With(map[string]interface{}{"component": "orchestrator"}),
		cfg:        cfg,
	}
}

// Answer resolves query within sess. The returned text is always suitable
// for the end user. The error is non-nil only when the customer record is
// unavailable, and then wraps a RECORD_UNAVAILABLE StandardError.
func (o *Orchestrator) Answer(ctx context.Context, sess *Session, query string) (Answer, error) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "orchestrator.Answer", trace.WithAttributes(
		attribute.String("session.id", sess.ID),
	))
	defer span.End()

	log := o.logger.With(map[string]interface{}{"sessionId": sess.ID, "customerId": sess.CustomerID})

	rec, err := o.stage(ctx, "load_record", func(ctx context.Context) (interface{}, error) {
		return sess.Record(ctx)
	})
	if err != nil {
		stdErr := apperrors.NewRecordUnavailableError(sess.CustomerID, err)
		log.WithError(err).Error("customer record unavailable", nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		metrics.QueriesTotal.WithLabelValues("none", "record_unavailable").Inc()
		return Answer{Text: apperrors.UserMessage(stdErr.Code)}, stdErr
	}

	in := o.classify(ctx, query)
	span.SetAttributes(attribute.String("intent.type", in.Type), attribute.String("intent.source", string(in.Source)))
	metrics.ClassificationsTotal.WithLabelValues(string(in.Source)).Inc()

	fn, ok := o.registry.Lookup(in.Type)
	if !ok {
		log.Info("no resolver for intent, returning menu", map[string]interface{}{"type": in.Type})
		ans := Answer{Text: o.Menu(), Intent: in}
		o.finish(sess, query, ans, start)
		return ans, nil
	}

	resolveStart := time.Now()
	res := fn(rec.(record.Record), resolvers.RequestFor(in, o.cfg.Now()))
	if res.Metadata.Type == "" {
		res.Metadata = resolvers.Metadata{Type: in.Type, SubType: in.SubType}
	}
	o.obs.RecordStage(ctx, "resolve", time.Since(resolveStart))

	ans := Answer{Intent: in, Result: &res, HasData: res.HasData}
	if res.HasData {
		ans.Text = res.Context
	} else {
		ans.Text, ans.UsedFallback = o.fallback(ctx, log, res.Context, query)
	}

	log.Info("query answered", map[string]interface{}{
		"type":         in.Type,
		"subType":      in.SubType,
		"source":       string(in.Source),
		"hasData":      ans.HasData,
		"usedFallback": ans.UsedFallback,
	})
	o.finish(sess, query, ans, start)
	return ans, nil
}

func (o *Orchestrator) classify(ctx context.Context, query string) intent.Intent {
	v, _ := o.stage(ctx, "classify", func(ctx context.Context) (interface{}, error) {
		return o.classifier.Classify(ctx, query), nil
	})
	return v.(intent.Intent)
}

// fallback asks the generator for an answer. The second result is false when
// the apology was substituted.
func (o *Orchestrator) fallback(ctx context.Context, log logger.Logger, resolverContext, query string) (string, bool) {
	if o.generator == nil {
		return apperrors.MsgApology, false
	}
	v, err := o.stage(ctx, "fallback", func(ctx context.Context) (interface{}, error) {
		return o.generator.GenerateFallback(ctx, resolverContext, query)
	})
	text, _ := v.(string)
	if err != nil || strings.TrimSpace(text) == "" {
		metrics.CollaboratorFailures.WithLabelValues("fallback").Inc()
		log.WithError(err).Warn("generative fallback unavailable, returning apology", nil)
		return apperrors.MsgApology, false
	}
	return text, true
}

// stage runs fn inside a child span and records its duration.
func (o *Orchestrator) stage(ctx context.Context, name string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator."+name)
	defer span.End()

	start := time.Now()
	v, err := fn(ctx)
	o.obs.RecordStage(ctx, name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func (o *Orchestrator) finish(sess *Session, query string, ans Answer, start time.Time) {
	outcome := "fallback"
	switch {
	case ans.HasData:
		outcome = "answered"
	case ans.Result == nil:
		outcome = "menu"
	case !ans.UsedFallback:
		outcome = "apology"
	}
	metrics.QueriesTotal.WithLabelValues(ans.Intent.Type, outcome).Inc()
	metrics.QueryDuration.WithLabelValues(ans.Intent.Type).Observe(time.Since(start).Seconds())

	o.persist(Exchange{
		SessionID:     sess.ID,
		CustomerID:    sess.CustomerID,
		UserText:      query,
		AssistantText: ans.Text,
		IntentType:    ans.Intent.Type,
		HasData:       ans.HasData,
		UsedFallback:  ans.UsedFallback,
		CreatedAt:     o.cfg.Now().UTC(),
	})
}

// persist writes the exchange in the background. Failures are logged and
// never reach the caller.
func (o *Orchestrator) persist(ex Exchange) {
	if o.sink == nil {
		return
	}
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), o.cfg.PersistTimeout)
		defer cancel()

		if err := o.sink.PersistExchange(ctx, ex); err != nil {
			metrics.ExchangesPersisted.WithLabelValues("failed").Inc()
			o.logger.WithError(err).Warn("exchange not persisted", map[string]interface{}{"sessionId": ex.SessionID})
			return
		}
		metrics.ExchangesPersisted.WithLabelValues("ok").Inc()
	}()
}

// Menu lists what the assistant can answer.
func (o *Orchestrator) Menu() string {
	return menuHeader + "\n" + format.List(o.registry.MenuLines())
}

// Close waits for background exchange writes to finish or ctx to expire.
func (o *Orchestrator) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
