// internal/workers/ai-conversation/answer-customer-query/handler.go
package answercustomerquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "customer-query-service/internal/common/errors"
	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/common/metrics"
	"customer-query-service/internal/common/observability"
	"customer-query-service/internal/common/validation"
	"customer-query-service/internal/orchestrator"
)

const (
	TaskType = "answer-customer-query"
)

type Handler struct {
	config       *Config
	orchestrator *orchestrator.Orchestrator
	sessions     *orchestrator.Sessions
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, orch *orchestrator.Orchestrator, sessions *orchestrator.Sessions, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:       config,
		orchestrator: orch,
		sessions:     sessions,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}
	h.completeJob(ctx, client, job, output)
}

// parseInput decodes and schema-checks the job variables.
func parseInput(variables string) (*Input, error) {
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &vars); err != nil {
		return nil, apperrors.NewInvalidQueryInputError(fmt.Sprintf("parse input: %v", err))
	}
	if res := validation.ValidateQueryInput(vars); !res.Valid {
		return nil, apperrors.NewInvalidQueryInputError(res.Err().Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidQueryInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute answers one question. Only an unavailable record or invalid input
// is returned as an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, apperrors.NewInvalidQueryInputError("customerId is required")
	}

	sess := h.sessions.Get(input.SessionID, input.CustomerID)
	if input.Refresh {
		if err := sess.Refresh(ctx); err != nil {
			return nil, apperrors.NewRecordUnavailableError(input.CustomerID, err)
		}
	}

	ans, err := h.orchestrator.Answer(ctx, sess, input.Question)
	if err != nil {
		return nil, err
	}

	return &Output{
		Answer:       ans.Text,
		SessionID:    sess.ID,
		IntentType:   ans.Intent.Type,
		SubType:      ans.Intent.SubType,
		HasData:      ans.HasData,
		UsedFallback: ans.UsedFallback,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.WithError(err).Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.WithError(err).Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, "completed")
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := string(apperrors.Normalize(err).Code)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.obs.RecordJobProcessed(ctx, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
