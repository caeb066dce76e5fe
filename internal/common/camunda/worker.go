// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"customer-query-service/internal/common/logger"
)

// JobHandler completes, fails or throws every job it is given.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. timeout is the job activation
// timeout the broker enforces.
func NewWorker(client zbc.Client, taskType string, maxJobsActive int, timeout time.Duration, handler JobHandler, log logger.Logger) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Name("customer-query-service").
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": maxJobsActive,
	})
	return &Worker{worker: jobWorker, logger: log, taskType: taskType}
}

// Stop closes the worker and waits for in-flight jobs. The shared client is
// closed by its owner.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
