// internal/workers/ai-conversation/answer-customer-query/config.go
package answercustomerquery

import (
	"time"

	"customer-query-service/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig(cfg *config.Config) *Config {
	w := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:       config.GetDuration(w.Timeout),
		MaxJobsActive: w.MaxJobsActive,
	}
}
