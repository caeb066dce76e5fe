// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"customer-query-service/internal/common/config"
)

// OpenElasticsearch connects to the exchange audit index. It returns nil, nil
// when no address is configured.
func OpenElasticsearch(ctx context.Context, cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	addresses := cfg.GetAddresses()
	if len(addresses) == 0 {
		return nil, nil
	}

	esCfg := elasticsearch.Config{Addresses: addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := es.Ping(es.Ping.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return es, nil
}
