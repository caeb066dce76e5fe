// internal/store/elastic.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"customer-query-service/internal/orchestrator"
)

var ErrIndexFailed = errors.New("EXCHANGE_INDEX_FAILED")

// ElasticExchangeSink indexes every question and answer for audit and
// conversation history.
type ElasticExchangeSink struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticExchangeSink(client *elasticsearch.Client, index string) *ElasticExchangeSink {
	return &ElasticExchangeSink{client: client, index: index}
}

type exchangeDocument struct {
	ID string `json:"id"`
	orchestrator.Exchange
}

func (s *ElasticExchangeSink) PersistExchange(ctx context.Context, ex orchestrator.Exchange) error {
	doc := exchangeDocument{ID: uuid.NewString(), Exchange: ex}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexFailed, res.Status())
	}
	return nil
}
