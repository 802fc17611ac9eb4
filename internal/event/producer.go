package event

import (
	"context"
	"log/slog"

	"github.com/ErbolTakhirov/Abak-market/pkg/kafka"
	"github.com/ErbolTakhirov/Abak-market/pkg/logger"
)

// Kafka topics published by the catalog service.
const (
	TopicSearchPerformed = "grocery.search.performed"
	TopicProductViewed   = "grocery.product.viewed"
)

// Event types.
const (
	TypeSearchPerformed = "search.performed"
	TypeProductViewed   = "product.viewed"
)

const source = "catalog-service"

// SearchPerformedPayload is emitted after every non-cached search.
type SearchPerformedPayload struct {
	Query        string `json:"query"`
	Category     string `json:"category,omitempty"`
	ResultsCount int    `json:"results_count"`
}

// ProductViewedPayload is emitted when a product detail view is counted.
type ProductViewedPayload struct {
	ProductID string `json:"product_id"`
}

// Publisher is the minimal Kafka producer surface used by this package.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes catalog domain events. All publishes are best-effort:
// failures are logged and never propagated to the caller.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a catalog event producer. A nil publisher disables
// event publishing entirely.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// SearchPerformed emits a search event keyed by the normalized query.
func (p *Producer) SearchPerformed(ctx context.Context, query, category string, resultsCount int) {
	p.publish(ctx, TopicSearchPerformed, TypeSearchPerformed, query, "search", SearchPerformedPayload{
		Query:        query,
		Category:     category,
		ResultsCount: resultsCount,
	})
}

// ProductViewed emits a view event keyed by the product ID.
func (p *Producer) ProductViewed(ctx context.Context, productID string) {
	p.publish(ctx, TopicProductViewed, TypeProductViewed, productID, "product", ProductViewedPayload{
		ProductID: productID,
	})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, payload any) {
	if p.publisher == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		p.logger.WarnContext(ctx, "failed to publish event, continuing",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
