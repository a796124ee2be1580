package service

import (
	"context"

	"github.com/ndanilov/inventory_api/internal/logging"
)

// EventPublisher is what the services need from Kafka; mykafka.Producer
// implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

// publish is best effort: a broker outage must never fail the request.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}
