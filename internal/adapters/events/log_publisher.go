package events

import (
	"context"
	"log"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, event domain.EventEnvelope) error {
	log.Printf("outbox publish topic=%s event_id=%s event_type=%s resource=%s/%s", topic, event.EventID, event.EventType, event.ResourceType, event.ResourceID)
	return nil
}
