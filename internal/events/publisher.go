// Package events publishes domain events to Kafka. Publishing is fire
// and forget: a broker outage must never fail the request that raised
// the event.
package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/titik444/express-blog/pkg/kafka"
	"github.com/titik444/express-blog/pkg/logger"
)

// Topics
const (
	TopicUserEvents    = "blog.user.events"
	TopicContentEvents = "blog.content.events"
)

// Event types
const (
	EventUserRegistered = "user.registered"
	EventPostLiked      = "post.liked"
	EventPostUnliked    = "post.unliked"
	EventCommentLiked   = "comment.liked"
	EventCommentUnliked = "comment.unliked"
)

// Publisher emits domain events
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload any)
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

// NewPublisher creates a Kafka-backed publisher. A nil producer yields
// a no-op publisher, used when Kafka is disabled by configuration.
func NewPublisher(producer *kafka.Producer) Publisher {
	if producer == nil {
		return noopPublisher{}
	}
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, eventType, key string, payload any) {
	err := p.producer.ProduceJSON(ctx, topic, key, payload, map[string]string{
		"event_type": eventType,
	})
	if err != nil {
		logger.Get().Warn("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, topic, eventType, key string, payload any) {}
