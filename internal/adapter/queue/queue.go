package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/pkg/config"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Healthy() error
	Close() error
}

// New connects the transport selected by cfg.Provider
func New(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Provider {
	case "nats":
		q, err := NewNATSQueue(cfg.NATS, log)
		if err != nil {
			return nil, err
		}
		return q, nil
	case "rabbitmq":
		q, err := NewRabbitMQQueue(cfg.RabbitMQ.URL, log)
		if err != nil {
			return nil, err
		}
		return q, nil
	case "none", "":
		return NewNoopQueue(log), nil
	default:
		return nil, fmt.Errorf("unknown queue provider %q", cfg.Provider)
	}
}

// NoopQueue drops every event. Used when no broker is configured.
type NoopQueue struct {
	log *zap.Logger
}

func NewNoopQueue(log *zap.Logger) *NoopQueue {
	log.Info("Event publishing disabled")
	return &NoopQueue{log: log}
}

func (q *NoopQueue) Publish(subject string, data []byte) error {
	q.log.Debug("Dropping event", zap.String("subject", subject), zap.Int("bytes", len(data)))
	return nil
}

func (q *NoopQueue) Subscribe(subject string, handler func(data []byte) error) error {
	return nil
}

func (q *NoopQueue) Healthy() error { return nil }

func (q *NoopQueue) Close() error { return nil }
