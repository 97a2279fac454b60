package rabbitmq

import (
	"fmt"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Registry holds the publishers and consumers built from a RabbitmqConfig.
// It is an explicitly owned handle: construct it in main, pass it to whatever
// needs a queue endpoint, and Close it on shutdown.
type Registry struct {
	conn       *amqp.Connection
	publishers map[PublisherAlias]IRabbitmqPublisher
	consumers  map[ConsumerAlias]IRabbitmqConsumer
}

func NewRegistry(conn *amqp.Connection, cfg RabbitmqConfig, log *logger.Logger) (*Registry, error) {
	r := &Registry{
		conn:       conn,
		publishers: make(map[PublisherAlias]IRabbitmqPublisher, len(cfg.PublishersConfig)),
		consumers:  make(map[ConsumerAlias]IRabbitmqConsumer, len(cfg.ConsumersConfig)),
	}

	for _, publisher := range cfg.PublishersConfig {
		channel, err := conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("open channel for publisher %s: %w", publisher.PublisherAlias, err)
		}
		r.publishers[publisher.PublisherAlias] = NewPublisher(
			channel,
			publisher.Exchange,
			publisher.RoutingKey,
		)
	}

	for _, consumer := range cfg.ConsumersConfig {
		channel, err := conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("open channel for consumer %s: %w", consumer.ConsumerAlias, err)
		}
		r.consumers[consumer.ConsumerAlias] = NewConsumer(
			channel,
			consumer.QueueName,
			consumer.ConsumerTag,
			log,
		)
	}

	return r, nil
}

func (r *Registry) Publisher(alias PublisherAlias) (IRabbitmqPublisher, error) {
	p, ok := r.publishers[alias]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for alias %s", alias)
	}
	return p, nil
}

func (r *Registry) Consumer(alias ConsumerAlias) (IRabbitmqConsumer, error) {
	c, ok := r.consumers[alias]
	if !ok {
		return nil, fmt.Errorf("no consumer registered for alias %s", alias)
	}
	return c, nil
}

func (r *Registry) Close() error {
	return r.conn.Close()
}
