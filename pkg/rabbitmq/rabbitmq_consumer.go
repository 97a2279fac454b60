package rabbitmq

import (
	"sync"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ConsumerAlias string

type RabbitmqConsumer struct {
	Channel     *amqp.Channel
	QueueName   string
	ConsumerTag string
	Logger      *logger.Logger
}

type IRabbitmqConsumer interface {
	StartConsuming(func(amqp.Delivery)) error
}

func NewConsumer(ch *amqp.Channel, queueName, consumerTag string, log *logger.Logger) *RabbitmqConsumer {
	return &RabbitmqConsumer{
		Channel:     ch,
		QueueName:   queueName,
		ConsumerTag: consumerTag,
		Logger:      log,
	}
}

func (rc *RabbitmqConsumer) StartConsuming(messageHandler func(amqp.Delivery)) error {
	defer func() {
		if r := recover(); r != nil {
			rc.Logger.Errorf(
				nil,
				"[%s] Recovered from panic for consumer: %s, %v",
				rc.QueueName,
				rc.ConsumerTag,
				r,
			)
		}
	}()

	msgs, err := rc.Channel.Consume(
		rc.QueueName,   // queue
		rc.ConsumerTag, // consumer
		true,           // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return err
	}

	rc.Logger.Infof("Waiting for messages in queue: %s", rc.QueueName)
	var waitGroup sync.WaitGroup

	waitGroup.Add(1)

	go func() {
		defer waitGroup.Done()
		for d := range msgs {
			rc.Logger.Infof("[%s] received %d bytes", rc.QueueName, len(d.Body))
			messageHandler(d)
		}
	}()

	waitGroup.Wait()
	return nil
}
