package rabbitmq

import (
	"fmt"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities"
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities/timeutil"

	"github.com/rs/zerolog"
)

type loggerMessage struct {
	Level     string           `json:"level"`
	Message   string           `json:"message"`
	Timestamp timeutil.TimeUTC `json:"timestamp"`
}

func (lm loggerMessage) Serialize() ([]byte, error) {
	return utilities.Serialize[loggerMessage](lm)
}

func CreateRabbitmqLoggerSink(publisher IRabbitmqPublisher) logger.SinkFunc {
	return func(msg string, level zerolog.Level, timestamp timeutil.TimeUTC) {
		err := publisher.Publish(loggerMessage{
			Level:     level.String(),
			Message:   msg,
			Timestamp: timestamp,
		})
		if err != nil {
			// Avoid infinite recursion by not using the logger here
			fmt.Printf("Failed to publish log message to RabbitMQ: %v\n", err)
		}
	}
}
