package logger

import (
	"fmt"

	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities/timeutil"

	"github.com/rs/zerolog"
)

// SinkFunc receives every message the logger emits, alongside its level and
// UTC timestamp. Used to mirror log lines to a queue publisher.
type SinkFunc func(string, zerolog.Level, timeutil.TimeUTC)

func AddSinkToLoggerInstance(loggerInstance *Logger, sinkFunction SinkFunc) {
	loggerInstance.sink = sinkFunction
}

func (l *Logger) activateSinkFormatted(format string, level zerolog.Level, v ...interface{}) {
	if l.sink == nil {
		return
	}
	msg := fmt.Sprintf(format, v...)
	l.activateSink(msg, level)
}

func (l *Logger) activateSink(msg string, level zerolog.Level) {
	if l.sink != nil {
		l.sink(msg, level, timeutil.NowUTC())
	}
}
