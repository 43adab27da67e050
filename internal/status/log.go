package status

import (
	"go.uber.org/zap"
)

// LogSink writes events to a zap logger. Commands are logged at debug
// level since they arrive at sensor rate.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a sink logging through log.
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

// Report implements Sink.
func (s *LogSink) Report(e Event) {
	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.String("value", e.Value),
	}
	if e.Kind == KindHands {
		fields = append(fields, zap.Bool("hand0", e.Hands[0]), zap.Bool("hand1", e.Hands[1]))
	}

	if e.Kind == KindCommand {
		s.log.Debug("status", fields...)
		return
	}
	s.log.Info("status", fields...)
}
