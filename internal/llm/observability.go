package llm

import (
	"go.uber.org/zap"
)

// CallEvent records metadata about a single generation attempt or cache hit.
type CallEvent struct {
	Stage     string
	Model     string
	Attempt   int
	LatencyMs int64
	Success   bool
	CacheHit  bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes LLM call events to a zap logger.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger.Named("llm")}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	status := "ok"
	switch {
	case event.CacheHit:
		status = "cache_hit"
	case !event.Success:
		status = "err:" + event.ErrorCode
	}
	o.logger.Info("llm_call",
		zap.String("stage", event.Stage),
		zap.String("model", event.Model),
		zap.Int("attempt", event.Attempt),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.String("status", status),
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
