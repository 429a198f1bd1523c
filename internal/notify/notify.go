// Package notify delivers manager-attention alerts.
//
// Delivery semantics belong to whatever sits behind the Notifier
// interface; the pipeline only emits the payload.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Alert is the payload emitted when a message requires manager attention.
type Alert struct {
	Intent     string    `json:"intent"`
	SenderID   string    `json:"sender_id"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier delivers alerts to managers.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the structured log. It is the default
// delivery mechanism when no external channel is wired in.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the alert.
func (n *LogNotifier) Notify(_ context.Context, alert Alert) error {
	n.logger.Warn("manager attention required",
		zap.String("intent", alert.Intent),
		zap.String("sender_id", alert.SenderID),
		zap.String("message", alert.Message),
		zap.Float64("confidence", alert.Confidence),
		zap.String("action", alert.Action),
		zap.Time("timestamp", alert.Timestamp),
	)
	return nil
}

// ChannelNotifier buffers alerts on an in-process channel for a consumer
// such as a websocket bridge or an external publisher.
type ChannelNotifier struct {
	ch chan Alert
}

// NewChannelNotifier creates a notifier with the given buffer size.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelNotifier{ch: make(chan Alert, buffer)}
}

// Notify enqueues the alert. When the buffer is full the alert is dropped
// rather than blocking the pipeline; the caller still gets its outcome.
func (n *ChannelNotifier) Notify(_ context.Context, alert Alert) error {
	select {
	case n.ch <- alert:
		return nil
	default:
		return ErrBufferFull
	}
}

// Alerts returns the receive side of the alert queue.
func (n *ChannelNotifier) Alerts() <-chan Alert {
	return n.ch
}

// ErrBufferFull is returned when the alert queue is full.
var ErrBufferFull = errBufferFull{}

type errBufferFull struct{}

func (errBufferFull) Error() string { return "alert buffer full" }
