package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Notifier surfaces store mutations to the operator console. Calls are
// fire-and-forget: delivery failures are logged by the implementation and
// never propagated to the caller.
type Notifier interface {
	Success(ctx context.Context, message string)
	Info(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Event struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LogNotifier writes notifications to the service log.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Success(_ context.Context, message string) {
	n.Logger.Info().Str("notification", string(LevelSuccess)).Msg(message)
}

func (n LogNotifier) Info(_ context.Context, message string) {
	n.Logger.Info().Str("notification", string(LevelInfo)).Msg(message)
}

func (n LogNotifier) Error(_ context.Context, message string) {
	n.Logger.Error().Str("notification", string(LevelError)).Msg(message)
}

const eventQueueKey = "dispatch_notifications"

// RedisNotifier pushes notification events onto a Redis list consumed by the
// dispatch console.
type RedisNotifier struct {
	Client *redis.Client
	Logger zerolog.Logger
}

func (n *RedisNotifier) publish(ctx context.Context, level Level, message string) {
	payload, err := json.Marshal(Event{Level: level, Message: message, Timestamp: time.Now().UTC()})
	if err != nil {
		n.Logger.Error().Err(err).Msg("marshal notification event")
		return
	}
	if err := n.Client.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		n.Logger.Error().Err(err).Msg("publish notification event")
	}
}

func (n *RedisNotifier) Success(ctx context.Context, message string) {
	n.publish(ctx, LevelSuccess, message)
}

func (n *RedisNotifier) Info(ctx context.Context, message string) {
	n.publish(ctx, LevelInfo, message)
}

func (n *RedisNotifier) Error(ctx context.Context, message string) {
	n.publish(ctx, LevelError, message)
}

// Multi fans a notification out to every wrapped notifier.
type Multi []Notifier

func (m Multi) Success(ctx context.Context, message string) {
	for _, n := range m {
		n.Success(ctx, message)
	}
}

func (m Multi) Info(ctx context.Context, message string) {
	for _, n := range m {
		n.Info(ctx, message)
	}
}

func (m Multi) Error(ctx context.Context, message string) {
	for _, n := range m {
		n.Error(ctx, message)
	}
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Success(context.Context, string) {}
func (Nop) Info(context.Context, string)    {}
func (Nop) Error(context.Context, string)   {}
