package proxied

import (
	"context"
	"log/slog"
	"time"
)

// StoreLogEvent kinds.
const (
	LogSubscribe   = "subscribe"
	LogUnsubscribe = "unsubscribe"
	LogEmit        = "emit"
	LogSkip        = "skip"
	LogFlush       = "flush"
	LogActivity    = "activity"
)

// StoreLogEvent describes one step of the store lifecycle.
type StoreLogEvent struct {
	Kind        string
	StoreID     string
	Subscribers int
	Queued      int
	Owner       bool
	Duration    time.Duration
	Err         error
}

// StoreLogger records store events.
type StoreLogger interface {
	LogStore(StoreLogEvent)
}

// StoreLoggerFunc adapts a function to StoreLogger.
type StoreLoggerFunc func(StoreLogEvent)

// LogStore implements StoreLogger.
func (f StoreLoggerFunc) LogStore(event StoreLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopStoreLogger struct{}

func (noopStoreLogger) LogStore(StoreLogEvent) {}

type slogStoreLogger struct {
	logger *slog.Logger
}

// NewSlogLogger writes store events to logger at debug level, and at warn
// level when the event carries an error. A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) StoreLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogStoreLogger{logger: logger}
}

func (l slogStoreLogger) LogStore(event StoreLogEvent) {
	attrs := []slog.Attr{
		slog.String("store", event.StoreID),
		slog.Int("subscribers", event.Subscribers),
	}
	if event.Kind == LogEmit || event.Kind == LogFlush {
		attrs = append(attrs, slog.Int("queued", event.Queued), slog.Bool("owner", event.Owner))
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}
	level := slog.LevelDebug
	if event.Err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	l.logger.LogAttrs(context.Background(), level, "proxied "+event.Kind, attrs...)
}
