package proxied

import (
	"github.com/goliatone/go-proxied/pkg/activity"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	id          string
	interceptor Interceptor
	queue       *Queue
	logger      StoreLogger
	hooks       activity.Hooks
	activity    activity.Config
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.interceptor == nil {
		cfg.interceptor = PassThrough()
	}
	if cfg.queue == nil {
		cfg.queue = DefaultQueue()
	}
	if cfg.logger == nil {
		cfg.logger = noopStoreLogger{}
	}
	return cfg
}

// WithInterceptor sets the read policy applied by the Handle. Nil keeps
// PassThrough.
func WithInterceptor(interceptor Interceptor) Option {
	return func(cfg *storeConfig) {
		cfg.interceptor = interceptor
	}
}

// WithQueue binds the store to queue instead of DefaultQueue. Stores that
// must batch together have to share a queue.
func WithQueue(queue *Queue) Option {
	return func(cfg *storeConfig) {
		cfg.queue = queue
	}
}

// WithID overrides the generated store identifier.
func WithID(id string) Option {
	return func(cfg *storeConfig) {
		cfg.id = id
	}
}

// WithLogger attaches a store logger.
func WithLogger(logger StoreLogger) Option {
	return func(cfg *storeConfig) {
		cfg.logger = logger
	}
}

// WithActivityHooks enables lifecycle events for hooks. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *storeConfig) {
		cfg.hooks = append(activity.Hooks{}, hooks...)
		cfg.activity.Enabled = true
	}
}

// WithActivityConfig sets channel and identity defaults for emitted events.
// The Enabled field is ignored; hooks enable emission.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *storeConfig) {
		enabled := cfg.activity.Enabled
		cfg.activity = config
		cfg.activity.Enabled = enabled
	}
}
