package proxied

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-proxied/pkg/activity"
	"github.com/google/uuid"
)

// Store owns one Record, the Handle over it and an ordered list of
// subscribers. Mutations are applied immediately; subscribers only hear
// about them when Emit runs a notification round.
//
// A Store is not safe for concurrent use. Callbacks run synchronously on the
// calling goroutine and may re-enter this or any other Store.
type Store struct {
	id          string
	record      Record
	handle      *Handle
	subscribers []*subscription
	active      bool
	queue       *Queue
	logger      StoreLogger
	emitter     *activity.Emitter
}

// subscription is compared by pointer; registering the same deliver function
// twice yields two independent entries.
type subscription struct {
	deliver    func(*Handle)
	invalidate func()
}

func noop() {}

// New returns an empty, inactive Store.
func New(opts ...Option) *Store {
	cfg := applyOptions(opts)
	id := strings.TrimSpace(cfg.id)
	if id == "" {
		id = uuid.NewString()
	}
	record := Record{}
	return &Store{
		id:      id,
		record:  record,
		handle:  newHandle(id, record, cfg.interceptor),
		queue:   cfg.queue,
		logger:  cfg.logger,
		emitter: activity.NewEmitter(cfg.hooks, cfg.activity),
	}
}

// ID returns the store identifier used in logs and activity events.
func (s *Store) ID() string {
	return s.id
}

// Handle returns the store's Handle. The same pointer is returned for the
// life of the Store.
func (s *Store) Handle() *Handle {
	return s.handle
}

// Active reports whether the store has at least one subscriber.
func (s *Store) Active() bool {
	return s.active
}

// Subscribers returns the number of registered subscribers.
func (s *Store) Subscribers() int {
	return len(s.subscribers)
}

// Get reads property through the interceptor.
func (s *Store) Get(property string) any {
	return s.handle.Get(property)
}

// Peek reads property from the Record, bypassing the interceptor.
func (s *Store) Peek(property string) (any, bool) {
	value, ok := s.record[property]
	return value, ok
}

// Set writes a single property without notifying.
func (s *Store) Set(property string, value any) {
	s.record[property] = value
}

// Assign merges partial into the Record without notifying. See Emit for the
// accepted partial types.
func (s *Store) Assign(partial any) error {
	record, err := toRecord("assign", partial)
	if err != nil {
		return err
	}
	s.merge(record)
	return nil
}

// Delete removes property from the Record without notifying. Missing
// properties are ignored.
func (s *Store) Delete(property string) {
	delete(s.record, property)
}

// DeleteProperty is an alias for Delete.
func (s *Store) DeleteProperty(property string) {
	s.Delete(property)
}

// DeleteAll removes every property without notifying.
func (s *Store) DeleteAll() {
	clear(s.record)
}

// Emit merges each partial into the Record, in order, and then runs a
// notification round if the store is active. Partials may be a Record, a
// map with string keys, or a struct (or pointer to one) whose exported
// fields are keyed by their json name. All partials are validated before
// the Record is touched.
func (s *Store) Emit(partials ...any) error {
	records := make([]Record, 0, len(partials))
	for _, partial := range partials {
		record, err := toRecord("emit", partial)
		if err != nil {
			return err
		}
		records = append(records, record)
	}
	for _, record := range records {
		s.merge(record)
	}
	s.notify()
	return nil
}

// Refresh runs a notification round without changing the Record.
func (s *Store) Refresh() {
	s.notify()
}

// Subscribe registers deliver, and optionally invalidate, and immediately
// calls deliver with the Handle. A nil invalidate is treated as a no-op.
// The returned function removes this registration; calling it again does
// nothing.
func (s *Store) Subscribe(deliver func(*Handle), invalidate func()) (func(), error) {
	if deliver == nil {
		return nil, argumentError("subscribe", "deliver", "must be a non-nil function")
	}
	if invalidate == nil {
		invalidate = noop
	}
	sub := &subscription{deliver: deliver, invalidate: invalidate}
	s.subscribers = append(s.subscribers, sub)
	if len(s.subscribers) == 1 {
		s.active = true
	}
	s.logger.LogStore(StoreLogEvent{Kind: LogSubscribe, StoreID: s.id, Subscribers: len(s.subscribers)})
	s.publish(activity.BuildStoreSubscribedEvent)

	deliver(s.handle)

	return func() { s.unsubscribe(sub) }, nil
}

func (s *Store) unsubscribe(sub *subscription) {
	index := slices.Index(s.subscribers, sub)
	if index == -1 {
		return
	}
	s.subscribers = slices.Delete(s.subscribers, index, index+1)
	if len(s.subscribers) == 0 {
		s.active = false
	}
	s.logger.LogStore(StoreLogEvent{Kind: LogUnsubscribe, StoreID: s.id, Subscribers: len(s.subscribers)})
	s.publish(activity.BuildStoreUnsubscribedEvent)
}

func (s *Store) merge(record Record) {
	for key, value := range record {
		s.record[key] = value
	}
}

// notify runs one notification round. Every subscriber is invalidated before
// any is delivered to. The round that finds the queue empty drains it,
// including entries appended by rounds nested inside its callbacks, and
// leaves it empty however it exits.
func (s *Store) notify() {
	if !s.active {
		s.logger.LogStore(StoreLogEvent{Kind: LogSkip, StoreID: s.id})
		return
	}

	subscribers := slices.Clone(s.subscribers)
	owner := s.queue.idle()
	if owner {
		// flush resets on its own; this covers a panicking invalidate.
		defer s.queue.reset()
	}
	for _, sub := range subscribers {
		sub.invalidate()
		s.queue.enqueue(sub, s.handle)
	}
	s.logger.LogStore(StoreLogEvent{
		Kind:        LogEmit,
		StoreID:     s.id,
		Subscribers: len(subscribers),
		Queued:      s.queue.Len(),
		Owner:       owner,
	})

	if owner {
		start := time.Now()
		delivered := s.queue.flush()
		s.logger.LogStore(StoreLogEvent{
			Kind:        LogFlush,
			StoreID:     s.id,
			Subscribers: len(subscribers),
			Queued:      delivered,
			Owner:       true,
			Duration:    time.Since(start),
		})
	}
	s.publish(activity.BuildStoreEmittedEvent)
}

func (s *Store) publish(build func(activity.StoreEventInput) activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	event := build(activity.StoreEventInput{
		StoreID:     s.id,
		Subscribers: len(s.subscribers),
		Keys:        s.handle.Keys(),
	})
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.logger.LogStore(StoreLogEvent{Kind: LogActivity, StoreID: s.id, Subscribers: len(s.subscribers), Err: err})
	}
}
