package proxied

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/goliatone/go-proxied/internal/clone"
)

// Handle is the read-through view over a store's Record. Each Store owns
// exactly one Handle for its whole lifetime, so subscribers can compare
// handles by pointer. Reads are routed through the store's Interceptor;
// the Handle exposes no write path.
type Handle struct {
	storeID     string
	record      Record
	interceptor Interceptor
}

// derivedProperties is implemented by interceptors that answer for
// properties the Record does not hold, such as Computed.
type derivedProperties interface {
	Properties() []string
}

func newHandle(storeID string, record Record, interceptor Interceptor) *Handle {
	if interceptor == nil {
		interceptor = PassThrough()
	}
	return &Handle{storeID: storeID, record: record, interceptor: interceptor}
}

// StoreID returns the ID of the Store that owns the handle.
func (h *Handle) StoreID() string {
	if h == nil {
		return ""
	}
	return h.storeID
}

// Get returns the intercepted value for property.
func (h *Handle) Get(property string) any {
	if h == nil {
		return nil
	}
	return h.interceptor.Get(h.record, property)
}

// Has reports whether property is present in the underlying Record.
func (h *Handle) Has(property string) bool {
	if h == nil {
		return false
	}
	_, ok := h.record[property]
	return ok
}

// Keys returns the Record keys sorted alphabetically.
func (h *Handle) Keys() []string {
	if h == nil {
		return nil
	}
	keys := make([]string, 0, len(h.record))
	for key := range h.record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in the Record.
func (h *Handle) Len() int {
	if h == nil {
		return 0
	}
	return len(h.record)
}

// Properties returns the Record keys plus any properties the interceptor
// derives, sorted and without duplicates.
func (h *Handle) Properties() []string {
	keys := h.Keys()
	if h == nil {
		return keys
	}
	derived, ok := h.interceptor.(derivedProperties)
	if !ok {
		return keys
	}
	for _, property := range derived.Properties() {
		if _, exists := h.record[property]; !exists {
			keys = append(keys, property)
		}
	}
	sort.Strings(keys)
	return slices.Compact(keys)
}

// Snapshot reads every property through the interceptor and returns a
// detached deep copy. Mutating the result never affects the store.
func (h *Handle) Snapshot() Record {
	if h == nil {
		return Record{}
	}
	properties := h.Properties()
	out := make(Record, len(properties))
	for _, property := range properties {
		out[property] = clone.Value(h.Get(property))
	}
	return out
}

// MarshalJSON encodes the intercepted snapshot.
func (h *Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(h.Snapshot()))
}

// MarshalYAML implements yaml.Marshaler with the same intercepted snapshot.
func (h *Handle) MarshalYAML() (any, error) {
	return map[string]any(h.Snapshot()), nil
}
