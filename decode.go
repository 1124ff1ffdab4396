package proxied

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeOption configures Decode.
type DecodeOption[T any] func(*decodeConfig[T])

type decodeConfig[T any] struct {
	prepare  []func(*Handle, Record) error
	validate []func(*Handle, *T) error
	strict   bool
	numbers  bool
}

// DecodePrepare runs fn on the snapshot before it is decoded. The snapshot
// is detached from the store, so fn may rewrite it in place.
func DecodePrepare[T any](fn func(h *Handle, snapshot Record) error) DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.prepare = append(cfg.prepare, fn)
	}
}

// DecodeValidate runs fn on the decoded value. Its error fails Decode.
func DecodeValidate[T any](fn func(h *Handle, value *T) error) DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.validate = append(cfg.validate, fn)
	}
}

// DecodeStrict rejects properties without a matching field in T.
func DecodeStrict[T any]() DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.strict = true
	}
}

// DecodeUseNumber decodes numbers held in interface fields as json.Number.
func DecodeUseNumber[T any]() DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.numbers = true
	}
}

// Decode converts what h currently exposes into a T, typically from inside a
// deliver callback:
//
//	store.Subscribe(func(h *proxied.Handle) {
//		state, err := proxied.Decode[CartState](h)
//		...
//	}, nil)
//
// The input is h.Snapshot(), so values pass through the interceptor and
// derived properties such as Computed ones are decoded like stored ones.
// Fields are matched by their json names.
func Decode[T any](h *Handle, opts ...DecodeOption[T]) (T, error) {
	var zero T
	if h == nil {
		return zero, argumentError("decode", "handle", "must not be nil")
	}
	cfg := decodeConfig[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	snapshot := h.Snapshot()
	for _, fn := range cfg.prepare {
		if fn == nil {
			continue
		}
		if err := fn(h, snapshot); err != nil {
			return zero, decodeError(h, "prepare", err)
		}
	}

	data, err := json.Marshal(map[string]any(snapshot))
	if err != nil {
		return zero, decodeError(h, "encode snapshot", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	if cfg.strict {
		decoder.DisallowUnknownFields()
	}
	if cfg.numbers {
		decoder.UseNumber()
	}
	var out T
	if err := decoder.Decode(&out); err != nil {
		return zero, decodeError(h, "decode", err)
	}

	for _, fn := range cfg.validate {
		if fn == nil {
			continue
		}
		if err := fn(h, &out); err != nil {
			return zero, decodeError(h, "validate", err)
		}
	}
	return out, nil
}

func decodeError(h *Handle, step string, err error) error {
	return fmt.Errorf("proxied: decode store %q: %s: %w", h.StoreID(), step, err)
}
