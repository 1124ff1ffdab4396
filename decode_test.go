package proxied

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
)

type cartState struct {
	Items int     `json:"items"`
	Total float64 `json:"total"`
	Label string  `json:"label"`
}

func TestDecodeIncludesDerivedProperties(t *testing.T) {
	computed, _ := NewComputed(map[string]string{"label": `"cart of " + string(items)`})
	store := New(WithQueue(NewQueue()), WithInterceptor(computed), WithID("cart"))
	_ = store.Assign(map[string]any{"items": 2, "total": 19.5})

	var decoded []cartState
	_, _ = store.Subscribe(func(h *Handle) {
		state, err := Decode(h, DecodeValidate(func(h *Handle, state *cartState) error {
			if h.StoreID() != "cart" {
				return errors.New("missing store id")
			}
			state.Label = strings.ToUpper(state.Label)
			return nil
		}))
		if err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		decoded = append(decoded, state)
	}, nil)

	if len(decoded) != 1 {
		t.Fatalf("expected one decoded state, got %d", len(decoded))
	}
	want := cartState{Items: 2, Total: 19.5, Label: "CART OF 2"}
	if decoded[0] != want {
		t.Fatalf("expected %+v, got %+v", want, decoded[0])
	}
}

func TestDecodeOptions(t *testing.T) {
	cases := []struct {
		name      string
		record    map[string]any
		options   []DecodeOption[cartState]
		expect    cartState
		expectErr string
	}{
		{
			name:   "plain",
			record: map[string]any{"items": 3, "label": "clicks"},
			expect: cartState{Items: 3, Label: "clicks"},
		},
		{
			name:      "strict rejects unknown properties",
			record:    map[string]any{"items": 1, "unexpected": true},
			options:   []DecodeOption[cartState]{DecodeStrict[cartState]()},
			expectErr: `decode store "orders": decode: json: unknown field "unexpected"`,
		},
		{
			name:   "prepare rewrites the snapshot",
			record: map[string]any{"items": "7"},
			options: []DecodeOption[cartState]{
				DecodePrepare[cartState](func(_ *Handle, snapshot Record) error {
					raw, _ := snapshot["items"].(string)
					n, err := strconv.Atoi(raw)
					if err != nil {
						return err
					}
					snapshot["items"] = n
					return nil
				}),
			},
			expect: cartState{Items: 7},
		},
		{
			name:   "prepare failure",
			record: map[string]any{},
			options: []DecodeOption[cartState]{
				DecodePrepare[cartState](func(*Handle, Record) error { return errors.New("not ready") }),
			},
			expectErr: "prepare: not ready",
		},
		{
			name:   "validate failure",
			record: map[string]any{"items": -1},
			options: []DecodeOption[cartState]{
				DecodeValidate(func(_ *Handle, state *cartState) error {
					if state.Items < 0 {
						return errors.New("negative items")
					}
					return nil
				}),
			},
			expectErr: "validate: negative items",
		},
		{
			name:      "type mismatch",
			record:    map[string]any{"items": "many"},
			expectErr: "cannot unmarshal string",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := New(WithQueue(NewQueue()), WithID("orders"))
			_ = store.Assign(tc.record)

			got, err := Decode(store.Handle(), tc.options...)
			if tc.expectErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expectErr, err)
				}
				if got != (cartState{}) {
					t.Fatalf("expected zero value on error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.expect {
				t.Fatalf("expected %+v, got %+v", tc.expect, got)
			}
		})
	}
}

func TestDecodePrepareDoesNotTouchStore(t *testing.T) {
	store := New(WithQueue(NewQueue()))
	_ = store.Assign(map[string]any{"items": 1})

	_, err := Decode(store.Handle(), DecodePrepare[cartState](func(_ *Handle, snapshot Record) error {
		snapshot["items"] = 99
		return nil
	}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if store.Get("items") != 1 {
		t.Fatalf("expected store untouched, got %v", store.Get("items"))
	}
}

func TestDecodeUseNumber(t *testing.T) {
	type loose struct {
		Amount any `json:"amount"`
	}
	store := New(WithQueue(NewQueue()))
	_ = store.Assign(map[string]any{"amount": 12})

	got, err := Decode(store.Handle(), DecodeUseNumber[loose]())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if number, ok := got.Amount.(json.Number); !ok || number.String() != "12" {
		t.Fatalf("expected json.Number, got %#v", got.Amount)
	}
}

func TestDecodeNilHandle(t *testing.T) {
	_, err := Decode[cartState](nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDecodeCyclicValueFails(t *testing.T) {
	type node struct {
		Next *node `json:"next"`
	}
	loop := &node{}
	loop.Next = loop
	store := New(WithQueue(NewQueue()))
	_ = store.Assign(map[string]any{"node": loop})

	if _, err := Decode[map[string]any](store.Handle()); err == nil || !strings.Contains(err.Error(), "encode snapshot") {
		t.Fatalf("expected encode error for cyclic value, got %v", err)
	}
}
