package activity

import "testing"

func TestBuildStoreEmittedEventIncludesMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	keys := []string{"b", "a"}
	input := StoreEventInput{
		StoreID:        " store-1 ",
		ActorID:        " actor ",
		TenantID:       " tenant ",
		Metadata:       meta,
		Subscribers:    3,
		Keys:           keys,
		DefinitionCode: "store:emit",
		Recipients:     []string{"user@example.com"},
	}

	event := BuildStoreEmittedEvent(input)

	if event.Verb != "store.emitted" {
		t.Fatalf("expected verb store.emitted got %s", event.Verb)
	}
	if event.ObjectType != "store" || event.ObjectID != "store-1" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" || event.TenantID != "tenant" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	if event.Metadata["subscribers"] != 3 || event.Metadata["custom"] != "value" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	sorted, ok := event.Metadata["keys"].([]string)
	if !ok || len(sorted) != 2 || sorted[0] != "a" || sorted[1] != "b" {
		t.Fatalf("expected sorted keys, got %v", event.Metadata["keys"])
	}
	if keys[0] != "b" {
		t.Fatalf("expected input keys untouched, got %v", keys)
	}
	if _, exists := meta["subscribers"]; exists {
		t.Fatalf("expected input metadata untouched")
	}
	event.Recipients[0] = "changed"
	if input.Recipients[0] != "user@example.com" {
		t.Fatalf("expected input recipients untouched")
	}
}

func TestBuildStoreEventsFallbackObjectID(t *testing.T) {
	for _, event := range []Event{
		BuildStoreSubscribedEvent(StoreEventInput{}),
		BuildStoreUnsubscribedEvent(StoreEventInput{}),
	} {
		if event.ObjectID != "store" {
			t.Fatalf("expected fallback object ID 'store', got %q", event.ObjectID)
		}
		if !event.Valid() {
			t.Fatalf("expected built event to be valid: %+v", event)
		}
	}
}
