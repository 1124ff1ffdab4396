package activity

import (
	"sort"
	"strings"
	"time"
)

const storeObjectType = "store"

// StoreEventInput describes the common fields for store lifecycle events.
type StoreEventInput struct {
	StoreID        string
	ActorID        string
	UserID         string
	TenantID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Subscribers    int
	Keys           []string
	OccurredAt     time.Time
}

// BuildStoreSubscribedEvent constructs an event for a new subscription.
func BuildStoreSubscribedEvent(input StoreEventInput) Event {
	return buildStoreEvent("store.subscribed", input)
}

// BuildStoreUnsubscribedEvent constructs an event for a removed subscription.
func BuildStoreUnsubscribedEvent(input StoreEventInput) Event {
	return buildStoreEvent("store.unsubscribed", input)
}

// BuildStoreEmittedEvent constructs an event for a notification round.
func BuildStoreEmittedEvent(input StoreEventInput) Event {
	return buildStoreEvent("store.emitted", input)
}

func buildStoreEvent(verb string, input StoreEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["subscribers"] = input.Subscribers
	if len(input.Keys) > 0 {
		keys := append([]string{}, input.Keys...)
		sort.Strings(keys)
		metadata["keys"] = keys
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.StoreID)
	if objectID == "" {
		objectID = storeObjectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     storeObjectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
