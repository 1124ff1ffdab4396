package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-proxied/pkg/activity"
	"github.com/goliatone/go-proxied/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()
	storeID := uuid.NewString()

	event := activity.BuildStoreEmittedEvent(activity.StoreEventInput{
		StoreID:        storeID,
		ActorID:        actorID.String(),
		TenantID:       tenantID.String(),
		Channel:        "ui",
		DefinitionCode: "store:emit",
		Recipients:     []string{"recipient@example.com"},
		Subscribers:    2,
		Keys:           []string{"count"},
		OccurredAt:     now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected identity fields: %+v", record)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected missing user id to map to uuid.Nil, got %s", record.UserID)
	}
	if record.Verb != "store.emitted" || record.ObjectType != "store" || record.ObjectID != storeID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "ui" {
		t.Fatalf("expected channel ui got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["definition_code"] != "store:emit" || record.Data["subscribers"] != 2 {
		t.Fatalf("unexpected data %v", record.Data)
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "recipient@example.com" {
		t.Fatalf("expected recipients metadata got %v", record.Data["recipients"])
	}
}

func TestHookNotifySkipsInvalidEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyFiltersVerbs(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{"store.subscribed"}}

	_ = hook.Notify(context.Background(), activity.BuildStoreEmittedEvent(activity.StoreEventInput{StoreID: "s"}))
	_ = hook.Notify(context.Background(), activity.BuildStoreSubscribedEvent(activity.StoreEventInput{StoreID: "s"}))

	if len(sink.records) != 1 || sink.records[0].Verb != "store.subscribed" {
		t.Fatalf("expected only subscribed record, got %+v", sink.records)
	}
}

func TestHookNotifyDefaultsTimestampAndSurfacesSinkErrors(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       "store.subscribed",
		ObjectType: "store",
		ObjectID:   "1",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if len(sink.records) != 1 || sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected record with defaulted occurred_at, got %+v", sink.records)
	}
}

func TestHookWithoutSinkIsNoop(t *testing.T) {
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: "x", ObjectType: "y", ObjectID: "z"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
