package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-cms-admin/pkg/activity"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

func TestLogSinkKeepsMostRecentRecords(t *testing.T) {
	sink := activity.NewLogSink(nil, 2)
	actor := uuid.New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, id := range []string{"a", "b", "c"} {
		err := sink.Log(context.Background(), interfaces.ActivityRecord{
			ActorID:    actor,
			Verb:       "create",
			ObjectType: "files",
			ObjectID:   id,
			Channel:    "admin",
			OccurredAt: now,
		})
		if err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	records := sink.Recent()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ObjectID != "b" || records[1].ObjectID != "c" {
		t.Fatalf("expected newest records, got %+v", records)
	}
	if records[1].ActorID != actor {
		t.Fatalf("expected actor %s, got %s", actor, records[1].ActorID)
	}
}

func TestNewLogSinkDefaultsLimit(t *testing.T) {
	sink := activity.NewLogSink(nil, 0)
	for i := 0; i < activity.DefaultLimit+5; i++ {
		_ = sink.Log(context.Background(), interfaces.ActivityRecord{Verb: "update"})
	}
	if got := len(sink.Recent()); got != activity.DefaultLimit {
		t.Fatalf("expected %d records, got %d", activity.DefaultLimit, got)
	}
}
