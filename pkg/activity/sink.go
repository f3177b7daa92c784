// Package activity provides activity sinks for console mutations.
package activity

import (
	"context"
	"sync"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// DefaultLimit is the number of records a LogSink keeps.
const DefaultLimit = 100

// LogSink writes each activity record to a logger and keeps the most recent
// ones in memory.
type LogSink struct {
	logger interfaces.Logger
	limit  int

	mu      sync.Mutex
	records []interfaces.ActivityRecord
}

var _ interfaces.ActivitySink = (*LogSink)(nil)

// NewLogSink builds a sink keeping up to limit records; non-positive limits
// use DefaultLimit.
func NewLogSink(logger interfaces.Logger, limit int) *LogSink {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &LogSink{logger: logging.EnsureLogger(logger), limit: limit}
}

func (s *LogSink) Log(ctx context.Context, record interfaces.ActivityRecord) error {
	logging.FromContext(ctx, s.logger).Info("activity.recorded",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"actor_id", record.ActorID.String(),
		"channel", record.Channel,
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	if overflow := len(s.records) - s.limit; overflow > 0 {
		s.records = append([]interfaces.ActivityRecord(nil), s.records[overflow:]...)
	}
	return nil
}

// Recent returns the kept records, oldest first.
func (s *LogSink) Recent() []interfaces.ActivityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]interfaces.ActivityRecord(nil), s.records...)
}
