package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "admin.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger = logger.WithFields(map[string]any{"foo": "bar"})
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	DatagridLogger(provider).Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != datagridModule {
		t.Fatalf("expected module %s, got %v", datagridModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != datagridModule {
		t.Fatalf("expected module field %s, got %v", datagridModule, got)
	}
}

func TestWithResourceContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithResourceContext(rec, " files ", "", "file-1")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldResource] != "files" {
		t.Fatalf("expected trimmed resource, got %v", fields[fieldResource])
	}
	if _, ok := fields[fieldAction]; ok {
		t.Fatalf("expected empty action to be skipped, got %v", fields)
	}
	if fields[fieldEntityID] != "file-1" {
		t.Fatalf("expected entity id, got %v", fields[fieldEntityID])
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "r1"})
	ctx = ContextWithFields(ctx, map[string]any{"resource": "images"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "r1" || fields["resource"] != "images" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "r1" {
		t.Fatal("expected ContextFields to return a copy")
	}
}

func TestFromContextAppliesFieldsAndContext(t *testing.T) {
	rec := &recordingLogger{}
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "r1"})

	FromContext(ctx, rec)

	if len(rec.fields) != 1 || rec.fields[0]["request_id"] != "r1" {
		t.Fatalf("expected context fields applied, got %v", rec.fields)
	}
	if len(rec.contexts) != 1 {
		t.Fatalf("expected context propagation, got %d", len(rec.contexts))
	}
}
