package di_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/internal/di"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/goliatone/go-cms-admin/internal/settings"
	"github.com/goliatone/go-cms-admin/pkg/activity"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type stubTransport struct {
	mu    sync.Mutex
	posts []string
}

func ok(data string) *interfaces.Envelope {
	return &interfaces.Envelope{Status: interfaces.Status{Code: interfaces.StatusOK}, Data: json.RawMessage(data)}
}

func (s *stubTransport) Get(context.Context, string) (*interfaces.Envelope, error) {
	return ok(`[]`), nil
}

func (s *stubTransport) Post(_ context.Context, url string, _ any) (*interfaces.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, url)
	return ok(`{"id":"f-1"}`), nil
}

func (s *stubTransport) Put(context.Context, string, any) (*interfaces.Envelope, error) {
	return ok(`{}`), nil
}

func (s *stubTransport) Patch(context.Context, string, any) (*interfaces.Envelope, error) {
	return ok(`{}`), nil
}

func (s *stubTransport) Delete(context.Context, string) (*interfaces.Envelope, error) {
	return ok(`{}`), nil
}

func (s *stubTransport) PostMultipart(context.Context, string, map[string]string, *interfaces.Upload) (*interfaces.Envelope, error) {
	return ok(`{}`), nil
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Pagination.PageSize = 0

	_, err := di.NewContainer(context.Background(), cfg, di.WithLoggerProvider(newRecordingProvider()))
	if !errors.Is(err, runtimeconfig.ErrPageSizeInvalid) {
		t.Fatalf("expected ErrPageSizeInvalid, got %v", err)
	}
}

func TestNewContainerBuildsDefaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	container, err := di.NewContainer(context.Background(), cfg, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer container.Close()

	if container.Transport() == nil {
		t.Fatalf("expected default transport")
	}
	if container.Activity() != nil {
		t.Fatalf("expected no activity sink without an actor")
	}
	deps := container.Deps()
	if deps.Language != "EN" || deps.Routes == nil || deps.Vocabulary == nil {
		t.Fatalf("unexpected deps %+v", deps)
	}
	list, err := deps.Routes.List(resources.ResourceFiles, nil)
	if err != nil {
		t.Fatalf("list route: %v", err)
	}
	if list != "http://localhost:8080/files" {
		t.Fatalf("unexpected list url %q", list)
	}
}

func TestNewContainerUsesBunSettingsStore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Settings.Provider = "bun"
	cfg.Settings.DSN = "file::memory:?cache=shared"

	ctx := context.Background()
	container, err := di.NewContainer(ctx, cfg, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer container.Close()

	records := []interfaces.Setting{
		{Name: settings.LanguagesSetting, Value: "EN:English"},
		{Name: settings.TagsSetting, Lang: "EN", Value: "alpha,beta"},
	}
	if err := container.Settings().Save(ctx, records); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	tags := container.Settings().Tags(ctx, "EN")
	if len(tags) != 2 || tags[0] != "alpha" || tags[1] != "beta" {
		t.Fatalf("expected persisted tags, got %v", tags)
	}
}

func TestEngineOptionsRecordActivityForActor(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Console.Actor = "editor@example.com"
	stub := &stubTransport{}

	ctx := context.Background()
	container, err := di.NewContainer(ctx, cfg,
		di.WithLoggerProvider(newRecordingProvider()),
		di.WithTransport(stub),
		di.WithSettingsStore(settings.NewMemoryStore()),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	engine, err := resources.NewFileEngine(ctx, container.Deps(), container.EngineOptions()...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.Dialog.OpenCreate()
	form := engine.Dialog.Form()
	form["name"] = "Syllabus"
	form["originalUrl"] = "https://files.example.com/syllabus.pdf"

	result := engine.Mutations.SubmitCreate(ctx, form)
	if result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(stub.posts) != 1 || stub.posts[0] != "http://localhost:8080/files" {
		t.Fatalf("expected one POST to files, got %v", stub.posts)
	}

	sink, ok := container.Activity().(*activity.LogSink)
	if !ok {
		t.Fatalf("expected log sink, got %T", container.Activity())
	}
	recent := sink.Recent()
	if len(recent) != 1 {
		t.Fatalf("expected one activity record, got %d", len(recent))
	}
	if recent[0].ObjectType != resources.ResourceFiles {
		t.Fatalf("expected files object type, got %q", recent[0].ObjectType)
	}
}

func TestContainerWatchesSettingsUntilClosed(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Console.StrictTags = true
	container, err := di.NewContainer(ctx, cfg,
		di.WithLoggerProvider(newRecordingProvider()),
		di.WithSettingsStore(store),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if !container.Deps().StrictTags {
		t.Fatalf("expected strict tags from config")
	}
	_ = container.Settings().Tags(ctx, "EN")

	if err := store.Put(ctx, settings.StorageKey, []byte(`[{"name":"tags","value":"external","lang":"EN"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !waitForTags(ctx, container.Settings(), "external") {
		t.Fatalf("expected container provider to see external write")
	}

	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := store.Put(ctx, settings.StorageKey, []byte(`[{"name":"tags","value":"after-close","lang":"EN"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if tags := container.Settings().Tags(ctx, "EN"); len(tags) != 1 || tags[0] != "external" {
		t.Fatalf("expected watcher to stop on close, got %v", tags)
	}
}

func waitForTags(ctx context.Context, provider *settings.Provider, want string) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tags := provider.Tags(ctx, "EN"); len(tags) == 1 && tags[0] == want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
