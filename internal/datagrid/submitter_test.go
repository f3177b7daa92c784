package datagrid_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

func mountedEngine(t *testing.T, api *fakeAPI, opts ...datagrid.Option) *datagrid.Engine[asset] {
	t.Helper()
	if api.items == nil {
		api.items = sampleAssets()
	}
	engine := newAssetEngine(t, api, opts...)
	if err := engine.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return engine
}

func TestSubmitCreateByURL(t *testing.T) {
	api := &fakeAPI{}
	notifier := &recordingNotifier{}
	engine := mountedEngine(t, api, datagrid.WithEngineNotifier(notifier))
	engine.Dialog.OpenCreate()

	draft := datagrid.Form{
		"uploadMethod": "url",
		"originalUrl":  "https://x/a.pdf",
		"name":         "A",
		"tags":         "doc",
		"lang":         "EN",
		"isActive":     true,
	}
	result := engine.Mutations.SubmitCreate(context.Background(), draft)

	if result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(api.creates) != 1 || len(api.uploads) != 0 {
		t.Fatalf("expected one by-reference create, got creates=%d uploads=%d", len(api.creates), len(api.uploads))
	}
	want := datagrid.Form{"originalUrl": "https://x/a.pdf", "name": "A", "tags": "doc", "lang": "EN", "isActive": true}
	if !reflect.DeepEqual(api.creates[0], want) {
		t.Fatalf("expected payload %v, got %v", want, api.creates[0])
	}
	if api.fetchCount() != 2 {
		t.Fatalf("expected a reload after create, got %d fetches", api.fetchCount())
	}
	if engine.Dialog.State().Open {
		t.Fatalf("expected dialog closed after create")
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Created successfully" {
		t.Fatalf("expected default success message, got %v", notifier.successes)
	}
}

func TestSubmitCreateByUpload(t *testing.T) {
	api := &fakeAPI{}
	engine := mountedEngine(t, api)
	upload := &interfaces.Upload{Field: "file", FileName: "a.pdf", Reader: strings.NewReader("%PDF")}

	result := engine.Mutations.SubmitCreate(context.Background(), datagrid.Form{
		"uploadMethod": "file",
		"file":         upload,
		"name":         "A",
		"lang":         "EN",
	})

	if result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(api.uploads) != 1 || api.uploads[0] != upload {
		t.Fatalf("expected the upload handle forwarded, got %v", api.uploads)
	}
	if !reflect.DeepEqual(api.creates[0], datagrid.Form{"name": "A", "lang": "EN"}) {
		t.Fatalf("expected metadata without client-only fields, got %v", api.creates[0])
	}
}

func TestSubmitCreateByUploadRequiresFile(t *testing.T) {
	api := &fakeAPI{}
	engine := mountedEngine(t, api)
	engine.Dialog.OpenCreate()

	result := engine.Mutations.SubmitCreate(context.Background(), datagrid.Form{"uploadMethod": "file", "name": "A"})

	if result.Outcome != datagrid.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %+v", result)
	}
	if len(engine.Dialog.State().Errors["file"]) != 1 {
		t.Fatalf("expected file field error, got %v", engine.Dialog.State().Errors)
	}
	if len(api.creates) != 0 {
		t.Fatalf("expected no network call")
	}
}

func TestSubmitEditNoopSkipsNetworkAndCloses(t *testing.T) {
	api := &fakeAPI{}
	notifier := &recordingNotifier{}
	engine := mountedEngine(t, api, datagrid.WithEngineNotifier(notifier))
	original := asset{ID: "1", Name: "A", IsActive: true}
	engine.Dialog.OpenEdit(original)

	result := engine.Mutations.SubmitEdit(context.Background(), original, projectAsset(original))

	if result.Outcome != datagrid.OutcomeNoop {
		t.Fatalf("expected noop, got %+v", result)
	}
	if len(api.updates) != 0 {
		t.Fatalf("expected zero update calls, got %d", len(api.updates))
	}
	if engine.Dialog.State().Open {
		t.Fatalf("expected dialog closed on noop")
	}
	if len(notifier.successes) != 0 || len(notifier.errors) != 0 {
		t.Fatalf("expected no notifications on noop")
	}
}

func TestSubmitEditSendsOnlyChangedFields(t *testing.T) {
	api := &fakeAPI{}
	engine := mountedEngine(t, api)
	original := sampleAssets()[0]
	engine.Dialog.OpenEdit(original)

	draft := projectAsset(original)
	draft["name"] = "Alpha report v2"
	draft["uploadMethod"] = "file"
	result := engine.Mutations.SubmitEdit(context.Background(), original, draft)

	if result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(api.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(api.updates))
	}
	call := api.updates[0]
	if call.id != original.ID || !reflect.DeepEqual(call.changes, datagrid.Form{"name": "Alpha report v2"}) {
		t.Fatalf("unexpected update call %+v", call)
	}
	if engine.Dialog.State().Open {
		t.Fatalf("expected dialog closed after update")
	}
}

func TestSubmitRejectedKeepsDialogOpen(t *testing.T) {
	api := &fakeAPI{}
	notifier := &recordingNotifier{}
	engine := mountedEngine(t, api, datagrid.WithEngineNotifier(notifier))
	original := sampleAssets()[0]
	engine.Dialog.OpenEdit(original)
	api.mutation = envelope(t, 409, "name already taken", nil)

	draft := projectAsset(original)
	draft["name"] = "Beta notes"
	result := engine.Mutations.SubmitEdit(context.Background(), original, draft)

	if result.Outcome != datagrid.OutcomeRejected || result.Message != "name already taken" {
		t.Fatalf("expected rejection with server message, got %+v", result)
	}
	state := engine.Dialog.State()
	if !state.Open || state.Submitting {
		t.Fatalf("expected dialog open and idle, got %+v", state)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "name already taken" {
		t.Fatalf("expected error notification, got %v", notifier.errors)
	}
	if api.fetchCount() != 1 {
		t.Fatalf("expected no reload after rejection, got %d fetches", api.fetchCount())
	}
}

func TestSubmitTransportFailureUsesErrorMessage(t *testing.T) {
	api := &fakeAPI{mutationErr: errors.New("connection reset")}
	notifier := &recordingNotifier{}
	engine := mountedEngine(t, api, datagrid.WithEngineNotifier(notifier))
	engine.Dialog.OpenCreate()

	result := engine.Mutations.SubmitCreate(context.Background(), datagrid.Form{"uploadMethod": "url", "name": "A"})

	if result.Outcome != datagrid.OutcomeFailed || result.Message != "connection reset" {
		t.Fatalf("expected failure with transport message, got %+v", result)
	}
	if !engine.Dialog.State().Open {
		t.Fatalf("expected dialog left open for retry")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "connection reset" {
		t.Fatalf("expected error notification, got %v", notifier.errors)
	}
}

func TestSubmitValidationFailureSkipsNetwork(t *testing.T) {
	api := &fakeAPI{items: sampleAssets()}
	engine, err := datagrid.NewEngine(datagrid.Config[asset]{
		Resource: "files",
		ID:       func(a asset) string { return a.ID },
		Fetch:    api.fetch,
		Create:   api.create,
		Project:  projectAsset,
		Validate: func(_ datagrid.Action, form datagrid.Form) datagrid.FieldErrors {
			errs := datagrid.FieldErrors{}
			if form.String("name") == "" {
				errs.Add("name", "Name is required")
			}
			return errs
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.Dialog.OpenCreate()

	result := engine.Mutations.SubmitCreate(context.Background(), datagrid.Form{"name": "   "})

	if result.Outcome != datagrid.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %+v", result)
	}
	if got := engine.Dialog.State().Errors["name"]; len(got) != 1 || got[0] != "Name is required" {
		t.Fatalf("expected field error stored on dialog, got %v", got)
	}
	if len(api.creates) != 0 {
		t.Fatalf("expected no create call")
	}
}

func TestSubmitDeleteClearsTarget(t *testing.T) {
	api := &fakeAPI{}
	engine := mountedEngine(t, api)
	target := sampleAssets()[1]
	engine.Dialog.ConfirmDelete(target)

	result := engine.ConfirmDelete(context.Background())

	if result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if !reflect.DeepEqual(api.deletes, []string{target.ID}) {
		t.Fatalf("expected delete of %s, got %v", target.ID, api.deletes)
	}
	state := engine.Dialog.State()
	if state.DeleteOpen || state.DeleteTarget != nil || state.Deleting {
		t.Fatalf("expected confirmation cleared, got %+v", state)
	}
	if api.fetchCount() != 2 {
		t.Fatalf("expected reload after delete, got %d fetches", api.fetchCount())
	}
}

func TestSubmitDeleteRejectedKeepsConfirmation(t *testing.T) {
	api := &fakeAPI{}
	engine := mountedEngine(t, api)
	engine.Dialog.ConfirmDelete(sampleAssets()[0])
	api.mutation = envelope(t, 403, "", nil)

	result := engine.ConfirmDelete(context.Background())

	if result.Outcome != datagrid.OutcomeRejected || result.Message != datagrid.DefaultMessages().Rejected {
		t.Fatalf("expected rejection with fallback message, got %+v", result)
	}
	if state := engine.Dialog.State(); !state.DeleteOpen || state.DeleteTarget == nil {
		t.Fatalf("expected confirmation kept open, got %+v", state)
	}
}

func TestSubmitUnsupportedMutation(t *testing.T) {
	api := &fakeAPI{items: sampleAssets()}
	engine, err := datagrid.NewEngine(datagrid.Config[asset]{
		Resource: "audit",
		ID:       func(a asset) string { return a.ID },
		Fetch:    api.fetch,
		Project:  projectAsset,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if !engine.ReadOnly() {
		t.Fatalf("expected read-only engine")
	}

	result := engine.Mutations.SubmitDelete(context.Background(), "1")
	if result.Outcome != datagrid.OutcomeFailed || !strings.Contains(result.Message, "not supported") {
		t.Fatalf("expected unsupported failure, got %+v", result)
	}
}

type recordingSink struct {
	records []interfaces.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestSubmitRecordsActivity(t *testing.T) {
	api := &fakeAPI{}
	sink := &recordingSink{}
	actor := uuid.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	engine := mountedEngine(t, api,
		datagrid.WithEngineActivity(sink, actor),
		datagrid.WithSubmitterOptions(datagrid.WithSubmitterClock(func() time.Time { return now })),
	)
	original := sampleAssets()[0]

	draft := projectAsset(original)
	draft["lang"] = "RU"
	draft["name"] = "Renamed"
	engine.Mutations.SubmitEdit(context.Background(), original, draft)
	engine.Mutations.SubmitCreate(context.Background(), datagrid.Form{"name": "New"})

	if len(sink.records) != 2 {
		t.Fatalf("expected two activity records, got %d", len(sink.records))
	}
	update := sink.records[0]
	if update.Verb != "update" || update.ObjectType != "files" || update.ObjectID != original.ID {
		t.Fatalf("unexpected update record %+v", update)
	}
	if update.ActorID != actor || !update.OccurredAt.Equal(now) {
		t.Fatalf("unexpected actor or time in %+v", update)
	}
	if fields, ok := update.Data["fields"].([]string); !ok || !reflect.DeepEqual(fields, []string{"lang", "name"}) {
		t.Fatalf("expected sorted changed fields, got %v", update.Data["fields"])
	}
	if create := sink.records[1]; create.Verb != "create" || create.ObjectID != "new-1" {
		t.Fatalf("expected create record with response id, got %+v", create)
	}
}

func TestEngineSubmitDispatchesByAction(t *testing.T) {
	api := &fakeAPI{}
	engine := mountedEngine(t, api)

	engine.Dialog.OpenView(sampleAssets()[0])
	if result := engine.Submit(context.Background()); result.Outcome != datagrid.OutcomeNoop {
		t.Fatalf("expected view submit to be a noop, got %+v", result)
	}

	engine.Dialog.OpenEdit(sampleAssets()[0])
	engine.Dialog.SetField("name", "Edited")
	if result := engine.Submit(context.Background()); result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected edit success, got %+v", result)
	}
	if len(api.updates) != 1 || api.updates[0].changes["name"] != "Edited" {
		t.Fatalf("expected update with edited name, got %+v", api.updates)
	}

	engine.Dialog.OpenCreate()
	engine.Dialog.SetField("name", "Created")
	if result := engine.Submit(context.Background()); result.Outcome != datagrid.OutcomeSuccess {
		t.Fatalf("expected create success, got %+v", result)
	}
	if len(api.creates) != 1 || api.creates[0]["name"] != "Created" {
		t.Fatalf("expected create with name, got %+v", api.creates)
	}
}

func TestNewEngineValidatesConfig(t *testing.T) {
	api := &fakeAPI{}
	cases := []struct {
		name string
		cfg  datagrid.Config[asset]
		want error
	}{
		{"missing fetch", datagrid.Config[asset]{Project: projectAsset, ID: func(a asset) string { return a.ID }}, datagrid.ErrFetchRequired},
		{"missing projector", datagrid.Config[asset]{Fetch: api.fetch, ID: func(a asset) string { return a.ID }}, datagrid.ErrProjectorRequired},
		{"missing id", datagrid.Config[asset]{Fetch: api.fetch, Project: projectAsset}, datagrid.ErrIdentityRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := datagrid.NewEngine(tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
