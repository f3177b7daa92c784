package datagrid_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type asset struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Lang     string   `json:"lang"`
	Tags     []string `json:"tags"`
	IsActive bool     `json:"isActive"`
	URL      string   `json:"originalUrl"`
}

func projectAsset(a asset) datagrid.Form {
	return datagrid.Form{
		"name":        a.Name,
		"lang":        a.Lang,
		"isActive":    a.IsActive,
		"originalUrl": a.URL,
	}
}

func assetDefaults() datagrid.Form {
	return datagrid.Form{
		"uploadMethod": datagrid.UploadMethodURL,
		"name":         "",
		"lang":         "EN",
		"isActive":     true,
		"originalUrl":  "",
	}
}

func assetFields() []datagrid.FilterField[asset] {
	return []datagrid.FilterField[asset]{
		{Name: "name", Kind: datagrid.FieldText, Value: func(a asset) any { return a.Name }},
		{Name: "lang", Kind: datagrid.FieldExact, Value: func(a asset) any { return a.Lang }},
		{Name: "tags", Kind: datagrid.FieldText, Value: func(a asset) any { return a.Tags }},
		{Name: "isActive", Kind: datagrid.FieldTriState, Value: func(a asset) any { return a.IsActive }},
	}
}

func okEnvelope(t *testing.T, data any) *interfaces.Envelope {
	t.Helper()
	return envelope(t, interfaces.StatusOK, "", data)
}

func envelope(t *testing.T, code int, message string, data any) *interfaces.Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal envelope data: %v", err)
	}
	return &interfaces.Envelope{
		Status: interfaces.Status{Code: code, Message: message},
		Data:   raw,
	}
}

// fakeAPI records every call and answers with the queued responses.
type fakeAPI struct {
	mu sync.Mutex

	items    []asset
	fetches  []datagrid.QueryParams
	fetchErr error

	creates []datagrid.Form
	uploads []*interfaces.Upload
	updates []updateCall
	deletes []string

	mutation    *interfaces.Envelope
	mutationErr error
}

type updateCall struct {
	id      string
	changes datagrid.Form
}

func (f *fakeAPI) fetch(_ context.Context, params datagrid.QueryParams) (*interfaces.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, params)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	raw, _ := json.Marshal(f.items)
	return &interfaces.Envelope{Status: interfaces.Status{Code: interfaces.StatusOK}, Data: raw}, nil
}

func (f *fakeAPI) respond() (*interfaces.Envelope, error) {
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	if f.mutation != nil {
		return f.mutation, nil
	}
	return &interfaces.Envelope{Status: interfaces.Status{Code: interfaces.StatusOK}, Data: json.RawMessage(`{"id":"new-1"}`)}, nil
}

func (f *fakeAPI) create(_ context.Context, payload datagrid.Form) (*interfaces.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, payload)
	return f.respond()
}

func (f *fakeAPI) upload(_ context.Context, payload datagrid.Form, upload *interfaces.Upload) (*interfaces.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, payload)
	f.uploads = append(f.uploads, upload)
	return f.respond()
}

func (f *fakeAPI) update(_ context.Context, id string, changes datagrid.Form) (*interfaces.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{id: id, changes: changes})
	return f.respond()
}

func (f *fakeAPI) remove(_ context.Context, id string) (*interfaces.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.respond()
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

func newAssetEngine(t *testing.T, api *fakeAPI, opts ...datagrid.Option) *datagrid.Engine[asset] {
	t.Helper()
	engine, err := datagrid.NewEngine(datagrid.Config[asset]{
		Resource: "files",
		ID:       func(a asset) string { return a.ID },
		Fetch:    api.fetch,
		Create:   api.create,
		Upload:   api.upload,
		Update:   api.update,
		Delete:   api.remove,
		Project:  projectAsset,
		Defaults: assetDefaults,
		Fields:   assetFields(),
	}, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func sampleAssets() []asset {
	return []asset{
		{ID: "1", Name: "Alpha report", Lang: "EN", Tags: []string{"doc", "finance"}, IsActive: true},
		{ID: "2", Name: "Beta notes", Lang: "RU", Tags: []string{"doc"}, IsActive: false},
		{ID: "3", Name: "alpha draft", Lang: "EN", Tags: []string{"draft"}, IsActive: false},
	}
}

func ids(items []asset) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
