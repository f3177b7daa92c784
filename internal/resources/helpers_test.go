package resources_test

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/internal/settings"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const testBaseURL = "https://cms.example.com"

type call struct {
	method string
	url    string
	body   any
	fields map[string]string
	file   string
}

// fakeTransport answers every list with items and every mutation with ok.
type fakeTransport struct {
	mu    sync.Mutex
	calls []call
	items any
	reply *interfaces.Envelope
}

func (f *fakeTransport) record(c call) *interfaces.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if c.method == "GET" {
		raw, _ := json.Marshal(f.items)
		return &interfaces.Envelope{Status: interfaces.Status{Code: interfaces.StatusOK}, Data: raw}
	}
	if f.reply != nil {
		return f.reply
	}
	return &interfaces.Envelope{Status: interfaces.Status{Code: interfaces.StatusOK}, Data: json.RawMessage(`{"id":"new-1"}`)}
}

func (f *fakeTransport) Get(_ context.Context, url string) (*interfaces.Envelope, error) {
	return f.record(call{method: "GET", url: url}), nil
}

func (f *fakeTransport) Post(_ context.Context, url string, body any) (*interfaces.Envelope, error) {
	return f.record(call{method: "POST", url: url, body: body}), nil
}

func (f *fakeTransport) Put(_ context.Context, url string, body any) (*interfaces.Envelope, error) {
	return f.record(call{method: "PUT", url: url, body: body}), nil
}

func (f *fakeTransport) Patch(_ context.Context, url string, body any) (*interfaces.Envelope, error) {
	return f.record(call{method: "PATCH", url: url, body: body}), nil
}

func (f *fakeTransport) Delete(_ context.Context, url string) (*interfaces.Envelope, error) {
	return f.record(call{method: "DELETE", url: url}), nil
}

func (f *fakeTransport) PostMultipart(_ context.Context, url string, fields map[string]string, upload *interfaces.Upload) (*interfaces.Envelope, error) {
	content, _ := io.ReadAll(upload.Reader)
	return f.record(call{method: "MULTIPART", url: url, fields: fields, file: upload.FileName + ":" + string(content)}), nil
}

func (f *fakeTransport) mutations() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.method != "GET" {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTransport) lastGet() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == "GET" {
			return f.calls[i].url
		}
	}
	return ""
}

func newRoutes(t *testing.T) *resources.Routes {
	t.Helper()
	routes, err := resources.NewRoutes(resources.DefaultRouteConfig(testBaseURL))
	if err != nil {
		t.Fatalf("new routes: %v", err)
	}
	return routes
}

func newDeps(t *testing.T, transport *fakeTransport) resources.Deps {
	t.Helper()
	return resources.Deps{
		Transport:  transport,
		Routes:     newRoutes(t),
		Vocabulary: settings.NewProvider(settings.NewMemoryStore()),
		Language:   "EN",
	}
}
