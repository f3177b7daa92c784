package interfaces

import (
	"context"
	"encoding/json"
	"io"
)

// StatusOK is the envelope status code the admin API uses to signal success.
const StatusOK = 200

// Status mirrors the `status` object every admin API response carries.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope is the `{status, data}` wrapper returned by the admin API. Data is
// left undecoded so callers can pick the concrete shape.
type Envelope struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the envelope carries the success sentinel.
func (e *Envelope) OK() bool {
	return e != nil && e.Status.Code == StatusOK
}

// Upload is a binary handle attached to multipart requests.
type Upload struct {
	Field       string
	FileName    string
	ContentType string
	Reader      io.Reader
}

// Transport is the HTTP collaborator the REST service wrappers depend on.
type Transport interface {
	Get(ctx context.Context, url string) (*Envelope, error)
	Post(ctx context.Context, url string, body any) (*Envelope, error)
	Put(ctx context.Context, url string, body any) (*Envelope, error)
	Patch(ctx context.Context, url string, body any) (*Envelope, error)
	Delete(ctx context.Context, url string) (*Envelope, error)
	PostMultipart(ctx context.Context, url string, fields map[string]string, upload *Upload) (*Envelope, error)
}
