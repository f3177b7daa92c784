package datagrid

import (
	"context"
	"maps"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// QueryParams are the key/value pairs sent with a collection fetch.
type QueryParams map[string]any

// Form is the flattened, form-friendly projection of an entity. Values are
// strings, numbers, booleans or *interfaces.Upload handles.
type Form map[string]any

// Clone returns a shallow copy of the form.
func (f Form) Clone() Form {
	if f == nil {
		return Form{}
	}
	return maps.Clone(f)
}

// String returns the trimmed string value stored under key.
func (f Form) String(key string) string {
	value, _ := f[key].(string)
	return strings.TrimSpace(value)
}

// Bool returns the boolean stored under key. String values "true"/"false"
// are accepted.
func (f Form) Bool(key string) bool {
	switch typed := f[key].(type) {
	case bool:
		return typed
	case string:
		return strings.EqualFold(strings.TrimSpace(typed), "true")
	}
	return false
}

// Upload returns the binary handle stored under key, if any.
func (f Form) Upload(key string) *interfaces.Upload {
	upload, _ := f[key].(*interfaces.Upload)
	return upload
}

// Coerce converts raw text input for key to the type the form currently
// holds there, so a typed-in "true" diffs equal to a projected true. Input
// that does not parse is kept as text.
func (f Form) Coerce(key, raw string) any {
	text := strings.TrimSpace(raw)
	switch f[key].(type) {
	case bool:
		if parsed, err := strconv.ParseBool(text); err == nil {
			return parsed
		}
	case int:
		if parsed, err := strconv.Atoi(text); err == nil {
			return parsed
		}
	case int64:
		if parsed, err := strconv.ParseInt(text, 10, 64); err == nil {
			return parsed
		}
	case float64:
		if parsed, err := strconv.ParseFloat(text, 64); err == nil {
			return parsed
		}
	}
	return raw
}

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for field, messages := range e {
		out[field] = append([]string(nil), messages...)
	}
	return out
}

// Action identifies what the main dialog is doing.
type Action string

const (
	ActionNone   Action = ""
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// FetchFunc loads one page of entities. The envelope data is either a bare
// JSON array or a {content, page, size, totalElements, totalPages} object.
type FetchFunc func(ctx context.Context, params QueryParams) (*interfaces.Envelope, error)

// CreateFunc creates an entity from a by-reference payload.
type CreateFunc func(ctx context.Context, payload Form) (*interfaces.Envelope, error)

// UploadFunc creates an entity from metadata fields plus a binary upload.
type UploadFunc func(ctx context.Context, payload Form, upload *interfaces.Upload) (*interfaces.Envelope, error)

// UpdateFunc sends a partial update for the entity identified by id.
type UpdateFunc func(ctx context.Context, id string, changes Form) (*interfaces.Envelope, error)

// DeleteFunc removes the entity identified by id.
type DeleteFunc func(ctx context.Context, id string) (*interfaces.Envelope, error)

// Validator returns field-level errors for a form about to be submitted.
type Validator func(action Action, form Form) FieldErrors
