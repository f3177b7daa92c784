package datagrid

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	createMessageType = "admin.datagrid.create"
	updateMessageType = "admin.datagrid.update"
	deleteMessageType = "admin.datagrid.delete"
)

// CreateCommand creates one entity, by reference or by upload.
type CreateCommand struct {
	Resource string             `json:"resource"`
	Payload  Form               `json:"payload"`
	Upload   *interfaces.Upload `json:"-"`
}

// Type implements command.Message.
func (CreateCommand) Type() string { return createMessageType }

// Validate ensures the command names a resource and carries data to send.
func (m CreateCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("admin.datagrid.create.resource_required", "resource is required")
	}
	if len(m.Payload) == 0 && m.Upload == nil {
		errs["payload"] = validation.NewError("admin.datagrid.create.payload_required", "payload must include at least one field")
	}
	if m.Upload != nil && m.Upload.Reader == nil {
		errs["upload"] = validation.NewError("admin.datagrid.create.upload_reader_required", "upload must carry file content")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateCommand sends the changed fields of one entity.
type UpdateCommand struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
	Changes  Form   `json:"changes"`
}

// Type implements command.Message.
func (UpdateCommand) Type() string { return updateMessageType }

// Validate ensures the update targets an entity and changes at least one field.
func (m UpdateCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("admin.datagrid.update.resource_required", "resource is required")
	}
	if strings.TrimSpace(m.ID) == "" {
		errs["id"] = validation.NewError("admin.datagrid.update.id_required", "id is required")
	}
	if len(m.Changes) == 0 {
		errs["changes"] = validation.NewError("admin.datagrid.update.changes_required", "changes must include at least one field")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteCommand removes one entity.
type DeleteCommand struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

// Type implements command.Message.
func (DeleteCommand) Type() string { return deleteMessageType }

// Validate ensures the delete targets an entity.
func (m DeleteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Resource, validation.Required),
		validation.Field(&m.ID, validation.Required),
	)
}

type dispatchSettings struct {
	logger  interfaces.Logger
	timeout time.Duration
}

// dispatch runs call for msg through the shared command handler. A transport
// error is returned unwrapped so its message reaches the user as-is.
func dispatch[T command.Message](ctx context.Context, settings dispatchSettings, operation string, msg T, call func(context.Context, T) (*interfaces.Envelope, error)) (*interfaces.Envelope, error) {
	var (
		env     *interfaces.Envelope
		callErr error
	)
	handler := commands.NewHandler[T](func(ctx context.Context, msg T) error {
		env, callErr = call(ctx, msg)
		return callErr
	},
		commands.WithLogger[T](settings.logger),
		commands.WithOperation[T](operation),
		commands.WithTimeout[T](settings.timeout),
	)

	if err := handler.Execute(ctx, msg); err != nil {
		if callErr != nil {
			return nil, callErr
		}
		return nil, err
	}
	if env == nil {
		return nil, ErrEmptyResponse
	}
	return env, nil
}
