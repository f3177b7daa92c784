package datagrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	// MethodField is the default create-mode discriminator field.
	MethodField = "uploadMethod"
	// FileField is the default binary upload field.
	FileField = "file"

	// UploadMethodURL creates an entity from an externally hosted asset.
	UploadMethodURL = "url"
	// UploadMethodFile creates an entity from an uploaded file.
	UploadMethodFile = "file"

	activityChannel = "admin"
)

// Outcome classifies a mutation result.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeNoop     Outcome = "noop"
)

// Result reports how a mutation ended. Errors is set for OutcomeInvalid and
// Changes holds the fields sent by an update.
type Result struct {
	Outcome Outcome
	Message string
	Changes Form
	Errors  FieldErrors
	Data    json.RawMessage
}

// OK reports whether the mutation succeeded or had nothing to do.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeNoop
}

// Messages holds the user-facing fallbacks used when the server sends none.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	Rejected     string
	Failed       string
	FileRequired string
}

// DefaultMessages returns the English fallbacks.
func DefaultMessages() Messages {
	return Messages{
		Created:      "Created successfully",
		Updated:      "Updated successfully",
		Deleted:      "Deleted successfully",
		Rejected:     "Request was rejected",
		Failed:       "Request failed",
		FileRequired: "A file is required",
	}
}

// SubmitterConfig carries the entity-specific mutation endpoints.
type SubmitterConfig[E any] struct {
	Resource   string
	ID         func(E) string
	Create     CreateFunc
	Upload     UploadFunc
	Update     UpdateFunc
	Delete     DeleteFunc
	Validate   Validator
	ClientOnly []string
	// MethodField and FileField default to "uploadMethod" and "file".
	MethodField string
	FileField   string
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*submitterSettings)

type submitterSettings struct {
	notifier Notifier
	logger   interfaces.Logger
	timeout  time.Duration
	sink     interfaces.ActivitySink
	actor    uuid.UUID
	messages Messages
	clock    func() time.Time
}

// WithNotifier sets where success and error messages go.
func WithNotifier(notifier Notifier) SubmitterOption {
	return func(s *submitterSettings) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithSubmitterLogger sets the submitter logger.
func WithSubmitterLogger(logger interfaces.Logger) SubmitterOption {
	return func(s *submitterSettings) {
		s.logger = logger
	}
}

// WithCommandTimeout bounds each mutation round-trip. Zero disables it.
func WithCommandTimeout(timeout time.Duration) SubmitterOption {
	return func(s *submitterSettings) {
		s.timeout = timeout
	}
}

// WithActivitySink records one activity entry per successful mutation.
func WithActivitySink(sink interfaces.ActivitySink, actor uuid.UUID) SubmitterOption {
	return func(s *submitterSettings) {
		s.sink = sink
		s.actor = actor
	}
}

// WithMessages overrides the fallback messages.
func WithMessages(messages Messages) SubmitterOption {
	return func(s *submitterSettings) {
		s.messages = mergeMessages(s.messages, messages)
	}
}

// WithSubmitterClock overrides the activity timestamp source.
func WithSubmitterClock(clock func() time.Time) SubmitterOption {
	return func(s *submitterSettings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Submitter sends create, update and delete calls, then refreshes the
// collection and closes dialogs on success.
type Submitter[E any] struct {
	cfg      SubmitterConfig[E]
	loader   *Loader[E]
	dialog   *Orchestrator[E]
	settings submitterSettings
	logger   interfaces.Logger
}

// NewSubmitter wires a submitter to the loader it refreshes and the
// orchestrator it reads and closes.
func NewSubmitter[E any](loader *Loader[E], dialog *Orchestrator[E], cfg SubmitterConfig[E], opts ...SubmitterOption) (*Submitter[E], error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if dialog == nil {
		return nil, ErrDialogRequired
	}
	if cfg.ID == nil {
		return nil, ErrIdentityRequired
	}
	if cfg.MethodField == "" {
		cfg.MethodField = MethodField
	}
	if cfg.FileField == "" {
		cfg.FileField = FileField
	}
	settings := submitterSettings{
		notifier: noopNotifier{},
		timeout:  commands.DefaultTimeout,
		messages: DefaultMessages(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	return &Submitter[E]{
		cfg:      cfg,
		loader:   loader,
		dialog:   dialog,
		settings: settings,
		logger: logging.WithFields(logging.EnsureLogger(settings.logger), map[string]any{
			"resource": cfg.Resource,
		}),
	}, nil
}

// ClientOnly lists the form fields never sent to the server.
func (s *Submitter[E]) ClientOnly() []string {
	fields := []string{s.cfg.MethodField, s.cfg.FileField}
	for _, field := range s.cfg.ClientOnly {
		if !slices.Contains(fields, field) {
			fields = append(fields, field)
		}
	}
	return fields
}

// SubmitCreate validates form and creates an entity, by upload when the
// method field is "file" and by reference otherwise.
func (s *Submitter[E]) SubmitCreate(ctx context.Context, form Form) Result {
	if s.cfg.Create == nil && s.cfg.Upload == nil {
		return s.unsupported(ActionCreate)
	}
	if result, ok := s.validate(ActionCreate, form); !ok {
		return result
	}

	payload := Strip(form, s.ClientOnly()...)
	msg := CreateCommand{Resource: s.cfg.Resource, Payload: payload}
	if form.String(s.cfg.MethodField) == UploadMethodFile {
		msg.Upload = form.Upload(s.cfg.FileField)
		if msg.Upload == nil {
			errs := FieldErrors{}
			errs.Add(s.cfg.FileField, s.settings.messages.FileRequired)
			s.dialog.SetErrors(errs)
			return Result{Outcome: OutcomeInvalid, Errors: errs}
		}
		if s.cfg.Upload == nil {
			return s.unsupported(ActionCreate)
		}
	} else if s.cfg.Create == nil {
		return s.unsupported(ActionCreate)
	}

	s.dialog.SetSubmitting(true)
	defer s.dialog.SetSubmitting(false)

	env, err := dispatch(ctx, s.dispatchSettings(), "datagrid.create", msg,
		func(ctx context.Context, msg CreateCommand) (*interfaces.Envelope, error) {
			if msg.Upload != nil {
				return s.cfg.Upload(ctx, msg.Payload, msg.Upload)
			}
			return s.cfg.Create(ctx, msg.Payload)
		})

	result := s.finish(ctx, ActionCreate, env, err, s.settings.messages.Created)
	if result.Outcome == OutcomeSuccess {
		s.dialog.Close()
		s.record(ctx, "create", idFromData(result.Data), payload)
	}
	return result
}

// SubmitEdit sends the fields of form that differ from the projection of
// original. An empty difference closes the dialog without a network call.
func (s *Submitter[E]) SubmitEdit(ctx context.Context, original E, form Form) Result {
	if s.cfg.Update == nil {
		return s.unsupported(ActionEdit)
	}
	if result, ok := s.validate(ActionEdit, form); !ok {
		return result
	}

	changes := Diff(s.dialog.Project(original), form, s.ClientOnly()...)
	id := s.cfg.ID(original)
	if len(changes) == 0 {
		logging.WithResourceContext(s.logger, s.cfg.Resource, string(ActionEdit), id).
			Debug("datagrid.update.noop")
		s.dialog.Close()
		return Result{Outcome: OutcomeNoop, Changes: changes}
	}

	s.dialog.SetSubmitting(true)
	defer s.dialog.SetSubmitting(false)

	msg := UpdateCommand{Resource: s.cfg.Resource, ID: id, Changes: changes}
	env, err := dispatch(ctx, s.dispatchSettings(), "datagrid.update", msg,
		func(ctx context.Context, msg UpdateCommand) (*interfaces.Envelope, error) {
			return s.cfg.Update(ctx, msg.ID, msg.Changes)
		})

	result := s.finish(ctx, ActionEdit, env, err, s.settings.messages.Updated)
	result.Changes = changes
	if result.Outcome == OutcomeSuccess {
		s.dialog.Close()
		s.record(ctx, "update", id, changes)
	}
	return result
}

// SubmitDelete removes the entity identified by id and clears the delete
// confirmation on success.
func (s *Submitter[E]) SubmitDelete(ctx context.Context, id string) Result {
	if s.cfg.Delete == nil {
		return s.unsupported(ActionDelete)
	}

	s.dialog.SetDeleting(true)
	defer s.dialog.SetDeleting(false)

	msg := DeleteCommand{Resource: s.cfg.Resource, ID: id}
	env, err := dispatch(ctx, s.dispatchSettings(), "datagrid.delete", msg,
		func(ctx context.Context, msg DeleteCommand) (*interfaces.Envelope, error) {
			return s.cfg.Delete(ctx, msg.ID)
		})

	result := s.finish(ctx, ActionDelete, env, err, s.settings.messages.Deleted)
	if result.Outcome == OutcomeSuccess {
		s.dialog.CancelDelete()
		if state := s.dialog.State(); state.Open && state.Selected != nil && s.cfg.ID(*state.Selected) == id {
			s.dialog.Close()
		}
		s.record(ctx, "delete", id, nil)
	}
	return result
}

func (s *Submitter[E]) validate(action Action, form Form) (Result, bool) {
	if s.cfg.Validate == nil {
		return Result{}, true
	}
	errs := s.cfg.Validate(action, form)
	if len(errs) == 0 {
		return Result{}, true
	}
	s.dialog.SetErrors(errs)
	return Result{Outcome: OutcomeInvalid, Errors: errs.clone()}, false
}

func (s *Submitter[E]) finish(ctx context.Context, action Action, env *interfaces.Envelope, err error, success string) Result {
	logger := logging.WithFields(s.logger, map[string]any{"action": string(action)})
	if err != nil {
		message := messageOf(err, s.settings.messages.Failed)
		logger.Warn("datagrid.mutation.failed", "error", err)
		s.settings.notifier.Error(message)
		return Result{Outcome: OutcomeFailed, Message: message}
	}
	if !env.OK() {
		message := firstNonEmpty(env.Status.Message, s.settings.messages.Rejected)
		logger.Warn("datagrid.mutation.rejected", "code", env.Status.Code, "message", message)
		s.settings.notifier.Error(message)
		return Result{Outcome: OutcomeRejected, Message: message, Data: env.Data}
	}

	message := firstNonEmpty(env.Status.Message, success)
	s.settings.notifier.Success(message)
	if reloadErr := s.loader.Reload(ctx); reloadErr != nil {
		logger.Warn("datagrid.mutation.reload_failed", "error", reloadErr)
	}
	logger.Info("datagrid.mutation.success")
	return Result{Outcome: OutcomeSuccess, Message: message, Data: env.Data}
}

func (s *Submitter[E]) unsupported(action Action) Result {
	message := fmt.Sprintf("%s: %s", ErrMutationUnsupported.Error(), action)
	s.settings.notifier.Error(message)
	return Result{Outcome: OutcomeFailed, Message: message}
}

func (s *Submitter[E]) record(ctx context.Context, verb, id string, fields Form) {
	if s.settings.sink == nil {
		return
	}
	data := map[string]any{}
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		data["fields"] = keys
	}
	record := interfaces.ActivityRecord{
		ActorID:    s.settings.actor,
		UserID:     s.settings.actor,
		Verb:       verb,
		ObjectType: s.cfg.Resource,
		ObjectID:   id,
		Channel:    activityChannel,
		OccurredAt: s.settings.clock(),
		Data:       data,
	}
	if err := s.settings.sink.Log(ctx, record); err != nil {
		s.logger.Warn("datagrid.activity.failed", "error", err, "verb", verb)
	}
}

func (s *Submitter[E]) dispatchSettings() dispatchSettings {
	return dispatchSettings{logger: s.logger, timeout: s.settings.timeout}
}

// idFromData extracts a top-level "id" from a JSON object payload.
func idFromData(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var payload struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil || payload.ID == nil {
		return ""
	}
	switch typed := payload.ID.(type) {
	case string:
		return typed
	case float64:
		return fmt.Sprintf("%.0f", typed)
	default:
		return fmt.Sprint(typed)
	}
}

func mergeMessages(base, override Messages) Messages {
	base.Created = firstNonEmpty(override.Created, base.Created)
	base.Updated = firstNonEmpty(override.Updated, base.Updated)
	base.Deleted = firstNonEmpty(override.Deleted, base.Deleted)
	base.Rejected = firstNonEmpty(override.Rejected, base.Rejected)
	base.Failed = firstNonEmpty(override.Failed, base.Failed)
	base.FileRequired = firstNonEmpty(override.FileRequired, base.FileRequired)
	return base
}
