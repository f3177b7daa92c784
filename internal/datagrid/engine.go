package datagrid

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

// Config describes one entity type to the engine.
type Config[E any] struct {
	// Resource names the entity in logs, commands and activity records.
	Resource string
	ID       func(E) string

	Fetch  FetchFunc
	Create CreateFunc
	Upload UploadFunc
	Update UpdateFunc
	Delete DeleteFunc

	// Project maps an entity to its form; Defaults returns the create form.
	Project  func(E) Form
	Defaults func() Form

	Fields       []FilterField[E]
	Predicates   []Predicate[E]
	InitialDraft SearchDraft

	Validate   Validator
	ClientOnly []string
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger    interfaces.Logger
	loader    []LoaderOption
	submitter []SubmitterOption
	delay     time.Duration
	scheduler Scheduler
}

// WithLogger sets the logger shared by all engine units.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithLoaderOptions forwards options to the loader.
func WithLoaderOptions(opts ...LoaderOption) Option {
	return func(o *engineOptions) {
		o.loader = append(o.loader, opts...)
	}
}

// WithSubmitterOptions forwards options to the submitter.
func WithSubmitterOptions(opts ...SubmitterOption) Option {
	return func(o *engineOptions) {
		o.submitter = append(o.submitter, opts...)
	}
}

// WithEngineNotifier sets the mutation notifier.
func WithEngineNotifier(notifier Notifier) Option {
	return WithSubmitterOptions(WithNotifier(notifier))
}

// WithEngineActivity records successful mutations on sink as actor.
func WithEngineActivity(sink interfaces.ActivitySink, actor uuid.UUID) Option {
	return WithSubmitterOptions(WithActivitySink(sink, actor))
}

// WithEditHandoff sets the view-to-edit delay and, optionally, the scheduler
// running it.
func WithEditHandoff(delay time.Duration, scheduler Scheduler) Option {
	return func(o *engineOptions) {
		o.delay = delay
		o.scheduler = scheduler
	}
}

// Engine bundles the four units for one entity type.
type Engine[E any] struct {
	Loader    *Loader[E]
	Filters   *FilterEngine[E]
	Dialog    *Orchestrator[E]
	Mutations *Submitter[E]

	resource string
	id       func(E) string
	logger   interfaces.Logger
}

// NewEngine validates cfg and wires the loader, filter engine, orchestrator
// and submitter together.
func NewEngine[E any](cfg Config[E], opts ...Option) (*Engine[E], error) {
	if cfg.Fetch == nil {
		return nil, ErrFetchRequired
	}
	if cfg.Project == nil {
		return nil, ErrProjectorRequired
	}
	if cfg.ID == nil {
		return nil, ErrIdentityRequired
	}

	options := engineOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	logger := logging.WithFields(logging.EnsureLogger(options.logger), map[string]any{
		"resource": cfg.Resource,
	})

	loaderOpts := append([]LoaderOption{WithLoaderLogger(logger)}, options.loader...)
	loader, err := NewLoader[E](cfg.Fetch, loaderOpts...)
	if err != nil {
		return nil, err
	}

	filterOpts := []FilterOption[E]{WithInitialDraft[E](cfg.InitialDraft)}
	for _, predicate := range cfg.Predicates {
		filterOpts = append(filterOpts, WithPredicate(predicate))
	}
	filters := NewFilterEngine(loader, cfg.Fields, filterOpts...)

	dialog, err := NewOrchestrator(cfg.Project, cfg.Defaults,
		WithHandoffDelay[E](options.delay),
		WithScheduler[E](options.scheduler),
	)
	if err != nil {
		return nil, err
	}

	submitterOpts := append([]SubmitterOption{WithSubmitterLogger(logger)}, options.submitter...)
	mutations, err := NewSubmitter(loader, dialog, SubmitterConfig[E]{
		Resource:   cfg.Resource,
		ID:         cfg.ID,
		Create:     cfg.Create,
		Upload:     cfg.Upload,
		Update:     cfg.Update,
		Delete:     cfg.Delete,
		Validate:   cfg.Validate,
		ClientOnly: cfg.ClientOnly,
	}, submitterOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine[E]{
		Loader:    loader,
		Filters:   filters,
		Dialog:    dialog,
		Mutations: mutations,
		resource:  cfg.Resource,
		id:        cfg.ID,
		logger:    logger,
	}, nil
}

// Resource returns the configured resource name.
func (e *Engine[E]) Resource() string {
	return e.resource
}

// ID returns the identifier of entity.
func (e *Engine[E]) ID(entity E) string {
	return e.id(entity)
}

// ReadOnly reports whether the resource exposes no mutations.
func (e *Engine[E]) ReadOnly() bool {
	cfg := e.Mutations.cfg
	return cfg.Create == nil && cfg.Upload == nil && cfg.Update == nil && cfg.Delete == nil
}

// Mount runs the one-shot initial load.
func (e *Engine[E]) Mount(ctx context.Context) error {
	return e.Loader.Mount(ctx)
}

// State returns the current collection snapshot.
func (e *Engine[E]) State() CollectionState[E] {
	return e.Loader.State()
}

// Submit sends the open dialog's form: a create when creating, a diffed
// update when editing. Viewing has nothing to submit.
func (e *Engine[E]) Submit(ctx context.Context) Result {
	state := e.Dialog.State()
	switch state.Action {
	case ActionCreate:
		return e.Mutations.SubmitCreate(ctx, state.Form)
	case ActionEdit:
		if state.Selected == nil {
			return Result{Outcome: OutcomeFailed, Message: ErrNothingSelected.Error()}
		}
		return e.Mutations.SubmitEdit(ctx, *state.Selected, state.Form)
	default:
		return Result{Outcome: OutcomeNoop}
	}
}

// ConfirmDelete deletes the entity awaiting delete confirmation.
func (e *Engine[E]) ConfirmDelete(ctx context.Context) Result {
	state := e.Dialog.State()
	if state.DeleteTarget == nil {
		return Result{Outcome: OutcomeFailed, Message: ErrNothingSelected.Error()}
	}
	return e.Mutations.SubmitDelete(ctx, e.id(*state.DeleteTarget))
}
