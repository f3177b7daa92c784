package datagrid

import (
	"sync"
	"time"
)

// Scheduler runs fn after delay. The default uses time.AfterFunc and runs fn
// inline when delay is zero.
type Scheduler func(delay time.Duration, fn func())

func defaultScheduler(delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	time.AfterFunc(delay, fn)
}

// DialogState is a snapshot of the main dialog and the delete confirmation.
type DialogState[E any] struct {
	Open       bool
	Action     Action
	Selected   *E
	Form       Form
	Errors     FieldErrors
	Submitting bool

	DeleteOpen   bool
	DeleteTarget *E
	Deleting     bool
}

// DialogOption configures an Orchestrator.
type DialogOption[E any] func(*Orchestrator[E])

// WithHandoffDelay sets the pause between closing the view dialog and
// opening the edit dialog in RequestEdit.
func WithHandoffDelay[E any](delay time.Duration) DialogOption[E] {
	return func(o *Orchestrator[E]) {
		if delay >= 0 {
			o.delay = delay
		}
	}
}

// WithScheduler replaces the timer used for deferred transitions.
func WithScheduler[E any](scheduler Scheduler) DialogOption[E] {
	return func(o *Orchestrator[E]) {
		if scheduler != nil {
			o.schedule = scheduler
		}
	}
}

// Orchestrator tracks the selected entity, the active dialog action, the
// form draft and its field errors.
type Orchestrator[E any] struct {
	project  func(E) Form
	defaults func() Form
	delay    time.Duration
	schedule Scheduler

	mu    sync.RWMutex
	state DialogState[E]
	// generation changes on every main dialog transition so a deferred
	// handoff can detect that the user moved on.
	generation uint64
}

// NewOrchestrator builds an orchestrator. project maps an entity to its form
// and defaults returns the empty create form; a nil defaults yields an empty
// form.
func NewOrchestrator[E any](project func(E) Form, defaults func() Form, opts ...DialogOption[E]) (*Orchestrator[E], error) {
	if project == nil {
		return nil, ErrProjectorRequired
	}
	if defaults == nil {
		defaults = func() Form { return Form{} }
	}
	o := &Orchestrator[E]{
		project:  project,
		defaults: defaults,
		schedule: defaultScheduler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.state.Form = o.defaults().Clone()
	o.state.Errors = FieldErrors{}
	return o, nil
}

// OpenView shows entity read-only.
func (o *Orchestrator[E]) OpenView(entity E) {
	o.open(ActionView, &entity)
}

// OpenEdit opens the edit form for entity.
func (o *Orchestrator[E]) OpenEdit(entity E) {
	o.open(ActionEdit, &entity)
}

// OpenCreate opens an empty create form.
func (o *Orchestrator[E]) OpenCreate() {
	o.open(ActionCreate, nil)
}

// Close hides the main dialog and resets the form, errors and selection.
func (o *Orchestrator[E]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.state.Open = false
	o.state.Action = ActionNone
	o.state.Selected = nil
	o.state.Form = o.defaults().Clone()
	o.state.Errors = FieldErrors{}
	o.state.Submitting = false
}

// RequestEdit closes the current dialog and opens the edit form for entity
// once the handoff delay has passed. The edit is dropped if another
// transition happens in between.
func (o *Orchestrator[E]) RequestEdit(entity E) {
	o.Close()
	o.mu.RLock()
	generation := o.generation
	o.mu.RUnlock()

	o.schedule(o.delay, func() {
		o.mu.RLock()
		current := o.generation
		o.mu.RUnlock()
		if current != generation {
			return
		}
		o.OpenEdit(entity)
	})
}

// SetField updates one form value and clears that field's errors.
func (o *Orchestrator[E]) SetField(name string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Form[name] = value
	delete(o.state.Errors, name)
}

// SetErrors replaces the field errors.
func (o *Orchestrator[E]) SetErrors(errs FieldErrors) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if errs == nil {
		o.state.Errors = FieldErrors{}
		return
	}
	o.state.Errors = errs.clone()
}

// SetSubmitting toggles the main dialog's in-flight flag.
func (o *Orchestrator[E]) SetSubmitting(submitting bool) {
	o.mu.Lock()
	o.state.Submitting = submitting
	o.mu.Unlock()
}

// ConfirmDelete opens the delete confirmation for entity. The main dialog
// is left untouched.
func (o *Orchestrator[E]) ConfirmDelete(entity E) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.DeleteOpen = true
	o.state.DeleteTarget = &entity
	o.state.Deleting = false
}

// CancelDelete closes the delete confirmation and clears its target.
func (o *Orchestrator[E]) CancelDelete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.DeleteOpen = false
	o.state.DeleteTarget = nil
	o.state.Deleting = false
}

// SetDeleting toggles the delete confirmation's in-flight flag.
func (o *Orchestrator[E]) SetDeleting(deleting bool) {
	o.mu.Lock()
	o.state.Deleting = deleting
	o.mu.Unlock()
}

// State returns a snapshot of the dialog state.
func (o *Orchestrator[E]) State() DialogState[E] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	snapshot := o.state
	snapshot.Form = o.state.Form.Clone()
	snapshot.Errors = o.state.Errors.clone()
	if o.state.Selected != nil {
		selected := *o.state.Selected
		snapshot.Selected = &selected
	}
	if o.state.DeleteTarget != nil {
		target := *o.state.DeleteTarget
		snapshot.DeleteTarget = &target
	}
	return snapshot
}

// Form returns a copy of the form draft.
func (o *Orchestrator[E]) Form() Form {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.Form.Clone()
}

// Project maps entity through the form projector.
func (o *Orchestrator[E]) Project(entity E) Form {
	return o.project(entity).Clone()
}

func (o *Orchestrator[E]) open(action Action, entity *E) {
	var form Form
	if entity != nil {
		form = o.project(*entity).Clone()
	} else {
		form = o.defaults().Clone()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.state.Open = true
	o.state.Action = action
	o.state.Selected = entity
	o.state.Form = form
	o.state.Errors = FieldErrors{}
	o.state.Submitting = false
}
