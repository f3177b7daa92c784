package datagrid

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
)

// SearchDraft is the search form: field name to raw input value.
type SearchDraft map[string]string

// Clone returns a copy of the draft.
func (d SearchDraft) Clone() SearchDraft {
	if d == nil {
		return SearchDraft{}
	}
	return maps.Clone(d)
}

// FieldKind selects the comparison used for a filter field.
type FieldKind int

const (
	// FieldText matches a case-insensitive substring.
	FieldText FieldKind = iota
	// FieldExact matches a case-insensitive equal value.
	FieldExact
	// FieldTriState matches a boolean encoded as "", "true" or "false".
	FieldTriState
)

// FilterField declares one searchable field. Value extracts the comparable
// value from an entity; string slices match when any element matches.
type FilterField[E any] struct {
	Name  string
	Kind  FieldKind
	Value func(E) any
}

// Predicate is an additional entity-specific rule. It must return true when
// the draft fields it handles are empty.
type Predicate[E any] func(item E, draft SearchDraft) bool

// FilterOption configures a FilterEngine.
type FilterOption[E any] func(*FilterEngine[E])

// WithPredicate adds an extra AND-ed predicate.
func WithPredicate[E any](predicate Predicate[E]) FilterOption[E] {
	return func(f *FilterEngine[E]) {
		if predicate != nil {
			f.predicates = append(f.predicates, predicate)
		}
	}
}

// WithInitialDraft sets the values Clear restores.
func WithInitialDraft[E any](draft SearchDraft) FilterOption[E] {
	return func(f *FilterEngine[E]) {
		f.initial = draft.Clone()
	}
}

// FilterEngine derives the filtered view over a loader's collection.
type FilterEngine[E any] struct {
	loader     *Loader[E]
	fields     []FilterField[E]
	kinds      map[string]FieldKind
	predicates []Predicate[E]
	initial    SearchDraft

	mu    sync.RWMutex
	draft SearchDraft
}

// NewFilterEngine builds a filter engine reading from loader.
func NewFilterEngine[E any](loader *Loader[E], fields []FilterField[E], opts ...FilterOption[E]) *FilterEngine[E] {
	f := &FilterEngine[E]{
		loader:  loader,
		fields:  append([]FilterField[E](nil), fields...),
		kinds:   make(map[string]FieldKind, len(fields)),
		initial: SearchDraft{},
	}
	for _, field := range fields {
		f.kinds[field.Name] = field.Kind
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.draft = f.blank()
	return f
}

// Fields returns the declared filter fields.
func (f *FilterEngine[E]) Fields() []FilterField[E] {
	return append([]FilterField[E](nil), f.fields...)
}

// Set updates one draft field.
func (f *FilterEngine[E]) Set(name, value string) {
	f.mu.Lock()
	f.draft[name] = value
	f.mu.Unlock()
}

// Draft returns a copy of the current draft.
func (f *FilterEngine[E]) Draft() SearchDraft {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.draft.Clone()
}

// Filter returns the entities of items matching every non-empty draft field.
// It does not touch any state.
func (f *FilterEngine[E]) Filter(draft SearchDraft, items []E) []E {
	out := make([]E, 0, len(items))
	for _, item := range items {
		if f.matches(item, draft) {
			out = append(out, item)
		}
	}
	return out
}

// Apply filters the loader's collection with the current draft and stores
// the result as the filtered view.
func (f *FilterEngine[E]) Apply() []E {
	return f.ApplyDraft(f.Draft())
}

// ApplyDraft filters the loader's collection with draft and stores the result
// as the filtered view.
func (f *FilterEngine[E]) ApplyDraft(draft SearchDraft) []E {
	filtered := f.Filter(draft, f.loader.all())
	f.loader.setFiltered(filtered)
	return append([]E(nil), filtered...)
}

// Clear resets the draft and restores the filtered view to the whole
// collection.
func (f *FilterEngine[E]) Clear() SearchDraft {
	f.mu.Lock()
	f.draft = f.blank()
	draft := f.draft.Clone()
	f.mu.Unlock()
	f.ApplyDraft(draft)
	return draft
}

// ToQueryParams converts draft to server-side filter parameters: values are
// trimmed, empty values dropped and tri-state fields mapped to booleans.
func (f *FilterEngine[E]) ToQueryParams(draft SearchDraft) QueryParams {
	params := QueryParams{}
	for name, raw := range draft {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if kind, ok := f.kinds[name]; ok && kind == FieldTriState {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				continue
			}
			params[name] = parsed
			continue
		}
		params[name] = value
	}
	return params
}

// ApplyRemote reloads the first page with the current draft as query
// parameters.
func (f *FilterEngine[E]) ApplyRemote(ctx context.Context) error {
	return f.loader.Load(ctx, f.ToQueryParams(f.Draft()), WithPage(0))
}

func (f *FilterEngine[E]) blank() SearchDraft {
	draft := make(SearchDraft, len(f.fields))
	for _, field := range f.fields {
		draft[field.Name] = ""
	}
	maps.Copy(draft, f.initial)
	return draft
}

func (f *FilterEngine[E]) matches(item E, draft SearchDraft) bool {
	for _, field := range f.fields {
		needle := strings.TrimSpace(draft[field.Name])
		if needle == "" || field.Value == nil {
			continue
		}
		if !matchField(field.Kind, field.Value(item), needle) {
			return false
		}
	}
	for _, predicate := range f.predicates {
		if !predicate(item, draft) {
			return false
		}
	}
	return true
}

func matchField(kind FieldKind, value any, needle string) bool {
	switch kind {
	case FieldTriState:
		want, err := strconv.ParseBool(needle)
		if err != nil {
			return true
		}
		got, ok := boolValue(value)
		return ok && got == want
	case FieldExact:
		return anyString(value, func(candidate string) bool {
			return strings.EqualFold(strings.TrimSpace(candidate), needle)
		})
	default:
		lowered := strings.ToLower(needle)
		return anyString(value, func(candidate string) bool {
			return strings.Contains(strings.ToLower(candidate), lowered)
		})
	}
}

func anyString(value any, match func(string) bool) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return match(typed)
	case []string:
		for _, candidate := range typed {
			if match(candidate) {
				return true
			}
		}
		return false
	case *string:
		return typed != nil && match(*typed)
	default:
		return match(fmt.Sprint(typed))
	}
}

func boolValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case *bool:
		if typed == nil {
			return false, false
		}
		return *typed, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return parsed, err == nil
	}
	return false, false
}
