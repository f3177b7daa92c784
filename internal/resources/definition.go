package resources

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Resource names as they appear in API routes.
const (
	ResourceFiles             = "files"
	ResourceImages            = "images"
	ResourceVideos            = "videos"
	ResourceVocabulary        = "vocabulary"
	ResourceFreeTextQuestions = "free-text-questions"
	ResourceTrueFalseQuestion = "true-false-questions"
	ResourceAudit             = "audit"
)

// Names lists every resource in display order.
func Names() []string {
	return []string{
		ResourceFiles,
		ResourceImages,
		ResourceVideos,
		ResourceVocabulary,
		ResourceFreeTextQuestions,
		ResourceTrueFalseQuestion,
		ResourceAudit,
	}
}

// Known reports whether name is a resource this package can build.
func Known(name string) bool {
	return slices.Contains(Names(), name)
}

func acceptsUploads(resource string) bool {
	switch resource {
	case ResourceFiles, ResourceImages, ResourceVideos:
		return true
	}
	return false
}

// Deps are the collaborators every entity engine is built from.
type Deps struct {
	Transport interfaces.Transport
	Routes    *Routes
	// Vocabulary is optional; without it any language and tag is accepted.
	Vocabulary Vocabulary
	// Language is the default language of create forms.
	Language string
	// StrictTags rejects tags missing from the vocabulary. By default the
	// vocabulary only suggests tags.
	StrictTags bool
}

func (d Deps) choices(ctx context.Context) Choices {
	choices := LoadChoices(ctx, d.Vocabulary, d.Language)
	choices.StrictTags = d.StrictTags
	return choices
}

// Column describes one table column of an entity listing.
type Column[E any] struct {
	Title string
	Width int
	Value func(E) string
}

type definition[E any] struct {
	resource   string
	id         func(E) string
	project    func(E) datagrid.Form
	defaults   func() datagrid.Form
	fields     []datagrid.FilterField[E]
	predicates []datagrid.Predicate[E]
	rules      func(datagrid.Action, datagrid.Form) ruleSet
	clientOnly []string
	readOnly   bool
}

func build[E any](deps Deps, def definition[E], opts ...datagrid.Option) (*datagrid.Engine[E], error) {
	svc, err := NewService[E](def.resource, deps.Transport, deps.Routes)
	if err != nil {
		return nil, err
	}
	cfg := datagrid.Config[E]{
		Resource:   def.resource,
		ID:         def.id,
		Fetch:      svc.List,
		Project:    def.project,
		Defaults:   def.defaults,
		Fields:     def.fields,
		Predicates: def.predicates,
		ClientOnly: def.clientOnly,
	}
	if !def.readOnly {
		cfg.Create = svc.Create
		cfg.Update = svc.Update
		cfg.Delete = svc.Delete
		if acceptsUploads(def.resource) {
			cfg.Upload = svc.Upload
		}
	}
	if def.rules != nil {
		cfg.Validate = validator(def.rules)
	}
	return datagrid.NewEngine(cfg, opts...)
}

// tagsPredicate keeps entities carrying every tag listed in the draft's
// comma separated "tags" value.
func tagsPredicate[E any](tags func(E) []string) datagrid.Predicate[E] {
	return func(item E, draft datagrid.SearchDraft) bool {
		wanted := SplitTags(draft["tags"])
		if len(wanted) == 0 {
			return true
		}
		have := tags(item)
		for _, tag := range wanted {
			if !slices.ContainsFunc(have, func(candidate string) bool {
				return strings.EqualFold(candidate, tag)
			}) {
				return false
			}
		}
		return true
	}
}

func langField[E any](lang func(E) string) datagrid.FilterField[E] {
	return datagrid.FilterField[E]{Name: "lang", Kind: datagrid.FieldExact, Value: func(e E) any { return lang(e) }}
}

func activeField[E any](active func(E) bool) datagrid.FilterField[E] {
	return datagrid.FilterField[E]{Name: "isActive", Kind: datagrid.FieldTriState, Value: func(e E) any { return active(e) }}
}

func textField[E any](name string, value func(E) string) datagrid.FilterField[E] {
	return datagrid.FilterField[E]{Name: name, Kind: datagrid.FieldText, Value: func(e E) any { return value(e) }}
}

func activeLabel(active bool) string {
	if active {
		return "yes"
	}
	return "no"
}
