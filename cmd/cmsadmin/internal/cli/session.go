package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/console"
	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

var (
	ErrUnknownResource  = errors.New("cmsadmin: unknown resource")
	ErrReadOnly         = errors.New("cmsadmin: resource is read-only")
	ErrNotFound         = errors.New("cmsadmin: entity not found")
	ErrInvalidPair      = errors.New("cmsadmin: expected key=value")
	ErrValidationFailed = errors.New("cmsadmin: validation failed")
)

// maxLookupPages bounds the page walk used to find an entity by id.
const maxLookupPages = 50

type listRequest struct {
	page    int
	size    int
	filters map[string]string
	remote  bool
}

type listing struct {
	headers    []string
	rows       [][]string
	items      any
	page       int
	totalPages int
	total      int
}

// session runs CLI operations against one resource's engine.
type session interface {
	list(ctx context.Context, req listRequest) (listing, error)
	create(ctx context.Context, values map[string]string, file string) (datagrid.Result, error)
	update(ctx context.Context, id string, values map[string]string) (datagrid.Result, error)
	remove(ctx context.Context, id string) (datagrid.Result, error)
	interactive(ctx context.Context, remote bool) error
}

type engineSession[E any] struct {
	engine  *datagrid.Engine[E]
	columns []resources.Column[E]
	env     sessionEnv
}

// sessionEnv carries the module settings every session shares.
type sessionEnv struct {
	logger  interfaces.Logger
	handoff time.Duration
}

func newSession[E any](engine *datagrid.Engine[E], columns []resources.Column[E], env sessionEnv, err error) (session, error) {
	if err != nil {
		return nil, err
	}
	return &engineSession[E]{engine: engine, columns: columns, env: env}, nil
}

func openSession(ctx context.Context, module *cmsadmin.Module, resource string) (session, error) {
	container := module.Container()
	env := sessionEnv{
		logger:  logging.ConsoleLogger(container.LoggerProvider()),
		handoff: container.Config.Console.HandoffDelay,
	}
	switch strings.ToLower(strings.TrimSpace(resource)) {
	case resources.ResourceFiles:
		engine, err := module.Files(ctx)
		return newSession(engine, resources.FileColumns(), env, err)
	case resources.ResourceImages:
		engine, err := module.Images(ctx)
		return newSession(engine, resources.ImageColumns(), env, err)
	case resources.ResourceVideos:
		engine, err := module.Videos(ctx)
		return newSession(engine, resources.VideoColumns(), env, err)
	case resources.ResourceVocabulary:
		engine, err := module.Vocabulary(ctx)
		return newSession(engine, resources.VocabularyColumns(), env, err)
	case resources.ResourceFreeTextQuestions:
		engine, err := module.FreeTextQuestions(ctx)
		return newSession(engine, resources.FreeTextQuestionColumns(), env, err)
	case resources.ResourceTrueFalseQuestion:
		engine, err := module.TrueFalseQuestions(ctx)
		return newSession(engine, resources.TrueFalseQuestionColumns(), env, err)
	case resources.ResourceAudit:
		engine, err := module.Audit(ctx)
		return newSession(engine, resources.AuditColumns(), env, err)
	default:
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownResource, resource, strings.Join(resources.Names(), ", "))
	}
}

func (s *engineSession[E]) list(ctx context.Context, req listRequest) (listing, error) {
	var opts []datagrid.LoadOption
	opts = append(opts, datagrid.WithPage(req.page))
	if req.size > 0 {
		opts = append(opts, datagrid.WithSize(req.size))
	}

	filters := s.engine.Filters
	for key, value := range req.filters {
		filters.Set(key, value)
	}

	var params datagrid.QueryParams
	if req.remote {
		params = filters.ToQueryParams(filters.Draft())
	}
	if err := s.engine.Loader.Load(ctx, params, opts...); err != nil {
		return listing{}, err
	}
	if !req.remote && len(req.filters) > 0 {
		filters.Apply()
	}

	state := s.engine.State()
	out := listing{
		items:      state.Filtered,
		page:       state.Page,
		totalPages: state.TotalPages,
		total:      state.TotalElements,
	}
	for _, column := range s.columns {
		out.headers = append(out.headers, column.Title)
	}
	for _, item := range state.Filtered {
		row := make([]string, len(s.columns))
		for i, column := range s.columns {
			row[i] = column.Value(item)
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

func (s *engineSession[E]) create(ctx context.Context, values map[string]string, file string) (datagrid.Result, error) {
	if s.engine.ReadOnly() {
		return datagrid.Result{}, ErrReadOnly
	}

	s.engine.Dialog.OpenCreate()
	form := s.engine.Dialog.Form()
	for key, value := range values {
		form[key] = form.Coerce(key, value)
	}
	if file != "" {
		handle, err := os.Open(file)
		if err != nil {
			return datagrid.Result{}, err
		}
		defer handle.Close()
		form[datagrid.MethodField] = datagrid.UploadMethodFile
		form[datagrid.FileField] = &interfaces.Upload{
			Field:    datagrid.FileField,
			FileName: filepath.Base(file),
			Reader:   handle,
		}
	}
	return s.engine.Mutations.SubmitCreate(ctx, form), nil
}

func (s *engineSession[E]) update(ctx context.Context, id string, values map[string]string) (datagrid.Result, error) {
	if s.engine.ReadOnly() {
		return datagrid.Result{}, ErrReadOnly
	}
	entity, err := s.find(ctx, id)
	if err != nil {
		return datagrid.Result{}, err
	}

	s.engine.Dialog.OpenEdit(entity)
	form := s.engine.Dialog.Form()
	for key, value := range values {
		form[key] = form.Coerce(key, value)
	}
	return s.engine.Mutations.SubmitEdit(ctx, entity, form), nil
}

func (s *engineSession[E]) remove(ctx context.Context, id string) (datagrid.Result, error) {
	if s.engine.ReadOnly() {
		return datagrid.Result{}, ErrReadOnly
	}
	entity, err := s.find(ctx, id)
	if err != nil {
		return datagrid.Result{}, err
	}
	s.engine.Dialog.ConfirmDelete(entity)
	return s.engine.ConfirmDelete(ctx), nil
}

func (s *engineSession[E]) interactive(ctx context.Context, remote bool) error {
	return console.Run(ctx, s.model(ctx, remote))
}

func (s *engineSession[E]) model(ctx context.Context, remote bool) console.Model[E] {
	return console.New(s.engine, s.columns,
		console.WithContext(ctx),
		console.WithLogger(s.env.logger),
		console.WithRemoteSearch(remote),
		console.WithHandoffDelay(s.env.handoff),
	)
}

// find walks the collection page by page until id turns up.
func (s *engineSession[E]) find(ctx context.Context, id string) (E, error) {
	var zero E
	for page := 0; page < maxLookupPages; page++ {
		if err := s.engine.Loader.Load(ctx, nil, datagrid.WithPage(page)); err != nil {
			return zero, err
		}
		state := s.engine.State()
		for _, item := range state.All {
			if s.engine.ID(item) == id {
				return item, nil
			}
		}
		if len(state.All) == 0 || page+1 >= state.TotalPages {
			break
		}
	}
	return zero, fmt.Errorf("%w: %s/%s", ErrNotFound, s.engine.Resource(), id)
}

// parsePairs splits repeated k=v flags.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPair, pair)
		}
		out[key] = value
	}
	return out, nil
}
