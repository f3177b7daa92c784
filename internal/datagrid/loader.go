package datagrid

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultPageSize is used until a caller overrides it.
	DefaultPageSize = 10
	// DefaultSort is the sort field sent with every fetch.
	DefaultSort = "updatedAt"
	// DefaultDirection is the sort direction sent with every fetch.
	DefaultDirection = "desc"
	// DefaultLoadFailure is stored when a failed load carries no message.
	DefaultLoadFailure = "Failed to load data"

	textCodeLoadFailed = "DATAGRID_LOAD_FAILED"
)

// CollectionState is a snapshot of a loader's canonical collection.
type CollectionState[E any] struct {
	All           []E
	Filtered      []E
	Page          int
	PageSize      int
	TotalElements int
	TotalPages    int
	Loading       bool
	Error         string
}

// HasError reports whether the last load failed.
func (s CollectionState[E]) HasError() bool {
	return s.Error != ""
}

// PageEnvelope is the paginated collection shape.
type PageEnvelope[E any] struct {
	Content       []E `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	pageSize  int
	sort      string
	direction string
	fallback  string
	logger    interfaces.Logger
}

// WithPageSize sets the initial page size.
func WithPageSize(size int) LoaderOption {
	return func(cfg *loaderConfig) {
		if size > 0 {
			cfg.pageSize = size
		}
	}
}

// WithSort sets the sort field and direction sent with every fetch. An empty
// field omits both keys.
func WithSort(field, direction string) LoaderOption {
	return func(cfg *loaderConfig) {
		cfg.sort = strings.TrimSpace(field)
		cfg.direction = strings.TrimSpace(direction)
	}
}

// WithLoadFailureMessage overrides the message stored when a failed load
// carries none.
func WithLoadFailureMessage(message string) LoaderOption {
	return func(cfg *loaderConfig) {
		if strings.TrimSpace(message) != "" {
			cfg.fallback = message
		}
	}
}

// WithLoaderLogger sets the loader logger.
func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(cfg *loaderConfig) {
		cfg.logger = logger
	}
}

// LoadOption overrides pagination for a single load.
type LoadOption func(*loadRequest)

type loadRequest struct {
	page *int
	size *int
}

// WithPage requests a specific page.
func WithPage(page int) LoadOption {
	return func(req *loadRequest) {
		if page >= 0 {
			req.page = &page
		}
	}
}

// WithSize requests a specific page size.
func WithSize(size int) LoadOption {
	return func(req *loadRequest) {
		if size > 0 {
			req.size = &size
		}
	}
}

// Loader owns the canonical collection of one resource. It is the only
// writer of All.
type Loader[E any] struct {
	fetch  FetchFunc
	cfg    loaderConfig
	logger interfaces.Logger

	mu       sync.RWMutex
	state    CollectionState[E]
	params   QueryParams
	issued   uint64
	applied  uint64
	inflight int

	mounted atomic.Bool
}

// NewLoader builds a loader over fetch.
func NewLoader[E any](fetch FetchFunc, opts ...LoaderOption) (*Loader[E], error) {
	if fetch == nil {
		return nil, ErrFetchRequired
	}
	cfg := loaderConfig{
		pageSize:  DefaultPageSize,
		sort:      DefaultSort,
		direction: DefaultDirection,
		fallback:  DefaultLoadFailure,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Loader[E]{
		fetch:  fetch,
		cfg:    cfg,
		logger: logging.EnsureLogger(cfg.logger),
		state: CollectionState[E]{
			All:      []E{},
			Filtered: []E{},
			PageSize: cfg.pageSize,
		},
	}, nil
}

// Mount performs the automatic first load. Subsequent calls are no-ops.
func (l *Loader[E]) Mount(ctx context.Context) error {
	if !l.mounted.CompareAndSwap(false, true) {
		return nil
	}
	return l.Load(ctx, nil)
}

// Mounted reports whether Mount has run.
func (l *Loader[E]) Mounted() bool {
	return l.mounted.Load()
}

// Load fetches one page using params plus pagination and sort keys. Page and
// size default to the last-used values. On failure the error message is
// stored in the state and the error is returned.
func (l *Loader[E]) Load(ctx context.Context, params QueryParams, opts ...LoadOption) error {
	req := loadRequest{}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}

	l.mu.Lock()
	page, size := l.state.Page, l.state.PageSize
	if req.page != nil {
		page = *req.page
	}
	if req.size != nil {
		size = *req.size
	}
	l.params = maps.Clone(params)
	l.issued++
	seq := l.issued
	l.inflight++
	l.state.Loading = true
	l.state.Error = ""
	l.mu.Unlock()

	query := l.buildQuery(params, page, size)
	logger := logging.WithFields(l.logger, map[string]any{"page": page, "size": size})
	logger.Debug("datagrid.load.start")

	env, err := l.fetch(ctx, query)
	if err == nil && env == nil {
		err = ErrEmptyResponse
	}

	var loadErr *LoadError
	var items []E
	var envelope *PageEnvelope[E]
	switch {
	case err != nil:
		loadErr = &LoadError{Message: messageOf(err, l.cfg.fallback), Cause: err}
	case !env.OK():
		loadErr = &LoadError{Code: env.Status.Code, Message: firstNonEmpty(env.Status.Message, l.cfg.fallback)}
	default:
		items, envelope, err = decodeCollection[E](env.Data)
		if err != nil {
			loadErr = &LoadError{Code: env.Status.Code, Message: l.cfg.fallback, Cause: err}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	l.state.Loading = l.inflight > 0

	if seq < l.applied {
		logger.Debug("datagrid.load.stale", "sequence", seq, "applied", l.applied)
		return nil
	}
	l.applied = seq

	if loadErr != nil {
		l.state.Error = loadErr.Message
		logger.Warn("datagrid.load.failed", "error", loadErr.Message, "code", loadErr.Code)
		return goerrors.Wrap(loadErr, goerrors.CategoryExternal, loadErr.Message).
			WithTextCode(textCodeLoadFailed)
	}

	l.state.All = items
	l.state.Filtered = append([]E(nil), items...)
	if envelope != nil {
		l.state.Page = envelope.Page
		l.state.PageSize = firstPositive(envelope.Size, size)
		l.state.TotalElements = envelope.TotalElements
		l.state.TotalPages = envelope.TotalPages
	} else {
		l.state.Page = page
		l.state.PageSize = size
		l.state.TotalElements = len(items)
		l.state.TotalPages = 0
		if len(items) > 0 {
			l.state.TotalPages = 1
		}
	}
	logger.Debug("datagrid.load.success", "count", len(items), "total", l.state.TotalElements)
	return nil
}

// Reload repeats the last load with the same parameters and pagination.
func (l *Loader[E]) Reload(ctx context.Context) error {
	l.mu.RLock()
	params := maps.Clone(l.params)
	l.mu.RUnlock()
	return l.Load(ctx, params)
}

// NextPage loads the following page when one exists.
func (l *Loader[E]) NextPage(ctx context.Context) error {
	l.mu.RLock()
	page, pages, params := l.state.Page, l.state.TotalPages, maps.Clone(l.params)
	l.mu.RUnlock()
	if pages > 0 && page+1 >= pages {
		return nil
	}
	return l.Load(ctx, params, WithPage(page+1))
}

// PrevPage loads the preceding page when one exists.
func (l *Loader[E]) PrevPage(ctx context.Context) error {
	l.mu.RLock()
	page, params := l.state.Page, maps.Clone(l.params)
	l.mu.RUnlock()
	if page <= 0 {
		return nil
	}
	return l.Load(ctx, params, WithPage(page-1))
}

// State returns a snapshot of the collection.
func (l *Loader[E]) State() CollectionState[E] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := l.state
	snapshot.All = append([]E(nil), l.state.All...)
	snapshot.Filtered = append([]E(nil), l.state.Filtered...)
	return snapshot
}

// Params returns the query parameters of the last load.
func (l *Loader[E]) Params() QueryParams {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.params)
}

func (l *Loader[E]) all() []E {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]E(nil), l.state.All...)
}

func (l *Loader[E]) setFiltered(items []E) {
	l.mu.Lock()
	l.state.Filtered = items
	l.mu.Unlock()
}

func (l *Loader[E]) buildQuery(params QueryParams, page, size int) QueryParams {
	query := QueryParams{
		"page": page,
		"size": size,
	}
	if l.cfg.sort != "" {
		query["sort"] = l.cfg.sort
		if l.cfg.direction != "" {
			query["direction"] = l.cfg.direction
		}
	}
	maps.Copy(query, params)
	return query
}

func decodeCollection[E any](raw json.RawMessage) ([]E, *PageEnvelope[E], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []E{}, nil, nil
	}
	switch trimmed[0] {
	case '[':
		var items []E
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, err
		}
		return items, nil, nil
	case '{':
		var envelope PageEnvelope[E]
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, nil, err
		}
		if envelope.Content == nil {
			envelope.Content = []E{}
		}
		return envelope.Content, &envelope, nil
	default:
		return nil, nil, ErrUnexpectedPayload
	}
}

func messageOf(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if message := strings.TrimSpace(err.Error()); message != "" {
		return message
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
