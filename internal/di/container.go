package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/internal/identity"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/logging/gologger"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/goliatone/go-cms-admin/internal/settings"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/goliatone/go-cms-admin/pkg/activity"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Container wires the console collaborators from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	transport interfaces.Transport
	routes    *resources.Routes

	store    settings.Store
	settings *settings.Provider
	bunDB    *bun.DB
	ownsDB   bool
	unwatch  context.CancelFunc

	activity interfaces.ActivitySink
	actor    uuid.UUID
	notifier datagrid.Notifier
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the go-logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithTransport overrides the REST client.
func WithTransport(t interfaces.Transport) Option {
	return func(c *Container) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithSettingsStore overrides the settings store selected by config.
func WithSettingsStore(store settings.Store) Option {
	return func(c *Container) {
		if store != nil {
			c.store = store
		}
	}
}

// WithBunDB backs the bun settings provider with an existing database.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithActivitySink records successful mutations on sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		if sink != nil {
			c.activity = sink
		}
	}
}

// WithNotifier receives mutation success and error messages.
func WithNotifier(notifier datagrid.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// NewContainer validates cfg and builds every collaborator it names.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureTransport(); err != nil {
		return nil, err
	}
	if err := c.configureSettings(ctx); err != nil {
		return nil, err
	}
	c.configureActivity()
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "admin")
	return nil
}

func (c *Container) configureTransport() error {
	routeConfig := c.Config.API.Routes
	if routeConfig == nil {
		routeConfig = resources.DefaultRouteConfig(c.Config.API.BaseURL)
	}
	routes, err := resources.NewRoutes(routeConfig)
	if err != nil {
		return err
	}
	c.routes = routes

	if c.transport != nil {
		return nil
	}
	client, err := transport.NewClient(c.Config.API.BaseURL,
		transport.WithToken(c.Config.API.Token),
		transport.WithTimeout(c.Config.API.Timeout),
		transport.WithIdempotencySecret(c.Config.API.IdempotencyKey),
		transport.WithLogger(logging.TransportLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.transport = client
	return nil
}

func (c *Container) configureSettings(ctx context.Context) error {
	if c.store == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Settings.Provider)) {
		case "bun":
			store, err := c.bunStore(ctx)
			if err != nil {
				return err
			}
			c.store = store
		default:
			c.store = settings.NewMemoryStore()
		}
	}

	logger := logging.SettingsLogger(c.loggerProvider)
	c.settings = settings.NewProvider(c.store,
		settings.WithKey(c.Config.Settings.Key),
		settings.WithLogger(logger),
	)
	logger.Debug("settings.configured", "provider", c.Config.Settings.Provider, "key", c.Config.Settings.Key)

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if err := c.settings.Watch(watchCtx); err != nil {
		cancel()
		logger.Warn("settings.watch.failed", "key", c.Config.Settings.Key, "error", err)
		return nil
	}
	c.unwatch = cancel
	return nil
}

func (c *Container) bunStore(ctx context.Context) (*settings.BunStore, error) {
	if c.bunDB != nil {
		store := settings.NewBunStore(c.bunDB)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	store, db, err := settings.OpenSQLite(ctx, c.Config.Settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("settings store: %w", err)
	}
	c.bunDB = db
	c.ownsDB = true
	return store, nil
}

func (c *Container) configureActivity() {
	c.actor = identity.ActorUUID(c.Config.Console.Actor)
	if c.activity == nil && c.actor != uuid.Nil {
		c.activity = activity.NewLogSink(logging.ModuleLogger(c.loggerProvider, "admin.activity"), 0)
	}
}

// Close stops the settings watcher and releases the settings database when
// the container opened it.
func (c *Container) Close() error {
	if c.unwatch != nil {
		c.unwatch()
		c.unwatch = nil
	}
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the admin module logger.
func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// Transport exposes the REST client.
func (c *Container) Transport() interfaces.Transport {
	return c.transport
}

// Routes exposes the endpoint table.
func (c *Container) Routes() *resources.Routes {
	return c.routes
}

// Settings exposes the settings provider.
func (c *Container) Settings() *settings.Provider {
	return c.settings
}

// Activity exposes the activity sink, nil when no actor is configured.
func (c *Container) Activity() interfaces.ActivitySink {
	return c.activity
}

// Deps returns the collaborators entity engines are built from.
func (c *Container) Deps() resources.Deps {
	return resources.Deps{
		Transport:  c.transport,
		Routes:     c.routes,
		Vocabulary: c.settings,
		Language:   c.Config.Console.Language,
		StrictTags: c.Config.Console.StrictTags,
	}
}

// EngineOptions returns the engine options implied by config: logger,
// pagination defaults, handoff delay, command timeout, notifier and
// activity sink.
func (c *Container) EngineOptions() []datagrid.Option {
	opts := []datagrid.Option{
		datagrid.WithLogger(logging.DatagridLogger(c.loggerProvider)),
		datagrid.WithLoaderOptions(
			datagrid.WithPageSize(c.Config.Pagination.PageSize),
			datagrid.WithSort(c.Config.Pagination.Sort, c.Config.Pagination.Direction),
		),
		datagrid.WithEditHandoff(c.Config.Console.HandoffDelay, nil),
	}
	if c.Config.API.Timeout > 0 {
		opts = append(opts, datagrid.WithSubmitterOptions(datagrid.WithCommandTimeout(c.Config.API.Timeout)))
	}
	if c.notifier != nil {
		opts = append(opts, datagrid.WithEngineNotifier(c.notifier))
	}
	if c.activity != nil {
		opts = append(opts, datagrid.WithEngineActivity(c.activity, c.actor))
	}
	return opts
}
