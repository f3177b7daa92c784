package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const (
	// StorageKey is the fixed key of the settings blob.
	StorageKey = "settings"

	// TagsSetting holds the comma separated tag vocabulary of a language.
	TagsSetting = "tags"
	// LanguagesSetting holds the comma separated "CODE:Label" language options.
	LanguagesSetting = "languages"
)

// Option is a selectable value with a display label.
type Option struct {
	Value string
	Label string
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithKey overrides the storage key.
func WithKey(key string) ProviderOption {
	return func(p *Provider) {
		if strings.TrimSpace(key) != "" {
			p.key = strings.TrimSpace(key)
		}
	}
}

// WithDefaults replaces the fallback records.
func WithDefaults(records []interfaces.Setting) ProviderOption {
	return func(p *Provider) {
		p.defaults = append([]interfaces.Setting(nil), records...)
	}
}

// WithLogger sets the provider logger.
func WithLogger(logger interfaces.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logging.EnsureLogger(logger)
	}
}

// Provider resolves per-language settings from the blob stored under the
// settings key. Missing or malformed blobs resolve against the defaults and
// never produce an error.
type Provider struct {
	store    Store
	key      string
	defaults []interfaces.Setting
	logger   interfaces.Logger

	mu     sync.RWMutex
	cached []interfaces.Setting
	valid  bool
	// generation advances on every invalidation so a read that raced one is
	// not cached.
	generation uint64
}

var _ interfaces.SettingsProvider = (*Provider)(nil)

// NewProvider builds a provider over store. A nil store serves defaults only.
func NewProvider(store Store, opts ...ProviderOption) *Provider {
	p := &Provider{
		store:    store,
		key:      StorageKey,
		defaults: DefaultRecords(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Records returns the stored records, or the defaults when the blob is
// absent or malformed.
func (p *Provider) Records(ctx context.Context) []interfaces.Setting {
	p.mu.RLock()
	if p.valid {
		records := append([]interfaces.Setting(nil), p.cached...)
		p.mu.RUnlock()
		return records
	}
	generation := p.generation
	p.mu.RUnlock()

	records := p.read(ctx)

	p.mu.Lock()
	if p.generation == generation {
		p.cached = records
		p.valid = true
	}
	p.mu.Unlock()
	return append([]interfaces.Setting(nil), records...)
}

// GetSetting returns the value of name for lang. Records without a language
// match any lang; an exact language match wins.
func (p *Provider) GetSetting(ctx context.Context, name, lang string) (string, bool) {
	return lookup(p.Records(ctx), name, lang)
}

// Tags returns the tag vocabulary for lang.
func (p *Provider) Tags(ctx context.Context, lang string) []string {
	value, ok := p.GetSetting(ctx, TagsSetting, lang)
	if !ok {
		value, _ = lookup(p.defaults, TagsSetting, lang)
	}
	return splitList(value)
}

// Languages returns the language options.
func (p *Provider) Languages(ctx context.Context) []Option {
	value, ok := p.GetSetting(ctx, LanguagesSetting, "")
	if !ok {
		value, _ = lookup(p.defaults, LanguagesSetting, "")
	}
	items := splitList(value)
	options := make([]Option, 0, len(items))
	for _, item := range items {
		code, label, found := strings.Cut(item, ":")
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if !found || strings.TrimSpace(label) == "" {
			label = code
		}
		options = append(options, Option{Value: code, Label: strings.TrimSpace(label)})
	}
	return options
}

// Save validates records and replaces the stored blob.
func (p *Provider) Save(ctx context.Context, records []interfaces.Setting) error {
	if p.store == nil {
		return errors.New("settings: provider has no store")
	}
	if records == nil {
		records = []interfaces.Setting{}
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(blob, &doc); err != nil {
		return err
	}
	if err := validateRecords(doc); err != nil {
		return err
	}
	if err := p.store.Put(ctx, p.key, blob); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}

// Invalidate drops the cached records.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.valid = false
	p.generation++
	p.mu.Unlock()
}

// Watch invalidates the cache whenever the settings key changes. It returns
// once the subscription is established; the watcher stops with ctx.
func (p *Provider) Watch(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	events, err := p.store.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for evt := range events {
			if evt.Key == p.key {
				p.Invalidate()
			}
		}
	}()
	return nil
}

func (p *Provider) read(ctx context.Context) []interfaces.Setting {
	if p.store == nil {
		return p.defaults
	}
	blob, err := p.store.Get(ctx, p.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logger.Warn("settings.read.failed", "key", p.key, "error", err)
		}
		return p.defaults
	}
	var doc any
	if err := json.Unmarshal(blob, &doc); err != nil {
		p.logger.Warn("settings.decode.failed", "key", p.key, "error", err)
		return p.defaults
	}
	if err := validateRecords(doc); err != nil {
		p.logger.Warn("settings.schema.failed", "key", p.key, "error", err)
		return p.defaults
	}
	var records []interfaces.Setting
	if err := json.Unmarshal(blob, &records); err != nil {
		return p.defaults
	}
	return records
}

func lookup(records []interfaces.Setting, name, lang string) (string, bool) {
	name = strings.TrimSpace(name)
	lang = strings.TrimSpace(lang)
	var fallback *interfaces.Setting
	for i := range records {
		record := &records[i]
		if !strings.EqualFold(strings.TrimSpace(record.Name), name) {
			continue
		}
		recordLang := strings.TrimSpace(record.Lang)
		if strings.EqualFold(recordLang, lang) {
			return record.Value, true
		}
		if recordLang == "" && fallback == nil {
			fallback = record
		}
	}
	if fallback != nil {
		return fallback.Value, true
	}
	return "", false
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
