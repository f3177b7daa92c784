package cmsadmin

import (
	"context"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/internal/di"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/internal/settings"
)

type (
	File              = resources.File
	Image             = resources.Image
	Video             = resources.Video
	VocabularyItem    = resources.VocabularyItem
	FreeTextQuestion  = resources.FreeTextQuestion
	TrueFalseQuestion = resources.TrueFalseQuestion
	AuditEntry        = resources.AuditEntry
)

// Engine exports the per-entity data-management engine.
type Engine[E any] = datagrid.Engine[E]

// Result exports the mutation outcome.
type Result = datagrid.Result

// SettingsProvider exports the persisted settings provider.
type SettingsProvider = *settings.Provider

// Module is the console runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a console module from cfg and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Settings returns the settings provider.
func (m *Module) Settings() SettingsProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Settings()
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

func (m *Module) engineOptions(extra []datagrid.Option) []datagrid.Option {
	return append(m.container.EngineOptions(), extra...)
}

// Files builds the engine for uploaded documents.
func (m *Module) Files(ctx context.Context, opts ...datagrid.Option) (*Engine[File], error) {
	return resources.NewFileEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}

// Images builds the engine for images.
func (m *Module) Images(ctx context.Context, opts ...datagrid.Option) (*Engine[Image], error) {
	return resources.NewImageEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}

// Videos builds the engine for videos.
func (m *Module) Videos(ctx context.Context, opts ...datagrid.Option) (*Engine[Video], error) {
	return resources.NewVideoEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}

// Vocabulary builds the engine for vocabulary entries.
func (m *Module) Vocabulary(ctx context.Context, opts ...datagrid.Option) (*Engine[VocabularyItem], error) {
	return resources.NewVocabularyEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}

// FreeTextQuestions builds the engine for free text questions.
func (m *Module) FreeTextQuestions(ctx context.Context, opts ...datagrid.Option) (*Engine[FreeTextQuestion], error) {
	return resources.NewFreeTextQuestionEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}

// TrueFalseQuestions builds the engine for true/false questions.
func (m *Module) TrueFalseQuestions(ctx context.Context, opts ...datagrid.Option) (*Engine[TrueFalseQuestion], error) {
	return resources.NewTrueFalseQuestionEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}

// Audit builds the read-only audit log engine.
func (m *Module) Audit(ctx context.Context, opts ...datagrid.Option) (*Engine[AuditEntry], error) {
	return resources.NewAuditEngine(ctx, m.container.Deps(), m.engineOptions(opts)...)
}
