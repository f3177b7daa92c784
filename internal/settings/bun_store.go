package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// BunStore persists blobs in a Bun-backed SQL table.
type BunStore struct {
	db          *bun.DB
	broadcaster *changeBroadcaster
}

// NewBunStore constructs a store over db. Call EnsureSchema before first use
// on a fresh database.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db:          db,
		broadcaster: newChangeBroadcaster(),
	}
}

// OpenSQLite opens a sqlite database at dsn, creates the settings table and
// returns the store together with the database so callers can close it.
func OpenSQLite(ctx context.Context, dsn string) (*BunStore, *bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("settings: open sqlite: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	store := NewBunStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// EnsureSchema creates the settings table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	if _, err := s.db.NewCreateTable().Model((*blobModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("settings: create table: %w", err)
	}
	return nil
}

// Get returns the blob stored under key.
func (s *BunStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, ErrDatabaseRequired
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, ErrKeyRequired
	}
	var model blobModel
	if err := s.db.NewSelect().Model(&model).Where("name = ?", trimmed).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(model.Value), nil
}

// Put creates or replaces the blob stored under key.
func (s *BunStore) Put(ctx context.Context, key string, blob []byte) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ErrKeyRequired
	}

	var existing blobModel
	err := s.db.NewSelect().Model(&existing).Where("name = ?", trimmed).Scan(ctx)
	created := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		created = true
	}

	now := time.Now().UTC()
	model := blobModel{Key: trimmed, Value: string(blob), UpdatedAt: now}
	if created {
		model.CreatedAt = now
		if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return err
		}
	} else {
		model.CreatedAt = existing.CreatedAt
		if _, err := s.db.NewUpdate().
			Model(&model).
			Column("value", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
	}

	eventType := ChangeUpdated
	if created {
		eventType = ChangeCreated
	}
	s.broadcaster.Broadcast(ChangeEvent{Type: eventType, Key: trimmed})
	return nil
}

// Delete removes the blob stored under key.
func (s *BunStore) Delete(ctx context.Context, key string) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ErrKeyRequired
	}
	result, err := s.db.NewDelete().Model((*blobModel)(nil)).Where("name = ?", trimmed).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	s.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: trimmed})
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (s *BunStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}

type blobModel struct {
	bun.BaseModel `bun:"table:admin_settings"`

	Key       string    `bun:"name,pk"`
	Value     string    `bun:"value"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}
