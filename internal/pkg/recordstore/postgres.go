package recordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresBackend keeps documents as rows of the documents table
type PostgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend creates the backend and ensures its table exists
func NewPostgresBackend(ctx context.Context, db *sqlx.DB) (*PostgresBackend, error) {
	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

// Read returns the raw document
func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := b.db.GetContext(ctx, &body, `SELECT body FROM documents WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return body, nil
}

// Write upserts the document
func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	if _, err := b.db.ExecContext(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// List returns every stored document name in lexical order
func (b *PostgresBackend) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := b.db.SelectContext(ctx, &names, `SELECT name FROM documents ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return names, nil
}
