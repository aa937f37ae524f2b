package fallback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

const createSnapshotTable = `CREATE TABLE IF NOT EXISTS fallback_snapshots (
    resource_key TEXT PRIMARY KEY,
    payload JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// Postgres keeps one row per collection in fallback_snapshots.
type Postgres struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgres constructs the backend.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// EnsureSchema creates the snapshot table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("create fallback_snapshots: %w", err)
	}
	return nil
}

// Load returns the payload stored for key.
func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT payload FROM fallback_snapshots WHERE resource_key = $1`
	var payload []byte
	if err := p.db.GetContext(ctx, &payload, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return payload, nil
}

// Store upserts the payload for key.
func (p *Postgres) Store(ctx context.Context, key string, payload []byte) error {
	const query = `INSERT INTO fallback_snapshots (resource_key, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (resource_key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := p.db.ExecContext(ctx, query, key, string(payload), p.now().UTC()); err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}
	return nil
}
