// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS farmwatch_store (
		namespace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		blob       BYTEA       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (namespace, key)
	)
`

// Postgres is the durable Store. One row per (namespace, key), upserted
// write-through on every save.
type Postgres struct {
	conn *sql.DB
}

// OpenPostgres connects, verifies the connection and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store: postgres dsn required")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	if _, err := conn.ExecContext(ctx, createTableSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	return &Postgres{conn: conn}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.conn.Close()
}

func (p *Postgres) Load(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	query := `SELECT blob FROM farmwatch_store WHERE namespace = $1 AND key = $2`

	var blob []byte
	err := p.conn.QueryRowContext(ctx, query, namespace, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: load %s/%s: %w", namespace, key, err)
	}
	return blob, true, nil
}

func (p *Postgres) Save(ctx context.Context, namespace, key string, blob []byte) error {
	query := `
		INSERT INTO farmwatch_store (namespace, key, blob, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE
		SET blob = $3, updated_at = $4
	`

	if _, err := p.conn.ExecContext(ctx, query, namespace, key, blob, time.Now()); err != nil {
		return fmt.Errorf("store: save %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, namespace, key string) error {
	query := `DELETE FROM farmwatch_store WHERE namespace = $1 AND key = $2`

	if _, err := p.conn.ExecContext(ctx, query, namespace, key); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	query := `SELECT key, blob FROM farmwatch_store WHERE namespace = $1`

	rows, err := p.conn.QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", namespace, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var blob []byte
		if err := rows.Scan(&key, &blob); err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", namespace, err)
		}
		out[key] = blob
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s: %w", namespace, err)
	}

	return out, nil
}
