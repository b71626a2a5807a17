package project

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"scenesync/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// postgresStore implements Store on top of PostgreSQL. Each project is one row
// in the projects table with the scene snapshot stored as jsonb.
type postgresStore struct {
	pool *pgxpool.Pool
}

// newPostgresStore initializes a connection pool and applies pending migrations.
func newPostgresStore(ctx context.Context, dsn string) (*postgresStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := runMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return &postgresStore{pool: pool}, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logx.Info("Database migrations applied successfully.")
	return nil
}

// Close releases the connection pool.
func (p *postgresStore) Close() {
	p.pool.Close()
}

func (p *postgresStore) Get(ctx context.Context, name string) (*Scene, error) {
	var raw []byte

	err := p.pool.QueryRow(ctx,
		`SELECT scene FROM projects WHERE name = $1`,
		name,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logx.Error(err, "Project query failed", "project", name)
		return nil, fmt.Errorf("failed to load project %q", name)
	}

	var sc Scene
	if err := json.Unmarshal(raw, &sc); err != nil {
		logx.Error(err, "Stored project is not valid JSON", "project", name)
		return nil, fmt.Errorf("failed to decode project %q", name)
	}

	return &sc, nil
}

func (p *postgresStore) Put(ctx context.Context, name string, sc *Scene) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode project %q: %w", name, err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO projects (name, scene, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET scene = EXCLUDED.scene, updated_at = now()`,
		name, raw,
	)
	if err != nil {
		logx.Error(err, "Project upsert failed", "project", name)
		return fmt.Errorf("failed to save project %q", name)
	}

	return nil
}

func (p *postgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT name FROM projects ORDER BY name`)
	if err != nil {
		logx.Error(err, "Project list query failed")
		return nil, errors.New("failed to list projects")
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan project name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return names, nil
}
