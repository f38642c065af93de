package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"playops/internal/playbook/models"
	"playops/internal/scene"
)

// ============================================================
// PostgreSQL Store
// ============================================================

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a pooled connection to dsn.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Init applies the schema migration.
func (r *PostgresStore) Init(ctx context.Context, migrationsPath string) error {
	if err := runMigrations(ctx, r.db, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

const postgresColumns = `id, name, description, sport, tags, data, created_at, updated_at`

func (r *PostgresStore) List(ctx context.Context) ([]models.Play, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postgresColumns+`
		FROM plays
		ORDER BY updated_at DESC, created_at DESC, id ASC
	`)
	if err != nil {
		return nil, unavailable("list plays", err)
	}
	defer rows.Close()

	out := []models.Play{}
	for rows.Next() {
		p, err := scanPostgresPlay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list plays", err)
	}
	return out, nil
}

func (r *PostgresStore) Get(ctx context.Context, id string) (models.Play, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postgresColumns+`
		FROM plays
		WHERE id = $1
	`, id)
	return scanPostgresPlay(row)
}

func (r *PostgresStore) Create(ctx context.Context, n models.NewPlay) (models.Play, error) {
	p := n.Build(uuid.NewString(), models.Now())
	data, err := json.Marshal(p.Data)
	if err != nil {
		return models.Play{}, fmt.Errorf("encode data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO plays (`+postgresColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Name, p.Description, string(p.Sport), pq.Array(p.Tags), string(data), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Play{}, unavailable("insert play", err)
	}
	return p, nil
}

func (r *PostgresStore) Update(ctx context.Context, id string, patch models.PlayPatch) (models.Play, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Play{}, unavailable("begin update", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+postgresColumns+`
		FROM plays
		WHERE id = $1
		FOR UPDATE
	`, id)
	existing, err := scanPostgresPlay(row)
	if err != nil {
		return models.Play{}, err
	}

	updated := patch.Apply(existing, models.Now())
	data, err := json.Marshal(updated.Data)
	if err != nil {
		return models.Play{}, fmt.Errorf("encode data: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE plays
		SET name = $2, description = $3, sport = $4, tags = $5, data = $6, updated_at = $7
		WHERE id = $1
	`, id, updated.Name, updated.Description, string(updated.Sport), pq.Array(updated.Tags), string(data), updated.UpdatedAt)
	if err != nil {
		return models.Play{}, unavailable("update play", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Play{}, unavailable("commit update", err)
	}
	return updated, nil
}

func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = $1`, id)
	if err != nil {
		return unavailable("delete play", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete play", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (r *PostgresStore) Close() error {
	return r.db.Close()
}

func scanPostgresPlay(row rowScanner) (models.Play, error) {
	var (
		p           models.Play
		description sql.NullString
		tags        pq.StringArray
		data        []byte
	)
	err := row.Scan(&p.ID, &p.Name, &description, &p.Sport, &tags, &data, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Play{}, ErrNotFound
		}
		return models.Play{}, unavailable("scan play", err)
	}

	if description.Valid {
		p.Description = &description.String
	}
	if tags != nil {
		p.Tags = []string(tags)
	}
	s, err := scene.Parse(data)
	if err != nil {
		return models.Play{}, fmt.Errorf("decode data of %s: %w", p.ID, err)
	}
	p.Data = s
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
