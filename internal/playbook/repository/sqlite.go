package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"playops/internal/playbook/models"
	"playops/internal/scene"
)

// ============================================================
// SQLite Store
// ============================================================

// sqliteTimeLayout is fixed width so ORDER BY on the text column sorts
// chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Init applies the schema migration.
func (r *SQLiteStore) Init(ctx context.Context, migrationsPath string) error {
	if err := runMigrations(ctx, r.db, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

const sqliteColumns = `id, name, description, sport, tags, data, created_at, updated_at`

func (r *SQLiteStore) List(ctx context.Context) ([]models.Play, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+sqliteColumns+`
        FROM plays
        ORDER BY updated_at DESC, created_at DESC, id ASC
    `)
	if err != nil {
		return nil, unavailable("list plays", err)
	}
	defer rows.Close()

	var out []models.Play
	for rows.Next() {
		p, err := scanSQLitePlay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list plays", err)
	}
	if out == nil {
		out = []models.Play{}
	}
	return out, nil
}

func (r *SQLiteStore) Get(ctx context.Context, id string) (models.Play, error) {
	return r.get(ctx, r.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteStore) get(ctx context.Context, q queryRower, id string) (models.Play, error) {
	row := q.QueryRowContext(ctx, `
        SELECT `+sqliteColumns+`
        FROM plays
        WHERE id = ?
    `, id)
	return scanSQLitePlay(row)
}

func (r *SQLiteStore) Create(ctx context.Context, n models.NewPlay) (models.Play, error) {
	p := n.Build(uuid.NewString(), models.Now())
	args, err := sqliteArgs(p)
	if err != nil {
		return models.Play{}, err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO plays (`+sqliteColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, args...)
	if err != nil {
		return models.Play{}, unavailable("insert play", err)
	}
	return p, nil
}

func (r *SQLiteStore) Update(ctx context.Context, id string, patch models.PlayPatch) (models.Play, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Play{}, unavailable("begin update", err)
	}
	defer tx.Rollback()

	existing, err := r.get(ctx, tx, id)
	if err != nil {
		return models.Play{}, err
	}
	updated := patch.Apply(existing, models.Now())

	args, err := sqliteArgs(updated)
	if err != nil {
		return models.Play{}, err
	}
	_, err = tx.ExecContext(ctx, `
        UPDATE plays
        SET name = ?, description = ?, sport = ?, tags = ?, data = ?, created_at = ?, updated_at = ?
        WHERE id = ?
    `, append(args[1:], id)...)
	if err != nil {
		return models.Play{}, unavailable("update play", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Play{}, unavailable("commit update", err)
	}
	return updated, nil
}

func (r *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = ?`, id)
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

func (r *SQLiteStore) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (r *SQLiteStore) Close() error {
	return r.db.Close()
}

// ============================================================
// Row mapping
// ============================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePlay(row rowScanner) (models.Play, error) {
	var (
		p                    models.Play
		description, tags    sql.NullString
		data                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Sport, &tags, &data, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Play{}, ErrNotFound
		}
		return models.Play{}, unavailable("scan play", err)
	}

	if description.Valid {
		p.Description = &description.String
	}
	if tags.Valid {
		if err := json.Unmarshal([]byte(tags.String), &p.Tags); err != nil {
			return models.Play{}, fmt.Errorf("decode tags of %s: %w", p.ID, err)
		}
	}
	s, err := scene.Parse([]byte(data))
	if err != nil {
		return models.Play{}, fmt.Errorf("decode data of %s: %w", p.ID, err)
	}
	p.Data = s

	if p.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return models.Play{}, fmt.Errorf("decode created_at of %s: %w", p.ID, err)
	}
	if p.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return models.Play{}, fmt.Errorf("decode updated_at of %s: %w", p.ID, err)
	}
	return p, nil
}

func sqliteArgs(p models.Play) ([]any, error) {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}

	var description, tags sql.NullString
	if p.Description != nil {
		description = sql.NullString{String: *p.Description, Valid: true}
	}
	if p.Tags != nil {
		raw, err := json.Marshal(p.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		tags = sql.NullString{String: string(raw), Valid: true}
	}

	return []any{
		p.ID,
		p.Name,
		description,
		string(p.Sport),
		tags,
		string(data),
		p.CreatedAt.UTC().Format(sqliteTimeLayout),
		p.UpdatedAt.UTC().Format(sqliteTimeLayout),
	}, nil
}

// ============================================================
// Migrations
// ============================================================

func runMigrations(ctx context.Context, db *sql.DB, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
