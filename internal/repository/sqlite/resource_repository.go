package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aspiro-server/internal/domain"
	"aspiro-server/internal/repository"
)

const createResourcesTable = `
CREATE TABLE IF NOT EXISTS resources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	kind TEXT NOT NULL,
	model_key TEXT NOT NULL DEFAULT '',
	embed_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ResourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) repository.ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createResourcesTable); err != nil {
		return fmt.Errorf("create resources table: %w", err)
	}
	return nil
}

func (r *ResourceRepository) Seed(ctx context.Context, resources []domain.Resource) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&count); err != nil {
		return fmt.Errorf("count resources: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, res := range resources {
		if _, err := r.db.ExecContext(ctx, `
INSERT INTO resources (slug, title, description, kind, model_key, embed_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			res.Slug, res.Title, res.Description, string(res.Kind), res.ModelKey, res.EmbedURL, now, now,
		); err != nil {
			return fmt.Errorf("seed resource %s: %w", res.Slug, err)
		}
	}
	return nil
}

func (r *ResourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, slug, title, description, kind, model_key, embed_url, created_at, updated_at
FROM resources
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return resources, nil
}

func (r *ResourceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Resource, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, slug, title, description, kind, model_key, embed_url, created_at, updated_at
FROM resources
WHERE slug = ?`,
		slug,
	)
	return scanResource(row)
}

func (r *ResourceRepository) SetModelKey(ctx context.Context, slug, key string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE resources SET model_key = ?, updated_at = ? WHERE slug = ?`,
		key, time.Now().UTC(), slug,
	)
	if err != nil {
		return fmt.Errorf("set model key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set model key rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanResource(row interface {
	Scan(dest ...any) error
}) (*domain.Resource, error) {
	var (
		res  domain.Resource
		kind string
	)
	if err := row.Scan(
		&res.ID,
		&res.Slug,
		&res.Title,
		&res.Description,
		&kind,
		&res.ModelKey,
		&res.EmbedURL,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan resource: %w", err)
	}
	res.Kind = domain.ResourceKind(kind)
	return &res, nil
}
