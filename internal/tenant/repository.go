package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads tenants from postgres.
type Repository interface {
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed tenant repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*Tenant, error) {
	query := `SELECT id, slug, name, is_active, created_at, updated_at FROM tenants WHERE slug = $1`
	var t Tenant
	err := r.db.QueryRow(ctx, query, slug).Scan(&t.ID, &t.Slug, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownTenant
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context) ([]Tenant, error) {
	query := `SELECT id, slug, name, is_active, created_at, updated_at FROM tenants ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *repository) Create(ctx context.Context, t Tenant) (Tenant, error) {
	query := `INSERT INTO tenants (slug, name, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRow(ctx, query, t.Slug, t.Name, t.IsActive, now, now).Scan(&t.ID); err != nil {
		return Tenant{}, err
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE tenants SET is_active = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, active, time.Now(), id)
	return err
}
