package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian/internal/shared"
)

// ErrDuplicateEmail indicates the email is already taken within the tenant.
var ErrDuplicateEmail = errors.New("users: email already exists")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByTenant returns all users belonging to one tenant.
func (r *Repository) ListByTenant(ctx context.Context, tenantID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tenant_id, email, name, audience, is_active, created_at, updated_at
		FROM users WHERE tenant_id = $1 ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.TenantID, &user.Email, &user.Name, &user.Audience,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Create inserts a new tenant user.
func (r *Repository) Create(ctx context.Context, tenantID int64, in CreateInput, passwordHash string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `INSERT INTO users (tenant_id, email, name, audience, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, now(), now())
		RETURNING id, tenant_id, email, name, audience, is_active, created_at, updated_at`,
		tenantID, in.Email, in.Name, in.Audience, passwordHash).
		Scan(&user.ID, &user.TenantID, &user.Email, &user.Name, &user.Audience,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	return user, nil
}

// SetActive toggles a user account within the tenant.
func (r *Repository) SetActive(ctx context.Context, tenantID, id int64, active bool) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `UPDATE users SET is_active = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING id, tenant_id, email, name, audience, is_active, created_at, updated_at`,
		tenantID, id, active).
		Scan(&user.ID, &user.TenantID, &user.Email, &user.Name, &user.Audience,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}
