package paymentterms

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/tenant"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]PaymentTerm, int, error)
	Get(ctx context.Context, id int64) (PaymentTerm, error)
	Create(ctx context.Context, in PaymentTermInput) (PaymentTerm, error)
	Update(ctx context.Context, id int64, in PaymentTermInput) (PaymentTerm, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]PaymentTerm, int, error) {
	where := ` WHERE tenant_id = $1`
	args := []interface{}{tenant.IDFromContext(ctx)}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payment_terms`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == shared.SortDesc {
		dir = "DESC"
	}
	query := `SELECT id, name, days, active, created_at, updated_at FROM payment_terms` + where + ` ORDER BY name ` + dir
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var terms []PaymentTerm
	for rows.Next() {
		var t PaymentTerm
		if err := rows.Scan(&t.ID, &t.Name, &t.Days, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		terms = append(terms, t)
	}
	return terms, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (PaymentTerm, error) {
	var t PaymentTerm
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, days, active, created_at, updated_at FROM payment_terms
		 WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&t.ID, &t.Name, &t.Days, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentTerm{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, in PaymentTermInput) (PaymentTerm, error) {
	var t PaymentTerm
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payment_terms (tenant_id, name, days, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, name, days, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.Name, in.Days, in.Active,
	).Scan(&t.ID, &t.Name, &t.Days, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return t, mapWriteError(err)
}

func (r *repository) Update(ctx context.Context, id int64, in PaymentTermInput) (PaymentTerm, error) {
	var t PaymentTerm
	err := r.pool.QueryRow(ctx,
		`UPDATE payment_terms SET name = $1, days = $2, active = $3, updated_at = now()
		 WHERE id = $4 AND tenant_id = $5
		 RETURNING id, name, days, active, created_at, updated_at`,
		in.Name, in.Days, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&t.ID, &t.Name, &t.Days, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return t, mapWriteError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM payment_terms WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
