package suppliers

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
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, in SupplierInput) (Supplier, error)
	Update(ctx context.Context, id int64, in SupplierInput) (Supplier, error)
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
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.ErrDuplicate
		case "23503":
			return shared.ErrValidation
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	where := ` WHERE tenant_id = $1`
	args := []interface{}{tenant.IDFromContext(ctx)}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR code ILIKE $` + n + `)`
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == shared.SortDesc {
		dir = "DESC"
	}
	orderBy := "name"
	if filters.SortBy == "code" {
		orderBy = "code"
	}

	query := `SELECT id, code, name, email, phone, tax_number, COALESCE(payment_term_id, 0), active, created_at, updated_at
		 FROM suppliers` + where + ` ORDER BY ` + orderBy + ` ` + dir
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

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.Phone, &s.TaxNumber, &s.PaymentTermID, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, email, phone, tax_number, COALESCE(payment_term_id, 0), active, created_at, updated_at
		 FROM suppliers WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.Phone, &s.TaxNumber, &s.PaymentTermID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, in SupplierInput) (Supplier, error) {
	var s Supplier
	var termID interface{}
	if in.PaymentTermID > 0 {
		termID = in.PaymentTermID
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO suppliers (tenant_id, code, name, email, phone, tax_number, payment_term_id, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING id, code, name, email, phone, tax_number, COALESCE(payment_term_id, 0), active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.Code, in.Name, in.Email, in.Phone, in.TaxNumber, termID, in.Active,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.Phone, &s.TaxNumber, &s.PaymentTermID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, mapWriteError(err)
}

func (r *repository) Update(ctx context.Context, id int64, in SupplierInput) (Supplier, error) {
	var s Supplier
	var termID interface{}
	if in.PaymentTermID > 0 {
		termID = in.PaymentTermID
	}
	err := r.pool.QueryRow(ctx,
		`UPDATE suppliers SET code = $1, name = $2, email = $3, phone = $4, tax_number = $5,
		        payment_term_id = $6, active = $7, updated_at = now()
		 WHERE id = $8 AND tenant_id = $9
		 RETURNING id, code, name, email, phone, tax_number, COALESCE(payment_term_id, 0), active, created_at, updated_at`,
		in.Code, in.Name, in.Email, in.Phone, in.TaxNumber, termID, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.Phone, &s.TaxNumber, &s.PaymentTermID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, mapWriteError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM suppliers WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
