package items

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
	List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, in ItemInput) (Item, error)
	Update(ctx context.Context, id int64, in ItemInput) (Item, error)
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

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	where := ` WHERE i.tenant_id = $1`
	args := []interface{}{tenant.IDFromContext(ctx)}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (i.name ILIKE $` + n + ` OR i.code ILIKE $` + n + ` OR i.barcode ILIKE $` + n + `)`
	}
	if filters.ParentID != nil {
		args = append(args, *filters.ParentID)
		where += ` AND i.section_id = $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND i.active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items i`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == shared.SortDesc {
		dir = "DESC"
	}
	orderBy := "i.name"
	switch filters.SortBy {
	case "code":
		orderBy = "i.code"
	case "price":
		orderBy = "i.price"
	}

	query := `SELECT i.id, i.code, i.name, i.section_id, s.name, i.barcode, i.unit, i.cost, i.price, i.active, i.created_at, i.updated_at
		 FROM items i JOIN sections s ON s.id = i.section_id` + where + ` ORDER BY ` + orderBy + ` ` + dir
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

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.SectionID, &it.SectionName, &it.Barcode, &it.Unit, &it.Cost, &it.Price, &it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx,
		`SELECT i.id, i.code, i.name, i.section_id, s.name, i.barcode, i.unit, i.cost, i.price, i.active, i.created_at, i.updated_at
		 FROM items i JOIN sections s ON s.id = i.section_id
		 WHERE i.id = $1 AND i.tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&it.ID, &it.Code, &it.Name, &it.SectionID, &it.SectionName, &it.Barcode, &it.Unit, &it.Cost, &it.Price, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, shared.ErrNotFound
	}
	return it, err
}

func (r *repository) Create(ctx context.Context, in ItemInput) (Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx,
		`INSERT INTO items (tenant_id, code, name, section_id, barcode, unit, cost, price, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		 RETURNING id, code, name, section_id, barcode, unit, cost, price, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.Code, in.Name, in.SectionID, in.Barcode, in.Unit, in.Cost, in.Price, in.Active,
	).Scan(&it.ID, &it.Code, &it.Name, &it.SectionID, &it.Barcode, &it.Unit, &it.Cost, &it.Price, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	return it, mapWriteError(err)
}

func (r *repository) Update(ctx context.Context, id int64, in ItemInput) (Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx,
		`UPDATE items SET code = $1, name = $2, section_id = $3, barcode = $4, unit = $5,
		        cost = $6, price = $7, active = $8, updated_at = now()
		 WHERE id = $9 AND tenant_id = $10
		 RETURNING id, code, name, section_id, barcode, unit, cost, price, active, created_at, updated_at`,
		in.Code, in.Name, in.SectionID, in.Barcode, in.Unit, in.Cost, in.Price, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&it.ID, &it.Code, &it.Name, &it.SectionID, &it.Barcode, &it.Unit, &it.Cost, &it.Price, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	return it, mapWriteError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM items WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
