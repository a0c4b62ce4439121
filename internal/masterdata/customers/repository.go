package customers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/platform/db"
	"github.com/meridian-erp/meridian/internal/tenant"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, in CustomerInput) (Customer, error)
	Update(ctx context.Context, id int64, in CustomerInput) (Customer, error)
	Delete(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
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

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error) {
	tenantID := tenant.IDFromContext(ctx)
	where := ` WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR code ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
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

	query := `SELECT id, code, name, email, phone, tax_number, credit_limit, active, created_at, updated_at
		 FROM customers` + where + ` ORDER BY ` + orderBy + ` ` + dir
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

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.TaxNumber, &c.CreditLimit, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, email, phone, tax_number, credit_limit, active, created_at, updated_at
		 FROM customers WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.TaxNumber, &c.CreditLimit, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Customer{}, mapWriteError(err)
	}
	if err := r.loadNested(ctx, r.pool, &c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) loadNested(ctx context.Context, q dbtx, c *Customer) error {
	rows, err := q.Query(ctx,
		`SELECT id, line1, line2, city_id, COALESCE(district_id, 0), is_default
		 FROM customer_addresses WHERE customer_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.Line1, &a.Line2, &a.CityID, &a.DistrictID, &a.IsDefault); err != nil {
			rows.Close()
			return err
		}
		c.Addresses = append(c.Addresses, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx,
		`SELECT id, name, phone, email, position
		 FROM customer_contacts WHERE customer_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var ct Contact
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Phone, &ct.Email, &ct.Position); err != nil {
			rows.Close()
			return err
		}
		c.Contacts = append(c.Contacts, ct)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx,
		`SELECT id, currency, amount, as_of
		 FROM customer_opening_balances WHERE customer_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var ob OpeningBalance
		if err := rows.Scan(&ob.ID, &ob.Currency, &ob.Amount, &ob.AsOf); err != nil {
			rows.Close()
			return err
		}
		c.OpeningBalances = append(c.OpeningBalances, ob)
	}
	rows.Close()
	return rows.Err()
}

func (r *repository) Create(ctx context.Context, in CustomerInput) (Customer, error) {
	var created Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO customers (tenant_id, code, name, email, phone, tax_number, credit_limit, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			 RETURNING id, code, name, email, phone, tax_number, credit_limit, active, created_at, updated_at`,
			tenant.IDFromContext(ctx), in.Code, in.Name, in.Email, in.Phone, in.TaxNumber, in.CreditLimit, in.Active,
		).Scan(&created.ID, &created.Code, &created.Name, &created.Email, &created.Phone, &created.TaxNumber, &created.CreditLimit, &created.Active, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return err
		}
		return r.writeNested(ctx, tx, created.ID, in)
	})
	if err != nil {
		return Customer{}, mapWriteError(err)
	}
	if err := r.loadNested(ctx, r.pool, &created); err != nil {
		return Customer{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, in CustomerInput) (Customer, error) {
	var updated Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE customers SET code = $1, name = $2, email = $3, phone = $4, tax_number = $5,
			        credit_limit = $6, active = $7, updated_at = now()
			 WHERE id = $8 AND tenant_id = $9
			 RETURNING id, code, name, email, phone, tax_number, credit_limit, active, created_at, updated_at`,
			in.Code, in.Name, in.Email, in.Phone, in.TaxNumber, in.CreditLimit, in.Active, id, tenant.IDFromContext(ctx),
		).Scan(&updated.ID, &updated.Code, &updated.Name, &updated.Email, &updated.Phone, &updated.TaxNumber, &updated.CreditLimit, &updated.Active, &updated.CreatedAt, &updated.UpdatedAt)
		if err != nil {
			return err
		}
		// Nested collections are replaced wholesale.
		for _, table := range []string{"customer_addresses", "customer_contacts", "customer_opening_balances"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE customer_id = $1`, id); err != nil {
				return err
			}
		}
		return r.writeNested(ctx, tx, id, in)
	})
	if err != nil {
		return Customer{}, mapWriteError(err)
	}
	if err := r.loadNested(ctx, r.pool, &updated); err != nil {
		return Customer{}, err
	}
	return updated, nil
}

func (r *repository) writeNested(ctx context.Context, tx pgx.Tx, customerID int64, in CustomerInput) error {
	for _, a := range in.Addresses {
		var districtID interface{}
		if a.DistrictID > 0 {
			districtID = a.DistrictID
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO customer_addresses (customer_id, line1, line2, city_id, district_id, is_default)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			customerID, a.Line1, a.Line2, a.CityID, districtID, a.IsDefault)
		if err != nil {
			return err
		}
	}
	for _, c := range in.Contacts {
		_, err := tx.Exec(ctx,
			`INSERT INTO customer_contacts (customer_id, name, phone, email, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			customerID, c.Name, c.Phone, c.Email, c.Position)
		if err != nil {
			return err
		}
	}
	for _, ob := range in.OpeningBalances {
		_, err := tx.Exec(ctx,
			`INSERT INTO customer_opening_balances (customer_id, currency, amount, as_of)
			 VALUES ($1, $2, $3, $4)`,
			customerID, ob.Currency, ob.Amount, ob.AsOf)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM customers WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
