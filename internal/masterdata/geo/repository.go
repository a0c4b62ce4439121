package geo

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
	ListCountries(ctx context.Context, filters shared.ListFilters) ([]Country, int, error)
	GetCountry(ctx context.Context, id int64) (Country, error)
	CreateCountry(ctx context.Context, in CountryInput) (Country, error)
	UpdateCountry(ctx context.Context, id int64, in CountryInput) (Country, error)
	DeleteCountry(ctx context.Context, id int64) error

	ListZones(ctx context.Context, filters shared.ListFilters) ([]Zone, int, error)
	GetZone(ctx context.Context, id int64) (Zone, error)
	CreateZone(ctx context.Context, in ZoneInput) (Zone, error)
	UpdateZone(ctx context.Context, id int64, in ZoneInput) (Zone, error)
	DeleteZone(ctx context.Context, id int64) error

	ListCities(ctx context.Context, filters shared.ListFilters) ([]City, int, error)
	GetCity(ctx context.Context, id int64) (City, error)
	CreateCity(ctx context.Context, in CityInput) (City, error)
	UpdateCity(ctx context.Context, id int64, in CityInput) (City, error)
	DeleteCity(ctx context.Context, id int64) error

	ListDistricts(ctx context.Context, filters shared.ListFilters) ([]District, int, error)
	GetDistrict(ctx context.Context, id int64) (District, error)
	CreateDistrict(ctx context.Context, in DistrictInput) (District, error)
	UpdateDistrict(ctx context.Context, id int64, in DistrictInput) (District, error)
	DeleteDistrict(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
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

func sortClause(sortBy, sortDir string, allowed map[string]string, fallback string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	if col, ok := allowed[sortBy]; ok {
		return col + " " + dir
	}
	return fallback + " " + dir
}

func (r *repository) ListCountries(ctx context.Context, filters shared.ListFilters) ([]Country, int, error) {
	tenantID := tenant.IDFromContext(ctx)
	where := ` WHERE tenant_id = $1`
	args := []interface{}{tenantID}

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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM countries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, code, name, active, created_at, updated_at FROM countries` + where +
		` ORDER BY ` + sortClause(filters.SortBy, filters.SortDir, map[string]string{"code": "code", "name": "name"}, "name")
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var countries []Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		countries = append(countries, c)
	}
	return countries, total, rows.Err()
}

func (r *repository) GetCountry(ctx context.Context, id int64) (Country, error) {
	var c Country
	err := r.db.QueryRow(ctx,
		`SELECT id, code, name, active, created_at, updated_at FROM countries
		 WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&c.ID, &c.Code, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Country{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) CreateCountry(ctx context.Context, in CountryInput) (Country, error) {
	var c Country
	err := r.db.QueryRow(ctx,
		`INSERT INTO countries (tenant_id, code, name, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, code, name, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.Code, in.Name, in.Active,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, mapWriteError(err)
}

func (r *repository) UpdateCountry(ctx context.Context, id int64, in CountryInput) (Country, error) {
	var c Country
	err := r.db.QueryRow(ctx,
		`UPDATE countries SET code = $1, name = $2, active = $3, updated_at = now()
		 WHERE id = $4 AND tenant_id = $5
		 RETURNING id, code, name, active, created_at, updated_at`,
		in.Code, in.Name, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&c.ID, &c.Code, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, mapWriteError(err)
}

func (r *repository) DeleteCountry(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM countries WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListZones(ctx context.Context, filters shared.ListFilters) ([]Zone, int, error) {
	tenantID := tenant.IDFromContext(ctx)
	where := ` WHERE z.tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND z.name ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.CountryID != nil {
		args = append(args, *filters.CountryID)
		where += ` AND z.country_id = $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND z.active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM zones z`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT z.id, z.country_id, c.name, z.name, z.active, z.created_at, z.updated_at
		 FROM zones z JOIN countries c ON c.id = z.country_id` + where +
		` ORDER BY ` + sortClause(filters.SortBy, filters.SortDir, map[string]string{"name": "z.name", "country": "c.name"}, "z.name")
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.CountryID, &z.CountryName, &z.Name, &z.Active, &z.CreatedAt, &z.UpdatedAt); err != nil {
			return nil, 0, err
		}
		zones = append(zones, z)
	}
	return zones, total, rows.Err()
}

func (r *repository) GetZone(ctx context.Context, id int64) (Zone, error) {
	var z Zone
	err := r.db.QueryRow(ctx,
		`SELECT z.id, z.country_id, c.name, z.name, z.active, z.created_at, z.updated_at
		 FROM zones z JOIN countries c ON c.id = z.country_id
		 WHERE z.id = $1 AND z.tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&z.ID, &z.CountryID, &z.CountryName, &z.Name, &z.Active, &z.CreatedAt, &z.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Zone{}, shared.ErrNotFound
	}
	return z, err
}

func (r *repository) CreateZone(ctx context.Context, in ZoneInput) (Zone, error) {
	var z Zone
	err := r.db.QueryRow(ctx,
		`INSERT INTO zones (tenant_id, country_id, name, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, country_id, name, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.CountryID, in.Name, in.Active,
	).Scan(&z.ID, &z.CountryID, &z.Name, &z.Active, &z.CreatedAt, &z.UpdatedAt)
	return z, mapWriteError(err)
}

func (r *repository) UpdateZone(ctx context.Context, id int64, in ZoneInput) (Zone, error) {
	var z Zone
	err := r.db.QueryRow(ctx,
		`UPDATE zones SET country_id = $1, name = $2, active = $3, updated_at = now()
		 WHERE id = $4 AND tenant_id = $5
		 RETURNING id, country_id, name, active, created_at, updated_at`,
		in.CountryID, in.Name, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&z.ID, &z.CountryID, &z.Name, &z.Active, &z.CreatedAt, &z.UpdatedAt)
	return z, mapWriteError(err)
}

func (r *repository) DeleteZone(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM zones WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListCities(ctx context.Context, filters shared.ListFilters) ([]City, int, error) {
	tenantID := tenant.IDFromContext(ctx)
	where := ` WHERE ct.tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND ct.name ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.ZoneID != nil {
		args = append(args, *filters.ZoneID)
		where += ` AND ct.zone_id = $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND ct.active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cities ct`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ct.id, ct.zone_id, z.name, ct.name, ct.active, ct.created_at, ct.updated_at
		 FROM cities ct JOIN zones z ON z.id = ct.zone_id` + where +
		` ORDER BY ` + sortClause(filters.SortBy, filters.SortDir, map[string]string{"name": "ct.name", "zone": "z.name"}, "ct.name")
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.ZoneID, &c.ZoneName, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cities = append(cities, c)
	}
	return cities, total, rows.Err()
}

func (r *repository) GetCity(ctx context.Context, id int64) (City, error) {
	var c City
	err := r.db.QueryRow(ctx,
		`SELECT ct.id, ct.zone_id, z.name, ct.name, ct.active, ct.created_at, ct.updated_at
		 FROM cities ct JOIN zones z ON z.id = ct.zone_id
		 WHERE ct.id = $1 AND ct.tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&c.ID, &c.ZoneID, &c.ZoneName, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return City{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) CreateCity(ctx context.Context, in CityInput) (City, error) {
	var c City
	err := r.db.QueryRow(ctx,
		`INSERT INTO cities (tenant_id, zone_id, name, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, zone_id, name, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.ZoneID, in.Name, in.Active,
	).Scan(&c.ID, &c.ZoneID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, mapWriteError(err)
}

func (r *repository) UpdateCity(ctx context.Context, id int64, in CityInput) (City, error) {
	var c City
	err := r.db.QueryRow(ctx,
		`UPDATE cities SET zone_id = $1, name = $2, active = $3, updated_at = now()
		 WHERE id = $4 AND tenant_id = $5
		 RETURNING id, zone_id, name, active, created_at, updated_at`,
		in.ZoneID, in.Name, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&c.ID, &c.ZoneID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, mapWriteError(err)
}

func (r *repository) DeleteCity(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cities WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListDistricts(ctx context.Context, filters shared.ListFilters) ([]District, int, error) {
	tenantID := tenant.IDFromContext(ctx)
	where := ` WHERE d.tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND d.name ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.CityID != nil {
		args = append(args, *filters.CityID)
		where += ` AND d.city_id = $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND d.active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM districts d`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT d.id, d.city_id, ct.name, d.name, d.active, d.created_at, d.updated_at
		 FROM districts d JOIN cities ct ON ct.id = d.city_id` + where +
		` ORDER BY ` + sortClause(filters.SortBy, filters.SortDir, map[string]string{"name": "d.name", "city": "ct.name"}, "d.name")
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var districts []District
	for rows.Next() {
		var d District
		if err := rows.Scan(&d.ID, &d.CityID, &d.CityName, &d.Name, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		districts = append(districts, d)
	}
	return districts, total, rows.Err()
}

func (r *repository) GetDistrict(ctx context.Context, id int64) (District, error) {
	var d District
	err := r.db.QueryRow(ctx,
		`SELECT d.id, d.city_id, ct.name, d.name, d.active, d.created_at, d.updated_at
		 FROM districts d JOIN cities ct ON ct.id = d.city_id
		 WHERE d.id = $1 AND d.tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&d.ID, &d.CityID, &d.CityName, &d.Name, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return District{}, shared.ErrNotFound
	}
	return d, err
}

func (r *repository) CreateDistrict(ctx context.Context, in DistrictInput) (District, error) {
	var d District
	err := r.db.QueryRow(ctx,
		`INSERT INTO districts (tenant_id, city_id, name, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, city_id, name, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.CityID, in.Name, in.Active,
	).Scan(&d.ID, &d.CityID, &d.Name, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return d, mapWriteError(err)
}

func (r *repository) UpdateDistrict(ctx context.Context, id int64, in DistrictInput) (District, error) {
	var d District
	err := r.db.QueryRow(ctx,
		`UPDATE districts SET city_id = $1, name = $2, active = $3, updated_at = now()
		 WHERE id = $4 AND tenant_id = $5
		 RETURNING id, city_id, name, active, created_at, updated_at`,
		in.CityID, in.Name, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&d.ID, &d.CityID, &d.Name, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return d, mapWriteError(err)
}

func (r *repository) DeleteDistrict(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM districts WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
