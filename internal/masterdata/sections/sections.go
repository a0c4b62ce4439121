// Package sections manages the catalog sections items are grouped under.
package sections

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian/internal/exports"
	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/tenant"
)

type Section struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SectionInput struct {
	Code   string `json:"code" validate:"required,max=16"`
	Name   string `json:"name" validate:"required,max=120"`
	Active bool   `json:"active"`
}

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Section, int, error)
	Get(ctx context.Context, id int64) (Section, error)
	Create(ctx context.Context, in SectionInput) (Section, error)
	Update(ctx context.Context, id int64, in SectionInput) (Section, error)
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

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Section, int, error) {
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sections`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == shared.SortDesc {
		dir = "DESC"
	}
	query := `SELECT id, code, name, active, created_at, updated_at FROM sections` + where + ` ORDER BY name ` + dir
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

	var sections []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		sections = append(sections, s)
	}
	return sections, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Section, error) {
	var s Section
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, active, created_at, updated_at FROM sections
		 WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx),
	).Scan(&s.ID, &s.Code, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Section{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, in SectionInput) (Section, error) {
	var s Section
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sections (tenant_id, code, name, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, code, name, active, created_at, updated_at`,
		tenant.IDFromContext(ctx), in.Code, in.Name, in.Active,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, mapWriteError(err)
}

func (r *repository) Update(ctx context.Context, id int64, in SectionInput) (Section, error) {
	var s Section
	err := r.pool.QueryRow(ctx,
		`UPDATE sections SET code = $1, name = $2, active = $3, updated_at = now()
		 WHERE id = $4 AND tenant_id = $5
		 RETURNING id, code, name, active, created_at, updated_at`,
		in.Code, in.Name, in.Active, id, tenant.IDFromContext(ctx),
	).Scan(&s.ID, &s.Code, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, mapWriteError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sections WHERE id = $1 AND tenant_id = $2`,
		id, tenant.IDFromContext(ctx))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Section, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Section, error) {
	if id <= 0 {
		return Section{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in SectionInput) (Section, error) {
	if err := s.validateInput(in); err != nil {
		return Section{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in SectionInput) (Section, error) {
	if id <= 0 {
		return Section{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return Section{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// Table builds the export payload for sections.
func (s *Service) Table(ctx context.Context) (exports.Table, error) {
	sections, _, err := s.repo.List(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{Name: "sections", Columns: []string{"Code", "Name", "Active"}}
	for _, sec := range sections {
		table.Rows = append(table.Rows, []string{sec.Code, sec.Name, strconv.FormatBool(sec.Active)})
	}
	return table, nil
}

// ImportRows creates one section per imported row. Rows are Code, Name and
// an optional Active flag which defaults to true.
func (s *Service) ImportRows(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		if len(row) < 2 {
			return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
		}
		in := SectionInput{Code: row[0], Name: row[1], Active: true}
		if len(row) > 2 && row[2] != "" {
			active, err := strconv.ParseBool(row[2])
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
			}
			in.Active = active
		}
		if _, err := s.Create(ctx, in); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

func (s *Service) validateInput(in SectionInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := strings.ToLower(fieldErrs[0].Field())
		if fieldErrs[0].Tag() == "required" {
			return fmt.Errorf("%s: %w", field, shared.ErrRequiredField)
		}
		return fmt.Errorf("%s: %w", field, shared.ErrValidation)
	}
	return shared.ErrValidation
}
