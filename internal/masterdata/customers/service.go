package customers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian/internal/exports"
	"github.com/meridian-erp/meridian/internal/masterdata/shared"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CustomerInput) (Customer, error) {
	if err := s.validateInput(in); err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in CustomerInput) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return Customer{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// Table builds the export payload for customers.
func (s *Service) Table(ctx context.Context) (exports.Table, error) {
	customers, _, err := s.repo.List(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{
		Name:    "customers",
		Columns: []string{"Code", "Name", "Email", "Phone", "Credit Limit", "Active"},
	}
	for _, c := range customers {
		table.Rows = append(table.Rows, []string{
			c.Code, c.Name, c.Email, c.Phone,
			strconv.FormatFloat(c.CreditLimit, 'f', 2, 64),
			strconv.FormatBool(c.Active),
		})
	}
	return table, nil
}

// ImportRows creates one customer per imported row. Rows follow the export
// column order Code, Name, Email, Phone, Credit Limit and an optional Active
// flag which defaults to true. Nested collections are not imported.
func (s *Service) ImportRows(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		if len(row) < 2 {
			return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
		}
		in := CustomerInput{Code: row[0], Name: row[1], Active: true}
		if len(row) > 2 {
			in.Email = row[2]
		}
		if len(row) > 3 {
			in.Phone = row[3]
		}
		if len(row) > 4 && row[4] != "" {
			limit, err := strconv.ParseFloat(row[4], 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: credit limit: %w", i+2, shared.ErrValidation)
			}
			in.CreditLimit = limit
		}
		if len(row) > 5 && row[5] != "" {
			active, err := strconv.ParseBool(row[5])
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
