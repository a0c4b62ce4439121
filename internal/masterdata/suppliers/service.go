package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in SupplierInput) (Supplier, error) {
	if err := s.validateInput(in); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in SupplierInput) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// Table builds the export payload for suppliers.
func (s *Service) Table(ctx context.Context) (exports.Table, error) {
	suppliers, _, err := s.repo.List(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{
		Name:    "suppliers",
		Columns: []string{"Code", "Name", "Email", "Phone", "Active"},
	}
	for _, sup := range suppliers {
		table.Rows = append(table.Rows, []string{
			sup.Code, sup.Name, sup.Email, sup.Phone, strconv.FormatBool(sup.Active),
		})
	}
	return table, nil
}

// ImportRows creates one supplier per imported row. Rows follow the export
// column order Code, Name, Email, Phone and an optional Active flag which
// defaults to true.
func (s *Service) ImportRows(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		if len(row) < 2 {
			return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
		}
		in := SupplierInput{Code: row[0], Name: row[1], Active: true}
		if len(row) > 2 {
			in.Email = row[2]
		}
		if len(row) > 3 {
			in.Phone = row[3]
		}
		if len(row) > 4 && row[4] != "" {
			active, err := strconv.ParseBool(row[4])
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

func (s *Service) validateInput(in SupplierInput) error {
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
