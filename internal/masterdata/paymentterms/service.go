package paymentterms

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]PaymentTerm, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (PaymentTerm, error) {
	if id <= 0 {
		return PaymentTerm{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in PaymentTermInput) (PaymentTerm, error) {
	if err := s.validateInput(in); err != nil {
		return PaymentTerm{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in PaymentTermInput) (PaymentTerm, error) {
	if id <= 0 {
		return PaymentTerm{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return PaymentTerm{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// Table builds the export payload for payment terms.
func (s *Service) Table(ctx context.Context) (exports.Table, error) {
	terms, _, err := s.repo.List(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{Name: "payment terms", Columns: []string{"Name", "Days", "Active"}}
	for _, t := range terms {
		table.Rows = append(table.Rows, []string{t.Name, strconv.Itoa(t.Days), strconv.FormatBool(t.Active)})
	}
	return table, nil
}

// ImportRows creates one payment term per imported row. Rows are Name, Days
// and an optional Active flag which defaults to true.
func (s *Service) ImportRows(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		if len(row) < 2 {
			return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
		}
		days, err := strconv.Atoi(row[1])
		if err != nil {
			return 0, fmt.Errorf("row %d: days: %w", i+2, shared.ErrValidation)
		}
		in := PaymentTermInput{Name: row[0], Days: days, Active: true}
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

func (s *Service) validateInput(in PaymentTermInput) error {
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
