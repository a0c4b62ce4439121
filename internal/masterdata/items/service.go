package items

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ItemInput) (Item, error) {
	if err := s.validateInput(in); err != nil {
		return Item{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in ItemInput) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return Item{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// Table builds the export payload for items.
func (s *Service) Table(ctx context.Context) (exports.Table, error) {
	items, _, err := s.repo.List(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{
		Name:    "items",
		Columns: []string{"Code", "Name", "Section", "Barcode", "Unit", "Cost", "Price", "Active"},
	}
	for _, it := range items {
		table.Rows = append(table.Rows, []string{
			it.Code, it.Name, it.SectionName, it.Barcode, it.Unit,
			strconv.FormatFloat(it.Cost, 'f', 2, 64),
			strconv.FormatFloat(it.Price, 'f', 2, 64),
			strconv.FormatBool(it.Active),
		})
	}
	return table, nil
}

// ImportRows creates one item per workbook row. Expected columns are Code,
// Name, SectionID, Barcode, Unit, Cost, Price. Also runs inside the
// background import job for large workbooks.
func (s *Service) ImportRows(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		in, err := rowToInput(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		if _, err := s.Create(ctx, in); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

func rowToInput(row []string) (ItemInput, error) {
	if len(row) < 5 {
		return ItemInput{}, shared.ErrValidation
	}
	sectionID, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return ItemInput{}, fmt.Errorf("section: %w", shared.ErrValidation)
	}
	in := ItemInput{
		Code:      row[0],
		Name:      row[1],
		SectionID: sectionID,
		Barcode:   row[3],
		Unit:      row[4],
		Active:    true,
	}
	if len(row) > 5 && row[5] != "" {
		if in.Cost, err = strconv.ParseFloat(row[5], 64); err != nil {
			return ItemInput{}, fmt.Errorf("cost: %w", shared.ErrValidation)
		}
	}
	if len(row) > 6 && row[6] != "" {
		if in.Price, err = strconv.ParseFloat(row[6], 64); err != nil {
			return ItemInput{}, fmt.Errorf("price: %w", shared.ErrValidation)
		}
	}
	return in, nil
}

func (s *Service) validateInput(in ItemInput) error {
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
