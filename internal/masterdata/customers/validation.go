package customers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian/internal/masterdata/shared"
)

func (s *Service) validateInput(in CustomerInput) error {
	if err := s.validate.Struct(in); err != nil {
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

	defaults := 0
	for _, a := range in.Addresses {
		if a.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("only one default address allowed: %w", shared.ErrValidation)
	}

	seen := map[string]bool{}
	for _, ob := range in.OpeningBalances {
		if seen[ob.Currency] {
			return fmt.Errorf("duplicate opening balance currency %s: %w", ob.Currency, shared.ErrValidation)
		}
		seen[ob.Currency] = true
	}
	return nil
}
