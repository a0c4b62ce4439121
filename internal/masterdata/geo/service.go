package geo

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

func (s *Service) ListCountries(ctx context.Context, filters shared.ListFilters) ([]Country, int, error) {
	return s.repo.ListCountries(ctx, filters)
}

func (s *Service) GetCountry(ctx context.Context, id int64) (Country, error) {
	if id <= 0 {
		return Country{}, shared.ErrInvalidID
	}
	return s.repo.GetCountry(ctx, id)
}

func (s *Service) CreateCountry(ctx context.Context, in CountryInput) (Country, error) {
	if err := s.validateInput(in); err != nil {
		return Country{}, err
	}
	return s.repo.CreateCountry(ctx, in)
}

func (s *Service) UpdateCountry(ctx context.Context, id int64, in CountryInput) (Country, error) {
	if id <= 0 {
		return Country{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return Country{}, err
	}
	return s.repo.UpdateCountry(ctx, id, in)
}

func (s *Service) DeleteCountry(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteCountry(ctx, id)
}

func (s *Service) ListZones(ctx context.Context, filters shared.ListFilters) ([]Zone, int, error) {
	return s.repo.ListZones(ctx, filters)
}

func (s *Service) GetZone(ctx context.Context, id int64) (Zone, error) {
	if id <= 0 {
		return Zone{}, shared.ErrInvalidID
	}
	return s.repo.GetZone(ctx, id)
}

func (s *Service) CreateZone(ctx context.Context, in ZoneInput) (Zone, error) {
	if err := s.validateInput(in); err != nil {
		return Zone{}, err
	}
	return s.repo.CreateZone(ctx, in)
}

func (s *Service) UpdateZone(ctx context.Context, id int64, in ZoneInput) (Zone, error) {
	if id <= 0 {
		return Zone{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return Zone{}, err
	}
	return s.repo.UpdateZone(ctx, id, in)
}

func (s *Service) DeleteZone(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteZone(ctx, id)
}

func (s *Service) ListCities(ctx context.Context, filters shared.ListFilters) ([]City, int, error) {
	return s.repo.ListCities(ctx, filters)
}

func (s *Service) GetCity(ctx context.Context, id int64) (City, error) {
	if id <= 0 {
		return City{}, shared.ErrInvalidID
	}
	return s.repo.GetCity(ctx, id)
}

func (s *Service) CreateCity(ctx context.Context, in CityInput) (City, error) {
	if err := s.validateInput(in); err != nil {
		return City{}, err
	}
	return s.repo.CreateCity(ctx, in)
}

func (s *Service) UpdateCity(ctx context.Context, id int64, in CityInput) (City, error) {
	if id <= 0 {
		return City{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return City{}, err
	}
	return s.repo.UpdateCity(ctx, id, in)
}

func (s *Service) DeleteCity(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteCity(ctx, id)
}

func (s *Service) ListDistricts(ctx context.Context, filters shared.ListFilters) ([]District, int, error) {
	return s.repo.ListDistricts(ctx, filters)
}

func (s *Service) GetDistrict(ctx context.Context, id int64) (District, error) {
	if id <= 0 {
		return District{}, shared.ErrInvalidID
	}
	return s.repo.GetDistrict(ctx, id)
}

func (s *Service) CreateDistrict(ctx context.Context, in DistrictInput) (District, error) {
	if err := s.validateInput(in); err != nil {
		return District{}, err
	}
	return s.repo.CreateDistrict(ctx, in)
}

func (s *Service) UpdateDistrict(ctx context.Context, id int64, in DistrictInput) (District, error) {
	if id <= 0 {
		return District{}, shared.ErrInvalidID
	}
	if err := s.validateInput(in); err != nil {
		return District{}, err
	}
	return s.repo.UpdateDistrict(ctx, id, in)
}

func (s *Service) DeleteDistrict(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteDistrict(ctx, id)
}

// CountryTable builds the export payload for countries.
func (s *Service) CountryTable(ctx context.Context) (exports.Table, error) {
	countries, _, err := s.repo.ListCountries(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{Name: "countries", Columns: []string{"Code", "Name", "Active"}}
	for _, c := range countries {
		table.Rows = append(table.Rows, []string{c.Code, c.Name, strconv.FormatBool(c.Active)})
	}
	return table, nil
}

// ZoneTable builds the export payload for zones.
func (s *Service) ZoneTable(ctx context.Context) (exports.Table, error) {
	zones, _, err := s.repo.ListZones(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{Name: "zones", Columns: []string{"Country", "Name", "Active"}}
	for _, z := range zones {
		table.Rows = append(table.Rows, []string{z.CountryName, z.Name, strconv.FormatBool(z.Active)})
	}
	return table, nil
}

// CityTable builds the export payload for cities.
func (s *Service) CityTable(ctx context.Context) (exports.Table, error) {
	cities, _, err := s.repo.ListCities(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{Name: "cities", Columns: []string{"Zone", "Name", "Active"}}
	for _, c := range cities {
		table.Rows = append(table.Rows, []string{c.ZoneName, c.Name, strconv.FormatBool(c.Active)})
	}
	return table, nil
}

// DistrictTable builds the export payload for districts.
func (s *Service) DistrictTable(ctx context.Context) (exports.Table, error) {
	districts, _, err := s.repo.ListDistricts(ctx, shared.ListFilters{})
	if err != nil {
		return exports.Table{}, err
	}
	table := exports.Table{Name: "districts", Columns: []string{"City", "Name", "Active"}}
	for _, d := range districts {
		table.Rows = append(table.Rows, []string{d.CityName, d.Name, strconv.FormatBool(d.Active)})
	}
	return table, nil
}

// ImportCountries creates one country per imported row. Rows are Code, Name
// and an optional Active flag which defaults to true.
func (s *Service) ImportCountries(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		if len(row) < 2 {
			return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
		}
		in := CountryInput{Code: row[0], Name: row[1], Active: true}
		if len(row) > 2 && row[2] != "" {
			active, err := strconv.ParseBool(row[2])
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i+2, shared.ErrValidation)
			}
			in.Active = active
		}
		if _, err := s.CreateCountry(ctx, in); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

// ImportZones creates one zone per imported row. Rows are Country ID, Name
// and an optional Active flag which defaults to true.
func (s *Service) ImportZones(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		countryID, active, name, err := parentRow(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		if _, err := s.CreateZone(ctx, ZoneInput{CountryID: countryID, Name: name, Active: active}); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

// ImportCities creates one city per imported row. Rows are Zone ID, Name and
// an optional Active flag which defaults to true.
func (s *Service) ImportCities(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		zoneID, active, name, err := parentRow(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		if _, err := s.CreateCity(ctx, CityInput{ZoneID: zoneID, Name: name, Active: active}); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

// ImportDistricts creates one district per imported row. Rows are City ID,
// Name and an optional Active flag which defaults to true.
func (s *Service) ImportDistricts(ctx context.Context, rows [][]string) (int, error) {
	for i, row := range rows {
		cityID, active, name, err := parentRow(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		if _, err := s.CreateDistrict(ctx, DistrictInput{CityID: cityID, Name: name, Active: active}); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

func parentRow(row []string) (parentID int64, active bool, name string, err error) {
	if len(row) < 2 {
		return 0, false, "", shared.ErrValidation
	}
	parentID, err = strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, false, "", fmt.Errorf("parent: %w", shared.ErrValidation)
	}
	active = true
	if len(row) > 2 && row[2] != "" {
		if active, err = strconv.ParseBool(row[2]); err != nil {
			return 0, false, "", shared.ErrValidation
		}
	}
	return parentID, active, row[1], nil
}
