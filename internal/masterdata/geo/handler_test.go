package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/platform/httpx"
	"github.com/meridian-erp/meridian/internal/testutil"
)

type stubRepo struct {
	countries []Country
	zones     []Zone
	cities    []City
	districts []District

	created   []CountryInput
	deleteErr error
}

func (s *stubRepo) ListCountries(context.Context, shared.ListFilters) ([]Country, int, error) {
	return s.countries, len(s.countries), nil
}

func (s *stubRepo) GetCountry(_ context.Context, id int64) (Country, error) {
	for _, c := range s.countries {
		if c.ID == id {
			return c, nil
		}
	}
	return Country{}, shared.ErrNotFound
}

func (s *stubRepo) GetZone(context.Context, int64) (Zone, error) {
	return Zone{}, shared.ErrNotFound
}

func (s *stubRepo) GetCity(context.Context, int64) (City, error) {
	return City{}, shared.ErrNotFound
}

func (s *stubRepo) GetDistrict(context.Context, int64) (District, error) {
	return District{}, shared.ErrNotFound
}

func (s *stubRepo) CreateCountry(_ context.Context, in CountryInput) (Country, error) {
	s.created = append(s.created, in)
	return Country{ID: int64(len(s.created)), Code: in.Code, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) UpdateCountry(_ context.Context, id int64, in CountryInput) (Country, error) {
	return Country{ID: id, Code: in.Code, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) DeleteCountry(context.Context, int64) error { return s.deleteErr }

func (s *stubRepo) ListZones(context.Context, shared.ListFilters) ([]Zone, int, error) {
	return s.zones, len(s.zones), nil
}

func (s *stubRepo) CreateZone(_ context.Context, in ZoneInput) (Zone, error) {
	return Zone{ID: 1, CountryID: in.CountryID, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) UpdateZone(_ context.Context, id int64, in ZoneInput) (Zone, error) {
	return Zone{ID: id, CountryID: in.CountryID, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) DeleteZone(context.Context, int64) error { return nil }

func (s *stubRepo) ListCities(context.Context, shared.ListFilters) ([]City, int, error) {
	return s.cities, len(s.cities), nil
}

func (s *stubRepo) CreateCity(_ context.Context, in CityInput) (City, error) {
	return City{ID: 1, ZoneID: in.ZoneID, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) UpdateCity(_ context.Context, id int64, in CityInput) (City, error) {
	return City{ID: id, ZoneID: in.ZoneID, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) DeleteCity(context.Context, int64) error { return nil }

func (s *stubRepo) ListDistricts(context.Context, shared.ListFilters) ([]District, int, error) {
	return s.districts, len(s.districts), nil
}

func (s *stubRepo) CreateDistrict(_ context.Context, in DistrictInput) (District, error) {
	return District{ID: 1, CityID: in.CityID, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) UpdateDistrict(_ context.Context, id int64, in DistrictInput) (District, error) {
	return District{ID: id, CityID: in.CityID, Name: in.Name, Active: in.Active}, nil
}

func (s *stubRepo) DeleteDistrict(context.Context, int64) error { return nil }

func newTestRouter(repo *stubRepo) http.Handler {
	handler := NewHandler(testutil.Logger(), NewService(repo), nil)
	r := chi.NewRouter()
	r.Route("/geography", handler.Routes)
	return r
}

func TestListCountriesEnvelope(t *testing.T) {
	repo := &stubRepo{countries: []Country{{ID: 1, Code: "EG", Name: "Egypt", Active: true}}}
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geography/countries/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data  []Country `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || len(body.Data) != 1 || body.Data[0].Code != "EG" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestListCountriesEmptyIsArrayNotNull(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubRepo{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geography/countries/", nil))

	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestCreateCountrySuccess(t *testing.T) {
	repo := &stubRepo{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/geography/countries/", strings.NewReader(`{"code":"EG","name":"Egypt","active":true}`))
	newTestRouter(repo).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env httpx.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Status {
		t.Fatalf("expected truthy status")
	}
	if len(repo.created) != 1 || repo.created[0].Code != "EG" {
		t.Fatalf("create not forwarded: %+v", repo.created)
	}
}

func TestCreateCountryValidationRejection(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/geography/countries/", strings.NewReader(`{"code":"","name":""}`))
	newTestRouter(&stubRepo{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var env httpx.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status {
		t.Fatalf("expected falsy status on rejection")
	}
}

func TestDeleteCountryNotFound(t *testing.T) {
	repo := &stubRepo{deleteErr: shared.ErrNotFound}
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/geography/countries/9", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExportCountriesExcel(t *testing.T) {
	repo := &stubRepo{countries: []Country{{ID: 1, Code: "EG", Name: "Egypt", Active: true}}}
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geography/countries/export/excel", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="countries.xlsx"`) {
		t.Fatalf("disposition = %q", got)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	_ = f.Close()
}

func TestExportEmptyDatasetRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubRepo{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geography/countries/export/excel", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "There is no data to export") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestExportCountriesCSV(t *testing.T) {
	repo := &stubRepo{countries: []Country{{ID: 1, Code: "EG", Name: "Egypt", Active: true}}}
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geography/countries/export/csv", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "Code,Name,Active\r\n") {
		t.Fatalf("csv body = %q", rec.Body.String())
	}
}

func TestImportCountries(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]string{"Code", "Name", "Active"})
	_ = f.SetSheetRow(sheet, "A2", &[]string{"EG", "Egypt", "true"})
	_ = f.SetSheetRow(sheet, "A3", &[]string{"SA", "Saudi Arabia", "false"})
	var workbook bytes.Buffer
	if err := f.Write(&workbook); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "countries.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = form.Close()

	repo := &stubRepo{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/geography/countries/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	newTestRouter(repo).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(repo.created) != 2 {
		t.Fatalf("imported %d rows, want 2", len(repo.created))
	}
	if repo.created[1].Active {
		t.Fatalf("second row should be inactive")
	}
}
