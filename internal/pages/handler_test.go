package pages

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

	"github.com/meridian-erp/meridian/internal/masterdata/geo"
	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/testutil"
)

type memGeoRepo struct {
	countries []geo.Country
	zones     []geo.Zone
	nextID    int64
}

func (m *memGeoRepo) ListCountries(context.Context, shared.ListFilters) ([]geo.Country, int, error) {
	return m.countries, len(m.countries), nil
}

func (m *memGeoRepo) GetCountry(_ context.Context, id int64) (geo.Country, error) {
	for _, c := range m.countries {
		if c.ID == id {
			return c, nil
		}
	}
	return geo.Country{}, shared.ErrNotFound
}

func (m *memGeoRepo) GetZone(context.Context, int64) (geo.Zone, error) {
	return geo.Zone{}, shared.ErrNotFound
}

func (m *memGeoRepo) GetCity(context.Context, int64) (geo.City, error) {
	return geo.City{}, shared.ErrNotFound
}

func (m *memGeoRepo) GetDistrict(context.Context, int64) (geo.District, error) {
	return geo.District{}, shared.ErrNotFound
}

func (m *memGeoRepo) CreateCountry(_ context.Context, in geo.CountryInput) (geo.Country, error) {
	m.nextID++
	c := geo.Country{ID: m.nextID, Code: in.Code, Name: in.Name, Active: in.Active}
	m.countries = append(m.countries, c)
	return c, nil
}

func (m *memGeoRepo) UpdateCountry(_ context.Context, id int64, in geo.CountryInput) (geo.Country, error) {
	for i := range m.countries {
		if m.countries[i].ID == id {
			m.countries[i].Code = in.Code
			m.countries[i].Name = in.Name
			m.countries[i].Active = in.Active
			return m.countries[i], nil
		}
	}
	return geo.Country{}, shared.ErrNotFound
}

func (m *memGeoRepo) DeleteCountry(_ context.Context, id int64) error {
	for i := range m.countries {
		if m.countries[i].ID == id {
			m.countries = append(m.countries[:i], m.countries[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m *memGeoRepo) ListZones(context.Context, shared.ListFilters) ([]geo.Zone, int, error) {
	return nil, 0, nil
}

func (m *memGeoRepo) CreateZone(_ context.Context, in geo.ZoneInput) (geo.Zone, error) {
	m.nextID++
	z := geo.Zone{ID: m.nextID, CountryID: in.CountryID, Name: in.Name, Active: in.Active}
	m.zones = append(m.zones, z)
	return z, nil
}

func (m *memGeoRepo) UpdateZone(_ context.Context, id int64, in geo.ZoneInput) (geo.Zone, error) {
	return geo.Zone{ID: id, CountryID: in.CountryID, Name: in.Name, Active: in.Active}, nil
}

func (m *memGeoRepo) DeleteZone(context.Context, int64) error { return nil }

func (m *memGeoRepo) ListCities(context.Context, shared.ListFilters) ([]geo.City, int, error) {
	return nil, 0, nil
}

func (m *memGeoRepo) CreateCity(_ context.Context, in geo.CityInput) (geo.City, error) {
	return geo.City{ID: 1, ZoneID: in.ZoneID, Name: in.Name, Active: in.Active}, nil
}

func (m *memGeoRepo) UpdateCity(_ context.Context, id int64, in geo.CityInput) (geo.City, error) {
	return geo.City{ID: id, ZoneID: in.ZoneID, Name: in.Name, Active: in.Active}, nil
}

func (m *memGeoRepo) DeleteCity(context.Context, int64) error { return nil }

func (m *memGeoRepo) ListDistricts(context.Context, shared.ListFilters) ([]geo.District, int, error) {
	return nil, 0, nil
}

func (m *memGeoRepo) CreateDistrict(_ context.Context, in geo.DistrictInput) (geo.District, error) {
	return geo.District{ID: 1, CityID: in.CityID, Name: in.Name, Active: in.Active}, nil
}

func (m *memGeoRepo) UpdateDistrict(_ context.Context, id int64, in geo.DistrictInput) (geo.District, error) {
	return geo.District{ID: id, CityID: in.CityID, Name: in.Name, Active: in.Active}, nil
}

func (m *memGeoRepo) DeleteDistrict(context.Context, int64) error { return nil }

func newTestHandler(t *testing.T, repo *memGeoRepo) http.Handler {
	t.Helper()
	_, client := testutil.Redis(t)
	registry := NewRegistry(Deps{
		Logger: testutil.Logger(),
		Redis:  client,
		Geo:    geo.NewService(repo),
	})
	handler := NewHandler(testutil.Logger(), registry)
	r := chi.NewRouter()
	r.Route("/pages", handler.Routes)
	return r
}

type stateEnvelope struct {
	Status bool      `json:"status"`
	Data   PageState `json:"data"`
}

func getState(t *testing.T, router http.Handler, target string) stateEnvelope {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d, body = %s", target, rec.Code, rec.Body.String())
	}
	var env stateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return env
}

func postJSON(t *testing.T, router http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestGeographyMountLoadsFirstTab(t *testing.T) {
	repo := &memGeoRepo{countries: []geo.Country{{ID: 1, Code: "EG", Name: "Egypt", Active: true}}, nextID: 1}
	router := newTestHandler(t, repo)

	env := getState(t, router, "/pages/geography/")
	if env.Data.ActiveTab != 0 || env.Data.ActiveKind != "country" {
		t.Fatalf("active = %d/%s", env.Data.ActiveTab, env.Data.ActiveKind)
	}
	if len(env.Data.List) != 1 {
		t.Fatalf("list = %+v", env.Data.List)
	}
	if len(env.Data.Kinds) != 4 {
		t.Fatalf("kinds = %v", env.Data.Kinds)
	}
}

func TestGeographyURLTabWinsAndPersists(t *testing.T) {
	repo := &memGeoRepo{}
	router := newTestHandler(t, repo)

	env := getState(t, router, "/pages/geography/?tab=2")
	if env.Data.ActiveTab != 2 || env.Data.ActiveKind != "city" {
		t.Fatalf("active = %d/%s", env.Data.ActiveTab, env.Data.ActiveKind)
	}
}

func TestSelectTabSwitchesKind(t *testing.T) {
	repo := &memGeoRepo{}
	router := newTestHandler(t, repo)

	getState(t, router, "/pages/geography/")
	rec := postJSON(t, router, "/pages/geography/select/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var env stateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ActiveKind != "zone" {
		t.Fatalf("active kind = %s", env.Data.ActiveKind)
	}
}

func TestDrawerFlowCreatesCountry(t *testing.T) {
	repo := &memGeoRepo{}
	router := newTestHandler(t, repo)
	getState(t, router, "/pages/geography/")

	rec := postJSON(t, router, "/pages/geography/dispatch", `{"command":"add","kind":"country"}`)
	var env stateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Data.Drawer.IsOpen || env.Data.Drawer.Mode != "create" {
		t.Fatalf("drawer = %+v", env.Data.Drawer)
	}

	postJSON(t, router, "/pages/geography/dispatch", `{"command":"set-field","field":"code","value":"EG"}`)
	postJSON(t, router, "/pages/geography/dispatch", `{"command":"set-field","field":"name","value":"Egypt"}`)

	rec = postJSON(t, router, "/pages/geography/dispatch", `{"command":"save-and-close"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Drawer.IsOpen {
		t.Fatalf("drawer should be closed after save-and-close")
	}
	if len(repo.countries) != 1 || repo.countries[0].Name != "Egypt" {
		t.Fatalf("countries = %+v", repo.countries)
	}
	found := false
	for _, note := range env.Data.Notifications {
		if note.Kind == "success" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a success notification, got %+v", env.Data.Notifications)
	}
}

func TestDispatchExportStreamsWorkbook(t *testing.T) {
	repo := &memGeoRepo{countries: []geo.Country{{ID: 1, Code: "EG", Name: "Egypt", Active: true}}, nextID: 1}
	router := newTestHandler(t, repo)
	getState(t, router, "/pages/geography/")

	rec := postJSON(t, router, "/pages/geography/dispatch", `{"command":"export-excel","kind":"country"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "countries.xlsx") {
		t.Fatalf("disposition = %q", got)
	}
}

func TestExportEmptyListNotifiesWithoutDownload(t *testing.T) {
	repo := &memGeoRepo{}
	router := newTestHandler(t, repo)
	getState(t, router, "/pages/geography/")

	rec := postJSON(t, router, "/pages/geography/dispatch", `{"command":"export-excel","kind":"country"}`)
	if rec.Header().Get("Content-Disposition") != "" {
		t.Fatalf("empty export must not download")
	}
	var env stateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Notifications) == 0 || env.Data.Notifications[0].Kind != "error" {
		t.Fatalf("notifications = %+v", env.Data.Notifications)
	}
}

func TestDeleteCommandRemovesRow(t *testing.T) {
	repo := &memGeoRepo{countries: []geo.Country{{ID: 1, Code: "EG", Name: "Egypt", Active: true}}, nextID: 1}
	router := newTestHandler(t, repo)
	getState(t, router, "/pages/geography/")

	rec := postJSON(t, router, "/pages/geography/dispatch", `{"command":"delete","kind":"country","id":1}`)
	var env stateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(repo.countries) != 0 {
		t.Fatalf("countries = %+v", repo.countries)
	}
	if len(env.Data.List) != 0 {
		t.Fatalf("list should drop deleted row: %+v", env.Data.List)
	}
}

func TestTeardownDropsSession(t *testing.T) {
	repo := &memGeoRepo{}
	router := newTestHandler(t, repo)
	getState(t, router, "/pages/geography/?tab=1")

	rec := postJSON(t, router, "/pages/geography/teardown", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// A fresh mount restores the persisted tab from the preference store.
	env := getState(t, router, "/pages/geography/")
	if env.Data.ActiveTab != 1 {
		t.Fatalf("restored tab = %d, want 1", env.Data.ActiveTab)
	}
}

func zoneWorkbookRequest(t *testing.T, rows [][]string) *http.Request {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]string{"CountryID", "Name"})
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &row)
	}
	var workbook bytes.Buffer
	if err := f.Write(&workbook); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, _ := form.CreateFormFile("file", "zones.xlsx")
	_, _ = part.Write(workbook.Bytes())
	_ = form.Close()

	req := httptest.NewRequest(http.MethodPost, "/pages/geography/import/zone", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestImportZonesThroughTab(t *testing.T) {
	repo := &memGeoRepo{}
	router := newTestHandler(t, repo)
	getState(t, router, "/pages/geography/?tab=1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, zoneWorkbookRequest(t, [][]string{{"1", "North"}, {"1", "South"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(repo.zones) != 2 {
		t.Fatalf("zones = %+v", repo.zones)
	}

	var env stateEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, note := range env.Data.Notifications {
		if note.Kind == "success" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a success notification, got %+v", env.Data.Notifications)
	}
}

func TestUnknownPageRejected(t *testing.T) {
	router := newTestHandler(t, &memGeoRepo{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/nonsense/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
