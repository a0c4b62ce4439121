package geo

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian/internal/exports"
	"github.com/meridian-erp/meridian/internal/masterdata/shared"
	"github.com/meridian-erp/meridian/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     exports.PDFRenderer
}

func NewHandler(logger *slog.Logger, service *Service, pdf exports.PDFRenderer) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/countries", func(r chi.Router) {
		r.Get("/", h.ListCountries)
		r.Post("/", h.CreateCountry)
		r.Get("/{id}", h.ShowCountry)
		r.Put("/{id}", h.UpdateCountry)
		r.Delete("/{id}", h.DeleteCountry)
		r.Get("/export/excel", h.exportExcel("countries", h.service.CountryTable))
		r.Get("/export/csv", h.exportCSV("countries", h.service.CountryTable))
		r.Get("/export/pdf", h.exportPDF("countries", h.service.CountryTable))
		r.Post("/import", h.importFile("countries", h.service.ImportCountries))
	})
	r.Route("/zones", func(r chi.Router) {
		r.Get("/", h.ListZones)
		r.Post("/", h.CreateZone)
		r.Get("/{id}", h.ShowZone)
		r.Put("/{id}", h.UpdateZone)
		r.Delete("/{id}", h.DeleteZone)
		r.Get("/export/excel", h.exportExcel("zones", h.service.ZoneTable))
		r.Get("/export/csv", h.exportCSV("zones", h.service.ZoneTable))
		r.Get("/export/pdf", h.exportPDF("zones", h.service.ZoneTable))
		r.Post("/import", h.importFile("zones", h.service.ImportZones))
	})
	r.Route("/cities", func(r chi.Router) {
		r.Get("/", h.ListCities)
		r.Post("/", h.CreateCity)
		r.Get("/{id}", h.ShowCity)
		r.Put("/{id}", h.UpdateCity)
		r.Delete("/{id}", h.DeleteCity)
		r.Get("/export/excel", h.exportExcel("cities", h.service.CityTable))
		r.Get("/export/csv", h.exportCSV("cities", h.service.CityTable))
		r.Get("/export/pdf", h.exportPDF("cities", h.service.CityTable))
		r.Post("/import", h.importFile("cities", h.service.ImportCities))
	})
	r.Route("/districts", func(r chi.Router) {
		r.Get("/", h.ListDistricts)
		r.Post("/", h.CreateDistrict)
		r.Get("/{id}", h.ShowDistrict)
		r.Put("/{id}", h.UpdateDistrict)
		r.Delete("/{id}", h.DeleteDistrict)
		r.Get("/export/excel", h.exportExcel("districts", h.service.DistrictTable))
		r.Get("/export/csv", h.exportCSV("districts", h.service.DistrictTable))
		r.Get("/export/pdf", h.exportPDF("districts", h.service.DistrictTable))
		r.Post("/import", h.importFile("districts", h.service.ImportDistricts))
	})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, total, err := h.service.ListCountries(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("list countries failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if countries == nil {
		countries = []Country{}
	}
	httpx.List(w, countries, total)
}

func (h *Handler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var in CountryInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.service.CreateCountry(r.Context(), in)
	if err != nil {
		h.logger.Error("create country failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, created, "Country created successfully")
}

func (h *Handler) ShowCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid country ID")
		return
	}
	country, err := h.service.GetCountry(r.Context(), id)
	if err != nil {
		h.logger.Error("get country failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, country, "")
}

func (h *Handler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid country ID")
		return
	}
	var in CountryInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.service.UpdateCountry(r.Context(), id, in)
	if err != nil {
		h.logger.Error("update country failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, updated, "Country updated successfully")
}

func (h *Handler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid country ID")
		return
	}
	if err := h.service.DeleteCountry(r.Context(), id); err != nil {
		h.logger.Error("delete country failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil, "Country deleted successfully")
}

func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, total, err := h.service.ListZones(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("list zones failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if zones == nil {
		zones = []Zone{}
	}
	httpx.List(w, zones, total)
}

func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var in ZoneInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.service.CreateZone(r.Context(), in)
	if err != nil {
		h.logger.Error("create zone failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, created, "Zone created successfully")
}

func (h *Handler) ShowZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid zone ID")
		return
	}
	zone, err := h.service.GetZone(r.Context(), id)
	if err != nil {
		h.logger.Error("get zone failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, zone, "")
}

func (h *Handler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid zone ID")
		return
	}
	var in ZoneInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.service.UpdateZone(r.Context(), id, in)
	if err != nil {
		h.logger.Error("update zone failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, updated, "Zone updated successfully")
}

func (h *Handler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid zone ID")
		return
	}
	if err := h.service.DeleteZone(r.Context(), id); err != nil {
		h.logger.Error("delete zone failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil, "Zone deleted successfully")
}

func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, total, err := h.service.ListCities(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("list cities failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if cities == nil {
		cities = []City{}
	}
	httpx.List(w, cities, total)
}

func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var in CityInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.service.CreateCity(r.Context(), in)
	if err != nil {
		h.logger.Error("create city failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, created, "City created successfully")
}

func (h *Handler) ShowCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid city ID")
		return
	}
	city, err := h.service.GetCity(r.Context(), id)
	if err != nil {
		h.logger.Error("get city failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, city, "")
}

func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid city ID")
		return
	}
	var in CityInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.service.UpdateCity(r.Context(), id, in)
	if err != nil {
		h.logger.Error("update city failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, updated, "City updated successfully")
}

func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid city ID")
		return
	}
	if err := h.service.DeleteCity(r.Context(), id); err != nil {
		h.logger.Error("delete city failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil, "City deleted successfully")
}

func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, total, err := h.service.ListDistricts(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("list districts failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if districts == nil {
		districts = []District{}
	}
	httpx.List(w, districts, total)
}

func (h *Handler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var in DistrictInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.service.CreateDistrict(r.Context(), in)
	if err != nil {
		h.logger.Error("create district failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, created, "District created successfully")
}

func (h *Handler) ShowDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid district ID")
		return
	}
	district, err := h.service.GetDistrict(r.Context(), id)
	if err != nil {
		h.logger.Error("get district failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, district, "")
}

func (h *Handler) UpdateDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid district ID")
		return
	}
	var in DistrictInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.service.UpdateDistrict(r.Context(), id, in)
	if err != nil {
		h.logger.Error("update district failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, updated, "District updated successfully")
}

func (h *Handler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid district ID")
		return
	}
	if err := h.service.DeleteDistrict(r.Context(), id); err != nil {
		h.logger.Error("delete district failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil, "District deleted successfully")
}

type tableBuilder func(ctx context.Context) (exports.Table, error)

func (h *Handler) buildTable(w http.ResponseWriter, r *http.Request, name string, build tableBuilder) (exports.Table, bool) {
	table, err := build(r.Context())
	if err != nil {
		h.logger.Error("export failed", "resource", name, "error", err)
		httpx.RespondError(w, err)
		return exports.Table{}, false
	}
	if len(table.Rows) == 0 {
		httpx.Fail(w, http.StatusUnprocessableEntity, "There is no data to export")
		return exports.Table{}, false
	}
	return table, true
}

func (h *Handler) exportExcel(name string, build tableBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, ok := h.buildTable(w, r, name, build)
		if !ok {
			return
		}
		payload, err := exports.BuildExcel(table)
		if err != nil {
			h.logger.Error("build workbook failed", "resource", name, "error", err)
			httpx.Fail(w, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Attachment(w, name+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
	}
}

func (h *Handler) exportCSV(name string, build tableBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, ok := h.buildTable(w, r, name, build)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
		if err := exports.WriteCSV(w, table); err != nil {
			h.logger.Error("stream csv failed", "resource", name, "error", err)
		}
	}
}

func (h *Handler) exportPDF(name string, build tableBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, ok := h.buildTable(w, r, name, build)
		if !ok {
			return
		}
		payload, err := exports.BuildPDF(r.Context(), h.pdf, table)
		if err != nil {
			h.logger.Error("render pdf failed", "resource", name, "error", err)
			httpx.Fail(w, http.StatusBadGateway, "PDF rendering unavailable")
			return
		}
		httpx.Attachment(w, name+".pdf", "application/pdf", payload)
	}
}

type rowImporter func(ctx context.Context, rows [][]string) (int, error)

func (h *Handler) importFile(name string, importFn rowImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "missing upload file")
			return
		}
		defer func() { _ = file.Close() }()

		_, rows, err := exports.ParseExcel(file)
		if err != nil {
			h.logger.Error("parse import workbook failed", "resource", name, "error", err)
			httpx.Fail(w, http.StatusBadRequest, "could not read workbook")
			return
		}
		imported, err := importFn(r.Context(), rows)
		if err != nil {
			h.logger.Error("import failed", "resource", name, "error", err)
			httpx.RespondError(w, err)
			return
		}
		httpx.OK(w, map[string]int{"imported": imported}, "Import completed successfully")
	}
}
