package customers

import (
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
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/export/excel", h.ExportExcel)
	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/pdf", h.ExportPDF)
	r.Post("/import", h.Import)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "missing upload file")
		return
	}
	defer func() { _ = file.Close() }()

	_, rows, err := exports.ParseExcel(file)
	if err != nil {
		h.logger.Error("parse import workbook failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "could not read workbook")
		return
	}
	imported, err := h.service.ImportRows(r.Context(), rows)
	if err != nil {
		h.logger.Error("import customers failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]int{"imported": imported}, "Import completed successfully")
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customers, total, err := h.service.List(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("list customers failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if customers == nil {
		customers = []Customer{}
	}
	httpx.List(w, customers, total)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid customer ID")
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get customer failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, customer, "")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CustomerInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("create customer failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, created, "Customer created successfully")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid customer ID")
		return
	}
	var in CustomerInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.logger.Error("update customer failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, updated, "Customer updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "invalid customer ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete customer failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil, "Customer deleted successfully")
}

func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	payload, err := exports.BuildExcel(table)
	if err != nil {
		h.logger.Error("build workbook failed", "error", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.Attachment(w, "customers.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="customers.csv"`)
	if err := exports.WriteCSV(w, table); err != nil {
		h.logger.Error("stream csv failed", "error", err)
	}
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	payload, err := exports.BuildPDF(r.Context(), h.pdf, table)
	if err != nil {
		h.logger.Error("render pdf failed", "error", err)
		httpx.Fail(w, http.StatusBadGateway, "PDF rendering unavailable")
		return
	}
	httpx.Attachment(w, "customers.pdf", "application/pdf", payload)
}

func (h *Handler) table(w http.ResponseWriter, r *http.Request) (exports.Table, bool) {
	table, err := h.service.Table(r.Context())
	if err != nil {
		h.logger.Error("export customers failed", "error", err)
		httpx.RespondError(w, err)
		return exports.Table{}, false
	}
	if len(table.Rows) == 0 {
		httpx.Fail(w, http.StatusUnprocessableEntity, "There is no data to export")
		return exports.Table{}, false
	}
	return table, true
}
