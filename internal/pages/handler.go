package pages

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian/internal/platform/httpx"
	"github.com/meridian-erp/meridian/internal/shared"
	"github.com/meridian-erp/meridian/internal/tabs"
)

// Handler exposes the tabbed pages over HTTP. Each request locks the user's
// page session, drives the controller, and returns the resulting state plus
// any notifications raised along the way.
type Handler struct {
	logger   *slog.Logger
	registry *Registry
}

func NewHandler(logger *slog.Logger, registry *Registry) *Handler {
	return &Handler{logger: logger, registry: registry}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/{page}", func(r chi.Router) {
		r.Get("/", h.State)
		r.Post("/select/{index}", h.Select)
		r.Post("/dispatch", h.DispatchCommand)
		r.Post("/import/{kind}", h.Import)
		r.Post("/teardown", h.Teardown)
	})
}

// PageState is the serialized controller snapshot.
type PageState struct {
	Page          string             `json:"page"`
	Kinds         []tabs.Kind        `json:"kinds"`
	ActiveTab     int                `json:"active_tab"`
	ActiveKind    tabs.Kind          `json:"active_kind"`
	Loading       bool               `json:"loading"`
	List          []tabs.Record      `json:"list"`
	Drawer        tabs.DrawerSession `json:"drawer"`
	Notifications []Notification     `json:"notifications"`
}

func userKey(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.User() != "" {
		return sess.User()
	}
	return "anonymous"
}

func (h *Handler) acquire(w http.ResponseWriter, r *http.Request) (*session, string, bool) {
	page := chi.URLParam(r, "page")
	sess, err := h.registry.session(userKey(r), page)
	if err != nil {
		httpx.Fail(w, http.StatusNotFound, "unknown page")
		return nil, "", false
	}
	sess.mu.Lock()
	return sess, page, true
}

func (h *Handler) mountIfNeeded(sess *session, r *http.Request, page string) error {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		sess.url.SetTab(tab)
	}
	if sess.mounted {
		return nil
	}
	if err := sess.ctrl.Mount(r.Context()); err != nil {
		return err
	}
	sess.mounted = true
	return nil
}

func (h *Handler) respondState(w http.ResponseWriter, sess *session, page string) {
	ctrl := sess.ctrl
	state := PageState{
		Page:          page,
		Kinds:         ctrl.Kinds(),
		ActiveTab:     ctrl.ActiveIndex(),
		ActiveKind:    ctrl.ActiveKind(),
		Loading:       ctrl.Loading(),
		List:          ctrl.List(ctrl.ActiveKind()),
		Drawer:        ctrl.Drawer(),
		Notifications: sess.notes.drain(),
	}
	if state.List == nil {
		state.List = []tabs.Record{}
	}
	httpx.OK(w, state, "")
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sess, page, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer sess.mu.Unlock()

	if err := h.mountIfNeeded(sess, r, page); err != nil {
		h.logger.Error("mount page failed", "page", page, "error", err)
	}
	h.respondState(w, sess, page)
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	sess, page, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer sess.mu.Unlock()

	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid tab index")
		return
	}
	if err := h.mountIfNeeded(sess, r, page); err != nil {
		h.logger.Error("mount page failed", "page", page, "error", err)
	}
	if err := sess.ctrl.SelectTab(r.Context(), idx); err != nil {
		h.logger.Error("select tab failed", "page", page, "index", idx, "error", err)
	}
	h.respondState(w, sess, page)
}

type dispatchRequest struct {
	Command string      `json:"command"`
	Kind    tabs.Kind   `json:"kind"`
	ID      any         `json:"id,omitempty"`
	Record  tabs.Record `json:"record,omitempty"`
	Field   string      `json:"field,omitempty"`
	Value   any         `json:"value,omitempty"`
}

func (h *Handler) DispatchCommand(w http.ResponseWriter, r *http.Request) {
	sess, page, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer sess.mu.Unlock()

	var req dispatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.mountIfNeeded(sess, r, page); err != nil {
		h.logger.Error("mount page failed", "page", page, "error", err)
	}

	// Drawer field edits and close are session-local, not dispatch commands.
	switch req.Command {
	case "set-field":
		if err := sess.ctrl.SetDraftField(req.Field, req.Value); err != nil {
			httpx.Fail(w, http.StatusConflict, err.Error())
			return
		}
		h.respondState(w, sess, page)
		return
	case "close-drawer":
		sess.ctrl.CloseDrawer()
		h.respondState(w, sess, page)
		return
	}

	cmd, found := tabs.ParseCommand(req.Command)
	if !found {
		httpx.Fail(w, http.StatusBadRequest, "unknown command")
		return
	}

	var payload any
	switch cmd {
	case tabs.CmdEdit:
		payload = req.Record
	case tabs.CmdDelete:
		payload = req.ID
	}

	if err := sess.ctrl.Dispatch(r.Context(), cmd, req.Kind, payload); err != nil {
		h.logger.Warn("dispatch failed", "page", page, "command", req.Command, "error", err)
	}

	if filename, data, captured := sess.download.take(); captured {
		contentType := "application/octet-stream"
		switch {
		case len(filename) > 5 && filename[len(filename)-5:] == ".xlsx":
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case len(filename) > 4 && filename[len(filename)-4:] == ".pdf":
			contentType = "application/pdf"
		}
		httpx.Attachment(w, filename, contentType, data)
		return
	}
	h.respondState(w, sess, page)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	sess, page, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer sess.mu.Unlock()

	kind := tabs.Kind(chi.URLParam(r, "kind"))
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "missing upload file")
		return
	}
	defer func() { _ = file.Close() }()

	if err := h.mountIfNeeded(sess, r, page); err != nil {
		h.logger.Error("mount page failed", "page", page, "error", err)
	}
	if err := sess.ctrl.ImportExcel(r.Context(), kind, file); err != nil {
		h.logger.Warn("import failed", "page", page, "kind", kind, "error", err)
	}
	h.respondState(w, sess, page)
}

func (h *Handler) Teardown(w http.ResponseWriter, r *http.Request) {
	sess, page, ok := h.acquire(w, r)
	if !ok {
		return
	}
	sess.ctrl.Teardown()
	sess.mu.Unlock()
	h.registry.drop(userKey(r), page)
	httpx.OK(w, nil, "")
}
