// Package tabs implements the tab-scoped resource controller used by every
// master-data page: persisted tab selection, per-tab fetch caching, a
// kind-keyed CRUD adapter table, drawer sessions, and the export/import
// bridge. The controller owns all page state and talks to the outside world
// only through the collaborator interfaces in this file, so it is testable
// without any rendering layer.
package tabs

import (
	"context"
	"errors"
	"io"
)

// Kind identifies which master-data type a tab, drawer, or adapter targets.
type Kind string

// Record is a single row of a given Kind. The controller only ever inspects
// the "id" field; everything else is opaque.
type Record map[string]any

// ID returns the record's identifier, or nil when absent.
func (r Record) ID() any {
	if r == nil {
		return nil
	}
	return r["id"]
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ListResponse is the payload shape returned by Adapter.List.
type ListResponse struct {
	Data []Record `json:"data"`
}

// Response is the payload shape returned by mutating adapter calls. A falsy
// Status is a business rejection even when the transport succeeded.
type Response struct {
	Status  bool   `json:"status"`
	Data    Record `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Adapter binds one Kind to its network endpoints. Adapters are stateless:
// they hold no data, only calls.
type Adapter interface {
	List(ctx context.Context) (ListResponse, error)
	Create(ctx context.Context, draft Record) (Response, error)
	Edit(ctx context.Context, id any, draft Record) (Response, error)
	Delete(ctx context.Context, id any) (Response, error)
}

// Exporter binds one Kind to its bulk export/import endpoints.
type Exporter interface {
	ExportExcel(ctx context.Context) ([]byte, error)
	ExportPDF(ctx context.Context) ([]byte, error)
	ImportExcel(ctx context.Context, file io.Reader) (Response, error)
}

// Store is the persisted key-value collaborator used for the last-tab
// preference. Keys are page-scoped strings such as "geographyLastTab".
type Store interface {
	Get(key string) string
	Set(key, value string)
}

// URLState exposes the page's "tab" query parameter. SetTab must use replace
// semantics: no extra history entry per change, no full reload.
type URLState interface {
	Tab() string
	SetTab(value string)
}

// Notifier is the fire-and-forget notification sink.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// Downloader performs the browser save side effect for exported payloads.
// Implementations own cleanup of any transient resources they create.
type Downloader interface {
	Download(filename string, data []byte) error
}

// Sentinel errors surfaced by controller operations.
var (
	ErrUnknownKind   = errors.New("tabs: unknown entity kind")
	ErrDrawerClosed  = errors.New("tabs: drawer is not open")
	ErrSaveInFlight  = errors.New("tabs: save already in flight")
	ErrNoExporter    = errors.New("tabs: no exporter registered for kind")
	ErrTornDown      = errors.New("tabs: controller torn down")
	errEmptyDataset  = errors.New("tabs: nothing to export")
)
